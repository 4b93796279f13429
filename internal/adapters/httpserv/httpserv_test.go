package httpserv_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hoopsight/trapviz/internal/adapters/httpserv"
	"github.com/hoopsight/trapviz/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestServingSurface(t *testing.T) {
	Convey("Given a registered serving surface over an artifact directory", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "kenpom_ratings.html"), []byte("<html>chart</html>"), 0o644), ShouldBeNil)

		mux := http.NewServeMux()
		httpserv.NewServer(dir).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("Then /healthz reports ok", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body map[string]any
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("Then /healthz rejects non-GET", func() {
			resp, err := http.Post(srv.URL+"/healthz", "text/plain", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Then /metrics serves the custom registry", func() {
			resp, err := http.Get(srv.URL + "/metrics")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Then /charts/ serves the latest artifact", func() {
			resp, err := http.Get(srv.URL + "/charts/kenpom_ratings.html")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Then a missing artifact is a 404", func() {
			resp, err := http.Get(srv.URL + "/charts/nope.html")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}
