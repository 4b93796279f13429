package app_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hoopsight/trapviz/internal/adapters/chart"
	"github.com/hoopsight/trapviz/internal/adapters/kenpom"
	"github.com/hoopsight/trapviz/internal/app"
	"github.com/hoopsight/trapviz/internal/config"
	"github.com/hoopsight/trapviz/internal/ratings"
	"github.com/hoopsight/trapviz/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

// syntheticPayload is three rows: one at the region centroid, two far outside.
const syntheticPayload = `[
	{"TeamName": "Contender State", "AdjTempo": 67.3, "AdjEM": 30},
	{"TeamName": "Uptempo U", "AdjTempo": 90, "AdjEM": 5},
	{"TeamName": "Grinders College", "AdjTempo": 50, "AdjEM": -10}
]`

func ratingsServer(payload string, status int, hits *atomic.Int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("boom"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
}

// captureRenderer records what the pipeline asked it to draw.
type captureRenderer struct {
	in        chart.Input
	pngFails  bool
	htmlFails bool
}

func (c *captureRenderer) WriteHTML(in chart.Input, path string) error {
	if c.htmlFails {
		return chart.ErrRender
	}
	c.in = in
	return os.WriteFile(path, []byte("<html>chart</html>"), 0o644)
}

func (c *captureRenderer) ExportPNG(_ context.Context, _, pngPath string) error {
	if c.pngFails {
		return chart.ErrExport
	}
	return os.WriteFile(pngPath, []byte("png"), 0o644)
}

func TestServiceRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a 3-row synthetic upstream", t, func() {
		srv := ratingsServer(syntheticPayload, http.StatusOK, nil)
		defer srv.Close()

		Convey("When run with a capturing renderer", func() {
			rec := &captureRenderer{}
			svc := app.New(
				app.WithFetcher(kenpom.NewClient("k", kenpom.WithBaseURL(srv.URL))),
				app.WithRenderer(rec),
				app.WithOutputDir(t.TempDir()),
			)

			path, err := svc.Run(ctx, 2025)

			Convey("Then the chart gets 1 inside point and 2 outside points", func() {
				So(err, ShouldBeNil)
				So(len(rec.in.Inside), ShouldEqual, 1)
				So(rec.in.Inside[0].TeamName, ShouldEqual, "Contender State")
				So(len(rec.in.Outside), ShouldEqual, 2)
				So(rec.in.Year, ShouldEqual, 2025)
			})

			Convey("Then the artifact path uses the fixed filename", func() {
				So(err, ShouldBeNil)
				So(filepath.Base(path), ShouldEqual, app.HTMLArtifact)
			})
		})

		Convey("When run with the real renderer and no browser on PATH", func() {
			t.Setenv("PATH", t.TempDir())

			var buf bytes.Buffer
			So(logger.Init(logger.WithOutput(&buf)), ShouldBeNil)
			defer func() { _ = logger.Init() }()

			dir := t.TempDir()
			svc := app.New(
				app.WithFetcher(kenpom.NewClient("k", kenpom.WithBaseURL(srv.URL))),
				app.WithRenderer(chart.NewRenderer()),
				app.WithOutputDir(dir),
			)

			path, err := svc.Run(ctx, 2025)

			Convey("Then the interactive artifact exists and is non-empty", func() {
				So(err, ShouldBeNil)
				info, statErr := os.Stat(path)
				So(statErr, ShouldBeNil)
				So(info.Size(), ShouldBeGreaterThan, 0)
			})

			Convey("Then the raster failure is only a warning", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "could not save PNG image")
				_, statErr := os.Stat(filepath.Join(dir, app.PNGArtifact))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})

			Convey("Then the summary names the highlighted team", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "teams inside the trapezoid")
				So(buf.String(), ShouldContainSubstring, "Contender State")
				So(buf.String(), ShouldContainSubstring, "30.0")
			})
		})
	})

	Convey("Given an upstream that returns HTTP 500", t, func() {
		srv := ratingsServer("", http.StatusInternalServerError, nil)
		defer srv.Close()

		dir := t.TempDir()
		svc := app.New(
			app.WithFetcher(kenpom.NewClient("k", kenpom.WithBaseURL(srv.URL))),
			app.WithRenderer(&captureRenderer{}),
			app.WithOutputDir(dir),
		)

		path, err := svc.Run(context.Background(), 2025)

		Convey("Then the run fails with the upstream error", func() {
			So(path, ShouldBeEmpty)
			So(err, ShouldNotBeNil)

			var statusErr *kenpom.StatusError
			So(errors.As(err, &statusErr), ShouldBeTrue)
			So(statusErr.StatusCode, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("Then no chart artifact is written", func() {
			_, statErr := os.Stat(filepath.Join(dir, app.HTMLArtifact))
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})
	})

	Convey("Given a renderer whose mandatory HTML write fails", t, func() {
		srv := ratingsServer(syntheticPayload, http.StatusOK, nil)
		defer srv.Close()

		svc := app.New(
			app.WithFetcher(kenpom.NewClient("k", kenpom.WithBaseURL(srv.URL))),
			app.WithRenderer(&captureRenderer{htmlFails: true}),
			app.WithOutputDir(t.TempDir()),
		)

		Convey("Then the run fails", func() {
			_, err := svc.Run(context.Background(), 2025)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, chart.ErrRender), ShouldBeTrue)
		})
	})

	Convey("Given a service missing its fetcher", t, func() {
		svc := app.New(app.WithRenderer(&captureRenderer{}), app.WithOutputDir(t.TempDir()))

		Convey("Then the run fails with ErrNotConfigured", func() {
			_, err := svc.Run(context.Background(), 2025)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, app.ErrNotConfigured), ShouldBeTrue)
		})
	})
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	Convey("Given a credential absent from all three sources", t, func() {
		var hits atomic.Int64
		srv := ratingsServer(syntheticPayload, http.StatusOK, &hits)
		defer srv.Close()

		cfg := config.New()
		cfg.APIBaseURL = srv.URL

		Convey("Then construction fails with the configuration error before any HTTP call", func() {
			svc, err := app.NewFromConfig(ctx, cfg)
			So(svc, ShouldBeNil)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, config.ErrMissingAPIKey), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 0)
		})
	})

	Convey("Given a resolvable credential", t, func() {
		srv := ratingsServer(syntheticPayload, http.StatusOK, nil)
		defer srv.Close()

		cfg := config.New()
		cfg.APIBaseURL = srv.URL
		cfg.APIKey = "direct-key"
		cfg.OutputDir = t.TempDir()

		Convey("Then the built pipeline runs end to end", func() {
			t.Setenv("PATH", t.TempDir()) // raster export stays best-effort

			svc, err := app.NewFromConfig(ctx, cfg)
			So(err, ShouldBeNil)
			So(svc, ShouldNotBeNil)

			path, runErr := svc.Run(ctx, ratings.DefaultSeason)
			So(runErr, ShouldBeNil)
			info, statErr := os.Stat(path)
			So(statErr, ShouldBeNil)
			So(info.Size(), ShouldBeGreaterThan, 0)
		})
	})
}
