package mockratings_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoopsight/trapviz/internal/adapters/kenpom"
	"github.com/hoopsight/trapviz/internal/mockratings"
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

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		g := mockratings.NewGenerator(mockratings.WithTeamCount(50), mockratings.WithSeed(7))

		Convey("Then it produces the requested number of teams", func() {
			So(len(g.Teams()), ShouldEqual, 50)
		})

		Convey("Then the planted centroid team is always highlighted", func() {
			inside, _ := ratings.Classify(g.Teams(), ratings.HighlightRegion())
			So(len(inside), ShouldBeGreaterThanOrEqualTo, 1)
			So(inside[0].TeamName, ShouldEqual, "Trapezoid Tech")
		})

		Convey("Then the same seed reproduces the same season", func() {
			other := mockratings.NewGenerator(mockratings.WithTeamCount(50), mockratings.WithSeed(7))
			So(other.Teams(), ShouldResemble, g.Teams())
		})
	})
}

func TestHandler(t *testing.T) {
	Convey("Given the mock API behind the real client", t, func() {
		g := mockratings.NewGenerator(mockratings.WithTeamCount(25))
		srv := httptest.NewServer(mockratings.Handler("local-key", g))
		defer srv.Close()

		Convey("When fetched with the right bearer token", func() {
			client := kenpom.NewClient("local-key", kenpom.WithBaseURL(srv.URL))
			teams, err := client.FetchRatings(context.Background(), 2025)

			Convey("Then the payload decodes on the production contract", func() {
				So(err, ShouldBeNil)
				So(len(teams), ShouldEqual, 25)
				So(teams[0].TeamName, ShouldEqual, "Trapezoid Tech")
			})
		})

		Convey("When fetched with a wrong token", func() {
			client := kenpom.NewClient("wrong", kenpom.WithBaseURL(srv.URL))
			_, err := client.FetchRatings(context.Background(), 2025)

			Convey("Then the request is rejected with a 401", func() {
				So(err, ShouldNotBeNil)
				var statusErr *kenpom.StatusError
				So(errors.As(err, &statusErr), ShouldBeTrue)
				So(statusErr.StatusCode, ShouldEqual, http.StatusUnauthorized)
			})
		})
	})
}
