package chart_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hoopsight/trapviz/internal/adapters/chart"
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

func sampleInput() chart.Input {
	region := ratings.HighlightRegion()
	centroid := region.Centroid()
	return chart.Input{
		Inside: []ratings.TeamRating{
			{TeamName: "Contender State", AdjTempo: centroid.X, AdjEM: centroid.Y},
		},
		Outside: []ratings.TeamRating{
			{TeamName: "Uptempo U", AdjTempo: 80, AdjEM: 5},
			{TeamName: "Grinders College", AdjTempo: 58, AdjEM: -4},
		},
		Region: region,
		Year:   2025,
	}
}

func TestWriteHTML(t *testing.T) {
	Convey("Given a classified rating set", t, func() {
		r := chart.NewRenderer()
		dir := t.TempDir()
		path := filepath.Join(dir, "kenpom_ratings.html")

		Convey("When writing the interactive artifact", func() {
			err := r.WriteHTML(sampleInput(), path)

			Convey("Then the file exists and is non-empty", func() {
				So(err, ShouldBeNil)
				info, statErr := os.Stat(path)
				So(statErr, ShouldBeNil)
				So(info.Size(), ShouldBeGreaterThan, 0)
			})

			Convey("Then the document carries every team and the season label", func() {
				So(err, ShouldBeNil)
				raw, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				html := string(raw)
				So(html, ShouldContainSubstring, "Contender State")
				So(html, ShouldContainSubstring, "Uptempo U")
				So(html, ShouldContainSubstring, "Grinders College")
				So(html, ShouldContainSubstring, "2025-2026 Season")
				So(html, ShouldContainSubstring, "ROAD TO INDIANAPOLIS")
			})

			Convey("Then the three traces are present", func() {
				So(err, ShouldBeNil)
				raw, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				html := string(raw)
				So(html, ShouldContainSubstring, "Inside Trapezoid")
				So(html, ShouldContainSubstring, "Outside Trapezoid")
				So(html, ShouldContainSubstring, "Highlighted Zone (Trapezoid)")
				// Inside teams render as stars, outside as circles.
				So(strings.Contains(html, "star"), ShouldBeTrue)
				So(strings.Contains(html, "circle"), ShouldBeTrue)
			})
		})

		Convey("When the target directory does not exist yet", func() {
			nested := filepath.Join(dir, "a", "b", "kenpom_ratings.html")
			err := r.WriteHTML(sampleInput(), nested)

			Convey("Then it is created", func() {
				So(err, ShouldBeNil)
				_, statErr := os.Stat(nested)
				So(statErr, ShouldBeNil)
			})
		})

		Convey("When the target path is unwritable", func() {
			err := r.WriteHTML(sampleInput(), filepath.Join(dir, "\x00bad"))

			Convey("Then rendering fails with ErrRender", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, chart.ErrRender), ShouldBeTrue)
			})
		})
	})
}

func TestExportPNGWithoutBrowser(t *testing.T) {
	Convey("Given a renderer pinned to a nonexistent browser binary path", t, func() {
		// An empty PATH guarantees discovery fails even on machines with
		// Chrome installed.
		t.Setenv("PATH", t.TempDir())

		r := chart.NewRenderer()
		dir := t.TempDir()
		htmlPath := filepath.Join(dir, "kenpom_ratings.html")
		So(r.WriteHTML(sampleInput(), htmlPath), ShouldBeNil)

		Convey("Then PNG export fails with ErrNoBrowser and writes nothing", func() {
			err := r.ExportPNG(context.Background(), htmlPath, filepath.Join(dir, "kenpom_ratings.png"))
			So(err, ShouldNotBeNil)
			So(errors.Is(err, chart.ErrNoBrowser), ShouldBeTrue)

			_, statErr := os.Stat(filepath.Join(dir, "kenpom_ratings.png"))
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})
	})
}
