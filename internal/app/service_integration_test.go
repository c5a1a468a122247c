package service_test

import (
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scoreboard/internal/adapters/publish"
	"github.com/okian/scoreboard/internal/adapters/render"
	"github.com/okian/scoreboard/internal/adapters/sheets"
	service "github.com/okian/scoreboard/internal/app"
	"github.com/okian/scoreboard/internal/domain/layout"
)

const rankingBody = `{
  "range": "RANKING!A5:K16",
  "values": [
    ["1", "", "", "Alpha", "alp", "6", "2", "31", "40", "", "71"],
    ["2", "", "", "Bravo", "", "6", "1", "22", "35", "", "57"],
    ["3", "", "", "Charlie", "chr", "6"]
  ]
}`

func TestServiceIntegration(t *testing.T) {
	Convey("Given the real pipeline against a stub sheet", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(rankingBody))
		}))
		defer srv.Close()

		dir := t.TempDir()
		out := filepath.Join(dir, "output_stream.png")
		slots, err := layout.Default(layout.Defaults{FontSize: 18, LogoSize: 30})
		So(err, ShouldBeNil)

		ctx := context.Background()
		fonts := render.LoadFonts(ctx, filepath.Join(dir, "none.ttf"), filepath.Join(dir, "none-bold.ttf"), nil)
		svc := service.New(
			service.WithProvider(sheets.New("sheet-1", sheets.WithBaseURL(srv.URL), sheets.WithAPIKey("k"))),
			service.WithRenderer(render.New(fonts, render.NewLogoStore(filepath.Join(dir, "logos")))),
			service.WithLayout(slots),
			service.WithPublisher(publish.NewFile(out)),
			service.WithTemplate(filepath.Join(dir, "template.png"), 876, 492),
		)

		Convey("When one cycle runs", func() {
			So(svc.Generate(ctx), ShouldBeNil)

			Convey("Then a complete PNG of the fallback size is published", func() {
				f, err := os.Open(out)
				So(err, ShouldBeNil)
				defer func() { _ = f.Close() }()
				img, err := png.Decode(f)
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 876)
				So(img.Bounds().Dy(), ShouldEqual, 492)
				So(svc.LastError(), ShouldBeNil)
			})
		})
	})

	Convey("Given a sheet that rejects the request", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
		}))
		defer srv.Close()

		dir := t.TempDir()
		out := filepath.Join(dir, "output_stream.png")
		ctx := context.Background()
		svc := service.New(
			service.WithProvider(sheets.New("sheet-1", sheets.WithBaseURL(srv.URL))),
			service.WithRenderer(render.New(render.LoadFonts(ctx, "", "", nil), render.NewLogoStore(dir))),
			service.WithPublisher(publish.NewFile(out)),
		)

		Convey("Then no frame is written and the provider message is kept", func() {
			So(svc.Generate(ctx), ShouldNotBeNil)
			So(*svc.LastError(), ShouldContainSubstring, "API key not valid")
			_, err := os.Stat(out)
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})
}
