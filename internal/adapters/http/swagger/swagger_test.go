package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a mux with the OpenAPI route", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		convey.Convey("When /openapi.yaml is requested", func() {
			req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")

			convey.Convey("Then it documents every served path", func() {
				var doc struct {
					Paths map[string]any `yaml:"paths"`
				}
				convey.So(yaml.Unmarshal(w.Body.Bytes(), &doc), convey.ShouldBeNil)
				for _, p := range []string{"/", "/scoreboard.png", "/debug", "/stats", "/healthz"} {
					convey.So(doc.Paths, convey.ShouldContainKey, p)
				}
			})
		})
	})
}
