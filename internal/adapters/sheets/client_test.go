package sheets_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"google.golang.org/api/googleapi"

	"github.com/okian/scoreboard/internal/adapters/sheets"
	"github.com/okian/scoreboard/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// sheetServer answers the values endpoint with body and counts hits.
func sheetServer(status int, body string, hits *atomic.Int32, gotPath, gotKey *string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		if gotKey != nil {
			*gotKey = r.URL.Query().Get("key")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestClient_Fetch(t *testing.T) {
	Convey("Given a spreadsheet returning three ranking rows", t, func() {
		var hits atomic.Int32
		var path, key string
		srv := sheetServer(http.StatusOK, `{
			"range": "RANKING!A5:K16",
			"majorDimension": "ROWS",
			"values": [
				["1", "", "", "A", "tagA", "10", "2", "30", "15", "", "57"],
				["2", "", "", "B", "", "5", "1", "10", "5", "", "21"],
				["3", "", "", "C", "tagZ", "8"]
			]
		}`, &hits, &path, &key)
		defer srv.Close()

		client := sheets.New("sheet-1",
			sheets.WithBaseURL(srv.URL),
			sheets.WithAPIKey("secret"),
			sheets.WithRange("RANKING!A5:K16"),
		)

		teams, err := client.Fetch(context.Background())

		Convey("Then one team per row is returned in sheet order", func() {
			So(err, ShouldBeNil)
			So(len(teams), ShouldEqual, 3)
			So(teams[0].Name, ShouldEqual, "A")
			So(teams[1].Name, ShouldEqual, "B")
			So(teams[2].Name, ShouldEqual, "C")
		})

		Convey("And columns are mapped by index", func() {
			So(teams[0].LogoTag, ShouldEqual, "tagA")
			So(teams[0].TotalPoints, ShouldEqual, "57")
			So(teams[1].LogoTag, ShouldBeEmpty)
			So(teams[1].PlacementPoints, ShouldEqual, "5")
		})

		Convey("And short rows are padded", func() {
			So(teams[2].MatchesPlayed, ShouldEqual, "8")
			So(teams[2].Booyahs, ShouldBeEmpty)
			So(teams[2].TotalPoints, ShouldBeEmpty)
		})

		Convey("And the request addresses the sheet range with the key", func() {
			So(path, ShouldEqual, "/v4/spreadsheets/sheet-1/values/RANKING!A5:K16")
			So(key, ShouldEqual, "secret")
		})
	})

	Convey("Given a spreadsheet with an empty range", t, func() {
		var hits atomic.Int32
		srv := sheetServer(http.StatusOK, `{"range": "RANKING!A5:K16", "majorDimension": "ROWS"}`, &hits, nil, nil)
		defer srv.Close()

		teams, err := sheets.New("sheet-1", sheets.WithBaseURL(srv.URL)).Fetch(context.Background())

		Convey("Then an empty slice is returned without error", func() {
			So(err, ShouldBeNil)
			So(teams, ShouldNotBeNil)
			So(len(teams), ShouldEqual, 0)
		})
	})

	Convey("Given numeric cells", t, func() {
		var hits atomic.Int32
		srv := sheetServer(http.StatusOK, `{"values": [["1", "", "", "D", "tagD", 4, 0, 12.5, null, "", 30]]}`, &hits, nil, nil)
		defer srv.Close()

		teams, err := sheets.New("sheet-1", sheets.WithBaseURL(srv.URL)).Fetch(context.Background())

		So(err, ShouldBeNil)
		So(teams[0].MatchesPlayed, ShouldEqual, "4")
		So(teams[0].Eliminations, ShouldEqual, "12.5")
		So(teams[0].PlacementPoints, ShouldBeEmpty)
		So(teams[0].TotalPoints, ShouldEqual, "30")
	})
}

func TestClient_FetchErrors(t *testing.T) {
	Convey("Given an API rejecting the key", t, func() {
		var hits atomic.Int32
		srv := sheetServer(http.StatusForbidden,
			`{"error": {"code": 403, "message": "The caller does not have permission", "status": "PERMISSION_DENIED"}}`,
			&hits, nil, nil)
		defer srv.Close()

		_, err := sheets.New("sheet-1", sheets.WithBaseURL(srv.URL)).Fetch(context.Background())

		Convey("Then a provider error carries the API message", func() {
			So(errors.Is(err, sheets.ErrProvider), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "403")
			So(err.Error(), ShouldContainSubstring, "The caller does not have permission")

			var gerr *googleapi.Error
			So(errors.As(err, &gerr), ShouldBeTrue)
			So(gerr.Code, ShouldEqual, http.StatusForbidden)
		})
	})

	Convey("Given a malformed body", t, func() {
		var hits atomic.Int32
		srv := sheetServer(http.StatusOK, `{"values": [`, &hits, nil, nil)
		defer srv.Close()

		_, err := sheets.New("sheet-1", sheets.WithBaseURL(srv.URL)).Fetch(context.Background())
		So(errors.Is(err, sheets.ErrProvider), ShouldBeTrue)
	})

	Convey("Given an unreachable host", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		_, err := sheets.New("sheet-1", sheets.WithBaseURL(base)).Fetch(context.Background())
		So(errors.Is(err, sheets.ErrProvider), ShouldBeTrue)
	})

	Convey("Given no sheet id", t, func() {
		_, err := sheets.New("").Fetch(context.Background())
		So(errors.Is(err, sheets.ErrProvider), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "missing sheet id")
	})
}

func TestClient_Cache(t *testing.T) {
	Convey("Given a client with a cache TTL", t, func() {
		var hits atomic.Int32
		srv := sheetServer(http.StatusOK, `{"values": [["1", "", "", "A"]]}`, &hits, nil, nil)
		defer srv.Close()

		client := sheets.New("sheet-1", sheets.WithBaseURL(srv.URL), sheets.WithCacheTTL(time.Minute))

		Convey("When fetching twice", func() {
			_, err1 := client.Fetch(context.Background())
			teams, err2 := client.Fetch(context.Background())

			Convey("Then the second read is served from cache", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(teams[0].Name, ShouldEqual, "A")
				So(hits.Load(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a client without a cache TTL", t, func() {
		var hits atomic.Int32
		srv := sheetServer(http.StatusOK, `{"values": []}`, &hits, nil, nil)
		defer srv.Close()

		client := sheets.New("sheet-1", sheets.WithBaseURL(srv.URL))
		_, _ = client.Fetch(context.Background())
		_, _ = client.Fetch(context.Background())

		So(hits.Load(), ShouldEqual, 2)
	})
}

func TestClient_HTTPClientOption(t *testing.T) {
	Convey("Given a caller-supplied client with a short timeout and a cache TTL", t, func() {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			_, _ = w.Write([]byte(`{"values": []}`))
		}))
		defer srv.Close()
		defer close(release)

		hc := &http.Client{Timeout: 50 * time.Millisecond}
		client := sheets.New("sheet-1",
			sheets.WithBaseURL(srv.URL),
			sheets.WithHTTPClient(hc),
			sheets.WithCacheTTL(time.Minute),
			sheets.WithAPIKey("secret"),
		)

		Convey("When the sheet is slower than the timeout", func() {
			start := time.Now()
			_, err := client.Fetch(context.Background())

			Convey("Then the caller's timeout still applies", func() {
				So(errors.Is(err, sheets.ErrProvider), ShouldBeTrue)
				So(time.Since(start), ShouldBeLessThan, 5*time.Second)
			})

			Convey("And the caller's client is left untouched", func() {
				So(hc.Transport, ShouldBeNil)
			})
		})
	})
}
