// Package sheets reads the ranking range from the Google Sheets values API
// and maps each row onto a model.Team.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/okian/scoreboard/pkg/metrics"
)

const (
	defaultBaseURL = "https://sheets.googleapis.com/"
	defaultRange   = "RANKING!A5:K16"
)

// Provider returns the ranked teams for the current cycle.
type Provider interface {
	Fetch(ctx context.Context) ([]model.Team, error)
}

// Client fetches a fixed cell range of one spreadsheet.
type Client struct {
	http     *http.Client
	baseURL  string
	sheetID  string
	cells    string
	apiKey   string
	cacheTTL time.Duration
	logger   logger.Logger

	values  *gsheets.SpreadsheetsValuesService
	initErr error
}

// New creates a Client for sheetID. A client passed with WithHTTPClient is
// copied, never modified, so its timeout and redirect policy carry over.
func New(sheetID string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		baseURL: defaultBaseURL,
		sheetID: sheetID,
		cells:   defaultRange,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("sheets")
	}

	hc := *c.http
	rt := hc.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if c.cacheTTL > 0 {
		rt = newCachedTransport(rt, c.cacheTTL)
	}
	// option.WithHTTPClient overrides option.WithAPIKey, so the key is
	// attached by the transport instead.
	if c.apiKey != "" {
		rt = &transport.APIKey{Key: c.apiKey, Transport: rt}
	}
	hc.Transport = rt
	c.http = &hc

	svc, err := gsheets.NewService(context.Background(),
		option.WithHTTPClient(c.http),
		option.WithEndpoint(strings.TrimRight(c.baseURL, "/")+"/"),
	)
	if err != nil {
		c.initErr = fmt.Errorf("%w: init client: %w", ErrProvider, err)
		return c
	}
	c.values = gsheets.NewSpreadsheetsValuesService(svc)
	return c
}

// Fetch issues one read of the configured range. Rows are returned in
// sheet order and are not validated or re-ordered. An empty range yields
// an empty slice.
func (c *Client) Fetch(ctx context.Context) ([]model.Team, error) {
	start := time.Now()
	teams, err := c.fetch(ctx)
	metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchError()
		return nil, err
	}
	return teams, nil
}

func (c *Client) fetch(ctx context.Context) ([]model.Team, error) {
	if c.initErr != nil {
		return nil, c.initErr
	}
	if strings.TrimSpace(c.sheetID) == "" {
		return nil, fmt.Errorf("%w: missing sheet id", ErrProvider)
	}

	vr, err := c.values.Get(c.sheetID, c.cells).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, fmt.Errorf("%w: status %d: %w", ErrProvider, gerr.Code, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	c.logger.Debug(ctx, "fetched sheet range",
		logger.String("range", vr.Range),
		logger.Int("rows", len(vr.Values)),
		logger.Bool("cached", vr.Header.Get("X-From-Cache") == "1"),
	)

	teams := make([]model.Team, 0, len(vr.Values))
	for _, row := range vr.Values {
		teams = append(teams, model.TeamFromRow(cellStrings(row)))
	}
	return teams, nil
}

// cellStrings renders each cell as text. FORMATTED_VALUE responses are
// already strings; anything else is printed as-is.
func cellStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch t := v.(type) {
		case string:
			out[i] = t
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}
