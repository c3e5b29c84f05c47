package oddsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/platform/resilience"
)

func sampleEvents() []map[string]any {
	return []map[string]any{
		{
			"id":            "evt-1",
			"sport_key":     "americanfootball_ncaaf",
			"commence_time": "2025-10-04T19:30:00Z",
			"home_team":     "Vanderbilt Commodores",
			"away_team":     "Alabama Crimson Tide",
			"bookmakers": []map[string]any{
				{
					"key":   "fanduel",
					"title": "FanDuel",
					"markets": []map[string]any{
						{"key": "h2h", "outcomes": []map[string]any{
							{"name": "Alabama Crimson Tide", "price": -450},
							{"name": "Vanderbilt Commodores", "price": 340},
						}},
					},
				},
				{
					"key":   "draftkings",
					"title": "DraftKings",
					"markets": []map[string]any{
						{"key": "h2h", "outcomes": []map[string]any{
							{"name": "Alabama Crimson Tide", "price": -500},
							{"name": "Vanderbilt Commodores", "price": 380},
						}},
						{"key": "spreads", "outcomes": []map[string]any{
							{"name": "Alabama Crimson Tide", "price": -110, "point": -12.5},
							{"name": "Vanderbilt Commodores", "price": -110, "point": 12.5},
						}},
						{"key": "totals", "outcomes": []map[string]any{
							{"name": "Under", "price": -110, "point": 54.5},
							{"name": "Over", "price": -110, "point": 54.5},
						}},
					},
				},
			},
		},
		{
			"id":            "evt-2",
			"commence_time": "2025-10-04T23:00:00Z",
			"home_team":     "Army Black Knights",
			"away_team":     "Tulane Green Wave",
			"bookmakers":    []map[string]any{},
		},
		{"id": "evt-3", "home_team": "Nobody"},
	}
}

func newTestClient(t *testing.T, bookmaker string, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		APIKey:         "odds-secret",
		Bookmaker:      bookmaker,
		RetryBackoff:   time.Millisecond,
		CircuitBreaker: resilience.BreakerConfig{Enabled: false},
	})
}

func TestClientListOdds_RequestShape(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/sports/americanfootball_ncaaf/odds" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("apiKey") != "odds-secret" || q.Get("regions") != "us" {
			t.Errorf("unexpected auth/regions: %s", r.URL.RawQuery)
		}
		if q.Get("markets") != "h2h,spreads,totals" || q.Get("oddsFormat") != "american" || q.Get("dateFormat") != "iso" {
			t.Errorf("unexpected market params: %s", r.URL.RawQuery)
		}
		if q.Get("commenceTimeFrom") != "2025-10-01T00:00:00Z" || q.Get("commenceTimeTo") != "2025-10-08T00:00:00Z" {
			t.Errorf("unexpected commence window: %s", r.URL.RawQuery)
		}
		w.Header().Set("x-requests-remaining", "480")
		_, _ = w.Write([]byte(`[]`))
	})

	quotes, err := client.ListOdds(context.Background(), odds.Query{
		CommenceFrom: time.Date(2025, 10, 1, 0, 0, 0, 500, time.UTC),
		CommenceTo:   time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("list odds: %v", err)
	}
	if len(quotes) != 0 {
		t.Fatalf("expected empty quotes, got %d", len(quotes))
	}
}

func TestClientListOdds_PicksFirstBookmakerPerMarket(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_ = jsoniter.NewEncoder(w).Encode(sampleEvents())
	})

	quotes, err := client.ListOdds(context.Background(), odds.Query{})
	if err != nil {
		t.Fatalf("list odds: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}

	q := quotes[0]
	if q.Bookmaker != "fanduel" || q.HomeMoneyline == nil || *q.HomeMoneyline != 340 || *q.AwayMoneyline != -450 {
		t.Fatalf("moneyline should come from first bookmaker: %+v", q)
	}
	if q.HomeSpread == nil || *q.HomeSpread != 12.5 || *q.AwaySpread != -12.5 {
		t.Fatalf("spread should fall through to draftkings: %+v", q)
	}
	if q.Total == nil || *q.Total != 54.5 {
		t.Fatalf("expected over total, got %+v", q.Total)
	}
	if !q.CommenceTime.Equal(time.Date(2025, 10, 4, 19, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected commence time: %s", q.CommenceTime)
	}

	empty := quotes[1]
	if empty.HomeSpread != nil || empty.HomeMoneyline != nil || empty.Total != nil || empty.Bookmaker != "" {
		t.Fatalf("event without bookmakers should have empty lines: %+v", empty)
	}
}

func TestClientListOdds_PreferredBookmaker(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "DraftKings", func(w http.ResponseWriter, r *http.Request) {
		_ = jsoniter.NewEncoder(w).Encode(sampleEvents())
	})

	quotes, err := client.ListOdds(context.Background(), odds.Query{})
	if err != nil {
		t.Fatalf("list odds: %v", err)
	}
	if quotes[0].Bookmaker != "draftkings" || *quotes[0].HomeMoneyline != 380 {
		t.Fatalf("expected draftkings prices, got %+v", quotes[0])
	}
}

func TestClientListOdds_ErrorIsRedacted(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid apiKey=odds-secret"}`))
	})

	_, err := client.ListOdds(context.Background(), odds.Query{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if strings.Contains(err.Error(), "odds-secret") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestFormatCommence(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("CDT", -5*3600)
	got := formatCommence(time.Date(2025, 9, 6, 14, 30, 15, 999, loc))
	if got != "2025-09-06T19:30:15Z" {
		t.Fatalf("unexpected format: %s", got)
	}
}
