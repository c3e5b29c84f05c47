// Package oddsapi reads NCAAF moneyline, spread, and total quotes from The
// Odds API v4.
package oddsapi

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riskibarqy/cfb-edge/external/provider"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
	"github.com/riskibarqy/cfb-edge/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com"
	sportKey       = "americanfootball_ncaaf"

	marketMoneyline = "h2h"
	marketSpreads   = "spreads"
	marketTotals    = "totals"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Regions        string
	Bookmaker      string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

type Client struct {
	http      *provider.Client
	logger    *logging.Logger
	regions   string
	bookmaker string
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	regions := strings.TrimSpace(cfg.Regions)
	if regions == "" {
		regions = "us"
	}

	return &Client{
		http: provider.New(provider.Config{
			Name:           "oddsapi",
			HTTPClient:     cfg.HTTPClient,
			BaseURL:        baseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryBackoff:   cfg.RetryBackoff,
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
			Authorize:      queryKeyAuth(strings.TrimSpace(cfg.APIKey)),
			Secrets:        []string{cfg.APIKey},
		}),
		logger:    logger.Named("oddsapi"),
		regions:   regions,
		bookmaker: strings.ToLower(strings.TrimSpace(cfg.Bookmaker)),
	}
}

// ListOdds returns one quote per event. Events with no bookmakers are kept
// with empty lines so callers can still see the matchup.
func (c *Client) ListOdds(ctx context.Context, query odds.Query) ([]odds.Quote, error) {
	params := url.Values{}
	params.Set("regions", c.regions)
	params.Set("markets", strings.Join([]string{marketMoneyline, marketSpreads, marketTotals}, ","))
	params.Set("oddsFormat", "american")
	params.Set("dateFormat", "iso")
	if !query.CommenceFrom.IsZero() {
		params.Set("commenceTimeFrom", formatCommence(query.CommenceFrom))
	}
	if !query.CommenceTo.IsZero() {
		params.Set("commenceTimeTo", formatCommence(query.CommenceTo))
	}

	var payload []eventPayload
	header, err := c.http.GetJSON(ctx, "/v4/sports/"+sportKey+"/odds", params, &payload)
	if err != nil {
		return nil, fmt.Errorf("fetch odds: %w", err)
	}
	if remaining := header.Get("x-requests-remaining"); remaining != "" {
		c.logger.DebugContext(ctx, "odds quota", "remaining", remaining, "used", header.Get("x-requests-used"))
	}

	out := make([]odds.Quote, 0, len(payload))
	for _, event := range payload {
		quote, ok := c.mapEvent(event)
		if !ok {
			c.logger.DebugContext(ctx, "skip odds event without teams or commence time", "event_id", event.ID)
			continue
		}
		out = append(out, quote)
	}
	return out, nil
}

func (c *Client) mapEvent(event eventPayload) (odds.Quote, bool) {
	home := strings.TrimSpace(event.HomeTeam)
	away := strings.TrimSpace(event.AwayTeam)
	commence := provider.ParseDateTime(event.CommenceTime)
	if home == "" || away == "" || commence == nil {
		return odds.Quote{}, false
	}

	quote := odds.Quote{
		EventID:      event.ID,
		HomeTeam:     home,
		AwayTeam:     away,
		CommenceTime: *commence,
	}

	if book, market, ok := c.pickMarket(event.Bookmakers, marketMoneyline); ok {
		quote.Bookmaker = book
		for _, outcome := range market.Outcomes {
			price := int(math.Round(outcome.Price))
			switch outcome.Name {
			case home:
				quote.HomeMoneyline = &price
			case away:
				quote.AwayMoneyline = &price
			}
		}
	}
	if book, market, ok := c.pickMarket(event.Bookmakers, marketSpreads); ok {
		if quote.Bookmaker == "" {
			quote.Bookmaker = book
		}
		for _, outcome := range market.Outcomes {
			if outcome.Point == nil {
				continue
			}
			point := *outcome.Point
			switch outcome.Name {
			case home:
				quote.HomeSpread = &point
			case away:
				quote.AwaySpread = &point
			}
		}
		if quote.HomeSpread == nil && quote.AwaySpread != nil {
			mirrored := -*quote.AwaySpread
			quote.HomeSpread = &mirrored
		}
	}
	if book, market, ok := c.pickMarket(event.Bookmakers, marketTotals); ok {
		if quote.Bookmaker == "" {
			quote.Bookmaker = book
		}
		for _, outcome := range market.Outcomes {
			if strings.EqualFold(outcome.Name, "Over") && outcome.Point != nil {
				total := *outcome.Point
				quote.Total = &total
				break
			}
		}
	}

	return quote, true
}

// pickMarket prefers the configured bookmaker, then the first bookmaker that
// carries the market.
func (c *Client) pickMarket(books []bookmakerPayload, key string) (string, marketPayload, bool) {
	if c.bookmaker != "" {
		for _, book := range books {
			if strings.ToLower(book.Key) != c.bookmaker {
				continue
			}
			if market, ok := findMarket(book, key); ok {
				return book.Key, market, true
			}
		}
	}
	for _, book := range books {
		if market, ok := findMarket(book, key); ok {
			return book.Key, market, true
		}
	}
	return "", marketPayload{}, false
}

func findMarket(book bookmakerPayload, key string) (marketPayload, bool) {
	for _, market := range book.Markets {
		if market.Key == key && len(market.Outcomes) > 0 {
			return market, true
		}
	}
	return marketPayload{}, false
}

func queryKeyAuth(apiKey string) provider.Authorizer {
	return func(req *http.Request) {
		if apiKey == "" {
			return
		}
		q := req.URL.Query()
		q.Set("apiKey", apiKey)
		req.URL.RawQuery = q.Encode()
	}
}

// The API rejects fractional seconds and numeric offsets.
func formatCommence(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}
