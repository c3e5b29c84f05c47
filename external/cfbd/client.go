// Package cfbd reads schedule, poll, team, and weather data from the
// CollegeFootballData REST API.
package cfbd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cfb-edge/external/provider"
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/teaminfo"
	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
	"github.com/riskibarqy/cfb-edge/internal/platform/resilience"
)

const defaultBaseURL = "https://api.collegefootballdata.com"

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

type Client struct {
	http   *provider.Client
	logger *logging.Logger
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

	return &Client{
		http: provider.New(provider.Config{
			Name:           "cfbd",
			HTTPClient:     cfg.HTTPClient,
			BaseURL:        baseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryBackoff:   cfg.RetryBackoff,
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
			Authorize:      provider.BearerAuth(strings.TrimSpace(cfg.APIKey)),
			Secrets:        []string{cfg.APIKey},
		}),
		logger: logger.Named("cfbd"),
	}
}

func (c *Client) ListGames(ctx context.Context, query game.Query) ([]game.Game, error) {
	var payload []gamePayload
	if _, err := c.http.GetJSON(ctx, "/games", scheduleParams(query), &payload); err != nil {
		return nil, fmt.Errorf("fetch games year=%d week=%d: %w", query.Year, query.Week, err)
	}

	out := make([]game.Game, 0, len(payload))
	for _, item := range payload {
		g, ok := mapGame(item)
		if !ok {
			c.logger.DebugContext(ctx, "skip game without teams or kickoff", "game_id", item.ID)
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (c *Client) ListWeather(ctx context.Context, query game.Query) (map[int64]game.Weather, error) {
	var payload []weatherPayload
	if _, err := c.http.GetJSON(ctx, "/games/weather", scheduleParams(query), &payload); err != nil {
		return nil, fmt.Errorf("fetch weather year=%d week=%d: %w", query.Year, query.Week, err)
	}

	out := make(map[int64]game.Weather, len(payload))
	for _, item := range payload {
		if item.ID <= 0 {
			continue
		}
		if item.GameIndoors || item.GameIndoorsLegacy {
			out[item.ID] = game.WeatherClear
			continue
		}
		wind := item.WindSpeed
		if wind == nil {
			wind = item.WindSpeedLegacy
		}
		out[item.ID] = game.BucketWeather(item.Precipitation, item.Snowfall, wind)
	}
	return out, nil
}

func (c *Client) ListRankings(ctx context.Context, query game.Query) ([]ranking.Entry, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(query.Year))
	if query.SeasonType != "" {
		params.Set("seasonType", string(query.SeasonType))
	}
	if query.Week > 0 {
		params.Set("week", strconv.Itoa(query.Week))
	}

	var payload []rankingWeekPayload
	if _, err := c.http.GetJSON(ctx, "/rankings", params, &payload); err != nil {
		return nil, fmt.Errorf("fetch rankings year=%d week=%d: %w", query.Year, query.Week, err)
	}
	return flattenRankings(payload), nil
}

func (c *Client) ListTeams(ctx context.Context, year int) ([]teaminfo.Team, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))

	var payload []teamPayload
	if _, err := c.http.GetJSON(ctx, "/teams/fbs", params, &payload); err != nil {
		return nil, fmt.Errorf("fetch teams year=%d: %w", year, err)
	}

	out := make([]teaminfo.Team, 0, len(payload))
	for _, item := range payload {
		school := strings.TrimSpace(item.School)
		if school == "" {
			continue
		}
		out = append(out, teaminfo.Team{
			School:         school,
			Mascot:         strings.TrimSpace(item.Mascot),
			Abbreviation:   strings.TrimSpace(item.Abbreviation),
			Conference:     strings.TrimSpace(item.Conference),
			Classification: strings.TrimSpace(item.Classification),
		})
	}
	return out, nil
}

func scheduleParams(query game.Query) url.Values {
	params := url.Values{}
	params.Set("year", strconv.Itoa(query.Year))
	if query.SeasonType != "" {
		params.Set("seasonType", string(query.SeasonType))
	}
	if query.Week > 0 {
		params.Set("week", strconv.Itoa(query.Week))
	}
	if team := strings.TrimSpace(query.Team); team != "" {
		params.Set("team", team)
	}
	return params
}

func mapGame(item gamePayload) (game.Game, bool) {
	home := provider.FirstNonEmpty(item.HomeTeam, item.HomeTeamLegacy)
	away := provider.FirstNonEmpty(item.AwayTeam, item.AwayTeamLegacy)
	start := provider.ParseDateTime(provider.FirstNonEmpty(item.StartDate, item.StartDateLegacy))
	if home == "" || away == "" || start == nil {
		return game.Game{}, false
	}

	seasonType, err := game.ParseSeasonType(provider.FirstNonEmpty(item.SeasonType, item.SeasonTypeLegacy))
	if err != nil {
		seasonType = game.SeasonType(provider.FirstNonEmpty(item.SeasonType, item.SeasonTypeLegacy))
	}

	return game.Game{
		ID:             item.ID,
		Season:         item.Season,
		Week:           item.Week,
		SeasonType:     seasonType,
		StartDate:      *start,
		HomeTeam:       home,
		AwayTeam:       away,
		HomeConference: provider.FirstNonEmpty(item.HomeConference, item.HomeConferenceLegacy),
		AwayConference: provider.FirstNonEmpty(item.AwayConference, item.AwayConferenceLegacy),
		Venue:          strings.TrimSpace(item.Venue),
		ConferenceGame: firstBool(item.ConferenceGame, item.ConferenceGameLegacy),
		NeutralSite:    firstBool(item.NeutralSite, item.NeutralSiteLegacy),
		Completed:      item.Completed,
		HomePoints:     firstInt(item.HomePoints, item.HomePointsLegacy),
		AwayPoints:     firstInt(item.AwayPoints, item.AwayPointsLegacy),
		Weather:        game.WeatherUnknown,
	}, true
}

func flattenRankings(payload []rankingWeekPayload) []ranking.Entry {
	out := make([]ranking.Entry, 0, len(payload)*50)
	for _, week := range payload {
		seasonType := provider.FirstNonEmpty(week.SeasonType, week.SeasonTypeLegacy)
		for _, poll := range week.Polls {
			name := strings.TrimSpace(poll.Poll)
			for _, r := range poll.Ranks {
				school := strings.TrimSpace(r.School)
				if school == "" || r.Rank <= 0 {
					continue
				}
				votes := r.FirstPlaceVotes
				if votes == 0 {
					votes = r.FirstPlaceVotesLegacy
				}
				out = append(out, ranking.Entry{
					Season:          week.Season,
					SeasonType:      seasonType,
					Week:            week.Week,
					Poll:            name,
					Rank:            r.Rank,
					Team:            school,
					Conference:      strings.TrimSpace(r.Conference),
					FirstPlaceVotes: votes,
					Points:          r.Points,
				})
			}
		}
	}

	return out
}

func firstBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}

func firstInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			out := *v
			return &out
		}
	}
	return nil
}
