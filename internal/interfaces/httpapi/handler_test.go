package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/teaminfo"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
	"github.com/riskibarqy/cfb-edge/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cfb-edge/internal/platform/cache"
	"github.com/riskibarqy/cfb-edge/internal/platform/id"
	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
	"github.com/riskibarqy/cfb-edge/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJobToken = "job-secret"

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type fakeProviders struct {
	games    []game.Game
	rankings []ranking.Entry
	teams    []teaminfo.Team
	quotes   []odds.Quote
	err      error
}

func (f *fakeProviders) ListGames(_ context.Context, _ game.Query) ([]game.Game, error) {
	return f.games, f.err
}

func (f *fakeProviders) ListWeather(_ context.Context, _ game.Query) (map[int64]game.Weather, error) {
	return nil, nil
}

func (f *fakeProviders) ListRankings(_ context.Context, _ game.Query) ([]ranking.Entry, error) {
	return f.rankings, f.err
}

func (f *fakeProviders) ListTeams(_ context.Context, _ int) ([]teaminfo.Team, error) {
	return f.teams, f.err
}

func (f *fakeProviders) ListOdds(_ context.Context, _ odds.Query) ([]odds.Quote, error) {
	return f.quotes, f.err
}

func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }

func sampleProviders() *fakeProviders {
	kickoff := time.Date(2025, 10, 4, 19, 30, 0, 0, time.UTC)
	return &fakeProviders{
		games: []game.Game{
			{
				ID: 1, Season: 2025, Week: 6, SeasonType: game.SeasonRegular, StartDate: kickoff,
				HomeTeam: "Vanderbilt", AwayTeam: "Alabama", ConferenceGame: true, Completed: true,
				HomePoints: ptrInt(30), AwayPoints: ptrInt(14),
			},
			{
				ID: 2, Season: 2025, Week: 6, SeasonType: game.SeasonRegular, StartDate: kickoff.Add(3 * time.Hour),
				HomeTeam: "Texas", AwayTeam: "Florida", ConferenceGame: true,
			},
		},
		rankings: []ranking.Entry{
			{Season: 2025, Week: 6, Poll: ranking.DefaultPoll, Rank: 4, Team: "Alabama"},
			{Season: 2025, Week: 6, Poll: ranking.DefaultPoll, Rank: 2, Team: "Texas"},
		},
		teams: []teaminfo.Team{
			{School: "Vanderbilt", Mascot: "Commodores", Conference: "SEC"},
			{School: "Alabama", Mascot: "Crimson Tide", Conference: "SEC"},
			{School: "Texas", Mascot: "Longhorns", Conference: "SEC"},
			{School: "Florida", Mascot: "Gators", Conference: "SEC"},
		},
		quotes: []odds.Quote{
			{
				HomeTeam: "Vanderbilt Commodores", AwayTeam: "Alabama Crimson Tide", CommenceTime: kickoff,
				HomeSpread: ptrFloat(12.5), AwaySpread: ptrFloat(-12.5),
			},
			{
				HomeTeam: "Texas Longhorns", AwayTeam: "Florida Gators", CommenceTime: kickoff.Add(3 * time.Hour),
				HomeSpread: ptrFloat(-7.5), AwaySpread: ptrFloat(7.5),
			},
		},
	}
}

func newTestRouter(t *testing.T, providers *fakeProviders) http.Handler {
	t.Helper()

	return NewRouter(newTestHandler(t, providers), logging.NewNop(), true, nil, testJobToken)
}

func newTestHandler(t *testing.T, providers *fakeProviders) *Handler {
	t.Helper()

	logger := logging.NewNop()
	slates := usecase.NewSlateService(providers, providers, providers, providers, false, logger)
	trends := usecase.NewTrendService(slates, usecase.TrendOptions{})
	archive := usecase.NewArchiveService(trends, memory.NewTrendRepository(), id.NewRandomGenerator(), 2, logger)
	edges := usecase.NewEdgeService(archive, usecase.EdgeConfig{SampleSize: 300, Seed: 42})

	return NewHandler(slates, trends, edges, archive, HandlerConfig{
		DefaultSeason:     2025,
		DefaultSeasonType: game.SeasonRegular,
		RankingPoll:       ranking.DefaultPoll,
	}, logger).WithCacheStats(func() cache.Stats { return cache.Stats{Entries: 3, Hits: 7} })
}

func doRequest(t *testing.T, router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz_IncludesCacheStats(t *testing.T) {
	rec := doRequest(t, newTestRouter(t, sampleProviders()), http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope[healthDTO](t, rec)
	assert.Equal(t, "ok", body.Data.Status)
	require.NotNil(t, body.Data.Cache)
	assert.Equal(t, uint64(7), body.Data.Cache.Hits)
}

func TestGetTrends_ReturnsFlaggedRows(t *testing.T) {
	router := newTestRouter(t, sampleProviders())

	rec := doRequest(t, router, http.MethodGet, "/v1/trends?year=2025&week=6", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeEnvelope[trendReportDTO](t, rec)
	require.Len(t, body.Data.Rows, 2)
	assert.Equal(t, ranking.DefaultPoll, body.Data.Poll)
	assert.Equal(t, 6, body.Data.RankingWeek)

	vandy := body.Data.Rows[0]
	assert.Equal(t, "Vanderbilt", vandy.HomeTeam)
	assert.Equal(t, 4, vandy.AwayRank)
	assert.True(t, vandy.HasFlag(trend.UnrankedHomeDog))
	assert.True(t, vandy.HasFlag(trend.DoubleDigitRoadFavorite))
	assert.Equal(t, trend.ResultWin, vandy.HomeATS)
	assert.Empty(t, body.Data.Rows[1].Flags)

	rec = doRequest(t, router, http.MethodGet, "/v1/trends?year=2025&week=6&heuristic=unranked_home_dog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	filtered := decodeEnvelope[trendReportDTO](t, rec)
	require.Len(t, filtered.Data.Rows, 1)
	assert.Equal(t, trend.UnrankedHomeDog, filtered.Data.Heuristic)
	assert.Equal(t, 2, filtered.Data.Summary.Games)
}

func TestGetTrends_InvalidQuery(t *testing.T) {
	router := newTestRouter(t, sampleProviders())

	cases := []string{
		"/v1/trends?week=25",
		"/v1/trends?year=1700",
		"/v1/trends?season_type=spring",
		"/v1/trends?week=six",
		"/v1/trends?heuristic=hot_hand",
	}
	for _, target := range cases {
		rec := doRequest(t, router, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)

		body := decodeEnvelope[any](t, rec)
		require.NotNil(t, body.Error, target)
		assert.Equal(t, "INVALID_ARGUMENT", body.Error.Status, target)
	}
}

func TestGetTrends_ProviderUnavailable(t *testing.T) {
	providers := sampleProviders()
	providers.err = fmt.Errorf("cfbd status 502: %w", usecase.ErrDependencyUnavailable)

	rec := doRequest(t, newTestRouter(t, providers), http.MethodGet, "/v1/trends?week=6", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeEnvelope[any](t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAVAILABLE", body.Error.Status)
}

func TestGetEdge_SyntheticFilters(t *testing.T) {
	router := newTestRouter(t, sampleProviders())

	rec := doRequest(t, router, http.MethodGet, "/v1/edge", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	all := decodeEnvelope[usecase.EdgeView](t, rec)
	assert.Equal(t, usecase.EdgeSourceSynthetic, all.Data.Source)
	assert.Equal(t, 300, all.Data.Total)
	assert.Equal(t, 300, all.Data.Metrics.SampleSize)
	require.NotNil(t, all.Data.Metrics.WinRate)

	rec = doRequest(t, router, http.MethodGet, "/v1/edge?tier=Top+5&conference=true&weather=Snow", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	narrow := decodeEnvelope[usecase.EdgeView](t, rec)
	assert.Less(t, narrow.Data.Metrics.SampleSize, 300)
	for _, s := range narrow.Data.Samples {
		assert.Equal(t, ranking.TierTop5, s.OppRankTier)
		assert.True(t, s.ConferenceGame)
		assert.Equal(t, game.WeatherSnow, s.Weather)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/edge?tier=", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decodeEnvelope[usecase.EdgeView](t, rec)
	assert.Equal(t, 0, empty.Data.Metrics.SampleSize)
	assert.Nil(t, empty.Data.Metrics.WinRate)
	assert.Zero(t, empty.Data.Metrics.NetUnits)
}

func TestGetEdge_RejectsUnknownFilters(t *testing.T) {
	router := newTestRouter(t, sampleProviders())

	for _, target := range []string{"/v1/edge?tier=Top+9", "/v1/edge?weather=Fog", "/v1/edge?conference=maybe", "/v1/edge?source=csv"} {
		rec := doRequest(t, router, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestArchiveFlow_RecordThenEdgeFromArchive(t *testing.T) {
	router := newTestRouter(t, sampleProviders())

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/archive/record", `{"year":2025,"week":6}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/archive/record", `{"year":2025,"week":6}`,
		map[string]string{"X-Internal-Job-Token": testJobToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	record := decodeEnvelope[usecase.ArchiveRecord](t, rec)
	assert.Equal(t, 2, record.Data.Rows)
	assert.Equal(t, 1, record.Data.Flagged)
	assert.NotEmpty(t, record.Data.RunID)

	rec = doRequest(t, router, http.MethodGet, "/v1/archive?season=2025", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	weeks := decodeEnvelope[[]trend.WeekRef](t, rec)
	require.Len(t, weeks.Data, 1)
	assert.Equal(t, 6, weeks.Data[0].Week)

	rec = doRequest(t, router, http.MethodGet, "/v1/edge?source=archive&season=2025", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decodeEnvelope[usecase.EdgeView](t, rec)
	require.Len(t, view.Data.Samples, 1)
	assert.Equal(t, "Alabama @ Vanderbilt", view.Data.Samples[0].Matchup)
	assert.Equal(t, ranking.TierTop5, view.Data.Samples[0].OppRankTier)
}

func TestBackfillArchive(t *testing.T) {
	router := newTestRouter(t, sampleProviders())
	headers := map[string]string{"X-Internal-Job-Token": testJobToken}

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/archive/backfill", `{"year":2025,"weeks":[]}`, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/archive/backfill", `{"year":2025,"weeks":[5,6],"extra":true}`, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/archive/backfill", `{"year":2025,"weeks":[6,5,6]}`, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeEnvelope[usecase.BackfillResult](t, rec)
	require.Len(t, result.Data.Weeks, 2)
	assert.Equal(t, 5, result.Data.Weeks[0].Week)
	assert.Equal(t, 2, result.Data.SuccessCount)
}

func TestPurgeCache(t *testing.T) {
	headers := map[string]string{"X-Internal-Job-Token": testJobToken}

	rec := doRequest(t, newTestRouter(t, sampleProviders()), http.MethodPost, "/v1/internal/cache/purge", `{"scope":"odds"}`, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code, "purge without a cache")

	var scopes []string
	handler := newTestHandler(t, sampleProviders()).WithCachePurge(func(_ context.Context, scope string) int {
		scopes = append(scopes, scope)
		return 2
	})
	router := NewRouter(handler, logging.NewNop(), true, nil, testJobToken)

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/cache/purge", `{"scope":"odds"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/cache/purge", `{"scope":"everything"}`, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/cache/purge", `{"scope":"cfbd"}`, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope[cachePurgeDTO](t, rec)
	assert.Equal(t, cachePurgeDTO{Scope: "cfbd", Removed: 2}, body.Data)
	assert.Equal(t, []string{"cfbd"}, scopes)
}

func TestProviderTables(t *testing.T) {
	router := newTestRouter(t, sampleProviders())

	rec := doRequest(t, router, http.MethodGet, "/v1/games?year=2025&week=6", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeEnvelope[[]game.Game](t, rec).Data, 2)

	rec = doRequest(t, router, http.MethodGet, "/v1/rankings?year=2025&week=6", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeEnvelope[[]ranking.Entry](t, rec).Data, 2)

	rec = doRequest(t, router, http.MethodGet, "/v1/teams?year=2025", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeEnvelope[[]teaminfo.Team](t, rec).Data, 4)

	rec = doRequest(t, router, http.MethodGet, "/v1/odds?from=2025-10-01&to=2025-10-08", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeEnvelope[[]odds.Quote](t, rec).Data, 2)

	rec = doRequest(t, router, http.MethodGet, "/v1/odds?from=2025-10-08&to=2025-10-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/odds?from=next-week", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPages_RenderHTML(t *testing.T) {
	router := newTestRouter(t, sampleProviders())

	rec := doRequest(t, router, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	html := rec.Body.String()
	assert.Contains(t, html, "College Football Betting Edge")
	assert.Contains(t, html, "Filtered ATS Win %")
	assert.Contains(t, html, "Estimated Net Units")
	assert.Contains(t, html, `value="Top 5" checked`)
	assert.NotContains(t, html, "Something went wrong")

	rec = doRequest(t, router, http.MethodGet, "/trends?year=2025&week=6", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#4 Alabama")
	assert.Contains(t, rec.Body.String(), "Unranked home dog vs ranked")
}

func TestPages_ErrorBanner(t *testing.T) {
	providers := sampleProviders()
	providers.err = fmt.Errorf("odds status 401: %w", usecase.ErrDependencyUnavailable)
	router := newTestRouter(t, providers)

	rec := doRequest(t, router, http.MethodGet, "/trends?week=6", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong: ")
	assert.Contains(t, rec.Body.String(), "odds status 401")

	rec = doRequest(t, router, http.MethodGet, "/?source=archive&season=1700", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong: ")
	assert.Contains(t, rec.Body.String(), `<div class="value">0</div>`)
}

func TestPages_EscapeProviderText(t *testing.T) {
	providers := sampleProviders()
	providers.games[1].HomeTeam = "<script>alert(1)</script>"
	router := newTestRouter(t, providers)

	rec := doRequest(t, router, http.MethodGet, "/trends?week=6", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestSwaggerRoutes(t *testing.T) {
	router := newTestRouter(t, sampleProviders())

	rec := doRequest(t, router, http.MethodGet, "/openapi.yaml", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/edge")

	rec = doRequest(t, router, http.MethodGet, "/docs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}
