package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTrends")
	defer span.End()

	query, err := h.parseSlateQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	heuristic, err := parseHeuristic(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.trendService.Build(ctx, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "build trends failed", "year", query.Year, "week", query.Week, "error", err)
		writeError(ctx, w, err)
		return
	}
	report.Rows = filterRows(report.Rows, heuristic)

	writeSuccess(ctx, w, http.StatusOK, trendReportDTO{
		Year:        query.Year,
		Week:        query.Week,
		SeasonType:  query.SeasonType,
		Heuristic:   heuristic,
		Poll:        report.Poll,
		RankingWeek: report.RankingWeek,
		Rows:        report.Rows,
		Summary:     report.Summary,
		FetchedAt:   report.FetchedAt,
	})
}

func (h *Handler) GetEdge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEdge")
	defer span.End()

	query, err := h.parseEdgeQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.edgeService.View(ctx, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "build edge view failed", "source", query.Source, "season", query.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	query, err := h.parseSlateQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.slateService.ListGames(ctx, game.Query{
		Year:       query.Year,
		Week:       query.Week,
		SeasonType: query.SeasonType,
		Team:       strings.TrimSpace(r.URL.Query().Get("team")),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "list games failed", "year", query.Year, "week", query.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, games)
}

func (h *Handler) ListRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRankings")
	defer span.End()

	query, err := h.parseSlateQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	poll := strings.TrimSpace(r.URL.Query().Get("poll"))
	if poll == "" {
		poll = h.cfg.RankingPoll
	}

	entries, err := h.slateService.ListRankings(ctx, game.Query{
		Year:       query.Year,
		Week:       query.Week,
		SeasonType: query.SeasonType,
	}, poll)
	if err != nil {
		h.logger.ErrorContext(ctx, "list rankings failed", "year", query.Year, "week", query.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entries)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	year, err := intParam(r.URL.Query(), "year", h.cfg.DefaultSeason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.slateService.ListTeams(ctx, year)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teams)
}

func (h *Handler) ListOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOdds")
	defer span.End()

	query, err := parseOddsQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	quotes, err := h.slateService.ListOdds(ctx, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "list odds failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, quotes)
}

// filterRows keeps the rows flagged by one heuristic. An empty heuristic keeps
// everything.
func filterRows(rows []trend.Row, heuristic trend.Heuristic) []trend.Row {
	if heuristic == "" {
		return rows
	}
	out := make([]trend.Row, 0, len(rows))
	for _, row := range rows {
		if row.HasFlag(heuristic) {
			out = append(out, row)
		}
	}
	return out
}
