package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cfb-edge/internal/usecase"
)

// EdgePage renders the historical edge dashboard. Failures still render the
// page, with a banner and empty widgets.
func (h *Handler) EdgePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EdgePage")
	defer span.End()

	data := edgePageData{}
	query, err := h.parseEdgeQuery(ctx, r.URL.Query())
	if err == nil {
		data.View, err = h.edgeService.View(ctx, query)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "render edge page failed", "error", err)
		data = edgePageData{View: usecase.EdgeView{Source: query.Source}, Err: err}
		renderHTML(ctx, w, mapError(ctx, err).HTTPStatus, edgePage(data))
		return
	}

	renderHTML(ctx, w, http.StatusOK, edgePage(data))
}

func (h *Handler) TrendsPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TrendsPage")
	defer span.End()

	data := trendsPageData{Query: usecase.SlateQuery{Year: h.cfg.DefaultSeason, SeasonType: h.cfg.DefaultSeasonType}}
	query, err := h.parseSlateQuery(ctx, r.URL.Query())
	if err == nil {
		data.Query = query
		data.Heuristic, err = parseHeuristic(r.URL.Query())
	}
	if err == nil {
		data.Report, err = h.trendService.Build(ctx, query)
		data.Report.Rows = filterRows(data.Report.Rows, data.Heuristic)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "render trends page failed", "error", err)
		data.Report = usecase.TrendReport{}
		data.Err = err
		renderHTML(ctx, w, mapError(ctx, err).HTTPStatus, trendsPage(data))
		return
	}

	renderHTML(ctx, w, http.StatusOK, trendsPage(data))
}
