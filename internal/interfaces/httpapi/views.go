package httpapi

//go:generate templ generate -path .

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/riskibarqy/cfb-edge/internal/domain/edge"
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
	"github.com/riskibarqy/cfb-edge/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

type edgePageData struct {
	View usecase.EdgeView
	Err  error
}

type trendsPageData struct {
	Query     usecase.SlateQuery
	Heuristic trend.Heuristic
	Report    usecase.TrendReport
	Err       error
}

type conferenceChoice struct {
	value edge.ConferenceFilter
	label string
}

var (
	edgeSources       = []string{usecase.EdgeSourceSynthetic, usecase.EdgeSourceArchive}
	seasonTypeChoices = []game.SeasonType{game.SeasonRegular, game.SeasonPostseason}
	conferenceChoices = []conferenceChoice{
		{edge.ConferenceAll, "All"},
		{edge.ConferenceOnly, "True"},
		{edge.ConferenceExcluded, "False"},
	}
)

// renderHTML buffers the whole page so a failed render can still answer with
// a clean 500.
func renderHTML(ctx context.Context, w http.ResponseWriter, status int, component templ.Component) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := component.Render(ctx, buf); err != nil {
		writeInternalError(ctx, w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func conferenceChecked(current, value edge.ConferenceFilter) bool {
	return current == value || (current == "" && value == edge.ConferenceAll)
}

func formatPercent(rate *float64) string {
	if rate == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*rate*100, 'f', 1, 64) + "%"
}

func formatTotal(total *float64) string {
	if total == nil {
		return "-"
	}
	return strconv.FormatFloat(*total, 'f', -1, 64)
}

func teamLabel(team string, rank int) string {
	if rank <= 0 {
		return team
	}
	return "#" + strconv.Itoa(rank) + " " + team
}

func flagLabels(flags []trend.Heuristic) string {
	labels := make([]string, 0, len(flags))
	for _, f := range flags {
		labels = append(labels, f.Label())
	}
	return strings.Join(labels, ", ")
}

func recordLine(rec trend.Record) string {
	return strconv.Itoa(rec.Wins) + "-" + strconv.Itoa(rec.Losses) + "-" + strconv.Itoa(rec.Pushes)
}
