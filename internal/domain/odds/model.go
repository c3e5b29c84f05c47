package odds

import (
	"strconv"
	"time"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
)

// Quote is one event's lines, flattened from the bookmaker markets. Nil
// fields mean no bookmaker quoted that market.
type Quote struct {
	EventID       string    `json:"eventId"`
	HomeTeam      string    `json:"homeTeam"`
	AwayTeam      string    `json:"awayTeam"`
	CommenceTime  time.Time `json:"commenceTime"`
	Bookmaker     string    `json:"bookmaker,omitempty"`
	HomeSpread    *float64  `json:"homeSpread,omitempty"`
	AwaySpread    *float64  `json:"awaySpread,omitempty"`
	Total         *float64  `json:"total,omitempty"`
	HomeMoneyline *int      `json:"homeMoneyline,omitempty"`
	AwayMoneyline *int      `json:"awayMoneyline,omitempty"`
}

func (q Quote) Key() game.MatchKey {
	return game.NewMatchKey(q.HomeTeam, q.AwayTeam, q.CommenceTime)
}

// Query narrows the odds feed by commence time. Zero bounds are open.
type Query struct {
	CommenceFrom time.Time
	CommenceTo   time.Time
}

// Dedupe keeps the first quote per match key, preserving order.
func Dedupe(quotes []Quote) []Quote {
	seen := make(map[game.MatchKey]struct{}, len(quotes))
	out := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		key := q.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

// ImpliedProbability converts an American price to the break-even win rate.
func ImpliedProbability(american int) float64 {
	switch {
	case american > 0:
		return 100 / float64(american+100)
	case american < 0:
		return float64(-american) / float64(-american+100)
	default:
		return 0
	}
}

func FormatAmerican(v *int) string {
	if v == nil {
		return "-"
	}
	if *v > 0 {
		return "+" + strconv.Itoa(*v)
	}
	return strconv.Itoa(*v)
}

func FormatLine(v *float64) string {
	if v == nil {
		return "-"
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if *v > 0 {
		return "+" + s
	}
	return s
}
