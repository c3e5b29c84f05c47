package trend

import (
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
)

// Heuristic names a betting angle. Every angle backs the home team.
type Heuristic string

const (
	UnrankedHomeDog         Heuristic = "unranked_home_dog"
	ConferenceHomeDog       Heuristic = "conference_home_dog"
	DoubleDigitRoadFavorite Heuristic = "double_digit_road_favorite"
)

const (
	// ConferenceDogMinSpread is the smallest home spread that counts as a
	// real conference underdog rather than a pick'em.
	ConferenceDogMinSpread = 3.0
	// RoadFavoriteMinSpread is the home spread at which the visitor is a
	// double-digit favorite.
	RoadFavoriteMinSpread = 10.0
)

func AllHeuristics() []Heuristic {
	return []Heuristic{UnrankedHomeDog, ConferenceHomeDog, DoubleDigitRoadFavorite}
}

func ParseHeuristic(value string) (Heuristic, bool) {
	for _, h := range AllHeuristics() {
		if string(h) == value {
			return h, true
		}
	}
	return "", false
}

func (h Heuristic) Label() string {
	switch h {
	case UnrankedHomeDog:
		return "Unranked home dog vs ranked"
	case ConferenceHomeDog:
		return "Power 5 conference home dog"
	case DoubleDigitRoadFavorite:
		return "Ranked double-digit road favorite"
	default:
		return string(h)
	}
}

// Result is the against-the-spread outcome for the home side.
type Result string

const (
	ResultNone Result = ""
	ResultWin  Result = "Win"
	ResultLoss Result = "Loss"
	ResultPush Result = "Push"
)

// Value is the ATS win credit: 1 for a cover, 0.5 for a push, 0 otherwise.
func (r Result) Value() float64 {
	switch r {
	case ResultWin:
		return 1
	case ResultPush:
		return 0.5
	default:
		return 0
	}
}

// Grade scores the home side against its spread.
func Grade(homePoints, awayPoints int, homeSpread float64) Result {
	margin := float64(homePoints) + homeSpread - float64(awayPoints)
	switch {
	case margin > 0:
		return ResultWin
	case margin < 0:
		return ResultLoss
	default:
		return ResultPush
	}
}

// Row is one game merged with its odds, ranks, and conference context.
type Row struct {
	game.Game

	Bookmaker     string   `json:"bookmaker,omitempty"`
	HomeSpread    *float64 `json:"homeSpread,omitempty"`
	AwaySpread    *float64 `json:"awaySpread,omitempty"`
	Total         *float64 `json:"total,omitempty"`
	HomeMoneyline *int     `json:"homeMoneyline,omitempty"`
	AwayMoneyline *int     `json:"awayMoneyline,omitempty"`
	HasOdds       bool     `json:"hasOdds"`

	HomeRank     int          `json:"homeRank,omitempty"`
	AwayRank     int          `json:"awayRank,omitempty"`
	HomeRankTier ranking.Tier `json:"homeRankTier,omitempty"`
	AwayRankTier ranking.Tier `json:"awayRankTier,omitempty"`
	HomePower5   bool         `json:"homePower5"`
	AwayPower5   bool         `json:"awayPower5"`

	Flags   []Heuristic `json:"flags"`
	HomeATS Result      `json:"homeAts,omitempty"`
}

func (r Row) HomeRanked() bool { return r.HomeRank > 0 }
func (r Row) AwayRanked() bool { return r.AwayRank > 0 }

func (r Row) HasFlag(h Heuristic) bool {
	for _, f := range r.Flags {
		if f == h {
			return true
		}
	}
	return false
}

// Evaluate returns the heuristics a row matches. Rows without a spread
// never match.
func Evaluate(r Row) []Heuristic {
	if r.HomeSpread == nil {
		return nil
	}
	spread := *r.HomeSpread

	out := make([]Heuristic, 0, 3)
	if !r.HomeRanked() && r.AwayRanked() && spread > 0 {
		out = append(out, UnrankedHomeDog)
	}
	if r.ConferenceGame && r.HomePower5 && spread >= ConferenceDogMinSpread {
		out = append(out, ConferenceHomeDog)
	}
	if r.AwayRanked() && spread >= RoadFavoriteMinSpread {
		out = append(out, DoubleDigitRoadFavorite)
	}
	return out
}

// GradeRow fills HomeATS when the game is final and a spread exists.
func GradeRow(r Row) Result {
	if !r.HasFinalScore() || r.HomeSpread == nil {
		return ResultNone
	}
	return Grade(*r.HomePoints, *r.AwayPoints, *r.HomeSpread)
}
