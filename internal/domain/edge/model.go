package edge

import (
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

// Payout is the net return on a winning -110 ticket per unit risked.
const Payout = 0.91

// Sample is one historical bet row on the edge dashboard.
type Sample struct {
	Matchup        string       `json:"matchup,omitempty"`
	OppRank        int          `json:"oppRank"`
	OppRankTier    ranking.Tier `json:"oppRankTier"`
	ConferenceGame bool         `json:"conferenceGame"`
	Weather        game.Weather `json:"weather"`
	ResultATS      trend.Result `json:"resultAts"`
	Spread         float64      `json:"spread"`
	ATSWin         float64      `json:"atsWin"`
}

// ConferenceFilter is the tri-state conference radio.
type ConferenceFilter string

const (
	ConferenceAll      ConferenceFilter = "all"
	ConferenceOnly     ConferenceFilter = "true"
	ConferenceExcluded ConferenceFilter = "false"
)

// Filter is the sidebar selection. Empty tier or weather lists mean no
// restriction.
type Filter struct {
	Tiers      []ranking.Tier
	Conference ConferenceFilter
	Weather    []game.Weather
}

func (f Filter) Match(s Sample) bool {
	if len(f.Tiers) > 0 && !containsTier(f.Tiers, s.OppRankTier) {
		return false
	}
	switch f.Conference {
	case ConferenceOnly:
		if !s.ConferenceGame {
			return false
		}
	case ConferenceExcluded:
		if s.ConferenceGame {
			return false
		}
	}
	if len(f.Weather) > 0 && !containsWeather(f.Weather, s.Weather) {
		return false
	}
	return true
}

func Apply(samples []Sample, f Filter) []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Metrics are the three dashboard widgets. WinRate is nil for an empty
// selection.
type Metrics struct {
	WinRate    *float64 `json:"winRate"`
	NetUnits   float64  `json:"netUnits"`
	SampleSize int      `json:"sampleSize"`
}

// Compute returns mean ATS credit and net units at a 0.91 payout, risking one
// unit per bet.
func Compute(samples []Sample) Metrics {
	m := Metrics{SampleSize: len(samples)}
	if len(samples) == 0 {
		return m
	}

	var wins, losses float64
	for _, s := range samples {
		wins += s.ATSWin
		losses += 1 - s.ATSWin
	}
	rate := wins / float64(len(samples))
	m.WinRate = &rate
	m.NetUnits = wins*Payout - losses
	return m
}

// Options lists the distinct tiers and weather present, in display order.
func Options(samples []Sample) ([]ranking.Tier, []game.Weather) {
	tierSeen := make(map[ranking.Tier]bool)
	weatherSeen := make(map[game.Weather]bool)
	for _, s := range samples {
		tierSeen[s.OppRankTier] = true
		weatherSeen[s.Weather] = true
	}

	tiers := make([]ranking.Tier, 0, 5)
	for _, t := range ranking.AllTiers() {
		if tierSeen[t] {
			tiers = append(tiers, t)
		}
	}
	weather := make([]game.Weather, 0, 5)
	for _, w := range game.AllWeather() {
		if weatherSeen[w] {
			weather = append(weather, w)
		}
	}
	return tiers, weather
}

// FromTrendRows turns graded unranked-home-dog rows into samples, with the
// visiting team as the ranked opponent.
func FromTrendRows(rows []trend.Row) []Sample {
	out := make([]Sample, 0, len(rows))
	for _, r := range rows {
		if r.HomeATS == trend.ResultNone || r.HomeSpread == nil || !r.HasFlag(trend.UnrankedHomeDog) {
			continue
		}
		weather := r.Weather
		if weather == "" {
			weather = game.WeatherUnknown
		}
		out = append(out, Sample{
			Matchup:        r.AwayTeam + " @ " + r.HomeTeam,
			OppRank:        r.AwayRank,
			OppRankTier:    ranking.TierFor(r.AwayRank),
			ConferenceGame: r.ConferenceGame,
			Weather:        weather,
			ResultATS:      r.HomeATS,
			Spread:         *r.HomeSpread,
			ATSWin:         r.HomeATS.Value(),
		})
	}
	return out
}

func containsTier(items []ranking.Tier, v ranking.Tier) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

func containsWeather(items []game.Weather, v game.Weather) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
