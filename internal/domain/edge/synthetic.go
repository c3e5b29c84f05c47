package edge

import (
	"math/rand/v2"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

var syntheticWeather = []game.Weather{game.WeatherClear, game.WeatherRain, game.WeatherSnow, game.WeatherWind}

// Synthesize builds the deterministic demo dataset: opponent rank uniform in
// [1,24], ATS results drawn Win .58 / Loss .38 / Push .04, and spreads from
// Normal(7.5, 2.5).
func Synthesize(n int, seed uint64) []Sample {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	out := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		oppRank := rng.IntN(24) + 1
		result := drawResult(rng.Float64())
		out = append(out, Sample{
			OppRank:        oppRank,
			OppRankTier:    ranking.TierFor(oppRank),
			ConferenceGame: rng.IntN(2) == 1,
			Weather:        syntheticWeather[rng.IntN(len(syntheticWeather))],
			ResultATS:      result,
			Spread:         rng.NormFloat64()*2.5 + 7.5,
			ATSWin:         result.Value(),
		})
	}
	return out
}

func drawResult(p float64) trend.Result {
	switch {
	case p < 0.58:
		return trend.ResultWin
	case p < 0.96:
		return trend.ResultLoss
	default:
		return trend.ResultPush
	}
}
