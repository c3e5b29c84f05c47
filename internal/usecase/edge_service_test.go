package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/riskibarqy/cfb-edge/internal/domain/edge"
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

type stubSamples struct {
	samples []edge.Sample
	err     error
	season  int
}

func (s *stubSamples) GradedSamples(_ context.Context, season int) ([]edge.Sample, error) {
	s.season = season
	return s.samples, s.err
}

func TestEdgeService_SyntheticDefaultsSelectEverything(t *testing.T) {
	t.Parallel()

	service := NewEdgeService(nil, EdgeConfig{SampleSize: 300, Seed: 42})
	view, err := service.View(context.Background(), EdgeQuery{})
	if err != nil {
		t.Fatalf("edge view: %v", err)
	}
	if view.Source != EdgeSourceSynthetic || view.Total != 300 {
		t.Fatalf("unexpected source/total: %s %d", view.Source, view.Total)
	}
	if view.Metrics.SampleSize != 300 || view.Metrics.WinRate == nil {
		t.Fatalf("default filters should keep every row: %+v", view.Metrics)
	}
	if view.Conference != edge.ConferenceAll {
		t.Fatalf("unexpected conference default: %s", view.Conference)
	}
	if len(view.Tiers) != len(view.TierOptions) || len(view.Weather) != len(view.WeatherOptions) {
		t.Fatalf("defaults should equal options: %+v", view)
	}

	again, err := service.View(context.Background(), EdgeQuery{Source: "SYNTHETIC"})
	if err != nil {
		t.Fatalf("edge view: %v", err)
	}
	if *again.Metrics.WinRate != *view.Metrics.WinRate || again.Metrics.NetUnits != view.Metrics.NetUnits {
		t.Fatalf("synthetic data must be deterministic")
	}
}

func TestEdgeService_Filters(t *testing.T) {
	t.Parallel()

	service := NewEdgeService(nil, EdgeConfig{SampleSize: 300, Seed: 42})
	view, err := service.View(context.Background(), EdgeQuery{
		Tiers:      []ranking.Tier{ranking.TierTop5},
		Conference: edge.ConferenceOnly,
		Weather:    []game.Weather{game.WeatherSnow},
	})
	if err != nil {
		t.Fatalf("edge view: %v", err)
	}
	for _, s := range view.Samples {
		if s.OppRankTier != ranking.TierTop5 || !s.ConferenceGame || s.Weather != game.WeatherSnow {
			t.Fatalf("sample escaped the filter: %+v", s)
		}
	}
	if view.Metrics.SampleSize != len(view.Samples) || view.Metrics.SampleSize >= view.Total {
		t.Fatalf("unexpected filtered size: %d of %d", view.Metrics.SampleSize, view.Total)
	}

	empty, err := service.View(context.Background(), EdgeQuery{Tiers: []ranking.Tier{}})
	if err != nil {
		t.Fatalf("edge view: %v", err)
	}
	if empty.Metrics.SampleSize != 0 || empty.Metrics.WinRate != nil || empty.Metrics.NetUnits != 0 {
		t.Fatalf("empty selection should report n/a: %+v", empty.Metrics)
	}
}

func TestEdgeService_ArchiveSource(t *testing.T) {
	t.Parallel()

	archive := &stubSamples{samples: []edge.Sample{
		{OppRank: 3, OppRankTier: ranking.TierTop5, Weather: game.WeatherClear, ResultATS: trend.ResultWin, ATSWin: 1},
		{OppRank: 18, OppRankTier: ranking.TierTop20, Weather: game.WeatherRain, ResultATS: trend.ResultLoss, ATSWin: 0},
	}}
	service := NewEdgeService(archive, EdgeConfig{DefaultSource: EdgeSourceArchive})

	view, err := service.View(context.Background(), EdgeQuery{Season: 2024})
	if err != nil {
		t.Fatalf("edge view: %v", err)
	}
	if archive.season != 2024 || view.Season != 2024 || view.Source != EdgeSourceArchive {
		t.Fatalf("unexpected archive view: %+v", view)
	}
	if *view.Metrics.WinRate != 0.5 || math.Abs(view.Metrics.NetUnits-(edge.Payout-1)) > 1e-9 {
		t.Fatalf("unexpected metrics: %+v", view.Metrics)
	}
	if len(view.TierOptions) != 2 || view.TierOptions[0] != ranking.TierTop5 {
		t.Fatalf("unexpected tier options: %v", view.TierOptions)
	}
}

func TestEdgeService_Errors(t *testing.T) {
	t.Parallel()

	service := NewEdgeService(nil, EdgeConfig{})
	if _, err := service.View(context.Background(), EdgeQuery{Source: "csv"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid source error, got %v", err)
	}
	if _, err := service.View(context.Background(), EdgeQuery{Conference: "maybe"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid conference error, got %v", err)
	}
	if _, err := service.View(context.Background(), EdgeQuery{Source: EdgeSourceArchive, Season: 2025}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected unavailable archive, got %v", err)
	}

	withArchive := NewEdgeService(&stubSamples{err: errors.New("db down")}, EdgeConfig{})
	if _, err := withArchive.View(context.Background(), EdgeQuery{Source: EdgeSourceArchive, Season: 1700}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid season, got %v", err)
	}
	if _, err := withArchive.View(context.Background(), EdgeQuery{Source: EdgeSourceArchive, Season: 2025}); err == nil {
		t.Fatalf("expected archive error")
	}
}
