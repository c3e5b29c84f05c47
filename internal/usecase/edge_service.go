package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/cfb-edge/internal/domain/edge"
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
)

const (
	EdgeSourceSynthetic = "synthetic"
	EdgeSourceArchive   = "archive"
)

// EdgeQuery is the dashboard sidebar. Nil tier and weather lists select every
// option present in the data.
type EdgeQuery struct {
	Source     string
	Season     int
	Tiers      []ranking.Tier
	Conference edge.ConferenceFilter
	Weather    []game.Weather
}

// EdgeView is everything the dashboard renders for one selection.
type EdgeView struct {
	Source         string                `json:"source"`
	Season         int                   `json:"season,omitempty"`
	TierOptions    []ranking.Tier        `json:"tierOptions"`
	WeatherOptions []game.Weather        `json:"weatherOptions"`
	Tiers          []ranking.Tier        `json:"tiers"`
	Conference     edge.ConferenceFilter `json:"conference"`
	Weather        []game.Weather        `json:"weather"`
	Metrics        edge.Metrics          `json:"metrics"`
	Samples        []edge.Sample         `json:"samples"`
	Total          int                   `json:"total"`
}

type gradedSampleSource interface {
	GradedSamples(ctx context.Context, season int) ([]edge.Sample, error)
}

type EdgeConfig struct {
	DefaultSource string
	SampleSize    int
	Seed          uint64
}

type EdgeService struct {
	archive gradedSampleSource
	cfg     EdgeConfig

	syntheticOnce sync.Once
	synthetic     []edge.Sample
}

func NewEdgeService(archive gradedSampleSource, cfg EdgeConfig) *EdgeService {
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 300
	}
	if strings.TrimSpace(cfg.DefaultSource) == "" {
		cfg.DefaultSource = EdgeSourceSynthetic
	}
	return &EdgeService{archive: archive, cfg: cfg}
}

func (s *EdgeService) View(ctx context.Context, query EdgeQuery) (EdgeView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EdgeService.View")
	defer span.End()

	source := strings.ToLower(strings.TrimSpace(query.Source))
	if source == "" {
		source = s.cfg.DefaultSource
	}

	conference := query.Conference
	switch conference {
	case "":
		conference = edge.ConferenceAll
	case edge.ConferenceAll, edge.ConferenceOnly, edge.ConferenceExcluded:
	default:
		return EdgeView{}, fmt.Errorf("%w: conference must be all, true, or false", ErrInvalidInput)
	}

	samples, err := s.samples(ctx, source, query.Season)
	if err != nil {
		return EdgeView{}, err
	}

	tierOptions, weatherOptions := edge.Options(samples)
	filter := edge.Filter{
		Tiers:      query.Tiers,
		Conference: conference,
		Weather:    query.Weather,
	}
	if filter.Tiers == nil {
		filter.Tiers = tierOptions
	}
	if filter.Weather == nil {
		filter.Weather = weatherOptions
	}

	var filtered []edge.Sample
	if len(filter.Tiers) == 0 || len(filter.Weather) == 0 {
		// An explicitly empty multi-select matches nothing.
		filtered = []edge.Sample{}
	} else {
		filtered = edge.Apply(samples, filter)
	}

	view := EdgeView{
		Source:         source,
		TierOptions:    tierOptions,
		WeatherOptions: weatherOptions,
		Tiers:          filter.Tiers,
		Conference:     conference,
		Weather:        filter.Weather,
		Metrics:        edge.Compute(filtered),
		Samples:        filtered,
		Total:          len(samples),
	}
	if source == EdgeSourceArchive {
		view.Season = query.Season
	}
	return view, nil
}

func (s *EdgeService) samples(ctx context.Context, source string, season int) ([]edge.Sample, error) {
	switch source {
	case EdgeSourceSynthetic:
		s.syntheticOnce.Do(func() {
			s.synthetic = edge.Synthesize(s.cfg.SampleSize, s.cfg.Seed)
		})
		return s.synthetic, nil
	case EdgeSourceArchive:
		if s.archive == nil {
			return nil, fmt.Errorf("%w: archive source is not configured", ErrDependencyUnavailable)
		}
		if season < 1869 || season > 2100 {
			return nil, fmt.Errorf("%w: season %d out of range", ErrInvalidInput, season)
		}
		samples, err := s.archive.GradedSamples(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("load archived samples season=%d: %w", season, err)
		}
		return samples, nil
	default:
		return nil, fmt.Errorf("%w: unknown edge source %q", ErrInvalidInput, source)
	}
}
