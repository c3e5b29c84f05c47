package httpapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cfb-edge/internal/domain/edge"
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
	"github.com/riskibarqy/cfb-edge/internal/usecase"
)

type slateRequest struct {
	Year       int    `json:"year" validate:"min=1869,max=2100"`
	Week       int    `json:"week" validate:"omitempty,min=1,max=20"`
	SeasonType string `json:"season_type" validate:"omitempty,oneof=regular postseason"`
}

type archiveRecordRequest struct {
	Year       int    `json:"year" validate:"min=1869,max=2100"`
	Week       int    `json:"week" validate:"required,min=1,max=20"`
	SeasonType string `json:"season_type" validate:"omitempty,oneof=regular postseason"`
}

type cachePurgeRequest struct {
	Scope string `json:"scope" validate:"required,oneof=games weather rankings teams odds cfbd all"`
}

type archiveBackfillRequest struct {
	Year       int    `json:"year" validate:"min=1869,max=2100"`
	SeasonType string `json:"season_type" validate:"omitempty,oneof=regular postseason"`
	Weeks      []int  `json:"weeks" validate:"required,min=1,max=20,dive,min=1,max=20"`
}

type edgeRequest struct {
	Source     string `validate:"omitempty,oneof=synthetic archive"`
	Season     int    `validate:"omitempty,min=1869,max=2100"`
	Conference string `validate:"omitempty,oneof=all true false"`
}

func (h *Handler) parseSlateQuery(ctx context.Context, values url.Values) (usecase.SlateQuery, error) {
	req := slateRequest{Year: h.cfg.DefaultSeason, SeasonType: string(h.cfg.DefaultSeasonType)}

	var err error
	if req.Year, err = intParam(values, "year", req.Year); err != nil {
		return usecase.SlateQuery{}, err
	}
	if req.Week, err = intParam(values, "week", 0); err != nil {
		return usecase.SlateQuery{}, err
	}
	if raw := strings.ToLower(strings.TrimSpace(values.Get("season_type"))); raw != "" {
		req.SeasonType = raw
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.SlateQuery{}, err
	}

	return usecase.SlateQuery{
		Year:       req.Year,
		Week:       req.Week,
		SeasonType: seasonTypeOrDefault(req.SeasonType, h.cfg.DefaultSeasonType),
	}, nil
}

// parseEdgeQuery keeps an absent multi-select nil (select everything) and a
// present but blank one empty (select nothing).
func (h *Handler) parseEdgeQuery(ctx context.Context, values url.Values) (usecase.EdgeQuery, error) {
	req := edgeRequest{
		Source:     strings.ToLower(strings.TrimSpace(values.Get("source"))),
		Conference: strings.ToLower(strings.TrimSpace(values.Get("conference"))),
	}
	var err error
	if req.Season, err = intParam(values, "season", 0); err != nil {
		return usecase.EdgeQuery{}, err
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.EdgeQuery{}, err
	}

	query := usecase.EdgeQuery{
		Source:     req.Source,
		Season:     req.Season,
		Conference: edge.ConferenceFilter(req.Conference),
	}
	if query.Source == usecase.EdgeSourceArchive && query.Season == 0 {
		query.Season = h.cfg.DefaultSeason
	}

	if raw, ok := values["tier"]; ok {
		query.Tiers = []ranking.Tier{}
		for _, v := range nonBlank(raw) {
			tier, ok := ranking.ParseTier(v)
			if !ok {
				return usecase.EdgeQuery{}, fmt.Errorf("%w: unknown rank tier %q", usecase.ErrInvalidInput, v)
			}
			query.Tiers = append(query.Tiers, tier)
		}
	}
	if raw, ok := values["weather"]; ok {
		query.Weather = []game.Weather{}
		for _, v := range nonBlank(raw) {
			weather, ok := game.ParseWeather(v)
			if !ok {
				return usecase.EdgeQuery{}, fmt.Errorf("%w: unknown weather %q", usecase.ErrInvalidInput, v)
			}
			query.Weather = append(query.Weather, weather)
		}
	}
	return query, nil
}

func parseHeuristic(values url.Values) (trend.Heuristic, error) {
	raw := strings.TrimSpace(values.Get("heuristic"))
	if raw == "" || raw == "all" {
		return "", nil
	}
	h, ok := trend.ParseHeuristic(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown heuristic %q", usecase.ErrInvalidInput, raw)
	}
	return h, nil
}

func parseOddsQuery(values url.Values) (odds.Query, error) {
	var query odds.Query
	var err error
	if query.CommenceFrom, err = timeParam(values, "from"); err != nil {
		return odds.Query{}, err
	}
	if query.CommenceTo, err = timeParam(values, "to"); err != nil {
		return odds.Query{}, err
	}
	return query, nil
}

func intParam(values url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

func timeParam(values url.Values, key string) (time.Time, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD", usecase.ErrInvalidInput, key)
	}
	return t, nil
}

func seasonTypeOrDefault(raw string, fallback game.SeasonType) game.SeasonType {
	if raw == "" {
		return fallback
	}
	return game.SeasonType(raw)
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
