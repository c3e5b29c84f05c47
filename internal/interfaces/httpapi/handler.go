package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/platform/cache"
	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
	"github.com/riskibarqy/cfb-edge/internal/usecase"
)

// HandlerConfig holds the defaults applied to requests that omit them.
type HandlerConfig struct {
	DefaultSeason     int
	DefaultSeasonType game.SeasonType
	RankingPoll       string
}

type Handler struct {
	slateService   *usecase.SlateService
	trendService   *usecase.TrendService
	edgeService    *usecase.EdgeService
	archiveService *usecase.ArchiveService
	cacheStats     func() cache.Stats
	cachePurge     func(ctx context.Context, scope string) int
	cfg            HandlerConfig
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	slateService *usecase.SlateService,
	trendService *usecase.TrendService,
	edgeService *usecase.EdgeService,
	archiveService *usecase.ArchiveService,
	cfg HandlerConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultSeasonType == "" {
		cfg.DefaultSeasonType = game.SeasonRegular
	}

	return &Handler{
		slateService:   slateService,
		trendService:   trendService,
		edgeService:    edgeService,
		archiveService: archiveService,
		cfg:            cfg,
		logger:         logger,
		validator:      validator.New(),
	}
}

// WithCacheStats exposes provider cache counters on /healthz.
func (h *Handler) WithCacheStats(stats func() cache.Stats) *Handler {
	h.cacheStats = stats
	return h
}

// WithCachePurge enables the internal purge route. Without it the route
// answers not found.
func (h *Handler) WithCachePurge(purge func(ctx context.Context, scope string) int) *Handler {
	h.cachePurge = purge
	return h
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	payload := healthDTO{Status: "ok"}
	if h.cacheStats != nil {
		stats := h.cacheStats()
		payload.Cache = &stats
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

type healthDTO struct {
	Status string       `json:"status"`
	Cache  *cache.Stats `json:"cache,omitempty"`
}
