package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/cfb-edge/internal/usecase"
)

func (h *Handler) ListArchiveWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListArchiveWeeks")
	defer span.End()

	season, err := intParam(r.URL.Query(), "season", h.cfg.DefaultSeason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	weeks, err := h.archiveService.ListWeeks(ctx, season)
	if err != nil {
		h.logger.ErrorContext(ctx, "list archive weeks failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeks)
}

func (h *Handler) RecordArchiveWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordArchiveWeek")
	defer span.End()

	req := archiveRecordRequest{Year: h.cfg.DefaultSeason}
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(seasonAttrs(req.Year, req.Week)...)

	record, err := h.archiveService.Record(ctx, usecase.SlateQuery{
		Year:       req.Year,
		Week:       req.Week,
		SeasonType: seasonTypeOrDefault(req.SeasonType, h.cfg.DefaultSeasonType),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record archive week failed", "year", req.Year, "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, record)
}

func (h *Handler) BackfillArchive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BackfillArchive")
	defer span.End()

	req := archiveBackfillRequest{Year: h.cfg.DefaultSeason}
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.archiveService.Backfill(ctx, usecase.BackfillInput{
		Year:       req.Year,
		SeasonType: seasonTypeOrDefault(req.SeasonType, h.cfg.DefaultSeasonType),
		Weeks:      req.Weeks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "backfill archive failed", "year", req.Year, "weeks", req.Weeks, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "backfill archive finished",
		"year", result.Year,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PurgeCache")
	defer span.End()

	if h.cachePurge == nil {
		writeError(ctx, w, fmt.Errorf("%w: provider cache is disabled", usecase.ErrNotFound))
		return
	}

	var req cachePurgeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	removed := h.cachePurge(ctx, req.Scope)
	h.logger.InfoContext(ctx, "provider cache purged", "scope", req.Scope, "removed", removed)
	writeSuccess(ctx, w, http.StatusOK, cachePurgeDTO{Scope: req.Scope, Removed: removed})
}

type cachePurgeDTO struct {
	Scope   string `json:"scope"`
	Removed int    `json:"removed"`
}

// decodeJSONBody leaves dst untouched on an empty body.
func decodeJSONBody(r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
