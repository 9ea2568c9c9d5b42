package httpapi

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/vivandoshi08/cheesycareApp/internal/usecase"
)

const requestBodyMaxSize = 1 << 20

type Handler struct {
	scheduler  *usecase.MatchSchedulerService
	eventQuery *usecase.EventQueryService
	logger     *slog.Logger
	validator  *validator.Validate
}

func NewHandler(
	scheduler *usecase.MatchSchedulerService,
	eventQuery *usecase.EventQueryService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		scheduler:  scheduler,
		eventQuery: eventQuery,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// RunMatchScheduler triggers a reconciliation run. The route accepts an
// explicit POST or a scheduler-originated GET carrying scheduled=true;
// anything else is rejected so a stray browser hit cannot start a run.
func (h *Handler) RunMatchScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMatchScheduler")
	defer span.End()

	if r.Method != http.MethodPost && r.URL.Query().Get("scheduled") != "true" {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "This endpoint accepts scheduled invocations (GET ?scheduled=true) or an explicit POST only\n")
		return
	}

	var input usecase.MatchSchedulerInput
	if r.Method == http.MethodPost {
		body, err := io.ReadAll(io.LimitReader(r.Body, requestBodyMaxSize))
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: read request body", usecase.ErrInvalidInput))
			return
		}
		if len(body) > 0 {
			if err := sonic.Unmarshal(body, &input); err != nil {
				writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
				return
			}
			if err := h.validator.StructCtx(ctx, input); err != nil {
				writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
				return
			}
		}
	}

	result, err := h.scheduler.Run(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "match scheduler run failed", "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListActiveEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListActiveEvents")
	defer span.End()

	events, err := h.eventQuery.ActiveEvents(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list active events failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) ListEventMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventMatches")
	defer span.End()

	matches, err := h.eventQuery.EventMatches(ctx, r.PathValue("eventKey"))
	if err != nil {
		h.logger.ErrorContext(ctx, "list event matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"matches": matches})
}

func (h *Handler) ListTeamsWithUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsWithUpcomingMatches")
	defer span.End()

	teams, err := h.eventQuery.TeamsWithUpcomingMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list upcoming teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"teams": teams})
}
