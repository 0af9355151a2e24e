package calculator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"learnmint-calculator/internal/expr"
	"learnmint-calculator/internal/handlers"
	"learnmint-calculator/internal/history"
	"learnmint-calculator/internal/locale"
	"learnmint-calculator/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator HTTP API.
type Handler struct {
	sessions    *SessionManager
	loc         *locale.Localizer
	metrics     *Metrics
	defaultMode expr.AngleMode
}

func NewHandler(sessions *SessionManager, loc *locale.Localizer, metrics *Metrics, defaultMode expr.AngleMode) *Handler {
	if loc == nil {
		loc = locale.New("en")
	}
	return &Handler{
		sessions:    sessions,
		loc:         loc,
		metrics:     metrics,
		defaultMode: defaultMode,
	}
}

// ActiveSessions reports how many sessions are currently held.
func (h *Handler) ActiveSessions() int {
	return h.sessions.Len()
}

// ---------------------------------------------------------------------------
// Stateless evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req EvaluateRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	mode, err := h.parseMode(req.Mode)
	if err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "evaluate", "invalid angle mode", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.expression", req.Expression),
		attribute.String("calculator.mode", mode.String()),
	)

	start := time.Now()
	v, evalErr := expr.Eval(req.Expression, mode)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	resp := EvaluateResponse{
		Expression: req.Expression,
		Mode:       mode,
	}

	attrs := metric.WithAttributes(attribute.String("operation", "evaluate"))

	if evalErr != nil {
		resp.Result = h.loc.ErrorText()
		resp.Display = resp.Result
		resp.Error = true
		resp.Reason = evalErr.Error()

		h.metrics.errors.Add(ctx, 1, attrs)
		span.AddEvent("evaluation.failed", trace.WithAttributes(attribute.String("reason", evalErr.Error())))

		logger.Info("evaluation failed",
			zap.String("expression", req.Expression),
			zap.Stringer("mode", mode),
			zap.Error(evalErr),
			zap.String("request_id", requestID),
		)
	} else {
		resp.Result = FormatResult(v)
		resp.Display = h.loc.FormatNumber(resp.Result)

		h.metrics.ops.Add(ctx, 1, attrs)
		h.metrics.duration.Record(ctx, elapsed, attrs)
		h.metrics.lastResult.Record(ctx, v, attrs)

		span.AddEvent("computation.complete", trace.WithAttributes(
			attribute.String("result", resp.Result),
			attribute.Float64("duration_ms", elapsed),
		))
		span.SetStatus(codes.Ok, "")

		logger.Info("evaluation completed",
			zap.String("expression", req.Expression),
			zap.Stringer("mode", mode),
			zap.String("result", resp.Result),
			zap.String("request_id", requestID),
			zap.Float64("duration_ms", elapsed),
		)
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create")
	defer span.End()

	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(w, r, &req); err != nil {
			observability.RecordError(ctx, span, logger, h.metrics.errors, "session.create", "invalid request body", err, http.StatusBadRequest, w)
			return
		}
	}

	var mode *expr.AngleMode
	if req.Mode != "" {
		m, err := expr.ParseAngleMode(req.Mode)
		if err != nil {
			observability.RecordError(ctx, span, logger, h.metrics.errors, "session.create", "invalid angle mode", err, http.StatusBadRequest, w)
			return
		}
		mode = &m
	}

	s, err := h.sessions.Create(ctx, req.ID, mode)
	if errors.Is(err, ErrInvalidSessionID) {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "session.create", "invalid session id", err, http.StatusBadRequest, w)
		return
	}
	if err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "session.create", "failed to load history", err, http.StatusInternalServerError, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.session", s.ID))
	span.SetStatus(codes.Ok, "")

	h.writeSession(w, http.StatusCreated, s)
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.get")
	defer span.End()

	s, ok := h.lookupSession(w, r.WithContext(ctx), span, logger, "session.get")
	if !ok {
		return
	}

	h.writeSession(w, http.StatusOK, s)
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.delete")
	defer span.End()

	if err := h.sessions.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "session.delete", "session not found", err, http.StatusNotFound, w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/keys: presses each key
// in order under its own child span.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.keys",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	s, ok := h.lookupSession(w, r.WithContext(ctx), span, logger, "keys")
	if !ok {
		return
	}

	var req KeysRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "keys", "no keys provided", fmt.Errorf("keys array is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.session", s.ID),
		attribute.Int("calculator.keys_count", len(req.Keys)),
	)

	err := s.Do(func(c *Calculator) error {
		for i, key := range req.Keys {
			_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d", i),
				trace.WithAttributes(
					attribute.Int("calculator.key.index", i),
					attribute.String("calculator.key", key),
				),
			)

			b, found := Lookup(key)
			if !found {
				err := fmt.Errorf("%w %q at position %d", ErrUnknownKey, key, i)
				keySpan.RecordError(err)
				keySpan.SetStatus(codes.Error, err.Error())
				keySpan.End()
				return err
			}

			start := time.Now()
			err := c.Press(ctx, b)
			elapsed := float64(time.Since(start).Microseconds()) / 1000.0

			if b.Category == CategoryEquals {
				h.recordEvaluation(ctx, keySpan, logger, c, elapsed)
			}

			keySpan.SetAttributes(attribute.String("calculator.state", string(c.State())))
			if err != nil {
				keySpan.RecordError(err)
				keySpan.SetStatus(codes.Error, err.Error())
				keySpan.End()
				return err
			}
			keySpan.SetStatus(codes.Ok, "")
			keySpan.End()
		}
		return nil
	})

	if errors.Is(err, ErrUnknownKey) {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "keys", err.Error(), err, http.StatusBadRequest, w)
		return
	}
	if err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "keys", "failed to save history", err, http.StatusInternalServerError, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	h.writeSession(w, http.StatusOK, s)
}

// recordEvaluation emits metrics, span events and a log line for an "="
// press.
func (h *Handler) recordEvaluation(ctx context.Context, span trace.Span, logger *zap.Logger, c *Calculator, elapsed float64) {
	attrs := metric.WithAttributes(attribute.String("operation", "evaluate"))

	switch c.State() {
	case StateJustEvaluated:
		h.metrics.ops.Add(ctx, 1, attrs)
		h.metrics.duration.Record(ctx, elapsed, attrs)
		if v, err := strconv.ParseFloat(c.Result(), 64); err == nil {
			h.metrics.lastResult.Record(ctx, v, attrs)
		}
		span.AddEvent("computation.complete", trace.WithAttributes(
			attribute.String("result", c.Result()),
			attribute.Float64("duration_ms", elapsed),
		))
		logger.Info("evaluation completed",
			zap.String("result", c.Result()),
			zap.Stringer("mode", c.Mode()),
			zap.Float64("duration_ms", elapsed),
		)

	case StateError:
		h.metrics.errors.Add(ctx, 1, attrs)
		span.AddEvent("evaluation.failed", trace.WithAttributes(attribute.String("reason", fmt.Sprint(c.Err()))))
		logger.Info("evaluation failed", zap.Error(c.Err()))
	}
}

// SetMode handles POST /calculator/sessions/{id}/mode
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.mode")
	defer span.End()

	s, ok := h.lookupSession(w, r.WithContext(ctx), span, logger, "mode")
	if !ok {
		return
	}

	var req ModeRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "mode", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	mode, err := expr.ParseAngleMode(req.Mode)
	if err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "mode", "invalid angle mode", err, http.StatusBadRequest, w)
		return
	}

	_ = s.Do(func(c *Calculator) error {
		c.SetMode(mode)
		return nil
	})

	h.writeSession(w, http.StatusOK, s)
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

// History handles GET /calculator/sessions/{id}/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.history.list")
	defer span.End()

	s, ok := h.lookupSession(w, r.WithContext(ctx), span, logger, "history.list")
	if !ok {
		return
	}

	var entries []history.Entry
	_ = s.Do(func(c *Calculator) error {
		entries = c.History()
		return nil
	})

	handlers.WriteJSON(w, http.StatusOK, HistoryResponse{Entries: entries})
}

// ReuseHistory handles POST /calculator/sessions/{id}/history/{index}/reuse
func (h *Handler) ReuseHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.history.reuse")
	defer span.End()

	s, ok := h.lookupSession(w, r.WithContext(ctx), span, logger, "history.reuse")
	if !ok {
		return
	}

	index, ok := h.historyIndex(w, r.WithContext(ctx), span, logger, "history.reuse")
	if !ok {
		return
	}

	err := s.Do(func(c *Calculator) error {
		return c.ReuseHistory(index)
	})
	if err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "history.reuse", "history entry not found", err, http.StatusNotFound, w)
		return
	}

	h.writeSession(w, http.StatusOK, s)
}

// DeleteHistoryEntry handles DELETE /calculator/sessions/{id}/history/{index}
func (h *Handler) DeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.history.delete")
	defer span.End()

	s, ok := h.lookupSession(w, r.WithContext(ctx), span, logger, "history.delete")
	if !ok {
		return
	}

	index, ok := h.historyIndex(w, r.WithContext(ctx), span, logger, "history.delete")
	if !ok {
		return
	}

	var entries []history.Entry
	err := s.Do(func(c *Calculator) error {
		if err := c.DeleteHistory(ctx, index); err != nil {
			return err
		}
		entries = c.History()
		return nil
	})
	if errors.Is(err, history.ErrIndexOutOfRange) {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "history.delete", "history entry not found", err, http.StatusNotFound, w)
		return
	}
	if err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "history.delete", "failed to save history", err, http.StatusInternalServerError, w)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, HistoryResponse{Entries: entries})
}

// ClearHistory handles DELETE /calculator/sessions/{id}/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.history.clear")
	defer span.End()

	s, ok := h.lookupSession(w, r.WithContext(ctx), span, logger, "history.clear")
	if !ok {
		return
	}

	err := s.Do(func(c *Calculator) error {
		return c.ClearHistory(ctx)
	})
	if err != nil {
		observability.RecordError(ctx, span, logger, h.metrics.errors, "history.clear", "failed to save history", err, http.StatusInternalServerError, w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Keypad handles GET /calculator/keypad
func (h *Handler) Keypad(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, KeypadResponse{Buttons: Keypad()})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (h *Handler) parseMode(s string) (expr.AngleMode, error) {
	if s == "" {
		return h.defaultMode, nil
	}
	return expr.ParseAngleMode(s)
}

func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request, span trace.Span, logger *zap.Logger, opName string) (*Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		observability.RecordError(r.Context(), span, logger, h.metrics.errors, opName, "session not found", err, http.StatusNotFound, w)
		return nil, false
	}
	span.SetAttributes(attribute.String("calculator.session", s.ID))
	return s, true
}

func (h *Handler) historyIndex(w http.ResponseWriter, r *http.Request, span trace.Span, logger *zap.Logger, opName string) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		observability.RecordError(r.Context(), span, logger, h.metrics.errors, opName, "invalid history index", err, http.StatusBadRequest, w)
		return 0, false
	}
	span.SetAttributes(attribute.Int("calculator.history.index", index))
	return index, true
}

func (h *Handler) writeSession(w http.ResponseWriter, status int, s *Session) {
	var resp SessionResponse
	_ = s.Do(func(c *Calculator) error {
		resp = SessionResponse{ID: s.ID, Snapshot: c.Snapshot()}
		return nil
	})
	handlers.WriteJSON(w, status, resp)
}
