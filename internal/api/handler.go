package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wadewooldridge/coin-calculator/internal/calculator"
	"github.com/wadewooldridge/coin-calculator/internal/metrics"
	"github.com/wadewooldridge/coin-calculator/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires storage, metrics and logging dependencies into HTTP handlers.
type Handler struct {
	storage storage.Storage
	metrics *metrics.Recorder
	logger  *zap.Logger

	clock func() time.Time

	mu                     sync.RWMutex
	denominationsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics records solve and update outcomes on the given recorder.
func WithMetrics(recorder *metrics.Recorder) HandlerOption {
	return func(h *Handler) {
		h.metrics = recorder
	}
}

// WithHandlerLogger sets the logger used for domain events.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		logger:  zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.denominationsUpdatedAt = h.clock()
	if engine, err := store.Engine(); err == nil {
		h.metrics.SetCanonical(engine.Canonical())
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDenominations(w http.ResponseWriter, r *http.Request) {
	_ = r
	engine, err := h.storage.Engine()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.denominationsPayload(engine, ""))
}

func (h *Handler) handlePutDenominations(w http.ResponseWriter, r *http.Request) {
	var req denominationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	raw := make([]string, len(req.Denominations))
	for i, v := range req.Denominations {
		raw[i] = string(v)
	}

	engine, err := h.updateDenominations(raw)
	h.metrics.ObserveDenominationUpdate(err)
	if err != nil {
		if writeValidationError(w, "Invalid denominations", err) {
			h.logger.Info("denominations rejected",
				zap.Strings("denominations", raw),
				zap.Error(err),
				zap.String("request_id", requestIDFromContext(r.Context())),
			)
			return
		}
		writeInternalError(w, err)
		return
	}

	h.metrics.SetCanonical(engine.Canonical())
	h.logger.Info("denominations updated",
		zap.Ints("denominations", engine.Denominations()),
		zap.Stringer("algorithm", engine.Algorithm()),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)

	writeJSON(w, http.StatusOK, h.denominationsPayload(engine, "Denominations updated successfully"))
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	engine, err := h.storage.Engine()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	total, err := engine.ParseTotal(string(req.Total))
	if err != nil {
		h.metrics.ObserveSolve("", err, 0)
		writeValidationError(w, "Invalid total", err)
		return
	}

	start := time.Now()
	sol, calcErr := engine.SolveDetailed(total)
	elapsed := time.Since(start)
	h.metrics.ObserveSolve(engine.Algorithm().String(), calcErr, elapsed)

	if calcErr != nil {
		if writeValidationError(w, "Invalid total", calcErr) {
			return
		}
		writeInternalError(w, calcErr)
		return
	}

	resp := calculateResponse{
		Total:             sol.Total,
		Denominations:     sol.Denominations,
		Quantities:        sol.Quantities,
		Breakdown:         sol.Breakdown(),
		TotalCoins:        sol.Coins,
		Algorithm:         sol.Algorithm.String(),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateDenominations(raw []string) (*calculator.Engine, error) {
	values, err := calculator.ParseDenominations(raw)
	if err != nil {
		return nil, err
	}
	engine, err := h.storage.SetDenominations(values)
	if err != nil {
		return nil, err
	}
	h.markDenominationsUpdated()
	return engine, nil
}

func (h *Handler) denominationsPayload(engine *calculator.Engine, message string) denominationsResponse {
	return denominationsResponse{
		Denominations:       engine.Denominations(),
		SortedDenominations: engine.SortedDenominations(),
		Canonical:           engine.Canonical(),
		Algorithm:           engine.Algorithm().String(),
		Limits:              engine.Limits(),
		UpdatedAt:           h.currentDenominationsUpdatedAt(),
		Message:             message,
	}
}

func (h *Handler) currentDenominationsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.denominationsUpdatedAt
}

func (h *Handler) markDenominationsUpdated() {
	h.mu.Lock()
	h.denominationsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// looseInt carries a JSON number or string verbatim so the calculator can
// apply its own parsing rules to form input.
type looseInt string

func (v *looseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = looseInt(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	*v = looseInt(data)
	return nil
}

type denominationsRequest struct {
	Denominations []looseInt `json:"denominations"`
}

type calculateRequest struct {
	Total looseInt `json:"total"`
}

type calculateResponse struct {
	Total             int               `json:"total"`
	Denominations     []int             `json:"denominations"`
	Quantities        []int             `json:"quantities"`
	Breakdown         []calculator.Coin `json:"breakdown"`
	TotalCoins        int               `json:"totalCoins"`
	Algorithm         string            `json:"algorithm"`
	CalculationTimeMs int64             `json:"calculationTimeMs"`
}

type denominationsResponse struct {
	Denominations       []int             `json:"denominations"`
	SortedDenominations []int             `json:"sortedDenominations"`
	Canonical           bool              `json:"canonical"`
	Algorithm           string            `json:"algorithm"`
	Limits              calculator.Limits `json:"limits"`
	UpdatedAt           time.Time         `json:"updatedAt"`
	Message             string            `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

// writeValidationError writes a 400 for calculator validation failures and
// reports whether err was one.
func writeValidationError(w http.ResponseWriter, message string, err error) bool {
	var verr *calculator.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	resp := errorResponse{
		Error:      message,
		Details:    verr.Error(),
		Kind:       verr.Kind.String(),
		Suggestion: suggestionFor(verr),
	}
	writeJSON(w, http.StatusBadRequest, resp)
	return true
}

func suggestionFor(verr *calculator.ValidationError) string {
	switch verr.Kind {
	case calculator.KindMissingUnit:
		return "Add a denomination of 1 so every total can be made exactly"
	case calculator.KindDuplicateDenomination:
		return "Remove the repeated value " + strconv.Quote(verr.Value)
	default:
		return ""
	}
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
