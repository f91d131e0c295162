// Package api provides the HTTP handlers for the service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/plotfn/grapher/internal/cache"
	"github.com/plotfn/grapher/internal/config"
	"github.com/plotfn/grapher/internal/logger"
	"github.com/plotfn/grapher/internal/store"
	"github.com/plotfn/grapher/pkg/grapher"
)

// Handler serves the expression evaluation endpoints.
type Handler struct {
	engine   *grapher.Engine
	cache    *cache.Cache[grapher.GraphData]
	store    store.Store
	cfg      *config.EngineConfig
	log      logger.Logger
	validate *validator.Validate
}

// NewHandler creates a Handler with its dependencies.
func NewHandler(engine *grapher.Engine, c *cache.Cache[grapher.GraphData], st store.Store, cfg *config.EngineConfig, log logger.Logger) *Handler {
	return &Handler{
		engine:   engine,
		cache:    c,
		store:    st,
		cfg:      cfg,
		log:      log.With("component", "api"),
		validate: validator.New(),
	}
}

// Parse handles POST /api/parse.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Expression) > h.cfg.MaxExpressionLength {
		h.respondError(w, http.StatusBadRequest, "expression exceeds maximum length")
		return
	}

	c := h.engine.Classify(req.Expression)
	h.respond(w, http.StatusOK, ParseResponse{
		IsValid:         c.IsValid,
		Kind:            string(c.Kind),
		Normalized:      c.Normalized,
		Variables:       c.Variables,
		PrimaryVariable: c.PrimaryVariable,
		Parameters:      c.Parameters,
		Error:           c.Error,
	})
}

// Evaluate handles POST /api/evaluate.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, status, err := h.evaluateOne(r.Context(), &req)
	if err != nil {
		h.respondError(w, status, err.Error())
		return
	}
	h.respond(w, http.StatusOK, resp)
}

func (h *Handler) evaluateOne(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, int, error) {
	if len(req.Expression) > h.cfg.MaxExpressionLength {
		return nil, http.StatusBadRequest, errors.New("expression exceeds maximum length")
	}
	domain := rangeOrDefault(req.XRange, defaultXRange)
	count := countOrDefault(req.NumPoints, defaultNumPoints)

	key := cache.Key(req.Expression, req.Variables, domain, count)
	if data, ok := h.cache.Get(key); ok {
		return &EvaluateResponse{Expression: req.Expression, GraphData: data, Cached: true}, 0, nil
	}

	start := time.Now()
	data, err := runWithTimeout(ctx, h.cfg.EvalTimeout, func() (grapher.GraphData, error) {
		return h.engine.GenerateSeries(req.Expression, domain, count, req.Variables)
	})
	if err != nil {
		return nil, statusFor(err), err
	}
	h.cache.Set(key, data)

	return &EvaluateResponse{
		Expression:       req.Expression,
		GraphData:        data,
		EvaluationTimeMs: msSince(start),
	}, 0, nil
}

// BatchEvaluate handles POST /api/batch-evaluate. Expressions are evaluated
// concurrently; a failing expression yields an error item, never a failed
// batch.
func (h *Handler) BatchEvaluate(w http.ResponseWriter, r *http.Request) {
	var req BatchEvaluateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Expressions) > h.cfg.MaxBatchSize {
		h.respondError(w, http.StatusBadRequest, "batch size exceeds maximum")
		return
	}

	start := time.Now()
	results := make([]BatchResult, len(req.Expressions))
	var wg sync.WaitGroup
	for i, expr := range req.Expressions {
		wg.Add(1)
		go func(i int, expr string) {
			defer wg.Done()
			item := EvaluateRequest{
				Expression: expr,
				Variables:  req.Variables,
				XRange:     req.XRange,
				NumPoints:  req.NumPoints,
			}
			resp, _, err := h.evaluateOne(r.Context(), &item)
			if err != nil {
				results[i] = BatchResult{Expression: expr, Error: err.Error()}
				return
			}
			results[i] = BatchResult{
				Expression:       expr,
				GraphData:        &resp.GraphData,
				EvaluationTimeMs: resp.EvaluationTimeMs,
			}
		}(i, expr)
	}
	wg.Wait()

	h.respond(w, http.StatusOK, BatchEvaluateResponse{
		Results:               results,
		TotalExpressions:      len(req.Expressions),
		TotalEvaluationTimeMs: msSince(start),
	})
}

// Parametric handles POST /api/parametric.
func (h *Handler) Parametric(w http.ResponseWriter, r *http.Request) {
	var req ParametricRequest
	if !h.decode(w, r, &req) {
		return
	}
	tRange := rangeOrDefault(req.TRange, [2]float64{0, 2 * math.Pi})
	count := countOrDefault(req.NumPoints, defaultNumPoints)

	start := time.Now()
	type pair struct{ xs, ys []float64 }
	res, err := runWithTimeout(r.Context(), h.cfg.EvalTimeout, func() (pair, error) {
		xs, ys, err := h.engine.EvaluateParametric(req.XExpression, req.YExpression, tRange, count, req.Variables)
		return pair{xs, ys}, err
	})
	if err != nil {
		h.respondError(w, statusFor(err), err.Error())
		return
	}
	h.respond(w, http.StatusOK, ParametricResponse{
		X:                res.xs,
		Y:                res.ys,
		EvaluationTimeMs: msSince(start),
	})
}

// Implicit handles POST /api/implicit.
func (h *Handler) Implicit(w http.ResponseWriter, r *http.Request) {
	var req ImplicitRequest
	if !h.decode(w, r, &req) {
		return
	}
	domain := rangeOrDefault(req.XRange, defaultXRange)
	resolution := countOrDefault(req.Resolution, defaultResolution)

	type pair struct{ xs, ys []float64 }
	res, err := runWithTimeout(r.Context(), h.cfg.EvalTimeout, func() (pair, error) {
		xs, ys, err := h.engine.SolveImplicit(req.Equation, domain, resolution, req.Variables)
		return pair{xs, ys}, err
	})
	if err != nil {
		h.respondError(w, statusFor(err), err.Error())
		return
	}
	h.respond(w, http.StatusOK, ImplicitResponse{
		X:         res.xs,
		Y:         res.ys,
		Supported: len(res.xs) > 0,
	})
}

// Surface handles POST /api/surface.
func (h *Handler) Surface(w http.ResponseWriter, r *http.Request) {
	var req SurfaceRequest
	if !h.decode(w, r, &req) {
		return
	}
	xRange := rangeOrDefault(req.XRange, defaultXRange)
	yRange := rangeOrDefault(req.YRange, defaultXRange)
	resolution := countOrDefault(req.Resolution, 50)

	start := time.Now()
	type grid struct{ xs, ys, zs []float64 }
	res, err := runWithTimeout(r.Context(), h.cfg.EvalTimeout, func() (grid, error) {
		xs, ys, zs, err := h.engine.EvaluateSurface(req.Expression, xRange, yRange, resolution, req.Variables)
		return grid{xs, ys, zs}, err
	})
	if err != nil {
		h.respondError(w, statusFor(err), err.Error())
		return
	}
	h.respond(w, http.StatusOK, SurfaceResponse{
		X:                res.xs,
		Y:                res.ys,
		Z:                res.zs,
		EvaluationTimeMs: msSince(start),
	})
}

// SaveExpression handles POST /api/expressions.
func (h *Handler) SaveExpression(w http.ResponseWriter, r *http.Request) {
	var req SaveExpressionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Expression) > h.cfg.MaxExpressionLength {
		h.respondError(w, http.StatusBadRequest, "expression exceeds maximum length")
		return
	}

	c := h.engine.Classify(req.Expression)
	if !c.IsValid {
		h.respondError(w, http.StatusBadRequest, "cannot save invalid expression: "+c.Error)
		return
	}
	se := &store.SavedExpression{
		Name:       req.Name,
		Raw:        req.Expression,
		Normalized: c.Normalized,
		Kind:       string(c.Kind),
	}
	if err := h.store.Put(se); err != nil {
		h.log.Error("saving expression", "name", req.Name, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to save expression")
		return
	}
	h.respond(w, http.StatusCreated, se)
}

// ListExpressions handles GET /api/expressions.
func (h *Handler) ListExpressions(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List()
	if err != nil {
		h.log.Error("listing expressions", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to list expressions")
		return
	}
	if list == nil {
		list = []*store.SavedExpression{}
	}
	h.respond(w, http.StatusOK, list)
}

// GetExpression handles GET /api/expressions/{name}.
func (h *Handler) GetExpression(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	se, err := h.store.Get(name)
	if err != nil {
		h.log.Error("loading expression", "name", name, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to load expression")
		return
	}
	if se == nil {
		h.respondError(w, http.StatusNotFound, "expression not found")
		return
	}
	h.respond(w, http.StatusOK, se)
}

// DeleteExpression handles DELETE /api/expressions/{name}.
func (h *Handler) DeleteExpression(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.store.Delete(name); err != nil {
		h.log.Error("deleting expression", "name", name, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to delete expression")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{"status": "healthy", "service": "grapher-api"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encoding response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respond(w, status, ErrorResponse{Error: msg})
}

func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout
	}
	return http.StatusBadRequest
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// runWithTimeout runs fn under a deadline. The engine has no internal
// cancellation hook, so a timed-out evaluation is abandoned to finish in the
// background while the request fails fast.
func runWithTimeout[T any](ctx context.Context, d time.Duration, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case res := <-ch:
		return res.v, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
