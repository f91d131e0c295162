package api

import "github.com/plotfn/grapher/pkg/grapher"

// Defaults applied when a request omits optional fields, matching the
// service's documented behavior.
const (
	defaultNumPoints  = 1000
	defaultResolution = 360
)

var defaultXRange = [2]float64{-5, 5}

// ParseRequest asks for classification of one expression.
type ParseRequest struct {
	Expression string `json:"expression" validate:"required"`
}

// ParseResponse reports the classification result.
type ParseResponse struct {
	IsValid         bool     `json:"is_valid"`
	Kind            string   `json:"kind"`
	Normalized      string   `json:"normalized"`
	Variables       []string `json:"variables"`
	PrimaryVariable string   `json:"primary_variable,omitempty"`
	Parameters      []string `json:"parameters"`
	Error           string   `json:"error,omitempty"`
}

// EvaluateRequest asks for graph data for one explicit expression.
type EvaluateRequest struct {
	Expression string             `json:"expression" validate:"required"`
	Variables  map[string]float64 `json:"variables"`
	XRange     *[2]float64        `json:"x_range"`
	NumPoints  int                `json:"num_points" validate:"omitempty,gte=10,lte=40000"`
}

// EvaluateResponse carries segmented graph data.
type EvaluateResponse struct {
	Expression       string            `json:"expression"`
	GraphData        grapher.GraphData `json:"graph_data"`
	EvaluationTimeMs float64           `json:"evaluation_time_ms"`
	Cached           bool              `json:"cached"`
}

// BatchEvaluateRequest evaluates several expressions over a shared domain.
type BatchEvaluateRequest struct {
	Expressions []string           `json:"expressions" validate:"required,min=1"`
	Variables   map[string]float64 `json:"variables"`
	XRange      *[2]float64        `json:"x_range"`
	NumPoints   int                `json:"num_points" validate:"omitempty,gte=10,lte=40000"`
}

// BatchResult is one item of a batch response. Failed expressions carry an
// error instead of data; they never fail the whole batch.
type BatchResult struct {
	Expression       string             `json:"expression"`
	GraphData        *grapher.GraphData `json:"graph_data,omitempty"`
	EvaluationTimeMs float64            `json:"evaluation_time_ms"`
	Error            string             `json:"error,omitempty"`
}

// BatchEvaluateResponse carries per-expression results.
type BatchEvaluateResponse struct {
	Results               []BatchResult `json:"results"`
	TotalExpressions      int           `json:"total_expressions"`
	TotalEvaluationTimeMs float64       `json:"total_evaluation_time_ms"`
}

// ParametricRequest evaluates the pair x(t), y(t).
type ParametricRequest struct {
	XExpression string             `json:"x_expression" validate:"required"`
	YExpression string             `json:"y_expression" validate:"required"`
	TRange      *[2]float64        `json:"t_range"`
	NumPoints   int                `json:"num_points" validate:"omitempty,gte=10,lte=40000"`
	Variables   map[string]float64 `json:"variables"`
}

// ParametricResponse carries the evaluated coordinate arrays.
type ParametricResponse struct {
	X                []float64 `json:"x"`
	Y                []float64 `json:"y"`
	EvaluationTimeMs float64   `json:"evaluation_time_ms"`
}

// ImplicitRequest solves a closed-form implicit equation.
type ImplicitRequest struct {
	Equation   string             `json:"equation" validate:"required"`
	XRange     *[2]float64        `json:"x_range"`
	Resolution int                `json:"resolution" validate:"omitempty,gte=2,lte=40000"`
	Variables  map[string]float64 `json:"variables"`
}

// ImplicitResponse carries the solved coordinates. Both arrays are empty when
// the equation matches no supported closed form.
type ImplicitResponse struct {
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
	Supported bool      `json:"supported"`
}

// SurfaceRequest evaluates z = f(x, y) over a grid.
type SurfaceRequest struct {
	Expression string             `json:"expression" validate:"required"`
	XRange     *[2]float64        `json:"x_range"`
	YRange     *[2]float64        `json:"y_range"`
	Resolution int                `json:"resolution" validate:"omitempty,gte=2,lte=200"`
	Variables  map[string]float64 `json:"variables"`
}

// SurfaceResponse carries axis samples and the row-major z grid.
type SurfaceResponse struct {
	X                []float64 `json:"x"`
	Y                []float64 `json:"y"`
	Z                []float64 `json:"z"`
	EvaluationTimeMs float64   `json:"evaluation_time_ms"`
}

// SaveExpressionRequest stores one named expression in the library.
type SaveExpressionRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Expression string `json:"expression" validate:"required"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func rangeOrDefault(r *[2]float64, def [2]float64) [2]float64 {
	if r == nil {
		return def
	}
	return *r
}

func countOrDefault(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}
