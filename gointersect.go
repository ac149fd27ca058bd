// Package gointersect locates the points where two real-valued functions of
// one variable are equal, by finding the roots of their difference.
//
// Design goals:
//   - Small embeddable numerical kernel, no global state
//   - Two complementary strategies: grid scan with bracketing, and
//     guess-based local convergence
//   - Explicit error returns, never panics on bad input
//   - Resilient to functions undefined at isolated points
//   - AI/LLM friendly: JSON tool-call API and MCP-ready schema
package gointersect

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/njchilds90/gointersect/expr"
)

// ============================================================
// Func — evaluable real function
// ============================================================

// Func is a real-valued function of one real variable. Eval returns an
// error when the function is undefined at x (log of a negative, division
// by zero, overflow). Implementations must be pure: same x, same result.
type Func interface {
	Eval(x float64) (float64, error)
}

type plainFunc func(float64) float64

func (f plainFunc) Eval(x float64) (float64, error) {
	y := f(x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &EvalError{X: x, Err: fmt.Errorf("result is %v", y)}
	}
	return y, nil
}

type errFunc func(float64) (float64, error)

func (f errFunc) Eval(x float64) (float64, error) {
	y, err := f(x)
	if err != nil {
		return 0, evalErr(x, err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &EvalError{X: x, Err: fmt.Errorf("result is %v", y)}
	}
	return y, nil
}

// FuncOf adapts a plain closure. NaN and ±Inf results are reported as
// evaluation errors, which is how math package functions signal a domain
// violation.
func FuncOf(f func(float64) float64) Func { return plainFunc(f) }

// FuncOfErr adapts a closure that reports its own evaluation failures.
func FuncOfErr(f func(float64) (float64, error)) Func { return errFunc(f) }

// ============================================================
// Errors
// ============================================================

var (
	// ErrInvalidDomain reports xmin >= xmax.
	ErrInvalidDomain = fmt.Errorf("gointersect: invalid domain")
	// ErrInvalidParameter reports a bad num_points or tolerance.
	ErrInvalidParameter = fmt.Errorf("gointersect: invalid parameter")
	// ErrNoConvergence reports a solver that ran out of iterations. It is
	// recovered per interval/guess and never escapes Scan or Converge.
	ErrNoConvergence = fmt.Errorf("gointersect: solver did not converge")
)

// EvalError reports that a wrapped function could not be evaluated at X.
type EvalError struct {
	X   float64
	Err error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("gointersect: cannot evaluate at x=%g: %v", e.X, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

func evalErr(x float64, cause error) error {
	var ee *EvalError
	if errors.As(cause, &ee) {
		return cause
	}
	return &EvalError{X: x, Err: cause}
}

// ============================================================
// Finder
// ============================================================

// DefaultTol is the tolerance used when a caller passes none.
const DefaultTol = 1e-6

const (
	maxBrentIter  = 100
	maxSecantIter = 50
)

// Intersection is a point where the two functions agree within tolerance.
type Intersection struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finder holds the two functions under comparison. A Finder is immutable
// after construction and safe for concurrent use when its functions are.
type Finder struct {
	f1, f2 Func
}

// New returns a Finder for the intersection points of f1 and f2.
func New(f1, f2 Func) *Finder { return &Finder{f1: f1, f2: f2} }

// diff is the difference function f1 - f2; its roots are intersections.
func (f *Finder) diff(x float64) (float64, error) {
	y1, err := f.f1.Eval(x)
	if err != nil {
		return 0, evalErr(x, err)
	}
	y2, err := f.f2.Eval(x)
	if err != nil {
		return 0, evalErr(x, err)
	}
	d := y1 - y2
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, &EvalError{X: x, Err: fmt.Errorf("difference is %v", d)}
	}
	return d, nil
}

// ============================================================
// Grid scan with bracketing
// ============================================================

// Scan samples the difference function at numPoints evenly spaced values
// over [xmin, xmax] and refines every sign change to a root with Brent's
// method. Points where a function is undefined are skipped, as is any
// bracket the solver fails on; only malformed inputs abort the call.
//
// An exact zero at a grid point is reported directly without refinement.
// Roots where the difference touches zero without crossing, or root pairs
// inside one grid cell, are missed; raise numPoints to improve recall.
// Results are deduplicated within tol and sorted by increasing x.
func (f *Finder) Scan(xmin, xmax float64, numPoints int, tol float64) ([]Intersection, error) {
	if !(xmin < xmax) {
		return nil, fmt.Errorf("%w: xmin (%g) must be less than xmax (%g)", ErrInvalidDomain, xmin, xmax)
	}
	if numPoints < 2 {
		return nil, fmt.Errorf("%w: num_points must be at least 2, got %d", ErrInvalidParameter, numPoints)
	}
	if !(tol > 0) {
		return nil, fmt.Errorf("%w: tol must be positive, got %g", ErrInvalidParameter, tol)
	}

	xs := make([]float64, numPoints)
	fs := make([]float64, numPoints)
	step := (xmax - xmin) / float64(numPoints-1)
	for i := range xs {
		x := xmin + float64(i)*step
		if i == numPoints-1 {
			x = xmax
		}
		xs[i] = x
		v, err := f.diff(x)
		if err != nil {
			v = math.NaN() // undefined at this point, not fatal
		}
		fs[i] = v
	}

	var found []Intersection
	for i := 0; i < numPoints-1; i++ {
		if math.IsNaN(fs[i]) || math.IsNaN(fs[i+1]) {
			continue
		}
		var xRoot float64
		switch {
		case fs[i] == 0:
			// Direct hit. An adjacent exact zero means a flat stretch of
			// the difference function (e.g. identical inputs), which has
			// no isolated root to report.
			if (i > 0 && fs[i-1] == 0) || fs[i+1] == 0 {
				continue
			}
			xRoot = xs[i]
		case fs[i]*fs[i+1] < 0:
			r, err := brent(f.diff, xs[i], xs[i+1], fs[i], fs[i+1], tol)
			if err != nil {
				continue // singularity disguised as a sign change
			}
			xRoot = r
		default:
			continue
		}
		found = f.appendRoot(found, xRoot, tol)
	}
	return found, nil
}

// ============================================================
// Guess-based convergence
// ============================================================

// Converge refines each initial guess to a root of the difference function
// with a secant iteration. A candidate is accepted only after verifying
// |f1(x) - f2(x)| < tol; a guess whose solve or verification fails
// contributes nothing and does not stop the remaining guesses. Results are
// deduplicated within tol and follow guess order.
func (f *Finder) Converge(guesses []float64, tol float64) ([]Intersection, error) {
	if !(tol > 0) {
		return nil, fmt.Errorf("%w: tol must be positive, got %g", ErrInvalidParameter, tol)
	}
	var found []Intersection
	for _, g := range guesses {
		x, err := secant(f.diff, g, tol)
		if err != nil {
			continue
		}
		d, err := f.diff(x)
		if err != nil || math.Abs(d) >= tol {
			continue // converged to a point that is not actually a root
		}
		found = f.appendRoot(found, x, tol)
	}
	return found, nil
}

// appendRoot applies the shared dedup policy (|xa-xb| < tol means the same
// root) and resolves y from f1. Dedup state lives only in the result slice
// of the current call.
func (f *Finder) appendRoot(found []Intersection, x, tol float64) []Intersection {
	for _, r := range found {
		if math.Abs(x-r.X) < tol {
			return found
		}
	}
	y, err := f.f1.Eval(x)
	if err != nil {
		return found
	}
	return append(found, Intersection{X: x, Y: y})
}

// ============================================================
// Solvers
// ============================================================

// brent narrows a sign-changing bracket [a, b] to a root. fa and fb are the
// already-computed endpoint values. This is the classic Brent zeroin:
// inverse quadratic interpolation where it helps, secant otherwise, and a
// bisection fallback, so convergence on a valid bracket is guaranteed. The
// iteration cap guards against pathological functions hanging the caller.
func brent(f func(float64) (float64, error), a, b, fa, fb, tol float64) (float64, error) {
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return 0, fmt.Errorf("%w: [%g, %g] is not a bracket", ErrNoConvergence, a, b)
	}

	c, fc := a, fa
	d := b - a
	e := d
	for i := 0; i < maxBrentIter; i++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		m := 0.5 * (c - b)
		tol1 := 2*machEps*math.Abs(b) + 0.5*tol
		if math.Abs(m) <= tol1 || fb == 0 {
			return b, nil
		}
		if math.Abs(e) < tol1 || math.Abs(fa) <= math.Abs(fb) {
			// interpolation is not shrinking fast enough, bisect
			d, e = m, m
		} else {
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * m * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*m*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			} else {
				p = -p
			}
			if 2*p < math.Min(3*m*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e, d = d, p/q
			} else {
				d, e = m, m
			}
		}
		a, fa = b, fb
		switch {
		case math.Abs(d) > tol1:
			b += d
		case m > 0:
			b += tol1
		default:
			b -= tol1
		}
		var err error
		fb, err = f(b)
		if err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("%w: bracket [%g, %g]", ErrNoConvergence, a, c)
}

var machEps = math.Nextafter(1, 2) - 1

// secant runs a derivative-free secant iteration from a single starting
// point. The second iterate is seeded by a small relative perturbation of
// x0. Unlike brent it carries no bracket, so it may wander or fail; callers
// must verify the result.
func secant(f func(float64) (float64, error), x0, tol float64) (float64, error) {
	f0, err := f(x0)
	if err != nil {
		return 0, err
	}
	if f0 == 0 {
		return x0, nil
	}

	const p = 1e-4
	x1 := x0 * (1 + p)
	if x0 >= 0 {
		x1 += p
	} else {
		x1 -= p
	}
	f1, err := f(x1)
	if err != nil {
		return 0, err
	}
	if f1 == 0 {
		return x1, nil
	}

	for i := 0; i < maxSecantIter; i++ {
		if f1 == f0 {
			return 0, fmt.Errorf("%w: flat secant at x=%g", ErrNoConvergence, x1)
		}
		x2 := x1 - f1*(x1-x0)/(f1-f0)
		if math.IsNaN(x2) || math.IsInf(x2, 0) {
			return 0, fmt.Errorf("%w: iterate diverged near x=%g", ErrNoConvergence, x1)
		}
		if math.Abs(x2-x1) < tol {
			return x2, nil
		}
		x0, f0 = x1, f1
		x1 = x2
		f1, err = f(x1)
		if err != nil {
			return 0, err
		}
		if f1 == 0 {
			return x1, nil
		}
	}
	return 0, fmt.Errorf("%w: secant from x0=%g", ErrNoConvergence, x0)
}

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HandleToolCall executes one JSON tool call. The two functions arrive as
// expression strings in the variable x ("x^10", "exp(x)") and are parsed
// with the expr package.
func HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		n, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return n, nil
	}
	getFinder := func() (*Finder, error) {
		s1, err := getString("f1")
		if err != nil {
			return nil, err
		}
		s2, err := getString("f2")
		if err != nil {
			return nil, err
		}
		fn1, err := expr.Parse(s1)
		if err != nil {
			return nil, fmt.Errorf("f1: %w", err)
		}
		fn2, err := expr.Parse(s2)
		if err != nil {
			return nil, fmt.Errorf("f2: %w", err)
		}
		return New(fn1, fn2), nil
	}
	tolParam := func() float64 {
		if t, ok := req.Params["tol"].(float64); ok && t > 0 {
			return t
		}
		return DefaultTol
	}

	switch req.Tool {
	case "scan":
		fd, err := getFinder()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		xmin, err := getNumber("xmin")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		xmax, err := getNumber("xmax")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		points := 1000
		if p, ok := req.Params["num_points"].(float64); ok {
			points = int(p)
		}
		found, err := fd.Scan(xmin, xmax, points, tolParam())
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respondIntersections(found)

	case "converge":
		fd, err := getFinder()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		raw, ok := req.Params["guesses"].([]interface{})
		if !ok {
			return ToolResponse{Error: "param guesses must be an array of numbers"}
		}
		guesses := make([]float64, len(raw))
		for i, r := range raw {
			g, ok := r.(float64)
			if !ok {
				return ToolResponse{Error: fmt.Sprintf("param guesses[%d] must be a number", i)}
			}
			guesses[i] = g
		}
		found, err := fd.Converge(guesses, tolParam())
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respondIntersections(found)

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func respondIntersections(found []Intersection) ToolResponse {
	if len(found) == 0 {
		return ToolResponse{Result: []Intersection{}, String: "no intersections found"}
	}
	parts := make([]string, len(found))
	for i, r := range found {
		parts[i] = "(" + strconv.FormatFloat(r.X, 'g', -1, 64) + ", " + strconv.FormatFloat(r.Y, 'g', -1, 64) + ")"
	}
	return ToolResponse{Result: found, String: strings.Join(parts, ", ")}
}

// ============================================================
// MCP spec
// ============================================================

func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("scan", "Scan [xmin, xmax] for points where f1(x) = f2(x). Optional: num_points (default 1000), tol",
			[]string{"f1", "f2", "xmin", "xmax"},
			map[string]string{"f1": "string", "f2": "string", "xmin": "number", "xmax": "number", "num_points": "integer", "tol": "number"}),
		ts("converge", "Refine each initial guess to a point where f1(x) = f2(x). Optional: tol",
			[]string{"f1", "f2", "guesses"},
			map[string]string{"f1": "string", "f2": "string", "guesses": "array", "tol": "number"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
