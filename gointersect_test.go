package gointersect_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	gointersect "github.com/njchilds90/gointersect"
)

func line() gointersect.Func { return gointersect.FuncOf(func(x float64) float64 { return x }) }

func zero() gointersect.Func { return gointersect.FuncOf(func(float64) float64 { return 0 }) }

// ============================================================
// Func adapter tests
// ============================================================

func TestFuncOf_NaNIsEvalError(t *testing.T) {
	f := gointersect.FuncOf(math.Sqrt)
	_, err := f.Eval(-1)
	var ee *gointersect.EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("want *EvalError for sqrt(-1), got %v", err)
	}
	if ee.X != -1 {
		t.Errorf("want X=-1 in EvalError, got %g", ee.X)
	}
}

func TestFuncOf_InfIsEvalError(t *testing.T) {
	f := gointersect.FuncOf(func(x float64) float64 { return 1 / x })
	if _, err := f.Eval(0); err == nil {
		t.Error("want error for 1/0, got nil")
	}
}

func TestFuncOfErr_WrapsCause(t *testing.T) {
	cause := errors.New("out of range")
	f := gointersect.FuncOfErr(func(x float64) (float64, error) { return 0, cause })
	_, err := f.Eval(2.5)
	var ee *gointersect.EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("want *EvalError, got %v", err)
	}
	if ee.X != 2.5 || !errors.Is(err, cause) {
		t.Errorf("want X=2.5 wrapping cause, got X=%g err=%v", ee.X, ee.Err)
	}
}

// ============================================================
// Scan input validation
// ============================================================

func TestScan_InvalidDomain(t *testing.T) {
	fd := gointersect.New(line(), zero())
	_, err := fd.Scan(10, -10, 100, gointersect.DefaultTol)
	if !errors.Is(err, gointersect.ErrInvalidDomain) {
		t.Fatalf("want ErrInvalidDomain, got %v", err)
	}
}

func TestScan_EqualEndpoints(t *testing.T) {
	fd := gointersect.New(line(), zero())
	if _, err := fd.Scan(3, 3, 100, gointersect.DefaultTol); !errors.Is(err, gointersect.ErrInvalidDomain) {
		t.Fatalf("want ErrInvalidDomain for xmin == xmax, got %v", err)
	}
}

func TestScan_TooFewPoints(t *testing.T) {
	fd := gointersect.New(line(), zero())
	if _, err := fd.Scan(-1, 1, 1, gointersect.DefaultTol); !errors.Is(err, gointersect.ErrInvalidParameter) {
		t.Fatalf("want ErrInvalidParameter for num_points=1, got %v", err)
	}
}

func TestScan_BadTol(t *testing.T) {
	fd := gointersect.New(line(), zero())
	if _, err := fd.Scan(-1, 1, 100, 0); !errors.Is(err, gointersect.ErrInvalidParameter) {
		t.Fatalf("want ErrInvalidParameter for tol=0, got %v", err)
	}
}

func TestConverge_BadTol(t *testing.T) {
	fd := gointersect.New(line(), zero())
	if _, err := fd.Converge([]float64{1}, -1); !errors.Is(err, gointersect.ErrInvalidParameter) {
		t.Fatalf("want ErrInvalidParameter for tol<0, got %v", err)
	}
}

// ============================================================
// Scan behavior
// ============================================================

func TestScan_LineCrossesZeroOnce(t *testing.T) {
	fd := gointersect.New(line(), zero())
	found, err := fd.Scan(-10, 10, 1000, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("want 1 intersection, got %d: %v", len(found), found)
	}
	if math.Abs(found[0].X) > 1e-5 || math.Abs(found[0].Y) > 1e-5 {
		t.Errorf("want root near (0, 0), got (%g, %g)", found[0].X, found[0].Y)
	}
}

func TestScan_PowerVersusExp(t *testing.T) {
	f1 := gointersect.FuncOf(func(x float64) float64 { return math.Pow(x, 10) })
	f2 := gointersect.FuncOf(math.Exp)
	found, err := gointersect.New(f1, f2).Scan(0, 2, 1000, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("want 1 intersection, got %d: %v", len(found), found)
	}
	x, y := found[0].X, found[0].Y
	if x < 1.1 || x > 1.13 {
		t.Errorf("want root near 1.118, got %g", x)
	}
	if math.Abs(math.Pow(x, 10)-math.Exp(x)) >= gointersect.DefaultTol {
		t.Errorf("returned x is not a root within tol: residual %g", math.Pow(x, 10)-math.Exp(x))
	}
	if math.Abs(y-math.Exp(x)) >= gointersect.DefaultTol {
		t.Errorf("y should match both sides, got y=%g exp(x)=%g", y, math.Exp(x))
	}
}

func TestScan_SineRootsSortedAndDistinct(t *testing.T) {
	fd := gointersect.New(gointersect.FuncOf(math.Sin), zero())
	found, err := fd.Scan(-10, 10, 1000, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// sin crosses zero at k*pi for k in -3..3
	if len(found) != 7 {
		t.Fatalf("want 7 roots of sin on [-10, 10], got %d", len(found))
	}
	for i, r := range found {
		if math.Abs(math.Sin(r.X)) >= gointersect.DefaultTol {
			t.Errorf("root %d: |sin(%g)| = %g, not within tol", i, r.X, math.Abs(math.Sin(r.X)))
		}
		if i == 0 {
			continue
		}
		if found[i-1].X >= r.X {
			t.Errorf("results not sorted: x[%d]=%g >= x[%d]=%g", i-1, found[i-1].X, i, r.X)
		}
		if math.Abs(r.X-found[i-1].X) < gointersect.DefaultTol {
			t.Errorf("dedup violated between %g and %g", found[i-1].X, r.X)
		}
	}
}

func TestScan_Idempotent(t *testing.T) {
	fd := gointersect.New(gointersect.FuncOf(math.Sin), zero())
	first, err := fd.Scan(-10, 10, 500, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := fd.Scan(-10, 10, 500, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("scan is not idempotent (-first +second):\n%s", diff)
	}
}

func TestScan_TwoPoints(t *testing.T) {
	fd := gointersect.New(line(), zero())
	found, err := fd.Scan(-1, 2, 2, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("num_points=2 must not fail: %v", err)
	}
	if len(found) != 1 || math.Abs(found[0].X) > 1e-5 {
		t.Errorf("want single root near 0, got %v", found)
	}
}

func TestScan_NearZeroWidthDomain(t *testing.T) {
	fd := gointersect.New(line(), zero())
	// must terminate, whatever it reports
	if _, err := fd.Scan(0, 1e-9, 100, gointersect.DefaultTol); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScan_DirectHitOnGridPoint(t *testing.T) {
	fd := gointersect.New(line(), zero())
	// grid is exactly [-1, 0, 1], so the root lands on a sample
	found, err := fd.Scan(-1, 1, 3, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 || found[0].X != 0 || found[0].Y != 0 {
		t.Errorf("want direct hit (0, 0), got %v", found)
	}
}

func TestScan_UndefinedPointsAreSkipped(t *testing.T) {
	// ln(x) is undefined for x <= 0; the scan must survive and still find
	// ln(x) = -1/2 at x = exp(-1/2)
	f1 := gointersect.FuncOf(math.Log)
	f2 := gointersect.FuncOf(func(float64) float64 { return -0.5 })
	found, err := gointersect.New(f1, f2).Scan(-1, 1, 1000, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("want 1 intersection, got %d: %v", len(found), found)
	}
	want := math.Exp(-0.5)
	if math.Abs(found[0].X-want) > 1e-5 {
		t.Errorf("want root near %g, got %g", want, found[0].X)
	}
}

func TestScan_IdenticalFunctions(t *testing.T) {
	f := gointersect.FuncOf(func(x float64) float64 { return x*x - 3 })
	found, err := gointersect.New(f, f).Scan(-5, 5, 200, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("identical functions must not fail the scan: %v", err)
	}
	// identically zero difference has no sign change and no isolated zero
	if len(found) != 0 {
		t.Errorf("want no intersections for identical functions, got %v", found)
	}
}

// ============================================================
// Converge behavior
// ============================================================

func TestConverge_CubeVersusPowerOfThree(t *testing.T) {
	f1 := gointersect.FuncOf(func(x float64) float64 { return x * x * x })
	f2 := gointersect.FuncOf(func(x float64) float64 { return math.Pow(3, x) })
	found, err := gointersect.New(f1, f2).Converge([]float64{2, 2.5, 3, 4, 5}, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("want 2 distinct intersections, got %d: %v", len(found), found)
	}
	if math.Abs(found[0].X-2.478) > 1e-2 {
		t.Errorf("want first root near 2.478, got %g", found[0].X)
	}
	if math.Abs(found[1].X-3) > 1e-3 {
		t.Errorf("want second root near 3, got %g", found[1].X)
	}
	for _, r := range found {
		if math.Abs(r.X*r.X*r.X-math.Pow(3, r.X)) >= gointersect.DefaultTol {
			t.Errorf("x=%g does not verify within tol", r.X)
		}
	}
}

func TestConverge_IdenticalFunctions(t *testing.T) {
	f := gointersect.FuncOf(func(x float64) float64 { return math.Cos(x) + 2 })
	found, err := gointersect.New(f, f).Converge([]float64{1.23}, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the difference is identically zero, so the guess itself verifies —
	// deliberately different from scan on the same degenerate input
	if len(found) != 1 || found[0].X != 1.23 {
		t.Fatalf("want the guess back as a trivial root, got %v", found)
	}
}

func TestConverge_FailedGuessIsSkipped(t *testing.T) {
	f1 := gointersect.FuncOf(math.Log)
	f2 := zero()
	// first guess evaluates in ln's domain hole, second finds ln(x)=0 at 1
	found, err := gointersect.New(f1, f2).Converge([]float64{-5, 2}, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 || math.Abs(found[0].X-1) > 1e-5 {
		t.Errorf("want only the root at x=1, got %v", found)
	}
}

func TestConverge_NoGuesses(t *testing.T) {
	found, err := gointersect.New(line(), zero()).Converge(nil, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("want empty result, got %v", found)
	}
}

func TestConverge_DuplicateGuessesCollapse(t *testing.T) {
	fd := gointersect.New(line(), zero())
	found, err := fd.Converge([]float64{0.1, -0.1, 0.05}, gointersect.DefaultTol)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []gointersect.Intersection{{X: 0, Y: 0}}
	if diff := cmp.Diff(want, found, cmpopts.EquateApprox(0, 1e-5)); diff != "" {
		t.Errorf("duplicate guesses should collapse to one root (-want +got):\n%s", diff)
	}
}

// ============================================================
// MCP tool call tests
// ============================================================

func TestHandleToolCall_Scan(t *testing.T) {
	resp := gointersect.HandleToolCall(gointersect.ToolRequest{
		Tool: "scan",
		Params: map[string]interface{}{
			"f1": "x", "f2": "0",
			"xmin": -10.0, "xmax": 10.0,
		},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	found, ok := resp.Result.([]gointersect.Intersection)
	if !ok {
		t.Fatalf("expected []Intersection result, got %T", resp.Result)
	}
	if len(found) != 1 || math.Abs(found[0].X) > 1e-5 {
		t.Errorf("want one root near 0, got %v", found)
	}
}

func TestHandleToolCall_Converge(t *testing.T) {
	resp := gointersect.HandleToolCall(gointersect.ToolRequest{
		Tool: "converge",
		Params: map[string]interface{}{
			"f1": "x^3", "f2": "3^x",
			"guesses": []interface{}{2.0, 3.0},
		},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	found, ok := resp.Result.([]gointersect.Intersection)
	if !ok {
		t.Fatalf("expected []Intersection result, got %T", resp.Result)
	}
	if len(found) != 2 {
		t.Errorf("want 2 roots, got %v", found)
	}
}

func TestHandleToolCall_BadExpression(t *testing.T) {
	resp := gointersect.HandleToolCall(gointersect.ToolRequest{
		Tool:   "scan",
		Params: map[string]interface{}{"f1": "x +", "f2": "0", "xmin": 0.0, "xmax": 1.0},
	})
	if resp.Error == "" {
		t.Error("expected error for malformed f1")
	}
}

func TestHandleToolCall_InvalidDomain(t *testing.T) {
	resp := gointersect.HandleToolCall(gointersect.ToolRequest{
		Tool:   "scan",
		Params: map[string]interface{}{"f1": "x", "f2": "0", "xmin": 5.0, "xmax": -5.0},
	})
	if resp.Error == "" {
		t.Error("expected error for xmin >= xmax")
	}
}

func TestHandleToolCall_NoIntersections(t *testing.T) {
	resp := gointersect.HandleToolCall(gointersect.ToolRequest{
		Tool:   "scan",
		Params: map[string]interface{}{"f1": "x^2 + 1", "f2": "0", "xmin": -3.0, "xmax": 3.0},
	})
	if resp.Error != "" {
		t.Fatalf("empty result is not an error, got: %s", resp.Error)
	}
	if resp.String != "no intersections found" {
		t.Errorf("want 'no intersections found', got %q", resp.String)
	}
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	resp := gointersect.HandleToolCall(gointersect.ToolRequest{Tool: "nonexistent"})
	if resp.Error == "" {
		t.Error("expected error for unknown tool")
	}
}

func TestMCPToolSpec(t *testing.T) {
	spec := gointersect.MCPToolSpec()
	if !strings.Contains(spec, "scan") || !strings.Contains(spec, "converge") {
		t.Error("MCP spec should list scan and converge")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(spec), &m); err != nil {
		t.Errorf("MCP spec should be valid JSON: %v", err)
	}
}
