// Package expr parses single-variable math expressions like "x^10" or
// "exp(x) - 3*sin(x)" into evaluable functions of x. It exists so callers
// that receive functions as text (CLI flags, tool calls) can hand them to
// the intersection kernel, which only needs Eval(x) (float64, error).
package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Function is a parsed, evaluable function of one variable.
type Function struct {
	root node
	src  string
}

// Parse compiles src into a Function. The grammar covers numbers, the
// variable x, + - * / ^ with the usual precedence, unary minus,
// parentheses, the constants pi and e, and the calls sin, cos, tan, sqrt,
// exp, ln, log and abs.
func Parse(src string) (*Function, error) {
	p := &parser{src: src}
	p.next()
	root, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF || p.tok.text != "" {
		return nil, fmt.Errorf("expr: unexpected %q at offset %d", p.tok.text, p.tok.pos)
	}
	return &Function{root: root, src: src}, nil
}

// MustParse is Parse for expressions known to be valid; it panics on error.
func MustParse(src string) *Function {
	f, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return f
}

// Eval evaluates the function at x. A NaN or infinite result is reported
// as an error: that is how division by zero, ln of a non-positive value or
// an overflow surface here.
func (f *Function) Eval(x float64) (float64, error) {
	y := f.root.eval(x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("expr: %q is undefined at x=%g", f.src, x)
	}
	return y, nil
}

func (f *Function) String() string { return f.src }

// ============================================================
// Evaluation tree
// ============================================================

type node interface {
	eval(x float64) float64
}

type numNode float64

func (n numNode) eval(float64) float64 { return float64(n) }

type varNode struct{}

func (varNode) eval(x float64) float64 { return x }

type negNode struct{ arg node }

func (n negNode) eval(x float64) float64 { return -n.arg.eval(x) }

type binNode struct {
	op   byte
	l, r node
}

func (n binNode) eval(x float64) float64 {
	l, r := n.l.eval(x), n.r.eval(x)
	switch n.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	}
	return math.Pow(l, r)
}

type callNode struct {
	fn  func(float64) float64
	arg node
}

func (n callNode) eval(x float64) float64 { return n.fn(n.arg.eval(x)) }

var calls = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"sqrt": math.Sqrt,
	"exp":  math.Exp,
	"ln":   math.Log,
	"log":  math.Log10,
	"abs":  math.Abs,
}

var consts = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// ============================================================
// Tokenizer
// ============================================================

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp // one of + - * / ^ ( )
)

type token struct {
	kind tokKind
	text string
	pos  int
	val  float64
}

type parser struct {
	src string
	off int
	tok token
}

func (p *parser) next() {
	for p.off < len(p.src) && (p.src[p.off] == ' ' || p.src[p.off] == '\t') {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.src[p.off]
	switch {
	case strings.IndexByte("+-*/^()", c) >= 0:
		p.off++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	case c >= '0' && c <= '9' || c == '.':
		for p.off < len(p.src) && (p.src[p.off] >= '0' && p.src[p.off] <= '9' || p.src[p.off] == '.') {
			p.off++
		}
		text := p.src[start:p.off]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.tok = token{kind: tokEOF, text: text, pos: start, val: math.NaN()}
			return
		}
		p.tok = token{kind: tokNum, text: text, pos: start, val: v}
	case unicode.IsLetter(rune(c)):
		for p.off < len(p.src) && (unicode.IsLetter(rune(p.src[p.off])) || unicode.IsDigit(rune(p.src[p.off]))) {
			p.off++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.off], pos: start}
	default:
		p.tok = token{kind: tokEOF, text: string(c), pos: start, val: math.NaN()}
	}
}

// ============================================================
// Recursive-descent parser
// ============================================================

func (p *parser) parseSum() (node, error) {
	l, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text[0]
		p.next()
		r, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		l = binNode{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseProduct() (node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "*" || p.tok.text == "/") {
		op := p.tok.text[0]
		p.next()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = binNode{op: op, l: l, r: r}
	}
	return l, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.tok.kind == tokOp && p.tok.text == "-" {
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negNode{arg: arg}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokOp && p.tok.text == "^" {
		p.next()
		// right-associative: x^2^3 is x^(2^3)
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binNode{op: '^', l: base, r: exp}, nil
	}
	return base, nil
}

func (p *parser) parseAtom() (node, error) {
	tok := p.tok
	switch tok.kind {
	case tokNum:
		p.next()
		return numNode(tok.val), nil

	case tokIdent:
		p.next()
		if tok.text == "x" {
			return varNode{}, nil
		}
		if v, ok := consts[tok.text]; ok {
			return numNode(v), nil
		}
		fn, ok := calls[tok.text]
		if !ok {
			return nil, fmt.Errorf("expr: unknown identifier %q at offset %d", tok.text, tok.pos)
		}
		if !(p.tok.kind == tokOp && p.tok.text == "(") {
			return nil, fmt.Errorf("expr: %s requires arguments, e.g. %s(x)", tok.text, tok.text)
		}
		p.next()
		arg, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if !(p.tok.kind == tokOp && p.tok.text == ")") {
			return nil, fmt.Errorf("expr: missing ) for %s at offset %d", tok.text, p.tok.pos)
		}
		p.next()
		return callNode{fn: fn, arg: arg}, nil

	case tokOp:
		if tok.text == "(" {
			p.next()
			inner, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if !(p.tok.kind == tokOp && p.tok.text == ")") {
				return nil, fmt.Errorf("expr: missing ) at offset %d", p.tok.pos)
			}
			p.next()
			return inner, nil
		}
	}
	if tok.text == "" {
		return nil, fmt.Errorf("expr: unexpected end of expression")
	}
	return nil, fmt.Errorf("expr: unexpected %q at offset %d", tok.text, tok.pos)
}
