// expr.go — expression parsing and evaluation (public API + implementation)
//
// OVERVIEW
// --------
// Statement nodes carry their expressions as raw text; this file resolves
// such a text plus an env into a Value. There is no host evaluator anywhere:
// the text is scanned (lexer.go), parsed by a small Pratt parser into a
// private expression tree, and walked against the env chain.
//
// Resolution order of EvalExpr, each step independent:
//  1. Literal parse — integers, floats, quoted strings, case-insensitive
//     true/false, none, and list/map/tuple displays built purely from
//     literals. Succeeds without touching the env. `ask` input goes through
//     the same step, so `42` typed at a prompt becomes an integer.
//  2. General evaluation — arithmetic (+ - * / // % **), comparisons,
//     and/or/not (or && || !), concatenation via +, indexing, module
//     attribute access, and calls to anything reachable through the env
//     chain, the builtin allowlist, or the function registry.
//  3. Bare-identifier fallback — a direct env lookup before giving up.
//
// Failures surface as *EvaluationError carrying the original text and the
// underlying cause; undefined names, arity and type mismatches keep their
// own taxonomy types.
//
// Operator semantics follow the original language: `/` always yields a
// float, `//` floors, `%` is floor-modulo, `**` stays integral for
// non-negative integer exponents, and `and`/`or` short-circuit yielding the
// deciding operand. Tuples evaluate to lists; the distinction is purely
// syntactic.
package bloa

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// EvalExpr resolves expression text against env, applying the three-step
// strategy described in the file header.
func (ip *Interpreter) EvalExpr(text string, env *Env) (Value, error) {
	text = strings.TrimSpace(text)

	// 1. Pure literal: no env needed.
	if v, ok := ParseLiteral(text); ok {
		return v, nil
	}

	// 2. General expression evaluation.
	e, perr := parseExprText(text)
	if perr == nil {
		v, err := ip.evalNode(e, env)
		if err == nil {
			return v, nil
		}
		return None, decorateEvalFailure(text, err)
	}

	// 3. Bare-identifier fallback.
	if isIdentifier(text) {
		if v, err := env.Get(text); err == nil {
			return v, nil
		}
	}
	return None, &EvaluationError{Expr: text, Cause: perr}
}

// ParseLiteral parses text that is built purely from literal forms: numbers
// (optionally signed), quoted strings, true/false (case-insensitive), none,
// and list/map/tuple displays whose parts are themselves literals. The env
// is never consulted. The second result reports success.
func ParseLiteral(text string) (Value, bool) {
	e, err := parseExprText(strings.TrimSpace(text))
	if err != nil || !isLiteralTree(e) {
		return None, false
	}
	v, err := (*Interpreter)(nil).evalNode(e, nil)
	if err != nil {
		return None, false
	}
	return v, true
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: expression tree
   =========================== */

type exprNode interface{ exprNode() }

type litExpr struct{ v Value }
type nameExpr struct{ name string }
type listExpr struct{ elems []exprNode }
type tupleExpr struct{ elems []exprNode }
type mapExpr struct{ keys, vals []exprNode }
type unaryExpr struct {
	op TokenType
	x  exprNode
}
type binaryExpr struct {
	op   TokenType
	l, r exprNode
}
type indexExpr struct{ x, idx exprNode }
type attrExpr struct {
	x    exprNode
	name string
}
type callExpr struct {
	callee exprNode
	args   []exprNode
}

func (litExpr) exprNode()    {}
func (nameExpr) exprNode()   {}
func (listExpr) exprNode()   {}
func (tupleExpr) exprNode()  {}
func (mapExpr) exprNode()    {}
func (unaryExpr) exprNode()  {}
func (binaryExpr) exprNode() {}
func (indexExpr) exprNode()  {}
func (attrExpr) exprNode()   {}
func (callExpr) exprNode()   {}

// isLiteralTree reports whether e uses only literal forms (numbers with an
// optional sign, strings, booleans, none, and containers of the same).
func isLiteralTree(e exprNode) bool {
	switch n := e.(type) {
	case litExpr:
		return true
	case unaryExpr:
		if n.op != MINUS && n.op != PLUS {
			return false
		}
		lit, ok := n.x.(litExpr)
		return ok && (lit.v.Tag == VTInt || lit.v.Tag == VTNum)
	case listExpr:
		for _, el := range n.elems {
			if !isLiteralTree(el) {
				return false
			}
		}
		return true
	case tupleExpr:
		for _, el := range n.elems {
			if !isLiteralTree(el) {
				return false
			}
		}
		return true
	case mapExpr:
		for i := range n.keys {
			if !isLiteralTree(n.keys[i]) || !isLiteralTree(n.vals[i]) {
				return false
			}
		}
		return true
	}
	return false
}

/* ===========================
   PRIVATE: Pratt parser
   =========================== */

type exprParser struct {
	toks []Token
	i    int
}

func parseExprText(text string) (exprNode, error) {
	if text == "" {
		return nil, fmt.Errorf("empty expression")
	}
	toks, err := NewLexer(text).ScanAll()
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != EOF {
		return nil, fmt.Errorf("unexpected %q after expression", p.peek().Lexeme)
	}
	return e, nil
}

func (p *exprParser) peek() Token { return p.toks[p.i] }

func (p *exprParser) next() Token {
	t := p.toks[p.i]
	if t.Type != EOF {
		p.i++
	}
	return t
}

func (p *exprParser) expect(tt TokenType, what string) (Token, error) {
	t := p.peek()
	if t.Type != tt {
		return t, fmt.Errorf("expected %s, found %q", what, t.Lexeme)
	}
	return p.next(), nil
}

// lbp: left binding power per operator. Postfix call/index/attr bind tightest.
func lbp(t TokenType) (int, bool) {
	switch t {
	case OR:
		return 10, true
	case AND:
		return 20, true
	case EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ:
		return 30, true
	case PLUS, MINUS:
		return 40, true
	case STAR, SLASH, FLOORDIV, PERCENT:
		return 50, true
	case POW:
		return 70, true
	case LROUND, LSQUARE, PERIOD:
		return 80, true
	}
	return 0, false
}

func isRightAssoc(tt TokenType) bool { return tt == POW }

func (p *exprParser) parseExpr(minBP int) (exprNode, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		bp, ok := lbp(t.Type)
		if !ok || bp <= minBP {
			return left, nil
		}
		p.next()
		switch t.Type {
		case LROUND: // call
			args, err := p.parseCommaList(RROUND, "')'")
			if err != nil {
				return nil, err
			}
			left = callExpr{callee: left, args: args}
		case LSQUARE: // index
			idx, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RSQUARE, "']'"); err != nil {
				return nil, err
			}
			left = indexExpr{x: left, idx: idx}
		case PERIOD: // attribute
			id, err := p.expect(ID, "attribute name")
			if err != nil {
				return nil, err
			}
			left = attrExpr{x: left, name: id.Literal.(string)}
		default: // binary operator
			rbp := bp
			if isRightAssoc(t.Type) {
				rbp = bp - 1
			}
			right, err := p.parseExpr(rbp)
			if err != nil {
				return nil, err
			}
			left = binaryExpr{op: t.Type, l: left, r: right}
		}
	}
}

func (p *exprParser) parsePrefix() (exprNode, error) {
	t := p.next()
	switch t.Type {
	case INTEGER:
		return litExpr{v: Int(t.Literal.(int64))}, nil
	case NUMBER:
		return litExpr{v: Num(t.Literal.(float64))}, nil
	case STRING:
		return litExpr{v: Str(t.Literal.(string))}, nil
	case BOOLEAN:
		return litExpr{v: Bool(t.Literal.(bool))}, nil
	case NONE:
		return litExpr{v: None}, nil
	case ID:
		return nameExpr{name: t.Literal.(string)}, nil
	case MINUS, PLUS:
		// Unary sign binds tighter than * but looser than ** so that
		// -2 ** 2 == -(2 ** 2), matching the original.
		x, err := p.parseExpr(60)
		if err != nil {
			return nil, err
		}
		return unaryExpr{op: t.Type, x: x}, nil
	case NOT:
		x, err := p.parseExpr(25)
		if err != nil {
			return nil, err
		}
		return unaryExpr{op: NOT, x: x}, nil
	case LROUND:
		return p.parseParen()
	case LSQUARE:
		elems, err := p.parseCommaList(RSQUARE, "']'")
		if err != nil {
			return nil, err
		}
		return listExpr{elems: elems}, nil
	case LCURLY:
		return p.parseMap()
	case EOF:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q", t.Lexeme)
	}
}

// parseParen handles grouping `(e)`, the empty tuple `()`, and tuple
// displays `(a, b)` / `(a,)`.
func (p *exprParser) parseParen() (exprNode, error) {
	if p.peek().Type == RROUND {
		p.next()
		return tupleExpr{}, nil
	}
	first, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.peek().Type != COMMA {
		_, err := p.expect(RROUND, "')'")
		return first, err
	}
	elems := []exprNode{first}
	for p.peek().Type == COMMA {
		p.next()
		if p.peek().Type == RROUND {
			break // trailing comma
		}
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(RROUND, "')'"); err != nil {
		return nil, err
	}
	return tupleExpr{elems: elems}, nil
}

func (p *exprParser) parseCommaList(closer TokenType, closerName string) ([]exprNode, error) {
	var elems []exprNode
	if p.peek().Type == closer {
		p.next()
		return elems, nil
	}
	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.peek().Type == COMMA {
			p.next()
			if p.peek().Type == closer { // trailing comma
				break
			}
			continue
		}
		break
	}
	if _, err := p.expect(closer, closerName); err != nil {
		return nil, err
	}
	return elems, nil
}

func (p *exprParser) parseMap() (exprNode, error) {
	var keys, vals []exprNode
	for p.peek().Type != RCURLY {
		k, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON, "':'"); err != nil {
			return nil, err
		}
		v, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		vals = append(vals, v)
		if p.peek().Type == COMMA {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(RCURLY, "'}'"); err != nil {
		return nil, err
	}
	return mapExpr{keys: keys, vals: vals}, nil
}

/* ===========================
   PRIVATE: evaluation
   =========================== */

// evalNode walks the expression tree against env. It is defined with a
// possibly-nil receiver so ParseLiteral can fold literal trees without an
// interpreter; any path that needs interpreter state checks ip first.
func (ip *Interpreter) evalNode(e exprNode, env *Env) (Value, error) {
	switch n := e.(type) {
	case litExpr:
		return n.v, nil

	case nameExpr:
		if env == nil {
			return None, &UndefinedNameError{Name: n.name}
		}
		if v, err := env.Get(n.name); err == nil {
			return v, nil
		}
		if ip != nil {
			if f, ok := ip.funcs[n.name]; ok {
				return FunVal(f), nil
			}
		}
		return None, &UndefinedNameError{Name: n.name}

	case listExpr:
		elems, err := ip.evalAll(n.elems, env)
		if err != nil {
			return None, err
		}
		return List(elems), nil

	case tupleExpr:
		elems, err := ip.evalAll(n.elems, env)
		if err != nil {
			return None, err
		}
		return List(elems), nil

	case mapExpr:
		mo := NewMapObject()
		for i := range n.keys {
			k, err := ip.evalNode(n.keys[i], env)
			if err != nil {
				return None, err
			}
			v, err := ip.evalNode(n.vals[i], env)
			if err != nil {
				return None, err
			}
			mo.Set(k, v)
		}
		return MapVal(mo), nil

	case unaryExpr:
		return ip.evalUnary(n, env)

	case binaryExpr:
		return ip.evalBinary(n, env)

	case indexExpr:
		return ip.evalIndex(n, env)

	case attrExpr:
		base, err := ip.evalNode(n.x, env)
		if err != nil {
			return None, err
		}
		if base.Tag != VTModule {
			return None, &TypeMismatchError{Msg: fmt.Sprintf("cannot access attribute %q on %s", n.name, tagName(base.Tag))}
		}
		v, ok := base.Data.(*Module).Get(n.name)
		if !ok {
			return None, &UndefinedNameError{Name: n.name}
		}
		return v, nil

	case callExpr:
		return ip.evalCall(n, env)
	}
	return None, fmt.Errorf("internal: unknown expression node %T", e)
}

func (ip *Interpreter) evalAll(es []exprNode, env *Env) ([]Value, error) {
	out := make([]Value, 0, len(es))
	for _, e := range es {
		v, err := ip.evalNode(e, env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (ip *Interpreter) evalUnary(n unaryExpr, env *Env) (Value, error) {
	x, err := ip.evalNode(n.x, env)
	if err != nil {
		return None, err
	}
	switch n.op {
	case MINUS:
		switch x.Tag {
		case VTInt:
			return Int(-x.Data.(int64)), nil
		case VTNum:
			return Num(-x.Data.(float64)), nil
		}
		return None, &TypeMismatchError{Msg: fmt.Sprintf("cannot negate %s", tagName(x.Tag))}
	case PLUS:
		if x.Tag == VTInt || x.Tag == VTNum {
			return x, nil
		}
		return None, &TypeMismatchError{Msg: fmt.Sprintf("unary '+' needs a number, got %s", tagName(x.Tag))}
	case NOT:
		return Bool(!Truthy(x)), nil
	}
	return None, fmt.Errorf("internal: unknown unary operator")
}

func (ip *Interpreter) evalBinary(n binaryExpr, env *Env) (Value, error) {
	// Short-circuit combinators yield the deciding operand.
	if n.op == AND || n.op == OR {
		l, err := ip.evalNode(n.l, env)
		if err != nil {
			return None, err
		}
		if n.op == AND && !Truthy(l) {
			return l, nil
		}
		if n.op == OR && Truthy(l) {
			return l, nil
		}
		return ip.evalNode(n.r, env)
	}

	l, err := ip.evalNode(n.l, env)
	if err != nil {
		return None, err
	}
	r, err := ip.evalNode(n.r, env)
	if err != nil {
		return None, err
	}

	switch n.op {
	case EQ:
		return Bool(Equal(l, r)), nil
	case NEQ:
		return Bool(!Equal(l, r)), nil
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		return compareOrdered(n.op, l, r)
	default:
		return arith(n.op, l, r)
	}
}

func compareOrdered(op TokenType, l, r Value) (Value, error) {
	if ln, ok := asNum(l); ok {
		if rn, ok := asNum(r); ok {
			return Bool(cmpFloat(op, ln, rn)), nil
		}
	}
	if l.Tag == VTStr && r.Tag == VTStr {
		return Bool(cmpString(op, l.Data.(string), r.Data.(string))), nil
	}
	return None, &TypeMismatchError{Msg: fmt.Sprintf("cannot order %s and %s", tagName(l.Tag), tagName(r.Tag))}
}

func cmpFloat(op TokenType, a, b float64) bool {
	switch op {
	case LESS:
		return a < b
	case LESS_EQ:
		return a <= b
	case GREATER:
		return a > b
	default:
		return a >= b
	}
}

func cmpString(op TokenType, a, b string) bool {
	switch op {
	case LESS:
		return a < b
	case LESS_EQ:
		return a <= b
	case GREATER:
		return a > b
	default:
		return a >= b
	}
}

// arith implements + - * / // % ** over the numeric tower plus the
// concatenation and repetition overloads of + and *.
func arith(op TokenType, l, r Value) (Value, error) {
	switch op {
	case PLUS:
		if l.Tag == VTStr && r.Tag == VTStr {
			return Str(l.Data.(string) + r.Data.(string)), nil
		}
		if l.Tag == VTList && r.Tag == VTList {
			le, re := l.Data.(*ListObject).Elems, r.Data.(*ListObject).Elems
			out := make([]Value, 0, len(le)+len(re))
			out = append(out, le...)
			out = append(out, re...)
			return List(out), nil
		}
	case STAR:
		if l.Tag == VTStr && r.Tag == VTInt {
			return Str(strings.Repeat(l.Data.(string), clampNonNeg(r.Data.(int64)))), nil
		}
		if l.Tag == VTInt && r.Tag == VTStr {
			return Str(strings.Repeat(r.Data.(string), clampNonNeg(l.Data.(int64)))), nil
		}
	}

	if l.Tag == VTInt && r.Tag == VTInt {
		return intArith(op, l.Data.(int64), r.Data.(int64))
	}
	ln, lok := asNum(l)
	rn, rok := asNum(r)
	if !lok || !rok {
		return None, &TypeMismatchError{Msg: fmt.Sprintf(
			"unsupported operand types for %s: %s and %s", opName(op), tagName(l.Tag), tagName(r.Tag))}
	}
	return floatArith(op, ln, rn)
}

func intArith(op TokenType, a, b int64) (Value, error) {
	switch op {
	case PLUS:
		return Int(a + b), nil
	case MINUS:
		return Int(a - b), nil
	case STAR:
		return Int(a * b), nil
	case SLASH:
		if b == 0 {
			return None, fmt.Errorf("division by zero")
		}
		return Num(float64(a) / float64(b)), nil
	case FLOORDIV:
		if b == 0 {
			return None, fmt.Errorf("division by zero")
		}
		q := a / b
		if (a%b != 0) && ((a < 0) != (b < 0)) {
			q--
		}
		return Int(q), nil
	case PERCENT:
		if b == 0 {
			return None, fmt.Errorf("division by zero")
		}
		m := a % b
		if m != 0 && ((a < 0) != (b < 0)) {
			m += b
		}
		return Int(m), nil
	case POW:
		if b >= 0 {
			return Int(ipow(a, b)), nil
		}
		return Num(math.Pow(float64(a), float64(b))), nil
	}
	return None, fmt.Errorf("internal: unknown arithmetic operator")
}

func floatArith(op TokenType, a, b float64) (Value, error) {
	switch op {
	case PLUS:
		return Num(a + b), nil
	case MINUS:
		return Num(a - b), nil
	case STAR:
		return Num(a * b), nil
	case SLASH:
		if b == 0 {
			return None, fmt.Errorf("division by zero")
		}
		return Num(a / b), nil
	case FLOORDIV:
		if b == 0 {
			return None, fmt.Errorf("division by zero")
		}
		return Num(math.Floor(a / b)), nil
	case PERCENT:
		if b == 0 {
			return None, fmt.Errorf("division by zero")
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return Num(m), nil
	case POW:
		return Num(math.Pow(a, b)), nil
	}
	return None, fmt.Errorf("internal: unknown arithmetic operator")
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func clampNonNeg(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}

func opName(op TokenType) string {
	switch op {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case FLOORDIV:
		return "//"
	case PERCENT:
		return "%"
	case POW:
		return "**"
	}
	return "?"
}

func (ip *Interpreter) evalIndex(n indexExpr, env *Env) (Value, error) {
	base, err := ip.evalNode(n.x, env)
	if err != nil {
		return None, err
	}
	idx, err := ip.evalNode(n.idx, env)
	if err != nil {
		return None, err
	}
	switch base.Tag {
	case VTList:
		elems := base.Data.(*ListObject).Elems
		i, err := seqIndex(idx, len(elems))
		if err != nil {
			return None, err
		}
		return elems[i], nil
	case VTStr:
		runes := []rune(base.Data.(string))
		i, err := seqIndex(idx, len(runes))
		if err != nil {
			return None, err
		}
		return Str(string(runes[i])), nil
	case VTMap:
		v, ok := base.Data.(*MapObject).Get(idx)
		if !ok {
			return None, fmt.Errorf("key %s not found", displayValue(idx))
		}
		return v, nil
	}
	return None, &TypeMismatchError{Msg: fmt.Sprintf("%s is not indexable", tagName(base.Tag))}
}

// seqIndex validates an integer index against a sequence length; negative
// indexes count from the end.
func seqIndex(idx Value, n int) (int, error) {
	if idx.Tag != VTInt {
		return 0, &TypeMismatchError{Msg: fmt.Sprintf("sequence index must be an integer, got %s", tagName(idx.Tag))}
	}
	i := idx.Data.(int64)
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, fmt.Errorf("index %d out of range (length %d)", idx.Data.(int64), n)
	}
	return int(i), nil
}

// evalCall resolves the callee and invokes it. A plain-name callee follows
// the call resolution order: a callable env binding (builtins live in Core,
// so they are simply visible bindings), then the function registry, then
// failure. A non-callable env binding does not stop the registry lookup; it
// only surfaces as the error when no registry function exists either.
func (ip *Interpreter) evalCall(n callExpr, env *Env) (Value, error) {
	var fn Value
	if nm, ok := n.callee.(nameExpr); ok {
		var bound Value
		boundOK := false
		if env != nil {
			if v, err := env.Get(nm.name); err == nil {
				bound, boundOK = v, true
			}
		}
		if boundOK && bound.Tag == VTFun {
			fn = bound
		} else if ip != nil && ip.funcs[nm.name] != nil {
			fn = FunVal(ip.funcs[nm.name])
		} else if boundOK {
			return None, &TypeMismatchError{Msg: fmt.Sprintf("%s is not callable", tagName(bound.Tag))}
		} else {
			return None, &UndefinedNameError{Name: nm.name}
		}
	} else {
		v, err := ip.evalNode(n.callee, env)
		if err != nil {
			return None, err
		}
		fn = v
	}
	if fn.Tag != VTFun {
		return None, &TypeMismatchError{Msg: fmt.Sprintf("%s is not callable", tagName(fn.Tag))}
	}
	args, err := ip.evalAll(n.args, env)
	if err != nil {
		return None, err
	}
	return ip.callFun(fn.Data.(*Fun), args)
}

// decorateEvalFailure keeps taxonomy errors intact and wraps everything else
// as an EvaluationError carrying the original text.
func decorateEvalFailure(text string, err error) error {
	var (
		ue *UndefinedNameError
		ae *ArityError
		te *TypeMismatchError
		me *ModuleError
		ee *EvaluationError
	)
	if errors.As(err, &ue) || errors.As(err, &ae) || errors.As(err, &te) ||
		errors.As(err, &me) || errors.As(err, &ee) {
		return err
	}
	return &EvaluationError{Expr: text, Cause: err}
}
