// exec.go — the tree-walking executor (statement semantics + call machinery)
//
// OVERVIEW
// --------
// Execution is a strict sequential walk over statement nodes. Control flow is
// explicit in the type signature: every statement and block execution returns
// a `signal` alongside an error, and loops, function calls, and try/except
// inspect it directly. No panic/recover is involved anywhere, so a signal can
// never be confused with a taxonomy error — in particular, try/except catches
// errors only and lets return/break/continue pass through untouched.
//
// Scope discipline: every compound body runs in a fresh child env — each if
// branch, each loop *iteration*, each try/except branch, each function call.
// A function call's env parents the captured defining env, not the caller's.
//
// Signal handling per construct:
//   - loops consume break (exit construct) and continue (next iteration) and
//     forward return upward;
//   - a function call consumes return (its value becomes the call result) and
//     absorbs stray break/continue at the body boundary;
//   - a return escaping the top level ends the run normally (Run, below in
//     interpreter.go).
package bloa

import (
	"fmt"
)

// ctrlKind tags the outcome of executing a statement or block.
type ctrlKind int

const (
	ctrlNone     ctrlKind = iota // completed normally
	ctrlReturn                   // unwinding to the nearest call boundary
	ctrlBreak                    // unwinding to the nearest loop
	ctrlContinue                 // skipping to the next loop iteration
)

// signal is the tagged control-flow outcome. value is meaningful only for
// ctrlReturn.
type signal struct {
	kind  ctrlKind
	value Value
}

var noSignal = signal{kind: ctrlNone, value: None}

// countVar is the reserved 1-based iteration index injected by repeat.
const countVar = "count"

// execBlock runs nodes in order within env, stopping at the first signal or
// error.
func (ip *Interpreter) execBlock(block Block, env *Env) (signal, error) {
	for _, node := range block {
		sig, err := ip.execNode(node, env)
		if err != nil {
			return noSignal, err
		}
		if sig.kind != ctrlNone {
			return sig, nil
		}
	}
	return noSignal, nil
}

// execNode dispatches one statement. The switch is exhaustive over ast.go.
func (ip *Interpreter) execNode(node Node, env *Env) (signal, error) {
	switch n := node.(type) {
	case *Say:
		v, err := ip.EvalExpr(n.Expr, env)
		if err != nil {
			return noSignal, err
		}
		fmt.Fprintln(ip.Stdout, FormatValue(v))
		return noSignal, nil

	case *Ask:
		prompt, err := ip.EvalExpr(n.Prompt, env)
		if err != nil {
			return noSignal, err
		}
		fmt.Fprintf(ip.Stdout, "%s ", FormatValue(prompt))
		line, err := ip.readLine()
		if err != nil {
			return noSignal, &EvaluationError{Expr: n.Prompt, Cause: fmt.Errorf("reading input: %w", err)}
		}
		// ask always binds in the current frame, unlike assignment it never
		// reaches an outer binding of the same name.
		if v, ok := ParseLiteral(line); ok {
			env.Define(n.Var, v)
		} else {
			env.Define(n.Var, Str(line))
		}
		return noSignal, nil

	case *Assign:
		v, err := ip.EvalExpr(n.Expr, env)
		if err != nil {
			return noSignal, err
		}
		env.Assign(n.Name, v)
		return noSignal, nil

	case *If:
		cond, err := ip.EvalExpr(n.Cond, env)
		if err != nil {
			return noSignal, err
		}
		if Truthy(cond) {
			return ip.execBlock(n.Then, NewEnv(env))
		}
		if len(n.Else) > 0 {
			return ip.execBlock(n.Else, NewEnv(env))
		}
		return noSignal, nil

	case *Repeat:
		times, err := ip.EvalExpr(n.Times, env)
		if err != nil {
			return noSignal, err
		}
		if times.Tag != VTInt || times.Data.(int64) < 0 {
			return noSignal, &TypeMismatchError{Msg: fmt.Sprintf(
				"repeat times must be a non-negative integer, got %s", displayValue(times))}
		}
		total := times.Data.(int64)
		for i := int64(0); i < total; i++ {
			iterEnv := NewEnv(env)
			iterEnv.Define(countVar, Int(i+1))
			sig, err := ip.execBlock(n.Body, iterEnv)
			if err != nil {
				return noSignal, err
			}
			switch sig.kind {
			case ctrlBreak:
				return noSignal, nil
			case ctrlReturn:
				return sig, nil
			}
			// ctrlContinue and ctrlNone both advance.
		}
		return noSignal, nil

	case *While:
		for {
			cond, err := ip.EvalExpr(n.Cond, env)
			if err != nil {
				return noSignal, err
			}
			if !Truthy(cond) {
				return noSignal, nil
			}
			sig, err := ip.execBlock(n.Body, NewEnv(env))
			if err != nil {
				return noSignal, err
			}
			switch sig.kind {
			case ctrlBreak:
				return noSignal, nil
			case ctrlReturn:
				return sig, nil
			}
		}

	case *ForIn:
		iterable, err := ip.EvalExpr(n.Iterable, env)
		if err != nil {
			return noSignal, err
		}
		elems, err := iterate(iterable)
		if err != nil {
			return noSignal, err
		}
		for _, elem := range elems {
			iterEnv := NewEnv(env)
			iterEnv.Define(n.Var, elem)
			sig, err := ip.execBlock(n.Body, iterEnv)
			if err != nil {
				return noSignal, err
			}
			switch sig.kind {
			case ctrlBreak:
				return noSignal, nil
			case ctrlReturn:
				return sig, nil
			}
		}
		return noSignal, nil

	case *FunctionDef:
		// Capture the *current* env; the body is not executed. Redefinition
		// overwrites.
		ip.funcs[n.Name] = &Fun{
			Kind:   FunUser,
			Name:   n.Name,
			Params: n.Params,
			Body:   n.Body,
			Env:    env,
			owner:  ip,
		}
		return noSignal, nil

	case *FunctionCall:
		_, err := ip.execCallStatement(n, env)
		return noSignal, err

	case *Return:
		if n.Expr == "" {
			return signal{kind: ctrlReturn, value: None}, nil
		}
		v, err := ip.EvalExpr(n.Expr, env)
		if err != nil {
			return noSignal, err
		}
		return signal{kind: ctrlReturn, value: v}, nil

	case *Break:
		return signal{kind: ctrlBreak, value: None}, nil

	case *Continue:
		return signal{kind: ctrlContinue, value: None}, nil

	case *Import:
		return noSignal, ip.execImport(n, env)

	case *TryExcept:
		sig, err := ip.execBlock(n.Try, NewEnv(env))
		if err == nil {
			// Signals (including return) pass through untouched.
			return sig, nil
		}
		if !isTaxonomyError(err) {
			return noSignal, err
		}
		if len(n.Except) == 0 {
			return noSignal, err
		}
		return ip.execBlock(n.Except, NewEnv(env))

	case *ExprStmt:
		_, err := ip.EvalExpr(n.Expr, env)
		return noSignal, err
	}

	return noSignal, fmt.Errorf("internal: unknown statement node %T", node)
}

// execCallStatement resolves a bare call statement:
//
//	(a) a callable bound in the env chain (builtins included) is invoked with
//	    arguments evaluated in the caller's env;
//	(b) otherwise a registry function is invoked with an exact arity check;
//	(c) otherwise the name is undefined.
//
// A non-callable env binding does not satisfy (a); the registry is still
// consulted, so shadowing a function name with a plain value leaves the
// function reachable by call.
func (ip *Interpreter) execCallStatement(n *FunctionCall, env *Env) (Value, error) {
	var fn *Fun
	bound, boundErr := env.Get(n.Name)
	boundOK := boundErr == nil
	if boundOK && bound.Tag == VTFun {
		fn = bound.Data.(*Fun)
	} else if f, ok := ip.funcs[n.Name]; ok {
		fn = f
	} else if boundOK {
		return None, &TypeMismatchError{Msg: fmt.Sprintf("%s is not callable", tagName(bound.Tag))}
	} else {
		return None, &UndefinedNameError{Name: n.Name}
	}

	args := make([]Value, 0, len(n.Args))
	for _, argText := range n.Args {
		av, err := ip.EvalExpr(argText, env)
		if err != nil {
			return None, err
		}
		args = append(args, av)
	}
	return ip.callFun(fn, args)
}

// callFun dispatches on the callable's explicit variant tag. User-function
// calls run the body in a fresh env parented to the captured defining env;
// the result is the value carried by a return signal, or none when the body
// runs to completion. Stray break/continue stop at the call boundary.
func (ip *Interpreter) callFun(f *Fun, args []Value) (Value, error) {
	switch f.Kind {
	case FunNative:
		if !f.Variadic && len(args) != len(f.Params) {
			return None, &ArityError{Fun: f.Name, Want: len(f.Params), Got: len(args)}
		}
		return f.Impl(ip, args)

	case FunUser:
		if len(args) != len(f.Params) {
			return None, &ArityError{Fun: f.Name, Want: len(f.Params), Got: len(args)}
		}
		callEnv := NewEnv(f.Env)
		for i, p := range f.Params {
			callEnv.Define(p, args[i])
		}
		// A module's functions run against the registry they were defined in,
		// so sibling calls inside a module resolve to the module's functions.
		host := ip
		if f.owner != nil {
			host = f.owner
		}
		sig, err := host.execBlock(f.Body, callEnv)
		if err != nil {
			return None, err
		}
		if sig.kind == ctrlReturn {
			return sig.value, nil
		}
		return None, nil
	}
	return None, fmt.Errorf("internal: unknown callable kind")
}

// iterate flattens an iterable value into its elements: lists yield their
// elements, strings their runes (as one-rune strings), maps their keys in
// insertion order. Anything else is a type mismatch.
func iterate(v Value) ([]Value, error) {
	switch v.Tag {
	case VTList:
		return v.Data.(*ListObject).Elems, nil
	case VTStr:
		s := v.Data.(string)
		out := make([]Value, 0, len(s))
		for _, r := range s {
			out = append(out, Str(string(r)))
		}
		return out, nil
	case VTMap:
		return v.Data.(*MapObject).Keys(), nil
	}
	return nil, &TypeMismatchError{Msg: fmt.Sprintf("%s is not iterable", tagName(v.Tag))}
}

// isTaxonomyError reports whether err belongs to the ordinary error taxonomy
// that try/except may catch. Everything the interpreter produces during
// statement execution qualifies; only internal invariant violations (which
// wrap nothing) stay uncatchable.
func isTaxonomyError(err error) bool {
	switch err.(type) {
	case *ParseError, *UndefinedNameError, *ArityError, *EvaluationError, *TypeMismatchError, *ModuleError:
		return true
	}
	return false
}
