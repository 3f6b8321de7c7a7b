// errors.go: the BLOA error taxonomy and caret-snippet rendering
//
// What this file does
// -------------------
// This module defines the typed errors every other part of the interpreter
// produces, plus `WrapErrorWithSource`, which turns a *ParseError into a
// readable, Python-style snippet with a caret pointing at the offending line:
//
//	PARSE ERROR at line 3: unexpected indent
//
//	   2 | repeat 3 times:
//	   3 |         say x
//	     | ^
//	   4 | say "done"
//
// Taxonomy
// --------
//   - *ParseError         — malformed line / bad indent jump / bad header;
//     carries the 1-based line number. Aborts parsing of that source unit.
//   - *UndefinedNameError — identifier not found in the env chain, or an
//     unregistered function name at a call site.
//   - *ArityError         — call argument count ≠ parameter count; carries
//     the function name and both counts.
//   - *EvaluationError    — no strategy produced a value for an expression;
//     carries the original text and the underlying cause (unwrappable).
//   - *TypeMismatchError  — e.g. a negative or non-integer repeat count, or
//     a non-iterable for-in target.
//   - *ModuleError        — unset search path or unresolvable module file;
//     carries the module name and the path that was tried.
//
// Control-flow signals (return/break/continue) are NOT errors and never
// appear here; they travel through the executor as tagged outcomes (exec.go).
//
// Behavior guarantees
// -------------------
//   - If `err` is a *ParseError, the wrapped error's message is a fully
//     formatted, plain-text snippet (no ANSI colors).
//   - If `err` is anything else, it is returned unchanged.
//   - Line numbers are 1-based and clamped to the source bounds, so a stale
//     line never crashes rendering.
package bloa

import (
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// ParseError reports a structural problem in the source text. Line is 1-based.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
}

// UndefinedNameError reports an identifier that resolves nowhere in the env
// chain, or a call to a function that was never registered.
type UndefinedNameError struct {
	Name string
}

func (e *UndefinedNameError) Error() string {
	return fmt.Sprintf("name %q is not defined", e.Name)
}

// ArityError reports a call whose argument count does not match the
// function's declared parameter count.
type ArityError struct {
	Fun  string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("function %s expects %d argument(s), but got %d", e.Fun, e.Want, e.Got)
}

// EvaluationError reports an expression for which no resolution strategy
// produced a value. Expr is the original raw text; Cause the underlying error.
type EvaluationError struct {
	Expr  string
	Cause error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("failed to evaluate expression %q: %v", e.Expr, e.Cause)
}

func (e *EvaluationError) Unwrap() error { return e.Cause }

// TypeMismatchError reports a value whose kind is unusable where it appeared.
type TypeMismatchError struct {
	Msg string
}

func (e *TypeMismatchError) Error() string { return e.Msg }

// ModuleError reports an import failure: an unconfigured search path or an
// unresolvable module file. Path is empty when no search path was set.
type ModuleError struct {
	Module string
	Path   string
	Msg    string
}

func (e *ModuleError) Error() string {
	if e.Module == "" {
		return e.Msg
	}
	return fmt.Sprintf("module %q: %s", e.Module, e.Msg)
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes *ParseError and leaves other
// errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label ("in <name>").
func WrapErrorWithName(err error, srcName string, src string) error {
	if e, ok := err.(*ParseError); ok {
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Line, e.Msg))
	}
	return err
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: snippet rendering
   =========================== */

// prettyErrorStringLabeled builds a Python-like snippet with a header and a
// caret under the offending line. It shows at most one previous and one next
// line when available. Line is 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at line %d: %s\n\n", header, name, line, msg)
	} else {
		fmt.Fprintf(&b, "%s at line %d: %s\n\n", header, line, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", indentWidth(lineTxt)))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
