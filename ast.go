// ast.go — the closed set of BLOA statement nodes.
//
// A Block is an ordered sequence of nodes sharing one indent level; blocks
// nest inside If/Repeat/While/ForIn/FunctionDef/TryExcept. Expressions are
// carried as raw text and handed to the expression subsystem (expr.go) at
// execution time, so a node never holds a pre-parsed sub-tree.
//
// Every node remembers the 1-based source line it started on; the executor
// threads that through to runtime diagnostics.
package bloa

// Node is a single parsed statement. The concrete types below form the whole
// statement grammar; the executor switches over them exhaustively.
type Node interface {
	// SrcLine returns the 1-based line the statement started on.
	SrcLine() int
}

// Block is an ordered sequence of statements at one indent level.
type Block []Node

type pos struct {
	Line int
}

func (p pos) SrcLine() int { return p.Line }

// Say prints the value of an expression to the output channel.
type Say struct {
	pos
	Expr string
}

// Ask prints a prompt, blocks on one input line, and binds the parsed result.
type Ask struct {
	pos
	Prompt string
	Var    string
}

// Assign binds the value of Expr to Name.
type Assign struct {
	pos
	Name string
	Expr string
}

// If executes exactly one of its branches; Else may be empty.
type If struct {
	pos
	Cond string
	Then Block
	Else Block
}

// Repeat runs its body a fixed number of times. The count expression must
// evaluate to a non-negative integer.
type Repeat struct {
	pos
	Times string
	Body  Block
}

// While re-evaluates Cond before every iteration.
type While struct {
	pos
	Cond string
	Body Block
}

// ForIn binds Var to each element of an iterable expression.
type ForIn struct {
	pos
	Var      string
	Iterable string
	Body     Block
}

// FunctionDef registers a named function with ordered parameters. Definition
// has no effect besides registration; the body runs only when called.
type FunctionDef struct {
	pos
	Name   string
	Params []string
	Body   Block
}

// FunctionCall is a bare call statement: NAME(arg, arg, ...). Each argument
// is an unevaluated expression text.
type FunctionCall struct {
	pos
	Name string
	Args []string
}

// Return unwinds to the nearest function-call boundary, optionally carrying
// a value. Expr is empty for a bare `return`.
type Return struct {
	pos
	Expr string
}

// Break exits the nearest enclosing loop.
type Break struct {
	pos
}

// Continue proceeds to the next iteration of the nearest enclosing loop.
type Continue struct {
	pos
}

// Import loads a module by name and binds its proxy in the current env.
type Import struct {
	pos
	Name string
}

// TryExcept runs Try; a taxonomy error is caught and, when an except block
// exists, Except runs. Control-flow signals pass through untouched.
type TryExcept struct {
	pos
	Try    Block
	Except Block
}

// ExprStmt evaluates an expression for side effect only.
type ExprStmt struct {
	pos
	Expr string
}
