// interpreter.go — SINGLE PUBLIC API SURFACE for the BLOA interpreter.
//
// OVERVIEW
// ========
// BLOA programs evaluate in **environments** (`*Env`) that form a lexical
// chain via the parent link. The Interpreter exposes two well-known frames:
//   - `Core`: the builtin allowlist (print, len, int, str, float, range),
//     sealed so user code cannot clobber it through assignment.
//   - `Global`: user-visible program state. `Run` executes top-level
//     statements here; the REPL keeps reusing it across inputs.
//
// All mutable state — Global, the function registry, the module cache — is
// owned by the instance. There are no process-wide singletons, so any number
// of interpreters coexist independently; tests rely on that.
//
// EXECUTION MODEL
// ---------------
// Strictly single-threaded and synchronous: the executor is a sequential
// tree walk with no goroutines and no locking. The only suspension point is
// `ask`, which blocks on one line from the configured input reader.
//
// ERROR BOUNDARY
// --------------
// `Parse` is pure and returns *ParseError. `Run` prints taxonomy errors
// (parse and runtime alike) to the configured error channel instead of
// returning them — nothing escapes the boundary — while a `return` reaching
// the top level is ordinary termination, not an error.
package bloa

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Version of the interpreter. BuildDate can be stamped via -ldflags.
var (
	Version   = "0.3.0"
	BuildDate = "unknown"
)

// PathEnvVar names the environment variable consulted for a default module
// search path when Options.ModulePath is empty.
const PathEnvVar = "BLOAPATH"

// Options configures a new interpreter. Zero values pick sensible defaults:
// the process's standard streams and the BLOAPATH environment variable.
type Options struct {
	ModulePath string    // root directory for `import` resolution
	Stdout     io.Writer // output channel for say/ask/print
	Stderr     io.Writer // error channel used by Run
	Stdin      io.Reader // input channel for ask / read_line
}

// Interpreter is the entry point for parsing and running BLOA programs.
type Interpreter struct {
	Core   *Env // builtins; root of every chain
	Global *Env // program state; child of Core

	Stdout io.Writer
	Stderr io.Writer

	ModulePath string

	funcs  map[string]*Fun // user function registry (flat; redefinition overwrites)
	mcache *moduleCache
	stdin  *bufio.Reader
}

// New constructs a ready-to-use interpreter: Core is populated with the
// builtin allowlist and sealed, Global is an empty child of Core.
func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.ModulePath == "" {
		opts.ModulePath = os.Getenv(PathEnvVar)
	}

	ip := &Interpreter{
		Stdout:     opts.Stdout,
		Stderr:     opts.Stderr,
		ModulePath: opts.ModulePath,
		funcs:      map[string]*Fun{},
		mcache:     newModuleCache(),
		stdin:      bufio.NewReader(opts.Stdin),
	}
	ip.Core = NewEnv(nil)
	registerCoreBuiltins(ip)
	ip.Core.Seal()
	ip.Global = NewEnv(ip.Core)
	return ip
}

// Parse turns source into a Block without executing anything. Equivalent to
// the package-level Parse; provided on the instance for symmetry with Run.
func (ip *Interpreter) Parse(src string) (Block, error) { return Parse(src) }

// Run parses and executes src against Global. Taxonomy errors — parse or
// runtime — are reported on the error channel labeled with name, and the run
// ends gracefully; they are never raised past this boundary. A top-level
// return terminates normally.
func (ip *Interpreter) Run(src string, name string) {
	if err := ip.Execute(src, name); err != nil {
		fmt.Fprintf(ip.Stderr, "Error in %s: %v\n", name, err)
	}
}

// Execute parses and executes src against Global, returning the error
// instead of printing it. Parse errors come back annotated with name and a
// source snippet. A top-level return terminates normally.
func (ip *Interpreter) Execute(src string, name string) error {
	block, err := Parse(src)
	if err != nil {
		return WrapErrorWithName(err, name, src)
	}
	_, err = ip.execBlock(block, ip.Global)
	// A ctrlReturn signal reaching here is deliberate termination; ignore it.
	return err
}

// RunFile reads path as UTF-8 and runs it, labeling errors with the path.
func (ip *Interpreter) RunFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ip.Run(string(src), path)
	return nil
}

// Eval resolves a single expression against Global; mainly for embedding and
// the REPL.
func (ip *Interpreter) Eval(expr string) (Value, error) {
	return ip.EvalExpr(expr, ip.Global)
}

// Function returns the registered user function named name, if any.
func (ip *Interpreter) Function(name string) (*Fun, bool) {
	f, ok := ip.funcs[name]
	return f, ok
}

// forModule derives the sub-interpreter a module's top level executes in:
// same streams, same search path, same module cache and load stack, same
// Core/Global frames — but a registry of its own for the module's functions.
func (ip *Interpreter) forModule() *Interpreter {
	return &Interpreter{
		Core:       ip.Core,
		Global:     ip.Global,
		Stdout:     ip.Stdout,
		Stderr:     ip.Stderr,
		ModulePath: ip.ModulePath,
		funcs:      map[string]*Fun{},
		mcache:     ip.mcache,
		stdin:      ip.stdin,
	}
}

// readLine blocks on one line of input, without the trailing newline.
func (ip *Interpreter) readLine() (string, error) {
	line, err := ip.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
