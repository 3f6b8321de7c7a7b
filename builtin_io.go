// builtin_io.go
//
// Native `io` module:
//  1. print_line(args...) -> none
//  2. read_line(prompt?) -> str
//  3. write_file(path, content) -> none
//  4. read_file(path) -> str
//
// print_line and read_line go through the interpreter's configured streams,
// never directly to the process streams, so embedders and tests can capture
// them.
package bloa

import (
	"fmt"
	"os"
	"strings"
)

func buildIOModule(ip *Interpreter) *Module {
	m := newNativeModule("io")

	// print_line(args...) — same rendering as say, space-joined.
	m.fn("print_line", nil, true, func(ip *Interpreter, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = FormatValue(a)
		}
		fmt.Fprintln(ip.Stdout, strings.Join(parts, " "))
		return None, nil
	})

	// read_line(prompt?) — prompt is written without a trailing newline.
	m.fn("read_line", nil, true, func(ip *Interpreter, args []Value) (Value, error) {
		if len(args) > 1 {
			return None, &ArityError{Fun: "io.read_line", Want: 1, Got: len(args)}
		}
		if len(args) == 1 {
			p, err := argStr("io.read_line", args, 0)
			if err != nil {
				return None, err
			}
			fmt.Fprint(ip.Stdout, p)
		}
		line, err := ip.readLine()
		if err != nil {
			return None, &EvaluationError{Expr: "io.read_line", Cause: err}
		}
		return Str(line), nil
	})

	m.fn("write_file", []string{"path", "content"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		path, err := argStr("io.write_file", args, 0)
		if err != nil {
			return None, err
		}
		content, err := argStr("io.write_file", args, 1)
		if err != nil {
			return None, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return None, &EvaluationError{Expr: "io.write_file", Cause: err}
		}
		return None, nil
	})

	m.fn("read_file", []string{"path"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		path, err := argStr("io.read_file", args, 0)
		if err != nil {
			return None, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return None, &EvaluationError{Expr: "io.read_file", Cause: err}
		}
		return Str(string(data)), nil
	})

	return m
}
