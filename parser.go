// parser.go — indentation-sensitive block parser (public API + implementation)
//
// OVERVIEW
// --------
// BLOA source is one construct per physical line; nesting is expressed purely
// through indentation (unit = 4 columns, tabs count as 4). The parser is a
// recursive descent over lines: `parseBlock` consumes statements at exactly
// `baseIndent`, recursing at `baseIndent+4` for each block-opening construct.
//
//   - A blank or comment-only line is skipped at any indent.
//   - A line indented below `baseIndent` ends the block without being consumed.
//   - A line indented above `baseIndent` is a structural error: the parser
//     never auto-indents or infers nesting.
//
// Per-line dispatch, first match wins:
//  1. Fixed-prefix simple statements: `say`, `ask … -> …`, `import`, `return`
//     (an `ask` without `->` is a ParseError).
//  2. Block openers: `if …:` (+ optional sibling `else:`), `repeat … times:`,
//     `while …:`, `for NAME in ITER:`, `function NAME(p, …):`, `try:`
//     (+ optional sibling `except:`).
//  3. Bare `break` / `continue`.
//  4. Assignment heuristic: a line containing `=` that does not start with
//     `==`, has no ` if ` conditional marker, and whose left-hand side is
//     alphanumeric/underscore.
//  5. Call-style line `NAME(args…)` with an identifier NAME.
//  6. Anything else is an expression statement.
//
// Rules 4–5 are deliberate heuristics over raw text, not a grammar; their
// fixed priority is part of the language's observable behavior.
//
// PUBLIC API
// ----------
//   - Parse(src string) (Block, error) — pure; no side effects on any
//     interpreter state. Errors are *ParseError with a 1-based line number.
package bloa

import (
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// Parse turns source text into a top-level Block. It is pure: no interpreter
// state is read or written. The only error kind returned is *ParseError.
func Parse(src string) (Block, error) {
	block, _, err := parseBlock(SplitLines(src), 0, 0)
	return block, err
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: block parsing
   =========================== */

// parseBlock consumes statements at exactly baseIndent starting at lines[start].
// It returns the parsed block and the index of the first unconsumed line.
func parseBlock(lines []string, start, baseIndent int) (Block, int, error) {
	idx := start
	var nodes Block

	for idx < len(lines) {
		raw := lines[idx]

		if isBlankOrComment(raw) {
			idx++
			continue
		}

		indent := indentWidth(raw)
		if indent < baseIndent {
			break // end of this block; caller owns the line
		}
		if indent > baseIndent {
			return nil, 0, &ParseError{Line: idx + 1, Msg: fmt.Sprintf("unexpected indent: %q", raw)}
		}

		line := strings.TrimSpace(raw)
		lno := idx + 1

		// 1. Fixed-prefix simple statements.
		switch {
		case strings.HasPrefix(line, "say "):
			nodes = append(nodes, &Say{pos: pos{lno}, Expr: strings.TrimSpace(line[4:])})
			idx++
			continue
		case strings.HasPrefix(line, "ask "):
			rest := strings.TrimSpace(line[4:])
			prompt, target, ok := strings.Cut(rest, "->")
			if !ok {
				return nil, 0, &ParseError{Line: lno, Msg: fmt.Sprintf("invalid syntax: %q (ask needs '->')", line)}
			}
			nodes = append(nodes, &Ask{pos: pos{lno}, Prompt: strings.TrimSpace(prompt), Var: strings.TrimSpace(target)})
			idx++
			continue
		case strings.HasPrefix(line, "import "):
			nodes = append(nodes, &Import{pos: pos{lno}, Name: strings.TrimSpace(line[len("import "):])})
			idx++
			continue
		case strings.HasPrefix(line, "return "):
			nodes = append(nodes, &Return{pos: pos{lno}, Expr: strings.TrimSpace(line[len("return "):])})
			idx++
			continue
		case line == "return":
			nodes = append(nodes, &Return{pos: pos{lno}})
			idx++
			continue
		}

		// 2. Block-opening constructs.
		if strings.HasPrefix(line, "if ") && strings.HasSuffix(line, ":") {
			cond := strings.TrimSpace(line[3 : len(line)-1])
			then, next, err := parseBlock(lines, idx+1, baseIndent+4)
			if err != nil {
				return nil, 0, err
			}
			var els Block
			if next < len(lines) && indentWidth(lines[next]) == baseIndent && strings.TrimSpace(lines[next]) == "else:" {
				els, next, err = parseBlock(lines, next+1, baseIndent+4)
				if err != nil {
					return nil, 0, err
				}
			}
			nodes = append(nodes, &If{pos: pos{lno}, Cond: cond, Then: then, Else: els})
			idx = next
			continue
		}

		if strings.HasPrefix(line, "repeat ") && strings.HasSuffix(line, " times:") {
			times := strings.TrimSpace(line[len("repeat ") : len(line)-len(" times:")])
			body, next, err := parseBlock(lines, idx+1, baseIndent+4)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, &Repeat{pos: pos{lno}, Times: times, Body: body})
			idx = next
			continue
		}

		if strings.HasPrefix(line, "function ") && strings.HasSuffix(line, ":") {
			header := strings.TrimSpace(line[len("function ") : len(line)-1])
			name, paramsRaw, ok := strings.Cut(header, "(")
			if !ok || !strings.HasSuffix(paramsRaw, ")") {
				return nil, 0, &ParseError{Line: lno, Msg: "invalid function header"}
			}
			var params []string
			for _, p := range strings.Split(paramsRaw[:len(paramsRaw)-1], ",") {
				if p = strings.TrimSpace(p); p != "" {
					params = append(params, p)
				}
			}
			body, next, err := parseBlock(lines, idx+1, baseIndent+4)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, &FunctionDef{pos: pos{lno}, Name: strings.TrimSpace(name), Params: params, Body: body})
			idx = next
			continue
		}

		if line == "else:" {
			return nil, 0, &ParseError{Line: lno, Msg: "unexpected 'else:'"}
		}
		if line == "except:" {
			return nil, 0, &ParseError{Line: lno, Msg: "unexpected 'except:'"}
		}

		if strings.HasPrefix(line, "while ") && strings.HasSuffix(line, ":") {
			cond := strings.TrimSpace(line[len("while ") : len(line)-1])
			body, next, err := parseBlock(lines, idx+1, baseIndent+4)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, &While{pos: pos{lno}, Cond: cond, Body: body})
			idx = next
			continue
		}

		// 3. Bare loop-control keywords.
		if line == "break" {
			nodes = append(nodes, &Break{pos: pos{lno}})
			idx++
			continue
		}
		if line == "continue" {
			nodes = append(nodes, &Continue{pos: pos{lno}})
			idx++
			continue
		}

		if strings.HasPrefix(line, "for ") && strings.Contains(line, " in ") && strings.HasSuffix(line, ":") {
			header := strings.TrimSpace(line[4 : len(line)-1])
			loopVar, iter, _ := strings.Cut(header, " in ")
			body, next, err := parseBlock(lines, idx+1, baseIndent+4)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, &ForIn{pos: pos{lno}, Var: strings.TrimSpace(loopVar), Iterable: strings.TrimSpace(iter), Body: body})
			idx = next
			continue
		}

		if line == "try:" {
			try, next, err := parseBlock(lines, idx+1, baseIndent+4)
			if err != nil {
				return nil, 0, err
			}
			var except Block
			if next < len(lines) && indentWidth(lines[next]) == baseIndent && strings.TrimSpace(lines[next]) == "except:" {
				except, next, err = parseBlock(lines, next+1, baseIndent+4)
				if err != nil {
					return nil, 0, err
				}
			}
			nodes = append(nodes, &TryExcept{pos: pos{lno}, Try: try, Except: except})
			idx = next
			continue
		}

		// 4. Assignment heuristic.
		if strings.Contains(line, "=") && !strings.HasPrefix(line, "==") && !strings.Contains(line, " if ") {
			left, right, _ := strings.Cut(line, "=")
			if name := strings.TrimSpace(left); isNameLike(name) {
				nodes = append(nodes, &Assign{pos: pos{lno}, Name: name, Expr: strings.TrimSpace(right)})
				idx++
				continue
			}
		}

		// 5. Call-style line: NAME(arg, arg, ...).
		if strings.Contains(line, "(") && strings.HasSuffix(line, ")") {
			name, argsRaw, _ := strings.Cut(line, "(")
			if name = strings.TrimSpace(name); isIdentifier(name) {
				args := splitArgs(argsRaw[:len(argsRaw)-1])
				nodes = append(nodes, &FunctionCall{pos: pos{lno}, Name: name, Args: args})
				idx++
				continue
			}
		}

		// 6. Fallback: expression statement.
		nodes = append(nodes, &ExprStmt{pos: pos{lno}, Expr: line})
		idx++
	}

	return nodes, idx, nil
}

// splitArgs splits a call statement's argument text on top-level commas,
// respecting quotes and bracket nesting so `f("a,b", [1, 2])` keeps two args.
func splitArgs(s string) []string {
	var args []string
	depth := 0
	inStr := false
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			if c == '\\' {
				i++
			} else if c == quote {
				inStr = false
			}
			continue
		}
		switch c {
		case '"', '\'':
			inStr = true
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				if a := strings.TrimSpace(s[start:i]); a != "" {
					args = append(args, a)
				}
				start = i + 1
			}
		}
	}
	if a := strings.TrimSpace(s[start:]); a != "" {
		args = append(args, a)
	}
	return args
}

// isNameLike reports whether s could be an assignment target: non-empty and
// made only of letters, digits, and underscores.
func isNameLike(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

// isIdentifier reports whether s is a valid identifier: a letter or
// underscore followed by letters, digits, or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && r >= '0' && r <= '9' {
			return false
		}
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
