// builtin_time.go
//
// Native `time` module:
//  1. now() -> num, seconds since the Unix epoch
//  2. sleep(seconds) -> none
//  3. format_time(fmt?) -> str, strftime-style directives against local time
package bloa

import (
	"strings"
	"time"
)

func buildTimeModule(_ *Interpreter) *Module {
	m := newNativeModule("time")

	m.fn("now", nil, false, func(_ *Interpreter, _ []Value) (Value, error) {
		return Num(float64(time.Now().UnixNano()) / 1e9), nil
	})

	m.fn("sleep", []string{"seconds"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		secs, err := argFloat("time.sleep", args, 0)
		if err != nil {
			return None, err
		}
		if secs < 0 {
			return None, &TypeMismatchError{Msg: "time.sleep needs a non-negative number of seconds"}
		}
		time.Sleep(time.Duration(secs * float64(time.Second)))
		return None, nil
	})

	m.fn("format_time", nil, true, func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) > 1 {
			return None, &ArityError{Fun: "time.format_time", Want: 1, Got: len(args)}
		}
		format := "%Y-%m-%d %H:%M:%S"
		if len(args) == 1 {
			f, err := argStr("time.format_time", args, 0)
			if err != nil {
				return None, err
			}
			format = f
		}
		return Str(strftime(format, time.Now())), nil
	})

	return m
}

// strftime renders the common strftime directives; an unknown directive is
// kept verbatim, percent sign included.
func strftime(format string, t time.Time) string {
	var b strings.Builder
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' || i+1 >= len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		i++
		switch runes[i] {
		case 'Y':
			b.WriteString(t.Format("2006"))
		case 'y':
			b.WriteString(t.Format("06"))
		case 'm':
			b.WriteString(t.Format("01"))
		case 'd':
			b.WriteString(t.Format("02"))
		case 'H':
			b.WriteString(t.Format("15"))
		case 'I':
			b.WriteString(t.Format("03"))
		case 'M':
			b.WriteString(t.Format("04"))
		case 'S':
			b.WriteString(t.Format("05"))
		case 'p':
			b.WriteString(t.Format("PM"))
		case 'a':
			b.WriteString(t.Format("Mon"))
		case 'A':
			b.WriteString(t.Format("Monday"))
		case 'b':
			b.WriteString(t.Format("Jan"))
		case 'B':
			b.WriteString(t.Format("January"))
		case 'Z':
			b.WriteString(t.Format("MST"))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}
