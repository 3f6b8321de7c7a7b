// builtin_net.go
//
// Native `net` module:
//  1. http_get(url) -> str, the response body
//  2. http_download(url, path) -> none
//
// Both fail with a catchable error on transport problems or a 4xx/5xx
// status. Requests share one client with a bounded timeout so a stuck
// server cannot hang a script forever.
package bloa

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var netClient = &http.Client{Timeout: 30 * time.Second}

func buildNetModule(_ *Interpreter) *Module {
	m := newNativeModule("net")

	m.fn("http_get", []string{"url"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		url, err := argStr("net.http_get", args, 0)
		if err != nil {
			return None, err
		}
		body, err := httpFetch(url)
		if err != nil {
			return None, &EvaluationError{Expr: "net.http_get", Cause: err}
		}
		return Str(string(body)), nil
	})

	m.fn("http_download", []string{"url", "path"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		url, err := argStr("net.http_download", args, 0)
		if err != nil {
			return None, err
		}
		path, err := argStr("net.http_download", args, 1)
		if err != nil {
			return None, err
		}
		body, err := httpFetch(url)
		if err != nil {
			return None, &EvaluationError{Expr: "net.http_download", Cause: err}
		}
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return None, &EvaluationError{Expr: "net.http_download", Cause: err}
		}
		return None, nil
	})

	return m
}

func httpFetch(url string) ([]byte, error) {
	resp, err := netClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
