package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/pterm/pterm"

	bloa "github.com/bloa-lang/bloa"
)

const (
	appName     = "bloa"
	historyFile = ".bloa_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

func main() {
	if len(os.Args) < 2 {
		// With a project manifest, bare `bloa` behaves like `bloa run`.
		if m, _ := bloa.FindManifest("."); m != nil && m.Run.Entry != "" {
			os.Exit(cmdRun(nil))
		}
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Printf("%s %s (built %s)\n", appName, bloa.Version, bloa.BuildDate)
	case "-h", "--help", "help":
		usage()
	default:
		// A bare script path works too: `bloa hello.bloa`.
		if strings.HasSuffix(cmd, ".bloa") || strings.HasSuffix(cmd, ".bl") {
			os.Exit(cmdRun(os.Args[1:]))
		}
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`BLOA %s (built %s)

Usage:
  %s run [file.bloa]    Run a script (default: the manifest's run entry).
  %s repl               Start the interactive session.
  %s version            Print the version.

A bloa.toml found in the current directory or above configures the module
search path and the default run entry; otherwise %s is consulted.
`, bloa.Version, bloa.BuildDate, appName, appName, appName, bloa.PathEnvVar)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	manifest, err := bloa.FindManifest(".")
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}

	var file string
	switch {
	case len(args) >= 1:
		file = args[0]
	case manifest != nil && manifest.EntryPath() != "":
		file = manifest.EntryPath()
	default:
		fmt.Fprintf(os.Stderr, "usage: %s run <file.bloa>\n", appName)
		return 2
	}

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := bloa.New(bloa.Options{ModulePath: modulePathFor(manifest, file)})
	if err := ip.Execute(string(src), file); err != nil {
		pterm.Error.Printfln("in %s: %v", file, err)
		return 1
	}
	return 0
}

// modulePathFor picks the import search path: the manifest's configured
// path, then the process environment, then the script's own directory.
func modulePathFor(m *bloa.Manifest, file string) string {
	if m != nil {
		if p := m.ModulePath(); p != "" {
			return p
		}
	}
	if p := os.Getenv(bloa.PathEnvVar); p != "" {
		return p
	}
	if abs, err := filepath.Abs(file); err == nil {
		return filepath.Dir(abs)
	}
	return "."
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

// The session reads statements line by line into a buffer and executes the
// buffer when a blank line arrives, so multi-line blocks (if, repeat,
// function) can be typed naturally. State persists across executions.
func cmdRepl(_ []string) int {
	pterm.Info.Printfln("BLOA %s interactive session", bloa.Version)
	fmt.Println("End a block with a blank line to run it. Type exit or quit to leave.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := bloa.New(bloa.Options{ModulePath: modulePathFor(nil, ".")})

	var buf []string
	for {
		prompt := promptMain
		if len(buf) > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			buf = nil
			continue
		}
		if err != nil {
			pterm.Error.Println(err.Error())
			return 1
		}

		trimmed := strings.TrimSpace(line)
		if len(buf) == 0 && (trimmed == "exit" || trimmed == "quit") {
			return 0
		}

		if trimmed != "" {
			buf = append(buf, line)
			continue
		}
		if len(buf) == 0 {
			continue
		}

		code := strings.Join(buf, "\n")
		buf = nil
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if err := ip.Execute(code, "<repl>"); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
}
