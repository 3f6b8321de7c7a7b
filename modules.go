// modules.go — the BLOA module system (proxies, loading, caching)
//
// OVERVIEW
// --------
// A BLOA module is an ordinary BLOA program executed once in a fresh env
// parented to the importing interpreter's Global frame, with a registry of
// its own for the functions it defines. The result is wrapped in a *Module
// proxy exposing two-tier attribute resolution: functions first, then
// top-level variables, both behind the typed accessor `Get` — no reflection
// is involved anywhere.
//
// `import NAME` resolves in this order:
//  1. The per-interpreter module cache. A hit binds the *identical* proxy
//     without re-executing anything.
//  2. The native standard-library table (io, math, random, time, net). These
//     ship with the interpreter and need no search path.
//  3. The configured search path: `<root>/NAME.bloa`, with `<root>/NAME.bl`
//     accepted as a fallback, read as UTF-8. An unset search path is a
//     ModuleError distinct from "file not found".
//
// Failures are local to the importing statement: earlier cache entries stay
// valid, and a failed load is never cached. Import cycles are detected via a
// shared load stack and reported as an `A -> B -> A` chain.
package bloa

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Primary and fallback source-file extensions for module resolution.
const (
	moduleExt    = ".bloa"
	moduleExtAlt = ".bl"
)

/* ===========================
   PUBLIC API
   =========================== */

// Module is the payload carried by a VTModule value: the module's top-level
// env plus the functions its execution registered.
type Module struct {
	Name  string
	Env   *Env
	Funcs map[string]*Fun
}

// Get resolves an exported name: functions first, then top-level variables.
func (m *Module) Get(name string) (Value, bool) {
	if f, ok := m.Funcs[name]; ok {
		return FunVal(f), true
	}
	if v, err := m.Env.Get(name); err == nil {
		return v, true
	}
	return None, false
}

// ImportModule loads (or returns the cached proxy for) a module by name,
// applying the resolution order described in the file header. It is the same
// path the `import` statement takes.
func (ip *Interpreter) ImportModule(name string) (*Module, error) {
	return ip.loadModule(name)
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: loading & caching
   =========================== */

// moduleCache is shared between an interpreter and the sub-interpreters it
// spawns for module execution, so nested imports see one cache and one load
// stack.
type moduleCache struct {
	mods  map[string]*Module
	stack []string // module names currently loading, for cycle reports
}

func newModuleCache() *moduleCache {
	return &moduleCache{mods: map[string]*Module{}}
}

// execImport implements the `import NAME` statement: load (or fetch cached)
// and bind the proxy under the module's name in the current env.
func (ip *Interpreter) execImport(n *Import, env *Env) error {
	mod, err := ip.loadModule(n.Name)
	if err != nil {
		return err
	}
	env.Define(n.Name, Value{Tag: VTModule, Data: mod})
	return nil
}

func (ip *Interpreter) loadModule(name string) (*Module, error) {
	if mod, ok := ip.mcache.mods[name]; ok {
		return mod, nil
	}

	for _, s := range ip.mcache.stack {
		if s == name {
			return nil, &ModuleError{Module: name, Msg: "import cycle detected: " + joinCycle(ip.mcache.stack, name)}
		}
	}
	ip.mcache.stack = append(ip.mcache.stack, name)
	defer func() { ip.mcache.stack = ip.mcache.stack[:len(ip.mcache.stack)-1] }()

	// Bundled native modules take precedence over the search path.
	if build, ok := nativeModules[name]; ok {
		mod := build(ip)
		ip.mcache.mods[name] = mod
		return mod, nil
	}

	if ip.ModulePath == "" {
		return nil, &ModuleError{Module: name, Msg: "module search path is not configured"}
	}

	path := filepath.Join(ip.ModulePath, name+moduleExt)
	if !fileExists(path) {
		alt := filepath.Join(ip.ModulePath, name+moduleExtAlt)
		if fileExists(alt) {
			path = alt
		} else {
			return nil, &ModuleError{Module: name, Path: path,
				Msg: fmt.Sprintf("not found in search path %s", ip.ModulePath)}
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModuleError{Module: name, Path: path, Msg: fmt.Sprintf("cannot read: %v", err)}
	}

	block, err := Parse(string(src))
	if err != nil {
		return nil, &ModuleError{Module: name, Path: path,
			Msg: fmt.Sprintf("parse failed:\n%v", WrapErrorWithName(err, name, string(src)))}
	}

	// Execute the module top level in a fresh env parented to Global, with a
	// sub-interpreter holding the module's own function registry.
	sub := ip.forModule()
	modEnv := NewEnv(ip.Global)
	if _, err := sub.execBlock(block, modEnv); err != nil {
		return nil, &ModuleError{Module: name, Path: path, Msg: fmt.Sprintf("load failed: %v", err)}
	}

	mod := &Module{Name: name, Env: modEnv, Funcs: sub.funcs}
	ip.mcache.mods[name] = mod
	return mod, nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func joinCycle(stack []string, again string) string {
	return strings.Join(append(append([]string{}, stack...), again), " -> ")
}
