// Package compiler implements the module/compilation-context manager:
// module search across library paths, recursive import loading with
// cycle detection, the fixed per-module pass pipeline (spec §4.8), and
// a content-hash keyed file cache (spec §6). Grounded on
// original_source/hilti/context.cc's CompilerContext (searchModule,
// loadModule, _finalizeModule) and, for the search/caching/dependency-
// order shape specifically, the teacher's internal/module/loader.go
// and internal/link/topo.go.
package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/cfg"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/instr"
	"github.com/hiltic/hiltic/internal/liveness"
	"github.com/hiltic/hiltic/internal/operator"
	"github.com/hiltic/hiltic/internal/resolve"
	"github.com/hiltic/hiltic/internal/validate"
)

// ParseFunc turns a module's already-located, already-read source bytes
// into an AST. Concrete-syntax lexing/parsing is out of scope (see
// SPEC_FULL.md Non-goals); this is the seam a real HILTI front end
// would occupy. id is the module identifier derived from path relative
// to whichever library path matched it.
type ParseFunc func(id *ast.ID, path string, src []byte) (*ast.Module, error)

// Options configures a Context.
type Options struct {
	// LibraryPaths are searched in order for "<module>.hlt" (spec §4.8);
	// mirrors options().libdirs_hlt.
	LibraryPaths []string

	// CacheDir, if non-empty, enables the content-hash keyed file cache
	// (spec §6). Disabled (nil Context._cache, in the source's terms)
	// when empty.
	CacheDir string

	// Parse supplies the module AST for a located file. Required.
	Parse ParseFunc

	// ImplicitImport, if non-empty, names a module every other module
	// implicitly imports (HILTI's libhilti). Empty disables this.
	ImplicitImport string
}

// Unit is one fully compiled module: its AST plus the CFG/liveness
// results computed over it, and the log of every diagnostic its own
// pipeline run produced.
type Unit struct {
	Path string
	AST  *ast.Module
	CFG  *cfg.Graph
	Live *liveness.Liveness
	Log  *diag.Log

	// Cached reports whether this unit's content hash matched a
	// previously stored cache record (spec §6) — the pipeline still ran
	// (see DESIGN.md: no AST serialization codec exists in this port),
	// but a caller wiring this into an incremental build can use this
	// bit the way it would use a real cache hit.
	Cached bool

	contentHash [sha256.Size]byte
}

// Context is the compiler's module manager: one per compilation,
// shared across every module it loads, owning the single process-wide
// operator/instruction registries every module's pipeline run
// consults (an ir.Builder, by contrast, builds a private pair of its
// own in NewBuilder).
type Context struct {
	opts         Options
	operators    *operator.Registry
	instructions *instr.Registry

	mu      sync.Mutex
	modules map[string]*Unit  // canonical path -> compiled unit
	names   map[string]string // module name -> canonical path that claimed it

	// CacheLog accumulates non-fatal cache bookkeeping diagnostics
	// (CTX004) — content-hash mismatches are silently regenerated (spec
	// §6), never failing a Load, so they are kept out of the *diag.Log
	// returned per Load (whose HasErrors() would otherwise wrongly trip).
	CacheLog *diag.Log
}

// New creates a Context with its own operator/instruction registries,
// populated once via StdSignatures/StdOverloads exactly as
// ir.NewBuilder does for a single standalone module.
func New(opts Options) *Context {
	opReg := operator.NewRegistry()
	operator.StdSignatures(opReg)
	insReg := instr.NewRegistry()
	instr.StdOverloads(insReg)
	return &Context{
		opts:         opts,
		operators:    opReg,
		instructions: insReg,
		modules:      map[string]*Unit{},
		names:        map[string]string{},
		CacheLog:     diag.NewLog(),
	}
}

// SearchModule resolves id to a canonical file path by lowercasing its
// dotted path, appending ".hlt" if not already present, and trying
// each LibraryPath in order — mirrors
// CompilerContext::searchModule exactly, including realpath
// canonicalization (filepath.EvalSymlinks) of whichever candidate
// matches first.
func (c *Context) SearchModule(id *ast.ID) (string, error) {
	rel := strings.ToLower(id.PathAsString())
	if !strings.HasSuffix(rel, ".hlt") {
		rel += ".hlt"
	}
	rel = filepath.FromSlash(rel)

	for _, dir := range c.opts.LibraryPaths {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		real, err := filepath.EvalSymlinks(candidate)
		if err != nil {
			return "", fmt.Errorf("hiltic: resolving %s: %w", candidate, err)
		}
		return real, nil
	}
	return "", fmt.Errorf("cannot find module %s", id.PathAsString())
}

// Load locates, loads, and fully compiles the module named by id (and,
// recursively, everything it imports), returning the resulting Unit
// and a Log of every diagnostic raised across the whole dependency
// subtree. A module already compiled in this Context (by canonical
// path) is returned from c.modules without rerunning its pipeline.
func (c *Context) Load(id *ast.ID) (*Unit, *diag.Log) {
	log := diag.NewLog()
	path, err := c.SearchModule(id)
	if err != nil {
		s := id.Span()
		log.Add(diag.New(diag.CTX001, "context", err.Error(), &s))
		return nil, log
	}
	u, _ := c.loadPath(path, nil, log)
	return u, log
}

func (c *Context) loadPath(path string, trail []string, log *diag.Log) (*Unit, bool) {
	c.mu.Lock()
	if u, ok := c.modules[path]; ok {
		c.mu.Unlock()
		return u, true
	}
	c.mu.Unlock()

	for _, t := range trail {
		if t == path {
			cycle := append(append([]string{}, trail...), path)
			log.Add(diag.New(diag.CTX002, "context", "circular import: "+strings.Join(cycle, " -> "), nil))
			return nil, false
		}
	}
	trail = append(trail, path)

	src, err := os.ReadFile(path)
	if err != nil {
		log.Add(diag.New(diag.CTX001, "context", err.Error(), nil))
		return nil, false
	}
	ownHash := sha256.Sum256(src)

	if c.opts.Parse == nil {
		log.Add(diag.New(diag.CTX001, "context", "no parser configured for "+path, nil))
		return nil, false
	}
	id := ast.NewID(moduleIDFromPath(path), ast.None)
	mod, err := c.opts.Parse(id, path, src)
	if err != nil {
		log.Add(diag.New(diag.CTX001, "context", err.Error(), nil))
		return nil, false
	}

	if err := c.claimName(mod.Name.PathAsString(), path); err != nil {
		log.Add(diag.New(diag.CTX003, "context", err.Error(), nil))
		return nil, false
	}

	if c.opts.ImplicitImport != "" && mod.Name.PathAsString() != c.opts.ImplicitImport {
		mod.AddImport(ast.NewID(c.opts.ImplicitImport, ast.None))
	}

	depHash := ownHash
	for _, imp := range mod.Imports {
		impPath, err := c.SearchModule(imp)
		if err != nil {
			s := imp.Span()
			log.Add(diag.New(diag.CTX001, "context", err.Error(), &s))
			return nil, false
		}
		depUnit, ok := c.loadPath(impPath, trail, log)
		if !ok {
			return nil, false
		}
		depHash = xorHash(depHash, depUnit.contentHash)
	}

	unit := c.finalize(path, mod, log)
	unit.contentHash = depHash
	unit.Cached = c.checkCache(path, depHash)
	c.storeCache(path, depHash)

	c.mu.Lock()
	if existing, ok := c.modules[path]; ok {
		c.mu.Unlock()
		return existing, !log.HasErrors()
	}
	c.modules[path] = unit
	c.mu.Unlock()

	return unit, !log.HasErrors()
}

// claimName records that path declares the module name name, reporting
// CTX003 (via the returned error) if a different path already claimed
// it — the canonical-name collision the source's module table can
// never produce (it is keyed by realpath, not declared name) but a
// multi-library-path search can.
func (c *Context) claimName(name, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.names[name]; ok && existing != path {
		return fmt.Errorf("duplicate module name %q: already loaded from %s, now also from %s", name, existing, path)
	}
	c.names[name] = path
	return nil
}

func moduleIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// finalize runs mod through the fixed per-module pass pipeline (spec
// §4.8), grounded on CompilerContext::_finalizeModule's stage order:
// scope building, aliasing each already-compiled imported module's
// top-level scope into mod's own (resolve.AliasImports), two-pass id
// resolution (instruction resolution runs
// between the two id-resolution passes since it can introduce new
// assign instructions that still need their operands resolved),
// operator resolution, validation, and finally CFG/liveness. Every
// stage shares one *diag.Log so a single compilation surfaces every
// diagnostic across every stage, matching Log's accumulate-everything
// design (see DESIGN.md's internal/diag entry).
func (c *Context) finalize(path string, mod *ast.Module, log *diag.Log) *Unit {
	resolve.BuildScopes(mod, log)
	resolve.AliasImports(mod, func(name string) (*ast.Scope, bool) {
		c.mu.Lock()
		defer c.mu.Unlock()
		u, ok := c.modules[c.names[name]]
		if !ok {
			return nil, false
		}
		return u.AST.Body.Scope, true
	}, log)
	resolve.ResolveIDs(mod, log, false)
	c.instructions.Resolve(mod, log, c.operators.CanCoerceTo, c.operators.CoerceTo)
	resolve.ResolveIDs(mod, log, true)
	c.operators.Resolve(mod, log)
	validate.SetCoercionHook(c.operators.CanCoerceTo)
	validate.Run(mod, log)

	g := cfg.Build(mod, c.instructions, log)
	lv := liveness.Run(g, c.instructions, log)

	return &Unit{Path: path, AST: mod, CFG: g, Live: lv, Log: log}
}

func xorHash(a, b [sha256.Size]byte) [sha256.Size]byte {
	var out [sha256.Size]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// cacheRecord is the on-disk representation of one cached module's
// content hash, stored as "<CacheDir>/<canonical-path-hash>.json" —
// the "Persisted cache layout" of spec §6, minus a serialized IR blob:
// no codec for round-tripping an *ast.Module tree is grounded anywhere
// in the pack (see DESIGN.md), so this cache's role is the staleness
// check itself (Unit.Cached, and CTX004 on mismatch) rather than
// skipping the pipeline run outright.
type cacheRecord struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

func (c *Context) cachePathFor(path string) string {
	key := sha256.Sum256([]byte(path))
	return filepath.Join(c.opts.CacheDir, hex.EncodeToString(key[:])+".json")
}

// checkCache reports whether path's previously stored hash (if any)
// matches hash, logging CTX004 to CacheLog on a mismatch — a mismatch
// is never fatal to the Load itself (spec §6: "mismatched entries are
// silently regenerated").
func (c *Context) checkCache(path string, hash [sha256.Size]byte) bool {
	if c.opts.CacheDir == "" {
		return false
	}
	data, err := os.ReadFile(c.cachePathFor(path))
	if err != nil {
		return false
	}
	var rec cacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return false
	}
	want := hex.EncodeToString(hash[:])
	if rec.Hash != want {
		c.CacheLog.Add(diag.New(diag.CTX004, "context", "cache content-hash mismatch for "+path, nil))
		return false
	}
	return true
}

func (c *Context) storeCache(path string, hash [sha256.Size]byte) {
	if c.opts.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(c.opts.CacheDir, 0o755); err != nil {
		return
	}
	rec := cacheRecord{Path: path, Hash: hex.EncodeToString(hash[:])}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.cachePathFor(path), data, 0o644)
}
