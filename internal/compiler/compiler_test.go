package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/types"
	"github.com/stretchr/testify/assert"
)

// touch creates a one-line placeholder file at dir/name — the test Parse
// funcs below ignore its content; SearchModule needs the file to exist,
// and its bytes feed the content hash.
func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("module "+name+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

// trivialModule builds a minimal, fully valid module (one function
// returning void) named after id — enough to clear every pipeline
// stage without tripping any validator rule.
func trivialModule(id *ast.ID, imports ...string) *ast.Module {
	mod := ast.NewModule(ast.None, id)
	fn := ast.NewFunctionDecl(ast.None, ast.NewID("run", ast.None), &types.Function{Result: &types.Void{}}, nil, ast.NewBlock(ast.None, mod.Body.Scope))
	ret := &ast.Return{}
	ret.Base = ast.NewBase(ast.None)
	fn.Body.Statements = append(fn.Body.Statements, ret)
	mod.Body.Declarations = append(mod.Body.Declarations, fn)
	for _, imp := range imports {
		mod.AddImport(ast.NewID(imp, ast.None))
	}
	return mod
}

func TestLoadCompilesSingleModule(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "leaf.hlt")

	ctx := New(Options{
		LibraryPaths: []string{dir},
		Parse: func(id *ast.ID, path string, src []byte) (*ast.Module, error) {
			return trivialModule(id), nil
		},
	})

	u, log := ctx.Load(ast.NewID("leaf", ast.None))
	assert.False(t, log.HasErrors())
	assert.NotNil(t, u)
	assert.NotNil(t, u.CFG)
	assert.NotNil(t, u.Live)
}

func TestLoadResolvesImportsRecursively(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.hlt")
	touch(t, dir, "b.hlt")

	ctx := New(Options{
		LibraryPaths: []string{dir},
		Parse: func(id *ast.ID, path string, src []byte) (*ast.Module, error) {
			if id.PathAsString() == "a" {
				return trivialModule(id, "b"), nil
			}
			return trivialModule(id), nil
		},
	})

	u, log := ctx.Load(ast.NewID("a", ast.None))
	assert.False(t, log.HasErrors())
	assert.NotNil(t, u)

	// b must have been compiled too, and reused (not recompiled) on a
	// direct request for it.
	bUnit, bLog := ctx.Load(ast.NewID("b", ast.None))
	assert.False(t, bLog.HasErrors())
	assert.NotNil(t, bUnit)
}

func TestLoadReportsCTX001OnMissingModule(t *testing.T) {
	dir := t.TempDir()
	ctx := New(Options{
		LibraryPaths: []string{dir},
		Parse: func(id *ast.ID, path string, src []byte) (*ast.Module, error) {
			return trivialModule(id), nil
		},
	})

	_, log := ctx.Load(ast.NewID("nosuch", ast.None))
	assert.True(t, log.HasErrors())
	assert.Equal(t, diag.CTX001, log.Reports()[0].Code)
}

func TestLoadReportsCTX002OnImportCycle(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "x.hlt")
	touch(t, dir, "y.hlt")

	ctx := New(Options{
		LibraryPaths: []string{dir},
		Parse: func(id *ast.ID, path string, src []byte) (*ast.Module, error) {
			if id.PathAsString() == "x" {
				return trivialModule(id, "y"), nil
			}
			return trivialModule(id, "x"), nil
		},
	})

	_, log := ctx.Load(ast.NewID("x", ast.None))
	assert.True(t, log.HasErrors())
	found := false
	for _, r := range log.Reports() {
		if r.Code == diag.CTX002 {
			found = true
		}
	}
	assert.True(t, found, "expected a CTX002 circular-import report")
}

func TestCacheDetectsContentChange(t *testing.T) {
	dir := t.TempDir()
	cacheDir := t.TempDir()
	touch(t, dir, "m.hlt")

	opts := Options{
		LibraryPaths: []string{dir},
		CacheDir:     cacheDir,
		Parse: func(id *ast.ID, path string, src []byte) (*ast.Module, error) {
			return trivialModule(id), nil
		},
	}

	first := New(opts)
	u1, log1 := first.Load(ast.NewID("m", ast.None))
	assert.False(t, log1.HasErrors())
	assert.False(t, u1.Cached, "first compile of a module has nothing to hit in the cache")

	second := New(opts)
	u2, log2 := second.Load(ast.NewID("m", ast.None))
	assert.False(t, log2.HasErrors())
	assert.True(t, u2.Cached, "second context sees the same unchanged file and the stored hash")

	// Touch with different content: the stored hash no longer matches.
	if err := os.WriteFile(filepath.Join(dir, "m.hlt"), []byte("module m\n// changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	third := New(opts)
	u3, log3 := third.Load(ast.NewID("m", ast.None))
	assert.False(t, log3.HasErrors())
	assert.False(t, u3.Cached)
	assert.True(t, third.CacheLog.HasErrors(), "a content mismatch is recorded in CacheLog, not in the Load's own log")
}
