// Command hiltic is the compiler's CLI entry point: flag-based
// subcommands in the shape of cmd/ailang/main.go (stdlib flag,
// github.com/fatih/color for diagnostic rendering).
//
// compile/check load the module manifest, wire internal/compiler, and
// run a module through the full resolve/operator/cfg/liveness pipeline.
// Concrete-syntax lexing/parsing is out of scope (see SPEC_FULL.md
// Non-goals): parseSource below is the seam a real front end occupies,
// and reports a clear diagnostic in its place until one is wired in.
package main

import (
	"fmt"
	"os"

	"flag"

	"github.com/fatih/color"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/compiler"
	"github.com/hiltic/hiltic/internal/diag"
	"github.com/hiltic/hiltic/internal/manifest"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag  = flag.Bool("version", false, "Print version information")
		helpFlag     = flag.Bool("help", false, "Show help")
		manifestFlag = flag.String("manifest", "hiltic.yaml", "Path to the project manifest")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch command := flag.Arg(0); command {
	case "compile", "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing module argument\n", red("Error"))
			fmt.Printf("Usage: hiltic %s <module>\n", command)
			os.Exit(1)
		}
		runCompile(*manifestFlag, flag.Arg(1), command == "check")

	case "scope-repl":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing module argument\n", red("Error"))
			fmt.Println("Usage: hiltic scope-repl <module>")
			os.Exit(1)
		}
		runScopeRepl(*manifestFlag, flag.Arg(1))

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("hiltic %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
}

func printHelp() {
	fmt.Println(bold("hiltic - protocol-parser compiler front/mid-end"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  hiltic <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <module>        Compile a module through the full pipeline\n", cyan("compile"))
	fmt.Printf("  %s <module>          Compile but print diagnostics only (no further output)\n", cyan("check"))
	fmt.Printf("  %s <module>     Inspect a module's resolved scope interactively\n", cyan("scope-repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --manifest <path>  Project manifest (default hiltic.yaml)")
	fmt.Println("  --version          Print version information")
	fmt.Println("  --help             Show this help message")
}

// loadManifest reads path, falling back to manifest.New()'s defaults
// (search the working directory, no cache) if it does not exist — a
// bare module tree with no manifest file is still compilable.
func loadManifest(path string) (*manifest.Manifest, string) {
	if _, err := os.Stat(path); err != nil {
		return manifest.New(), path
	}
	m, err := manifest.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	return m, path
}

func newContext(manifestPath string) *compiler.Context {
	m, resolvedPath := loadManifest(manifestPath)
	return compiler.New(compiler.Options{
		LibraryPaths:   m.ResolveLibraryPaths(resolvedPath),
		CacheDir:       m.ResolveCacheDir(resolvedPath),
		ImplicitImport: m.ImplicitImport,
		Parse:          parseSource,
	})
}

// parseSource stands in for the concrete lexer/parser SPEC_FULL.md
// keeps out of scope. A real front end would tokenize src and build the
// *ast.Module; until one is wired in, every module reports a single
// diagnostic naming the gap instead of silently producing an empty AST.
func parseSource(id *ast.ID, path string, src []byte) (*ast.Module, error) {
	return nil, fmt.Errorf("no concrete-syntax front end is wired into this build (module %s, %s)", id.PathAsString(), path)
}

func runCompile(manifestPath, moduleName string, diagnosticsOnly bool) {
	ctx := newContext(manifestPath)
	unit, log := ctx.Load(ast.NewID(moduleName, ast.None))
	printLog(log)
	if ctx.CacheLog.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s cache diagnostics:\n", yellow("→"))
		printLog(ctx.CacheLog)
	}
	if log.HasErrors() {
		os.Exit(1)
	}
	if diagnosticsOnly {
		return
	}
	fmt.Printf("%s %s: cached=%v\n", cyan("✓"), unit.Path, unit.Cached)
}

func printLog(log *diag.Log) {
	for _, r := range log.Reports() {
		loc := "<none>"
		if r.Span != nil {
			loc = r.Span.String()
		}
		fmt.Fprintf(os.Stderr, "%s [%s] %s: %s\n", red(r.Code), r.Phase, loc, r.Message)
	}
}

func runScopeRepl(manifestPath, moduleName string) {
	ctx := newContext(manifestPath)
	unit, log := ctx.Load(ast.NewID(moduleName, ast.None))
	printLog(log)
	if log.HasErrors() {
		os.Exit(1)
	}
	startScopeRepl(unit)
}
