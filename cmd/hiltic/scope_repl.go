package main

import (
	"fmt"
	"strings"

	"github.com/peterh/liner"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/hiltic/hiltic/internal/compiler"
)

// startScopeRepl is the "printer... as a debug facility" surface
// SPEC_FULL.md keeps in scope alongside the compiled core's pretty-
// printer restriction: it loads a module through the full pipeline
// (already done by the caller) and lets a user type a dotted ID, looked
// up from the module's top-level scope, to see the Go node type and
// source span of each expression it resolves to, the same line-editing idiom
// as a teacher REPL command loop but scoped to id lookups rather than
// evaluation.
func startScopeRepl(unit *compiler.Unit) {
	fmt.Printf("hiltic scope-repl — %s\n", unit.Path)
	fmt.Println("Type a dotted ID to look it up, :quit to exit.")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("scope> ")
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == ":quit" || input == ":q" {
			return
		}

		lookupAndPrint(unit, input)
	}
}

func lookupAndPrint(unit *compiler.Unit, dotted string) {
	id := ast.NewID(dotted, ast.None)
	scope := unit.AST.Scope()

	matches := scope.Lookup(id)
	if len(matches) == 0 {
		fmt.Printf("  %s: not found in module scope\n", dotted)
		return
	}
	for _, e := range matches {
		fmt.Printf("  %s -> %T at %s\n", dotted, e, e.Span())
	}
}
