package ast

// Module is the root node of a single compilation unit: a named body
// Block plus the bookkeeping the compiler context and validator need
// (which other modules it imports, which of its own top-level IDs it
// exports, and a cache slot for the Unit execution-context struct a
// later pass may synthesize for parsing units).
type Module struct {
	Base

	Name    *ID
	Body    *Block
	Imports []*ID

	exported map[string]bool

	// ExecutionContext, when non-nil, is the synthesized struct type
	// gathering a parsing unit's persistent state across hook
	// invocations (spec §4.4). Left nil for modules with no units.
	ExecutionContext interface{}
}

// NewModule creates a module with a fresh top-level scope (no parent:
// imports are installed as aliased child scopes, never as a parent
// link, so an unqualified lookup never silently escapes into another
// module).
func NewModule(span Span, name *ID) *Module {
	m := &Module{Name: name, exported: make(map[string]bool)}
	m.Base = NewBase(span)
	m.Body = NewBlock(span, nil)
	return m
}

func (m *Module) Children() []Node { return []Node{m.Body} }

// AddImport records that m imports the module named by id. The actual
// scope aliasing is performed by the scope-builder pass once all
// modules in a compilation are loaded (internal/resolve).
func (m *Module) AddImport(id *ID) {
	m.Imports = append(m.Imports, id)
}

// Export marks id, a name declared at m's top level, as visible to
// importing modules.
func (m *Module) Export(id *ID) {
	if m.exported == nil {
		m.exported = make(map[string]bool)
	}
	m.exported[id.Name()] = true
}

// Exported reports whether id was named in an export statement. Used by
// the id-resolver pass to set EXPORTED linkage on the matching
// declaration (spec §4.1).
func (m *Module) Exported(id *ID) bool {
	return m.exported[id.Name()]
}

// Scope returns the module's top-level scope.
func (m *Module) Scope() *Scope { return m.Body.Scope }
