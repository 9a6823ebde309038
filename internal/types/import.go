package types

// ImportItem is a single name brought into scope by an import, with an
// optional local alias (`import {Foo as Bar} from "m"`).
type ImportItem struct {
	Name  string
	Alias string // empty when not aliased
}

// Import is a declaration that brings one or more names into a file.
// Invariants (spec.md §8 "Import totality"): exactly one Source, exactly
// one Style, ModulePath is never empty. Style-specific invariants: every
// Named import has at least one Item; Star imports have no Items; Default
// imports set ModuleAlias.
type Import struct {
	ModulePath  string
	Style       ImportStyle
	Source      ImportSource
	Items       []ImportItem
	ModuleAlias string // set for Module/Default styles when an alias is present
	TypeOnly    bool   // TypeScript `import type`
	Dynamic     bool   // e.g. Python's importlib, JS's `import()`
	Location    Location
}
