package ast

import "fmt"

// Symbol is an identity-based key. Two symbols are equal only if they are
// the same pointer; the description exists for diagnostics and carries no
// identity. Symbols serve as annotation keys, as property keys alongside
// strings, and as the value domain of the symbol keyword and
// [UniqueSymbol] nodes.
type Symbol struct {
	description string
}

// NewSymbol creates a fresh symbol with the given description.
// Every call returns a distinct identity, even for equal descriptions.
func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

// Description returns the symbol's description.
func (s *Symbol) Description() string {
	return s.description
}

// String implements [fmt.Stringer].
func (s *Symbol) String() string {
	return fmt.Sprintf("Symbol(%s)", s.description)
}

// PropertyKey identifies a property signature: either a string name or a
// [Symbol]. The zero value is the empty string key. PropertyKey is
// comparable and can be used as a map key.
type PropertyKey struct {
	name   string
	symbol *Symbol
}

// StringKey creates a PropertyKey from a string name.
func StringKey(name string) PropertyKey {
	return PropertyKey{name: name}
}

// SymbolKey creates a PropertyKey from a symbol.
func SymbolKey(sym *Symbol) PropertyKey {
	return PropertyKey{symbol: sym}
}

// IsSymbol reports whether the key is a symbol key.
func (k PropertyKey) IsSymbol() bool {
	return k.symbol != nil
}

// Name returns the string name for a string key, or "" for a symbol key.
func (k PropertyKey) Name() string {
	return k.name
}

// Symbol returns the symbol for a symbol key, or nil for a string key.
func (k PropertyKey) Symbol() *Symbol {
	return k.symbol
}

// Value returns the key as a host value: a string or a *[Symbol].
func (k PropertyKey) Value() any {
	if k.symbol != nil {
		return k.symbol
	}

	return k.name
}

// String implements [fmt.Stringer].
func (k PropertyKey) String() string {
	if k.symbol != nil {
		return k.symbol.String()
	}

	return fmt.Sprintf("%q", k.name)
}
