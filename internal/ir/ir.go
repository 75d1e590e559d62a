// Package ir implements the in-memory container for a single
// compilation unit of a hardware description IR: its data-flow graph,
// control-flow graph, layout and the mutation protocol (UnitBuilder)
// that keeps the three in sync. It does not parse, verify or optimize
// anything by itself, and its only printing is the minimal dump of
// PrintUnit; parsing, verification and full pretty printing are
// external collaborators that consume the contracts this package
// exposes.
package ir

// NewFunction starts building a Function unit: no outputs, a required
// return type.
func NewFunction(name UnitName, sig Signature, opts ...UnitOption) *UnitBuilder {
	return NewUnitBuilder(Function, name, sig, opts...)
}

// NewProcess starts building a Process unit: may have outputs, no
// return type.
func NewProcess(name UnitName, sig Signature, opts ...UnitOption) *UnitBuilder {
	return NewUnitBuilder(Process, name, sig, opts...)
}

// NewEntity starts building an Entity unit: may have outputs, no
// return type, and always starts with exactly one body block.
func NewEntity(name UnitName, sig Signature, opts ...UnitOption) *UnitBuilder {
	return NewUnitBuilder(Entity, name, sig, opts...)
}

// PrintUnit returns the unit's minimal textual dump. A fully-featured
// pretty printer lives outside this package; this is enough to make a
// panic or a test failure legible.
func PrintUnit(u *Unit) string {
	return u.String()
}
