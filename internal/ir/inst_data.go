package ir

// InstData is the opaque payload of an instruction. The core makes no
// assumption about opcode semantics: concrete instruction kinds
// (arithmetic, loads, branches, calls, ...) are defined by the
// instruction-builder sugar layer outside this module. The core only
// needs an opcode label for diagnostics and the initial operand/block
// lists used to seed the DFG's own use-list bookkeeping; once an
// instruction is added, the DFG tracks operands and block references
// itself, so InstData need not be mutable.
type InstData interface {
	// Opcode is a short label for diagnostics and dumps, e.g. "add",
	// "br", "phi". It carries no behavior.
	Opcode() string
	// Operands returns the instruction's operand values in order, as
	// of construction time.
	Operands() []Value
	// Blocks returns the instruction's block references in order
	// (branch targets, phi predecessors), as of construction time.
	Blocks() []Block
}

// Phi is the one instruction kind the core knows about by name,
// because phi predecessor-entry scrubbing during block removal is a
// core invariant (see UnitBuilder.RemoveBlockUse), not a concern of
// the external instruction-builder sugar layer. Preds[i] is the
// predecessor block whose control-flow edge carries the value Vals[i];
// the two slices are always the same length and index-correlated.
type Phi struct {
	Preds []Block
	Vals  []Value
}

func (p *Phi) Opcode() string     { return "phi" }
func (p *Phi) Operands() []Value  { return p.Vals }
func (p *Phi) Blocks() []Block    { return p.Preds }

// IntConstData is implemented by an InstData that constructs an
// integer constant, so DFG.ConstInt can recover the immediate payload
// without the core hardcoding an opcode table.
type IntConstData interface {
	ConstInt() int64
}

// TimeConstData is the time-valued analogue of IntConstData.
type TimeConstData interface {
	ConstTime() int64
}

// ArrayConstData is the array-valued analogue of IntConstData.
type ArrayConstData interface {
	ConstArray() []Value
}

// StructConstData is the struct-valued analogue of IntConstData.
type StructConstData interface {
	ConstStruct() []Value
}

// ExtUnitData describes another unit imported into this unit's DFG by
// name and signature, for call or instantiation by the
// instruction-builder sugar layer.
type ExtUnitData struct {
	Name UnitName
	Sig  Signature
}
