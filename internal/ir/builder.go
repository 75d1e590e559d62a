package ir

// UnitBuilder is the mutable façade coordinating the DFG, CFG and
// layout of a single unit. It holds the underlying record and an
// insertion cursor, and is the only way to mutate a unit: every edit
// is routed to the DFG, CFG and layout in a fixed order so a partial
// failure never leaves a dangling reference.
//
// UnitBuilder embeds a read view over the same record it mutates, so
// every read accessor defined on *Unit (Kind, Name, Blocks, DFG, and
// so on) is also available directly on *UnitBuilder. Go has no borrow
// checker to enforce the aliasing discipline the data model calls
// for, so the discipline is a documentation-level + API-shape
// contract instead: reads go through the embedded view (or the *Unit
// that Finish returns), writes go through this builder's methods, and
// no method here ever hands back a read reference that is expected to
// survive a later write. Finish does not invalidate the builder: the
// view it returns shares the record, so edits made through the
// builder afterward are visible through that view.
type UnitBuilder struct {
	*Unit
	data *UnitData
}

// NewUnitBuilder creates a builder over a freshly constructed record.
func NewUnitBuilder(kind UnitKind, name UnitName, sig Signature, opts ...UnitOption) *UnitBuilder {
	data := NewUnitData(kind, name, sig, opts...)
	return newUnitBuilder(InvalidUnitID, data)
}

func newUnitBuilder(id UnitID, data *UnitData) *UnitBuilder {
	return &UnitBuilder{Unit: newUnitView(id, data), data: data}
}

// Finish returns a read-only view over the same record. The builder
// itself stays usable afterward.
func (b *UnitBuilder) Finish() *Unit {
	return newUnitView(b.Unit.id, b.data)
}

// SetUnitName renames the unit being built. Named SetUnitName rather
// than SetName to stay distinct from the per-value SetName below,
// which is the one spec.md overloads onto UnitBuilder by way of the
// DFG's value naming.
func (b *UnitBuilder) SetUnitName(n UnitName) { b.data.SetName(n) }

// SetUnitSignature changes the unit's signature. See UnitData.SetSignature
// for the caveat about argument bindings not being rebound.
func (b *UnitBuilder) SetUnitSignature(sig Signature) { b.data.SetSignature(sig) }

// -- Cursor --------------------------------------------------------

// InsertAtEnd moves the cursor to Append(bb).
func (b *UnitBuilder) InsertAtEnd(bb Block) { b.AppendTo(bb) }

// InsertAtBeginning moves the cursor to Prepend(bb).
func (b *UnitBuilder) InsertAtBeginning(bb Block) { b.PrependTo(bb) }

// AppendTo moves the cursor to Append(bb): subsequent insertions land
// after the last instruction of bb.
func (b *UnitBuilder) AppendTo(bb Block) {
	b.data.layout.cur = cursor{kind: cursorAppend, block: bb}
}

// PrependTo moves the cursor to Prepend(bb): subsequent insertions
// land before the first instruction of bb.
func (b *UnitBuilder) PrependTo(bb Block) {
	b.data.layout.cur = cursor{kind: cursorPrepend, block: bb}
}

// InsertAfter moves the cursor to After(inst).
func (b *UnitBuilder) InsertAfter(inst Inst) {
	b.data.layout.cur = cursor{kind: cursorAfter, inst: inst}
}

// InsertBefore moves the cursor to Before(inst).
func (b *UnitBuilder) InsertBefore(inst Inst) {
	b.data.layout.cur = cursor{kind: cursorBefore, inst: inst}
}

// -- Instruction authoring ------------------------------------------

// AddInst allocates an instruction via the DFG without placing it in
// the layout. The instruction-builder sugar layer uses this when it
// wants to stage a payload before deciding where it lands (for
// example, assembling a phi's operand list across multiple forward
// references before the phi is placed).
func (b *UnitBuilder) AddInst(data InstData, typ Type) Inst {
	inst := b.data.dfg.AddInst(data, typ)
	b.data.trace("inst %d (%s) allocated, unplaced", inst, data.Opcode())
	return inst
}

// BuildInst allocates an instruction via the DFG and places it at the
// current cursor position, advancing the cursor so a sequence of
// BuildInst calls emits instructions in the order called. Inserting
// with no cursor position set is a programmer error.
func (b *UnitBuilder) BuildInst(data InstData, typ Type) Inst {
	inst := b.data.dfg.AddInst(data, typ)
	b.data.layout.place(inst)
	b.data.trace("inst %d (%s) built at cursor", inst, data.Opcode())
	return inst
}

// InstCursor is the minimal staging handle the instruction-builder
// sugar layer builds on: its only job is to route a finished
// InstData+Type pair back into BuildInst/AddInst at the builder's
// current cursor position. Opcode-specific convenience constructors
// ("build an add of two i32s") live outside this module, on top of
// this handle.
type InstCursor struct {
	b *UnitBuilder
}

// Ins returns a staging handle over b's current cursor position.
func (b *UnitBuilder) Ins() *InstCursor { return &InstCursor{b: b} }

// Build places data at the cursor position via BuildInst.
func (c *InstCursor) Build(data InstData, typ Type) Inst {
	return c.b.BuildInst(data, typ)
}

// Add stages data via AddInst without placing it.
func (c *InstCursor) Add(data InstData, typ Type) Inst {
	return c.b.AddInst(data, typ)
}

// RemoveInst deregisters the instruction from the cursor first, in
// case the cursor anchors it, then removes it from the layout and the
// DFG, in that order.
func (b *UnitBuilder) RemoveInst(inst Inst) {
	if b.data.layout.cur.kind == cursorAfter && b.data.layout.cur.inst == inst {
		b.data.layout.cur = cursor{kind: cursorNone}
	}
	if b.data.layout.cur.kind == cursorBefore && b.data.layout.cur.inst == inst {
		b.data.layout.cur = cursor{kind: cursorNone}
	}
	b.data.layout.RemoveInst(inst)
	b.data.dfg.RemoveInst(inst)
	b.data.trace("inst %d removed", inst)
}

// -- Blocks -----------------------------------------------------------

// Block creates and appends a fresh block.
func (b *UnitBuilder) Block() Block {
	bb := b.data.cfg.AddBlock()
	b.data.layout.AppendBlock(bb)
	b.data.trace("block %d created and appended", bb)
	return bb
}

// NamedBlock creates and appends a fresh block, assigning it a name.
func (b *UnitBuilder) NamedBlock(name string) Block {
	bb := b.Block()
	b.data.cfg.SetName(bb, name)
	return bb
}

// RemoveBlock removes bb: it snapshots bb's instructions, scrubs all
// references to bb via DFG.RemoveBlockUse, removes bb from the layout
// and the CFG, then for each snapshotted instruction's result value
// (if any) rewrites remaining users to the invalid-value sentinel
// before removing the instruction from the DFG. The extra rewrite
// pass is paranoia against dangling references from predecessors of
// bb that outlive it.
func (b *UnitBuilder) RemoveBlock(bb Block) {
	insts := b.data.layout.BlockInsts(bb)

	scrubbed := b.data.dfg.RemoveBlockUse(bb)
	b.data.layout.RemoveBlock(bb)
	b.data.cfg.RemoveBlock(bb)

	for _, inst := range insts {
		if result, ok := b.data.dfg.GetInstResult(inst); ok {
			b.data.dfg.ReplaceUse(result, InvalidValue)
		}
	}
	for _, inst := range insts {
		b.data.dfg.RemoveInst(inst)
	}

	b.data.trace("block %d removed, %d references scrubbed, %d instructions removed", bb, scrubbed, len(insts))
}

// -- Uses --------------------------------------------------------------

func (b *UnitBuilder) ReplaceUse(from, to Value) int { return b.data.dfg.ReplaceUse(from, to) }
func (b *UnitBuilder) ReplaceValueWithinInst(from, to Value, inst Inst) int {
	return b.data.dfg.ReplaceValueWithinInst(from, to, inst)
}
func (b *UnitBuilder) ReplaceBlockUse(from, to Block) int {
	return b.data.dfg.ReplaceBlockUse(from, to)
}
func (b *UnitBuilder) ReplaceBlockWithinInst(from, to Block, inst Inst) int {
	return b.data.dfg.ReplaceBlockWithinInst(from, to, inst)
}
func (b *UnitBuilder) RemoveBlockUse(bb Block) int { return b.data.dfg.RemoveBlockUse(bb) }
func (b *UnitBuilder) RemoveBlockFromInst(bb Block, inst Inst) int {
	return b.data.dfg.RemoveBlockFromInst(bb, inst)
}

// -- External units ------------------------------------------------

func (b *UnitBuilder) AddExtern(name UnitName, sig Signature) ExtUnit {
	return b.data.dfg.AddExtUnit(ExtUnitData{Name: name, Sig: sig})
}

// -- Placeholders / naming / hints / location -----------------------

func (b *UnitBuilder) AddPlaceholder(typ Type) Value  { return b.data.dfg.AddPlaceholder(typ) }
func (b *UnitBuilder) RemovePlaceholder(v Value)      { b.data.dfg.RemovePlaceholder(v) }

func (b *UnitBuilder) SetName(v Value, name string) { b.data.dfg.SetName(v, name) }
func (b *UnitBuilder) ClearName(v Value)            { b.data.dfg.ClearName(v) }

func (b *UnitBuilder) SetAnonymousHint(v Value, id uint32) { b.data.dfg.SetAnonymousHint(v, id) }
func (b *UnitBuilder) ClearAnonymousHint(v Value)          { b.data.dfg.ClearAnonymousHint(v) }

func (b *UnitBuilder) SetBlockName(bb Block, name string) { b.data.cfg.SetName(bb, name) }
func (b *UnitBuilder) ClearBlockName(bb Block)            { b.data.cfg.ClearName(bb) }

func (b *UnitBuilder) SetBlockAnonymousHint(bb Block, id uint32) {
	b.data.cfg.SetAnonymousHint(bb, id)
}
func (b *UnitBuilder) ClearBlockAnonymousHint(bb Block) { b.data.cfg.ClearAnonymousHint(bb) }

func (b *UnitBuilder) SetLocationHint(inst Inst, offset uint32) {
	b.data.dfg.SetLocationHint(inst, offset)
}
