package ir

import (
	"sort"

	"llhd/internal/irerr"
)

// valueOrigin tags how a value came to exist.
type valueOrigin int

const (
	originNone valueOrigin = iota
	originInst
	originArg
	originPlaceholder
)

type valueRecord struct {
	typ Type
	org valueOrigin

	definingInst Inst
	argPos       int

	uses map[Inst]struct{}

	name        string
	hasName     bool
	anonHint    uint32
	hasAnonHint bool
}

type instRecord struct {
	data      InstData
	isPhi     bool
	operands  []Value
	blockRefs []Block
	typ       Type
	result    Value

	locHint uint32
	hasLoc  bool
}

// DataFlowGraph stores value, instruction, argument and external-unit
// payloads: their types, names, use-lists, placeholders, location
// hints and constant queries. Handles are dense integers into arenas
// owned by the graph; cross-references are always handles, never
// owning pointers, so the logical value<->instruction cycles never
// become ownership cycles.
type DataFlowGraph struct {
	values   *arena[*valueRecord]
	insts    *arena[*instRecord]
	extUnits *arena[ExtUnitData]

	blockUsers map[Block]map[Inst]struct{}

	argValues []Value
}

func newDataFlowGraph(valueCapacityHint, instCapacityHint int) *DataFlowGraph {
	return &DataFlowGraph{
		values:     newArenaWithCap[*valueRecord](valueCapacityHint),
		insts:      newArenaWithCap[*instRecord](instCapacityHint),
		extUnits:   newArena[ExtUnitData](),
		blockUsers: make(map[Block]map[Inst]struct{}),
	}
}

func (dfg *DataFlowGraph) value(v Value) *valueRecord {
	rec, ok := dfg.values.get(uint32(v))
	if !ok {
		irerr.Fail(irerr.CodeInvalidHandle, "value")
	}
	return rec
}

func (dfg *DataFlowGraph) inst(i Inst) *instRecord {
	rec, ok := dfg.insts.get(uint32(i))
	if !ok {
		irerr.Fail(irerr.CodeInvalidHandle, "instruction")
	}
	return rec
}

// AddInst allocates a fresh instruction. If typ is not Void, it also
// allocates the instruction's result value. It registers the
// instruction as a user of every operand value and every referenced
// block, extending their use-lists.
func (dfg *DataFlowGraph) AddInst(data InstData, typ Type) Inst {
	operands := append([]Value(nil), data.Operands()...)
	blocks := append([]Block(nil), data.Blocks()...)

	for _, v := range operands {
		dfg.value(v) // panics on invalid operand
	}

	rec := &instRecord{
		data:      data,
		operands:  operands,
		blockRefs: blocks,
		typ:       typ,
	}
	if _, ok := data.(*Phi); ok {
		rec.isPhi = true
	}

	idx := dfg.insts.alloc(rec)
	inst := Inst(idx)

	if typ != Void {
		result := dfg.allocValue(&valueRecord{typ: typ, org: originInst, definingInst: inst, uses: map[Inst]struct{}{}})
		rec.result = result
	}

	for _, v := range operands {
		dfg.addUse(v, inst)
	}
	for _, b := range blocks {
		dfg.addBlockUser(b, inst)
	}

	return inst
}

func (dfg *DataFlowGraph) allocValue(rec *valueRecord) Value {
	if rec.uses == nil {
		rec.uses = map[Inst]struct{}{}
	}
	return Value(dfg.values.alloc(rec))
}

// addUse registers user as a user of v. Registering a use of the
// invalid-value sentinel is a no-op: a tombstone has no use-list of
// its own to maintain, only occurrences in other instructions'
// operand lists.
func (dfg *DataFlowGraph) addUse(v Value, user Inst) {
	if v == InvalidValue {
		return
	}
	rec := dfg.value(v)
	rec.uses[user] = struct{}{}
}

func (dfg *DataFlowGraph) dropUse(v Value, user Inst) {
	rec, ok := dfg.values.get(uint32(v))
	if !ok {
		return
	}
	delete(rec.uses, user)
}

func (dfg *DataFlowGraph) addBlockUser(b Block, user Inst) {
	if dfg.blockUsers[b] == nil {
		dfg.blockUsers[b] = make(map[Inst]struct{})
	}
	dfg.blockUsers[b][user] = struct{}{}
}

func (dfg *DataFlowGraph) dropBlockUser(b Block, user Inst) {
	if set, ok := dfg.blockUsers[b]; ok {
		delete(set, user)
		if len(set) == 0 {
			delete(dfg.blockUsers, b)
		}
	}
}

// RemoveInst first asserts that the instruction's result value (if
// any) has no remaining uses and drops it, then deregisters the
// instruction from every operand's use-list and from every referenced
// block's user list. Callers must rewrite uses of the result before
// calling this; a result with live uses is a programmer error, raised
// before anything is changed.
func (dfg *DataFlowGraph) RemoveInst(inst Inst) {
	rec := dfg.inst(inst)

	if rec.result != InvalidValue {
		if len(dfg.value(rec.result).uses) != 0 {
			irerr.Fail(irerr.CodeRemoveWithUses, "")
		}
		dfg.values.remove(uint32(rec.result))
	}

	for _, v := range rec.operands {
		dfg.dropUse(v, inst)
	}
	for _, b := range rec.blockRefs {
		dfg.dropBlockUser(b, inst)
	}

	dfg.insts.remove(uint32(inst))
}

// InstResult returns the instruction's result value, or panics if the
// instruction has none: accessing a non-existent result is a
// programmer error.
func (dfg *DataFlowGraph) InstResult(inst Inst) Value {
	rec := dfg.inst(inst)
	if rec.result == InvalidValue {
		irerr.Fail(irerr.CodeNoResult, "")
	}
	return rec.result
}

// HasResult reports whether the instruction produced a result value.
func (dfg *DataFlowGraph) HasResult(inst Inst) bool {
	return dfg.inst(inst).result != InvalidValue
}

// GetInstResult is the optional accessor counterpart to InstResult.
func (dfg *DataFlowGraph) GetInstResult(inst Inst) (Value, bool) {
	rec := dfg.inst(inst)
	if rec.result == InvalidValue {
		return InvalidValue, false
	}
	return rec.result, true
}

// bindArg records the deterministic mapping from a signature-argument
// slot to its bound value, called once by UnitData construction.
func (dfg *DataFlowGraph) bindArg(pos int, typ Type) Value {
	v := dfg.allocValue(&valueRecord{typ: typ, org: originArg, argPos: pos})
	if pos >= len(dfg.argValues) {
		grown := make([]Value, pos+1)
		copy(grown, dfg.argValues)
		dfg.argValues = grown
	}
	dfg.argValues[pos] = v
	return v
}

// ArgValue returns the value bound to a signature-argument slot.
// Out-of-bounds access is a programmer error.
func (dfg *DataFlowGraph) ArgValue(pos int) Value {
	if pos < 0 || pos >= len(dfg.argValues) {
		irerr.Fail(irerr.CodeArgOutOfBounds, "")
	}
	return dfg.argValues[pos]
}

// ValueType returns the type of a value.
func (dfg *DataFlowGraph) ValueType(v Value) Type { return dfg.value(v).typ }

// InstType returns the result type an instruction was created with
// (possibly Void).
func (dfg *DataFlowGraph) InstType(i Inst) Type { return dfg.inst(i).typ }

// GetValueInst returns the instruction defining v, if v is an
// instruction result. The invalid-value sentinel is a well-formed
// "no defining instruction" answer rather than a handle error, since
// a tombstoned operand slot is expected to surface here after a block
// removal's paranoia rewrite.
func (dfg *DataFlowGraph) GetValueInst(v Value) (Inst, bool) {
	if v == InvalidValue {
		return InvalidInst, false
	}
	rec := dfg.value(v)
	if rec.org != originInst {
		return InvalidInst, false
	}
	return rec.definingInst, true
}

// GetValueArg returns the signature-argument slot that bound v, if v
// is an argument value.
func (dfg *DataFlowGraph) GetValueArg(v Value) (int, bool) {
	if v == InvalidValue {
		return 0, false
	}
	rec := dfg.value(v)
	if rec.org != originArg {
		return 0, false
	}
	return rec.argPos, true
}

// Uses returns the set of instructions whose operand list contains v,
// in a deterministic (handle-sorted) order.
func (dfg *DataFlowGraph) Uses(v Value) []Inst {
	rec := dfg.value(v)
	out := make([]Inst, 0, len(rec.uses))
	for i := range rec.uses {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// HasUses reports whether v has at least one user.
func (dfg *DataFlowGraph) HasUses(v Value) bool { return len(dfg.value(v).uses) != 0 }

// HasOneUse reports whether v has exactly one user.
func (dfg *DataFlowGraph) HasOneUse(v Value) bool { return len(dfg.value(v).uses) == 1 }

// ReplaceUse rewrites every occurrence of from, across all of its
// users, to to. It returns the number of operand slots changed.
func (dfg *DataFlowGraph) ReplaceUse(from, to Value) int {
	if from == to {
		return 0
	}
	users := dfg.Uses(from)
	total := 0
	for _, u := range users {
		total += dfg.ReplaceValueWithinInst(from, to, u)
	}
	return total
}

// ReplaceValueWithinInst is ReplaceUse restricted to a single
// instruction.
func (dfg *DataFlowGraph) ReplaceValueWithinInst(from, to Value, inst Inst) int {
	if from == to {
		return 0
	}
	rec := dfg.inst(inst)
	changed := 0
	for i, v := range rec.operands {
		if v == from {
			rec.operands[i] = to
			changed++
		}
	}
	if changed > 0 {
		dfg.dropUse(from, inst)
		dfg.addUse(to, inst)
	}
	return changed
}

// ReplaceBlockUse rewrites every block reference from to to, across
// all referencing instructions. If a referencing instruction is a phi
// merge, its predecessor label is rewritten by the same mechanism
// since predecessor labels are just its block references.
func (dfg *DataFlowGraph) ReplaceBlockUse(from, to Block) int {
	if from == to {
		return 0
	}
	users := make([]Inst, 0, len(dfg.blockUsers[from]))
	for i := range dfg.blockUsers[from] {
		users = append(users, i)
	}
	sort.Slice(users, func(a, b int) bool { return users[a] < users[b] })

	total := 0
	for _, u := range users {
		total += dfg.ReplaceBlockWithinInst(from, to, u)
	}
	return total
}

// ReplaceBlockWithinInst is ReplaceBlockUse restricted to a single
// instruction.
func (dfg *DataFlowGraph) ReplaceBlockWithinInst(from, to Block, inst Inst) int {
	if from == to {
		return 0
	}
	rec := dfg.inst(inst)
	changed := 0
	for i, b := range rec.blockRefs {
		if b == from {
			rec.blockRefs[i] = to
			changed++
		}
	}
	if changed > 0 {
		dfg.dropBlockUser(from, inst)
		dfg.addBlockUser(to, inst)
	}
	return changed
}

// RemoveBlockUse replaces all references to block with the invalid
// block sentinel, across every referencing instruction, and removes
// any phi predecessor entries for that block: for a phi instruction
// the predecessor label and its paired operand value are dropped
// together rather than tombstoned, since a phi's operand and block
// lists are index-correlated.
func (dfg *DataFlowGraph) RemoveBlockUse(block Block) int {
	users := make([]Inst, 0, len(dfg.blockUsers[block]))
	for i := range dfg.blockUsers[block] {
		users = append(users, i)
	}
	sort.Slice(users, func(a, b int) bool { return users[a] < users[b] })

	total := 0
	for _, u := range users {
		total += dfg.RemoveBlockFromInst(block, u)
	}
	return total
}

// RemoveBlockFromInst is RemoveBlockUse restricted to one instruction.
func (dfg *DataFlowGraph) RemoveBlockFromInst(block Block, inst Inst) int {
	rec := dfg.inst(inst)
	changed := 0

	if rec.isPhi {
		keptBlocks := rec.blockRefs[:0:0]
		keptOperands := rec.operands[:0:0]
		var dropped []Value
		for i, b := range rec.blockRefs {
			if b == block {
				changed++
				dropped = append(dropped, rec.operands[i])
				continue
			}
			keptBlocks = append(keptBlocks, b)
			keptOperands = append(keptOperands, rec.operands[i])
		}
		for _, v := range dropped {
			stillUsed := false
			for _, k := range keptOperands {
				if k == v {
					stillUsed = true
				}
			}
			if !stillUsed {
				dfg.dropUse(v, inst)
			}
		}
		rec.blockRefs = keptBlocks
		rec.operands = keptOperands
		if phi, ok := rec.data.(*Phi); ok {
			phi.Preds = keptBlocks
			phi.Vals = keptOperands
		}
	} else {
		for i, b := range rec.blockRefs {
			if b == block {
				rec.blockRefs[i] = InvalidBlock
				changed++
			}
		}
	}

	if changed > 0 {
		dfg.dropBlockUser(block, inst)
	}
	return changed
}

// AddPlaceholder allocates a typed value with no defining instruction,
// to be resolved before verification (commonly used to seed phi
// operands for forward references).
func (dfg *DataFlowGraph) AddPlaceholder(typ Type) Value {
	return dfg.allocValue(&valueRecord{typ: typ, org: originPlaceholder})
}

// RemovePlaceholder retires a placeholder. It is a programmer error to
// remove one that still has uses.
func (dfg *DataFlowGraph) RemovePlaceholder(v Value) {
	rec := dfg.value(v)
	if rec.org != originPlaceholder {
		irerr.Fail(irerr.CodeInvalidHandle, "value is not a placeholder")
	}
	if len(rec.uses) != 0 {
		irerr.Fail(irerr.CodePlaceholderWithUses, "")
	}
	dfg.values.remove(uint32(v))
}

// IsPlaceholder reports whether v is a still-unresolved placeholder.
func (dfg *DataFlowGraph) IsPlaceholder(v Value) bool {
	return dfg.value(v).org == originPlaceholder
}

// SetName attaches a textual hint to a value. Names are hints, not
// identity: they never affect equality or handle allocation.
func (dfg *DataFlowGraph) SetName(v Value, name string) {
	rec := dfg.value(v)
	rec.name, rec.hasName = name, true
}

// ClearName removes a value's textual hint.
func (dfg *DataFlowGraph) ClearName(v Value) {
	rec := dfg.value(v)
	rec.name, rec.hasName = "", false
}

// GetName returns a value's textual hint, if any.
func (dfg *DataFlowGraph) GetName(v Value) (string, bool) {
	rec := dfg.value(v)
	return rec.name, rec.hasName
}

// SetAnonymousHint attaches a numeric display hint to a value.
func (dfg *DataFlowGraph) SetAnonymousHint(v Value, id uint32) {
	rec := dfg.value(v)
	rec.anonHint, rec.hasAnonHint = id, true
}

// ClearAnonymousHint removes a value's numeric display hint.
func (dfg *DataFlowGraph) ClearAnonymousHint(v Value) {
	rec := dfg.value(v)
	rec.anonHint, rec.hasAnonHint = 0, false
}

// GetAnonymousHint returns a value's numeric display hint, if any.
func (dfg *DataFlowGraph) GetAnonymousHint(v Value) (uint32, bool) {
	rec := dfg.value(v)
	return rec.anonHint, rec.hasAnonHint
}

// GetConst returns the immediate constant payload of v's defining
// instruction, as whichever concrete type its capability interface
// produced (int64 for IntConstData/TimeConstData, []Value for
// ArrayConstData/StructConstData), or nil, false if v is not a
// constant. This is the untyped counterpart of ConstInt/ConstTime/
// ConstArray/ConstStruct below, for callers that want to query "is
// this a constant at all" without committing to a payload shape up
// front.
func (dfg *DataFlowGraph) GetConst(v Value) (any, bool) {
	inst, ok := dfg.GetValueInst(v)
	if !ok {
		return nil, false
	}
	switch data := dfg.inst(inst).data.(type) {
	case IntConstData:
		return data.ConstInt(), true
	case TimeConstData:
		return data.ConstTime(), true
	case ArrayConstData:
		return data.ConstArray(), true
	case StructConstData:
		return data.ConstStruct(), true
	default:
		return nil, false
	}
}

// ConstInt returns the immediate payload of v's defining instruction
// if its opcode is an integer-constant constructor. No constant
// folding is performed; this is a direct query of the defining
// instruction's payload, recovered via a capability interface rather
// than a hardcoded opcode table.
func (dfg *DataFlowGraph) ConstInt(v Value) (int64, bool) {
	inst, ok := dfg.GetValueInst(v)
	if !ok {
		return 0, false
	}
	data, ok := dfg.inst(inst).data.(IntConstData)
	if !ok {
		return 0, false
	}
	return data.ConstInt(), true
}

// ConstTime is the time-valued analogue of ConstInt.
func (dfg *DataFlowGraph) ConstTime(v Value) (int64, bool) {
	inst, ok := dfg.GetValueInst(v)
	if !ok {
		return 0, false
	}
	data, ok := dfg.inst(inst).data.(TimeConstData)
	if !ok {
		return 0, false
	}
	return data.ConstTime(), true
}

// ConstArray is the array-valued analogue of ConstInt.
func (dfg *DataFlowGraph) ConstArray(v Value) ([]Value, bool) {
	inst, ok := dfg.GetValueInst(v)
	if !ok {
		return nil, false
	}
	data, ok := dfg.inst(inst).data.(ArrayConstData)
	if !ok {
		return nil, false
	}
	return data.ConstArray(), true
}

// ConstStruct is the struct-valued analogue of ConstInt.
func (dfg *DataFlowGraph) ConstStruct(v Value) ([]Value, bool) {
	inst, ok := dfg.GetValueInst(v)
	if !ok {
		return nil, false
	}
	data, ok := dfg.inst(inst).data.(StructConstData)
	if !ok {
		return nil, false
	}
	return data.ConstStruct(), true
}

// SetLocationHint records a byte offset into the originating source
// text for an instruction.
func (dfg *DataFlowGraph) SetLocationHint(inst Inst, offset uint32) {
	rec := dfg.inst(inst)
	rec.locHint, rec.hasLoc = offset, true
}

// LocationHint returns an instruction's recorded source offset, if any.
func (dfg *DataFlowGraph) LocationHint(inst Inst) (uint32, bool) {
	rec := dfg.inst(inst)
	return rec.locHint, rec.hasLoc
}

// InstData returns the opaque payload an instruction was created with.
func (dfg *DataFlowGraph) InstData(inst Inst) InstData { return dfg.inst(inst).data }

// InstOperands returns the DFG's tracked operand list for an
// instruction, reflecting any replacements applied since creation.
func (dfg *DataFlowGraph) InstOperands(inst Inst) []Value {
	return append([]Value(nil), dfg.inst(inst).operands...)
}

// InstBlockRefs returns the DFG's tracked block-reference list for an
// instruction, reflecting any replacements applied since creation.
func (dfg *DataFlowGraph) InstBlockRefs(inst Inst) []Block {
	return append([]Block(nil), dfg.inst(inst).blockRefs...)
}

// AddExtUnit imports another unit, referenced by name and signature,
// for call or instantiation by the instruction-builder sugar layer.
func (dfg *DataFlowGraph) AddExtUnit(data ExtUnitData) ExtUnit {
	return ExtUnit(dfg.extUnits.alloc(data))
}

// GetExtUnit returns the name/signature an external unit handle was
// registered with.
func (dfg *DataFlowGraph) GetExtUnit(h ExtUnit) (ExtUnitData, bool) {
	return dfg.extUnits.get(uint32(h))
}
