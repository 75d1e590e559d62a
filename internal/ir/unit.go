package ir

import (
	"fmt"
	"strings"

	"llhd/internal/irerr"
)

// UnitID identifies a unit within an enclosing module. A unit not yet
// attached to a module carries the invalid sentinel; linking units
// into a module is out of scope for this package.
type UnitID uint32

const InvalidUnitID UnitID = 0

// UnitData is the owning record of a compilation unit: its kind, name,
// signature, data-flow graph, control-flow graph and layout. It is
// created in one shot; name and signature may change afterward, but
// kind is fixed for the unit's lifetime.
type UnitData struct {
	kind UnitKind
	name UnitName
	sig  Signature

	dfg    *DataFlowGraph
	cfg    *ControlFlowGraph
	layout *Layout

	tracer Tracer
}

// unitConfig holds the functional-options state threaded through
// NewUnitData, in the construct-with-option-functions idiom.
type unitConfig struct {
	valueCapacityHint int
	instCapacityHint  int
	tracer            Tracer
}

// UnitOption configures a unit at construction time.
type UnitOption func(*unitConfig)

// WithValueCapacityHint pre-sizes the value arena, for callers that
// know roughly how large a unit they are about to build.
func WithValueCapacityHint(n int) UnitOption {
	return func(c *unitConfig) { c.valueCapacityHint = n }
}

// WithInstCapacityHint pre-sizes the instruction arena.
func WithInstCapacityHint(n int) UnitOption {
	return func(c *unitConfig) { c.instCapacityHint = n }
}

// WithTracer attaches a mutation tracer. A nil tracer (the default)
// disables tracing entirely at no per-call cost.
func WithTracer(t Tracer) UnitOption {
	return func(c *unitConfig) { c.tracer = t }
}

// NewUnitData constructs the owning record for a unit of the given
// kind, name and signature. It enforces the per-kind signature
// invariants from the data model (panicking on violation, since a
// malformed signature is a programmer error, not a recoverable one),
// eagerly creates Entity's single body block, and materializes the
// signature's argument-value bindings into the DFG.
func NewUnitData(kind UnitKind, name UnitName, sig Signature, opts ...UnitOption) *UnitData {
	if err := sig.validateForKind(kind); err != nil {
		irerr.Fail(irerr.CodeBadSignature, err.Error())
	}

	cfg := &unitConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ud := &UnitData{
		kind:   kind,
		name:   name,
		sig:    sig,
		dfg:    newDataFlowGraph(cfg.valueCapacityHint, cfg.instCapacityHint),
		cfg:    newControlFlowGraph(),
		layout: newLayout(),
		tracer: cfg.tracer,
	}

	for _, t := range sig.Inputs {
		ud.dfg.bindArg(len(ud.dfg.argValues), t)
	}
	for _, t := range sig.Outputs {
		ud.dfg.bindArg(len(ud.dfg.argValues), t)
	}

	if kind == Entity {
		b := ud.cfg.AddBlock()
		ud.layout.AppendBlock(b)
	}

	return ud
}

// Kind returns the unit's fixed kind.
func (ud *UnitData) Kind() UnitKind { return ud.kind }

// Name returns the unit's current name.
func (ud *UnitData) Name() UnitName { return ud.name }

// SetName changes the unit's name. Unlike kind, name is mutable after
// construction.
func (ud *UnitData) SetName(n UnitName) { ud.name = n }

// Signature returns the unit's current signature.
func (ud *UnitData) Signature() Signature { return ud.sig }

// SetSignature changes the unit's signature. It does not rebind
// argument values; callers that change argument counts are
// responsible for the consequences; this mirrors layout and DFG
// mutation, not something the constructor re-validates on every edit.
func (ud *UnitData) SetSignature(sig Signature) { ud.sig = sig }

func (ud *UnitData) numInputs() int  { return len(ud.sig.Inputs) }
func (ud *UnitData) numOutputs() int { return len(ud.sig.Outputs) }

// InputArg returns the value bound to the pos'th input argument.
// Out-of-bounds access is a programmer error.
func (ud *UnitData) InputArg(pos int) Value {
	if pos < 0 || pos >= ud.numInputs() {
		irerr.Fail(irerr.CodeArgOutOfBounds, "input")
	}
	return ud.dfg.ArgValue(pos)
}

// OutputArg returns the value bound to the pos'th output argument.
func (ud *UnitData) OutputArg(pos int) Value {
	if pos < 0 || pos >= ud.numOutputs() {
		irerr.Fail(irerr.CodeArgOutOfBounds, "output")
	}
	return ud.dfg.ArgValue(ud.numInputs() + pos)
}

// InputArgs returns every input argument's bound value, in order.
func (ud *UnitData) InputArgs() []Value {
	out := make([]Value, ud.numInputs())
	for i := range out {
		out[i] = ud.dfg.ArgValue(i)
	}
	return out
}

// OutputArgs returns every output argument's bound value, in order.
func (ud *UnitData) OutputArgs() []Value {
	out := make([]Value, ud.numOutputs())
	for i := range out {
		out[i] = ud.dfg.ArgValue(ud.numInputs() + i)
	}
	return out
}

// Args returns every argument's bound value, inputs then outputs.
func (ud *UnitData) Args() []Value {
	return append(ud.InputArgs(), ud.OutputArgs()...)
}

// DFG returns the unit's data-flow graph.
func (ud *UnitData) DFG() *DataFlowGraph { return ud.dfg }

// CFG returns the unit's control-flow graph.
func (ud *UnitData) CFG() *ControlFlowGraph { return ud.cfg }

// Layout returns the unit's layout.
func (ud *UnitData) Layout() *Layout { return ud.layout }

// ExternName returns the name an external unit handle was registered
// with.
func (ud *UnitData) ExternName(h ExtUnit) UnitName {
	data, ok := ud.dfg.GetExtUnit(h)
	if !ok {
		irerr.Fail(irerr.CodeInvalidHandle, "external unit")
	}
	return data.Name
}

// ExternSig returns the signature an external unit handle was
// registered with.
func (ud *UnitData) ExternSig(h ExtUnit) Signature {
	data, ok := ud.dfg.GetExtUnit(h)
	if !ok {
		irerr.Fail(irerr.CodeInvalidHandle, "external unit")
	}
	return data.Sig
}

// Unit is a non-owning read view over UnitData, plus the identifier it
// has been assigned within an enclosing module (InvalidUnitID if not
// yet attached to one). It exposes read-only accessors delegating to
// the DFG, CFG and layout; every mutation goes through UnitBuilder
// instead.
type Unit struct {
	id   UnitID
	data *UnitData
}

func newUnitView(id UnitID, data *UnitData) *Unit {
	return &Unit{id: id, data: data}
}

func (u *Unit) ID() UnitID         { return u.id }
func (u *Unit) Kind() UnitKind     { return u.data.Kind() }
func (u *Unit) Name() UnitName     { return u.data.Name() }
func (u *Unit) Signature() Signature { return u.data.Signature() }

func (u *Unit) IsFunction() bool { return u.data.Kind() == Function }
func (u *Unit) IsProcess() bool  { return u.data.Kind() == Process }
func (u *Unit) IsEntity() bool   { return u.data.Kind() == Entity }

func (u *Unit) InputArg(pos int) Value  { return u.data.InputArg(pos) }
func (u *Unit) OutputArg(pos int) Value { return u.data.OutputArg(pos) }
func (u *Unit) InputArgs() []Value      { return u.data.InputArgs() }
func (u *Unit) OutputArgs() []Value     { return u.data.OutputArgs() }
func (u *Unit) Args() []Value           { return u.data.Args() }

func (u *Unit) ExternName(h ExtUnit) UnitName { return u.data.ExternName(h) }
func (u *Unit) ExternSig(h ExtUnit) Signature { return u.data.ExternSig(h) }

func (u *Unit) DFG() *DataFlowGraph    { return u.data.DFG() }
func (u *Unit) CFG() *ControlFlowGraph { return u.data.CFG() }
func (u *Unit) Layout() *Layout        { return u.data.Layout() }

func (u *Unit) Blocks() []Block          { return u.data.layout.Blocks() }
func (u *Unit) BlockInsts(b Block) []Inst { return u.data.layout.BlockInsts(b) }

// Verifier is the external collaborator that checks terminator
// legality, SSA dominance, signature/return conformity, phi
// predecessor consistency and the entity single-block rule over an
// immutable Unit, reporting a list of diagnostic strings. The core
// ships no implementation; Verify just routes to one.
type Verifier interface {
	VerifyUnit(*Unit) []string
}

// Verify invokes v over u. On a non-empty diagnostic list it dumps the
// unit and aborts with a programmer error, per the error-handling
// design: verification failures are not returned to the caller, they
// are fatal once raised through this entry point.
func (u *Unit) Verify(v Verifier) {
	diags := v.VerifyUnit(u)
	if len(diags) == 0 {
		return
	}
	irerr.FailWithDump(irerr.CodeVerificationFailed, strings.Join(diags, "\n"), u.String())
}

// String renders a minimal textual dump: kind, name and signature,
// then each block label and its instructions. This is enough to make
// a verification failure or panic legible; a fully-featured pretty
// printer is an external collaborator, out of scope here.
func (u *Unit) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s {\n", u.Kind(), u.Name(), signatureString(u.Signature()))
	for _, blk := range u.Blocks() {
		fmt.Fprintf(&b, "  %s:\n", blockLabel(u, blk))
		for _, inst := range u.BlockInsts(blk) {
			fmt.Fprintf(&b, "    %s\n", instLine(u, inst))
		}
	}
	b.WriteString("}")
	return b.String()
}

func signatureString(sig Signature) string {
	var b strings.Builder
	b.WriteString("(")
	for i, t := range sig.Inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteString(") -> (")
	for i, t := range sig.Outputs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteString(")")
	if sig.Return != nil {
		b.WriteString(" : " + sig.Return.String())
	}
	return b.String()
}

func blockLabel(u *Unit, b Block) string {
	if name, ok := u.CFG().GetName(b); ok {
		return "%" + name
	}
	if hint, ok := u.CFG().GetAnonymousHint(b); ok {
		return fmt.Sprintf("%%bb%d", hint)
	}
	return fmt.Sprintf("%%bb%d", b)
}

func instLine(u *Unit, inst Inst) string {
	data := u.DFG().InstData(inst)
	var b strings.Builder
	if result, ok := u.DFG().GetInstResult(inst); ok {
		fmt.Fprintf(&b, "%%%d = ", result)
	}
	b.WriteString(data.Opcode())
	for _, v := range u.DFG().InstOperands(inst) {
		fmt.Fprintf(&b, " %%%d", v)
	}
	for _, blk := range u.DFG().InstBlockRefs(inst) {
		if blk == InvalidBlock {
			b.WriteString(" <invalid-block>")
			continue
		}
		fmt.Fprintf(&b, " %s", blockLabel(u, blk))
	}
	return b.String()
}
