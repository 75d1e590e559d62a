package ir

import "fmt"

// UnitKind distinguishes the three shapes a compilation unit can take.
// Behavior differs only in constructor pre-checks and in the
// one-block rule for Entity; every other operation is uniform across
// kinds.
type UnitKind int

const (
	Function UnitKind = iota
	Process
	Entity
)

func (k UnitKind) String() string {
	switch k {
	case Function:
		return "func"
	case Process:
		return "proc"
	case Entity:
		return "entity"
	default:
		return "unit"
	}
}

// unitNameKind tags which variant of UnitName is populated.
type unitNameKind int

const (
	nameAnonymous unitNameKind = iota
	nameLocal
	nameGlobal
)

// UnitName is a tagged name: exactly one of Anonymous(id), Local(s) or
// Global(s). It is a value type, not an interface, so construction and
// comparison stay cheap and explicit rather than relying on subtype
// polymorphism.
type UnitName struct {
	kind unitNameKind
	id   uint32
	text string
}

// AnonymousName builds a numeric placeholder name, e.g. %42.
func AnonymousName(id uint32) UnitName {
	return UnitName{kind: nameAnonymous, id: id}
}

// LocalName builds a name visible only within its own module, e.g. %foo.
func LocalName(s string) UnitName {
	return UnitName{kind: nameLocal, text: s}
}

// GlobalName builds a name visible to a cross-module linker, e.g. @foo.
func GlobalName(s string) UnitName {
	return UnitName{kind: nameGlobal, text: s}
}

// IsAnonymous reports whether the name is the numeric placeholder variant.
func (n UnitName) IsAnonymous() bool { return n.kind == nameAnonymous }

// IsLocal reports whether the name is visible only within its module.
// Per the textual-name grammar, this holds for both Anonymous and Local
// names; only Global names cross module boundaries.
func (n UnitName) IsLocal() bool { return n.kind == nameAnonymous || n.kind == nameLocal }

// IsGlobal is the negation of IsLocal.
func (n UnitName) IsGlobal() bool { return !n.IsLocal() }

// Name returns the underlying text for Local/Global names. It returns
// ("", false) for Anonymous names, which carry no text.
func (n UnitName) Name() (string, bool) {
	if n.kind == nameAnonymous {
		return "", false
	}
	return n.text, true
}

// String renders the textual grammar: %<u32> for Anonymous, %<ident>
// for Local, @<ident> for Global.
func (n UnitName) String() string {
	switch n.kind {
	case nameAnonymous:
		return fmt.Sprintf("%%%d", n.id)
	case nameLocal:
		return "%" + n.text
	case nameGlobal:
		return "@" + n.text
	default:
		return "%<invalid>"
	}
}

// Type is the minimal contract a value or instruction result type must
// satisfy. The core never branches on concrete type identity; it only
// needs equality and display for diagnostics. A richer type system
// (width-checked arithmetic, struct layouts, and so on) lives in the
// instruction-builder sugar layer, outside this container.
type Type interface {
	String() string
	Equal(Type) bool
}

// voidType is the result type of instructions with no result value,
// such as branches, stores and returns.
type voidType struct{}

func (voidType) String() string    { return "void" }
func (voidType) Equal(t Type) bool { _, ok := t.(voidType); return ok }

// Void is the canonical no-result type. add_inst allocates a result
// value only when the instruction's type is not Void.
var Void Type = voidType{}

// IntType is a fixed-width integer type, the most common scalar in a
// hardware IR (i1 for control conditions, i32/i64 for data paths).
type IntType struct{ Width int }

func (t IntType) String() string  { return fmt.Sprintf("i%d", t.Width) }
func (t IntType) Equal(o Type) bool {
	other, ok := o.(IntType)
	return ok && other.Width == t.Width
}

// TimeType models LLHD's simulation-time values.
type TimeType struct{}

func (TimeType) String() string    { return "time" }
func (TimeType) Equal(o Type) bool { _, ok := o.(TimeType); return ok }

// ArrayType is a fixed-length homogeneous aggregate.
type ArrayType struct {
	Len  int
	Elem Type
}

func (t ArrayType) String() string { return fmt.Sprintf("[%d x %s]", t.Len, t.Elem.String()) }
func (t ArrayType) Equal(o Type) bool {
	other, ok := o.(ArrayType)
	return ok && other.Len == t.Len && other.Elem.Equal(t.Elem)
}

// StructType is a fixed-order heterogeneous aggregate.
type StructType struct {
	Fields []Type
}

func (t StructType) String() string {
	s := "{"
	for i, f := range t.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.String()
	}
	return s + "}"
}

func (t StructType) Equal(o Type) bool {
	other, ok := o.(StructType)
	if !ok || len(other.Fields) != len(t.Fields) {
		return false
	}
	for i := range t.Fields {
		if !t.Fields[i].Equal(other.Fields[i]) {
			return false
		}
	}
	return true
}

// Signature is an ordered list of input arguments, an ordered list of
// output arguments, and an optional return type.
type Signature struct {
	Inputs  []Type
	Outputs []Type
	Return  Type // nil when the unit has no return type
}

// validateForKind enforces the per-kind invariants from the data
// model: a Function has no outputs and must declare a return type;
// Process and Entity units never declare a return type.
func (sig Signature) validateForKind(kind UnitKind) error {
	switch kind {
	case Function:
		if len(sig.Outputs) != 0 {
			return fmt.Errorf("function signature must not declare outputs")
		}
		if sig.Return == nil {
			return fmt.Errorf("function signature must declare a return type")
		}
	case Process, Entity:
		if sig.Return != nil {
			return fmt.Errorf("%s signature must not declare a return type", kind)
		}
	}
	return nil
}
