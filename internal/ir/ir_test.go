package ir

import "testing"

// S1: Empty function. Create @foo () -> i32, one block, two constants,
// an add and a return; check instruction count, use-lists and result
// presence.
func TestScenarioEmptyFunction(t *testing.T) {
	b := NewFunction(GlobalName("foo"), Signature{Return: i32})
	bb := b.Block()
	b.AppendTo(bb)

	c1 := b.BuildInst(constI(1), i32)
	c2 := b.BuildInst(constI(2), i32)
	v1 := b.DFG().InstResult(c1)
	v2 := b.DFG().InstResult(c2)

	add := b.BuildInst(inst("add", v1, v2), i32)
	s := b.DFG().InstResult(add)

	ret := b.BuildInst(inst("ret", s), Void)

	insts := b.Layout().BlockInsts(bb)
	if len(insts) != 4 {
		t.Fatalf("expected 4 instructions in bb0, got %d", len(insts))
	}

	if uses := b.DFG().Uses(v1); len(uses) != 1 || uses[0] != add {
		t.Fatalf("uses(c1) = %v, want [%d]", uses, add)
	}
	if uses := b.DFG().Uses(v2); len(uses) != 1 || uses[0] != add {
		t.Fatalf("uses(c2) = %v, want [%d]", uses, add)
	}

	if _, ok := b.DFG().GetInstResult(ret); ok {
		t.Fatalf("inst_result(ret) should be None")
	}

	u := b.Finish()
	u.Verify(alwaysOKVerifier{})
}

// S2: Replace use. In S1 state, replace_use(c1, c2) collapses both
// operand slots of add onto c2, then pruning def(c1) removes the
// const_i32 1 instruction.
func TestScenarioReplaceUse(t *testing.T) {
	b := NewFunction(GlobalName("foo"), Signature{Return: i32})
	bb := b.Block()
	b.AppendTo(bb)

	c1 := b.BuildInst(constI(1), i32)
	c2 := b.BuildInst(constI(2), i32)
	v1 := b.DFG().InstResult(c1)
	v2 := b.DFG().InstResult(c2)

	add := b.BuildInst(inst("add", v1, v2), i32)
	s := b.DFG().InstResult(add)
	b.BuildInst(inst("ret", s), Void)

	n := b.ReplaceUse(v1, v2)
	if n != 1 {
		t.Fatalf("ReplaceUse returned %d, want 1", n)
	}
	if b.DFG().HasUses(v1) {
		t.Fatalf("uses(c1) should be empty after replacement")
	}
	if uses := b.DFG().Uses(v2); len(uses) != 1 || uses[0] != add {
		t.Fatalf("uses(c2) = %v, want [%d]", uses, add)
	}

	defOfV1, ok := b.DFG().GetValueInst(v1)
	if !ok || defOfV1 != c1 {
		t.Fatalf("def(c1) = %v, %v, want %d, true", defOfV1, ok, c1)
	}
	if !b.PruneIfUnused(defOfV1) {
		t.Fatalf("prune_if_unused(def(c1)) should report it removed something")
	}
	if b.DFG().insts.live(uint32(c1)) {
		t.Fatalf("const_i32 1 instruction should have been removed")
	}
}

// S3: Entity shape. Construction must bind exactly one block and two
// argument values.
func TestScenarioEntityShape(t *testing.T) {
	sig := Signature{Inputs: []Type{i1}, Outputs: []Type{i1}}
	b := NewEntity(GlobalName("top"), sig)

	if blocks := b.Blocks(); len(blocks) != 1 {
		t.Fatalf("expected exactly one block immediately after construction, got %d", len(blocks))
	}
	if args := b.Args(); len(args) != 2 {
		t.Fatalf("expected two bound argument values, got %d", len(args))
	}
}

// S5: Prune cascade. x = const 7; y = add x, x; z = add y, 1; nothing
// uses z. prune_if_unused(z) must remove z, then y, then x.
func TestScenarioPruneCascade(t *testing.T) {
	b := NewFunction(GlobalName("f"), Signature{Return: i32})
	bb := b.Block()
	b.AppendTo(bb)

	x := b.BuildInst(constI(7), i32)
	vx := b.DFG().InstResult(x)
	y := b.BuildInst(inst("add", vx, vx), i32)
	vy := b.DFG().InstResult(y)
	one := b.BuildInst(constI(1), i32)
	vone := b.DFG().InstResult(one)
	z := b.BuildInst(inst("add", vy, vone), i32)

	if !b.PruneIfUnused(z) {
		t.Fatalf("prune_if_unused(z) should report removal")
	}

	for _, removed := range []Inst{z, y, x, one} {
		if b.DFG().insts.live(uint32(removed)) {
			t.Fatalf("instruction %d should have been pruned away", removed)
		}
	}

	if got := len(b.Layout().BlockInsts(bb)); got != 0 {
		t.Fatalf("final instruction count = %d, want 0", got)
	}
}

// S6: Name display.
func TestScenarioNameDisplay(t *testing.T) {
	anon := AnonymousName(42)
	local := LocalName("foo")
	global := GlobalName("foo")

	if got := anon.String(); got != "%42" {
		t.Errorf("Anonymous(42).String() = %q, want %%42", got)
	}
	if got := local.String(); got != "%foo" {
		t.Errorf(`Local("foo").String() = %q, want %%foo`, got)
	}
	if got := global.String(); got != "@foo" {
		t.Errorf(`Global("foo").String() = %q, want @foo`, got)
	}

	if !anon.IsLocal() || !local.IsLocal() {
		t.Errorf("Anonymous and Local names should both be IsLocal")
	}
	if global.IsLocal() {
		t.Errorf("Global name should not be IsLocal")
	}
	if anon.IsGlobal() || local.IsGlobal() {
		t.Errorf("Anonymous and Local names should not be IsGlobal")
	}
	if !global.IsGlobal() {
		t.Errorf("Global name should be IsGlobal")
	}
	if global.IsGlobal() != !global.IsLocal() {
		t.Errorf("IsGlobal should be the negation of IsLocal")
	}
}

// alwaysOKVerifier is a trivial Verifier stand-in: this package ships
// no real verifier (that is an external collaborator), so tests that
// only want to exercise Verify's plumbing use this.
type alwaysOKVerifier struct{}

func (alwaysOKVerifier) VerifyUnit(*Unit) []string { return nil }
