package ir

import "testing"

// S4: Block removal. a -> b -> c, a branches to b, b branches to c,
// and c holds a phi with predecessor b. remove_block(b) must: drop b
// from CFG and layout, rewrite a's branch target to the invalid-block
// sentinel, scrub c's phi predecessor entry for b, and remove every
// instruction that lived in b.
func TestScenarioBlockRemoval(t *testing.T) {
	b := NewProcess(GlobalName("p"), Signature{})

	a := b.Block()
	bb := b.Block()
	c := b.Block()

	b.AppendTo(a)
	brInst := b.BuildInst(branchInst(bb), Void)

	b.AppendTo(bb)
	bbExit := b.BuildInst(branchInst(c), Void)

	b.AppendTo(c)
	ph := b.AddPlaceholder(i32)
	phi := &Phi{Preds: []Block{bb}, Vals: []Value{ph}}
	phiInst := b.BuildInst(phi, i32)

	b.RemoveBlock(bb)

	if b.CFG().IsLive(bb) {
		t.Fatalf("b should be gone from the CFG")
	}
	if b.Layout().IsBlockInserted(bb) {
		t.Fatalf("b should be gone from the layout")
	}

	refs := b.DFG().InstBlockRefs(brInst)
	if len(refs) != 1 || refs[0] != InvalidBlock {
		t.Fatalf("a's branch should now reference the invalid-block sentinel, got %v", refs)
	}

	for _, entry := range b.DFG().InstBlockRefs(phiInst) {
		if entry == bb {
			t.Fatalf("no phi entry for b should survive in c's phi")
		}
	}
	if len(phi.Preds) != 0 || len(phi.Vals) != 0 {
		t.Fatalf("Phi struct's own Preds/Vals should have been scrubbed too, got %v/%v", phi.Preds, phi.Vals)
	}

	if b.DFG().insts.live(uint32(bbExit)) {
		t.Fatalf("b's own branch instruction should have been removed from the DFG")
	}
}

// Use-list consistency (invariant 1) and replacement soundness
// (invariant 5), exercised together since ReplaceUse is how a user set
// changes shape.
func TestUseListConsistency(t *testing.T) {
	b := NewFunction(GlobalName("f"), Signature{Return: i32})
	bb := b.Block()
	b.AppendTo(bb)

	c1 := b.BuildInst(constI(1), i32)
	c2 := b.BuildInst(constI(2), i32)
	v1 := b.DFG().InstResult(c1)
	v2 := b.DFG().InstResult(c2)

	add1 := b.BuildInst(inst("add", v1, v2), i32)
	add2 := b.BuildInst(inst("add", v1, v1), i32)

	wantUsersOfV1 := map[Inst]bool{add1: true, add2: true}
	for _, u := range b.DFG().Uses(v1) {
		if !wantUsersOfV1[u] {
			t.Fatalf("unexpected user %d of v1", u)
		}
		delete(wantUsersOfV1, u)
	}
	if len(wantUsersOfV1) != 0 {
		t.Fatalf("missing users of v1: %v", wantUsersOfV1)
	}

	b.ReplaceUse(v1, v2)
	if b.DFG().HasUses(v1) {
		t.Fatalf("v1 should have no uses after replacement")
	}
	for _, u := range []Inst{add1, add2} {
		found := false
		for _, user := range b.DFG().Uses(v2) {
			if user == u {
				found = true
			}
		}
		if !found {
			t.Fatalf("instruction %d should now be a user of v2", u)
		}
	}
}

// Block-user consistency (invariant 2): ReplaceBlockUse must move an
// instruction's registration from the DFG's old block-user set to the
// new one.
func TestBlockUserConsistency(t *testing.T) {
	b := NewProcess(GlobalName("p"), Signature{})
	target := b.Block()
	other := b.Block()
	home := b.Block()

	b.AppendTo(home)
	br := b.BuildInst(branchInst(target), Void)

	n := b.ReplaceBlockUse(target, other)
	if n != 1 {
		t.Fatalf("ReplaceBlockUse returned %d, want 1", n)
	}
	refs := b.DFG().InstBlockRefs(br)
	if len(refs) != 1 || refs[0] != other {
		t.Fatalf("branch should now target %d, got %v", other, refs)
	}
	if _, still := b.DFG().blockUsers[target][br]; still {
		t.Fatalf("branch should no longer be registered as a user of the old target")
	}
	if _, now := b.DFG().blockUsers[other][br]; !now {
		t.Fatalf("branch should now be registered as a user of the new target")
	}
}

// Layout coverage (invariant 3): every live instruction must appear in
// exactly the block the layout says it belongs to, and BlockInsts must
// enumerate exactly those instructions in insertion order.
func TestLayoutCoverage(t *testing.T) {
	b := NewFunction(GlobalName("f"), Signature{Return: i32})
	bb := b.Block()
	b.AppendTo(bb)

	var want []Inst
	for i := 0; i < 5; i++ {
		want = append(want, b.BuildInst(constI(int64(i)), i32))
	}

	got := b.Layout().BlockInsts(bb)
	if len(got) != len(want) {
		t.Fatalf("BlockInsts returned %d instructions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("BlockInsts[%d] = %d, want %d (insertion order not preserved)", i, got[i], want[i])
		}
		blk, ok := b.Layout().BlockOf(got[i])
		if !ok || blk != bb {
			t.Fatalf("BlockOf(%d) = %d, %v, want %d, true", got[i], blk, ok, bb)
		}
	}
}

// Signature/kind conformity (invariant 4): a Function signature that
// declares outputs or skips a return type must be rejected; ditto a
// Process/Entity signature that declares a return type.
func TestSignatureKindConformity(t *testing.T) {
	assertPanics(t, "function with outputs", func() {
		NewFunction(GlobalName("bad"), Signature{Outputs: []Type{i32}, Return: i32})
	})
	assertPanics(t, "function without return", func() {
		NewFunction(GlobalName("bad"), Signature{})
	})
	assertPanics(t, "process with return", func() {
		NewProcess(GlobalName("bad"), Signature{Return: i32})
	})
	assertPanics(t, "entity with return", func() {
		NewEntity(GlobalName("bad"), Signature{Return: i32})
	})
}

// Prune idempotence (invariant 7): a second call on an already-pruned
// handle is a harmless no-op.
func TestPruneIdempotence(t *testing.T) {
	b := NewFunction(GlobalName("f"), Signature{Return: i32})
	bb := b.Block()
	b.AppendTo(bb)

	c := b.BuildInst(constI(9), i32)

	first := b.PruneIfUnused(c)
	second := b.PruneIfUnused(c)
	if !first {
		t.Fatalf("first prune should report removal")
	}
	if second {
		t.Fatalf("second prune on an already-removed handle should report no-op")
	}
}

// Placeholder safety (invariant 8): remove_placeholder succeeds iff it
// has no uses.
func TestPlaceholderSafety(t *testing.T) {
	b := NewFunction(GlobalName("f"), Signature{Return: i32})
	p := b.AddPlaceholder(i32)

	bb := b.Block()
	b.AppendTo(bb)
	user := b.BuildInst(inst("use", p), Void)

	assertPanics(t, "remove placeholder with uses", func() {
		b.RemovePlaceholder(p)
	})

	b.RemoveInst(user)
	b.RemovePlaceholder(p)
}

// Ins() is the staging handle the instruction-builder sugar layer
// builds on: Add stages without placing, Build places at the cursor,
// both ultimately routing through AddInst/BuildInst.
func TestInsStagesAndBuilds(t *testing.T) {
	b := NewFunction(GlobalName("f"), Signature{Return: i32})
	bb := b.Block()
	b.AppendTo(bb)

	cur := b.Ins()
	staged := cur.Add(constI(5), i32)
	if blk, ok := b.Layout().BlockOf(staged); ok {
		t.Fatalf("Add should stage without placing, but staged inst landed in block %d", blk)
	}

	built := cur.Build(constI(6), i32)
	blk, ok := b.Layout().BlockOf(built)
	if !ok || blk != bb {
		t.Fatalf("Build should place at the cursor position, got block %v, ok=%v", blk, ok)
	}
}

// SetUnitName/SetUnitSignature must actually reach the owning record
// through the sole mutation façade, not just exist on UnitData.
func TestSetUnitNameAndSignature(t *testing.T) {
	b := NewFunction(GlobalName("f"), Signature{Return: i32})

	b.SetUnitName(GlobalName("renamed"))
	if got := b.Name().String(); got != "@renamed" {
		t.Fatalf("Name() = %q after SetUnitName, want @renamed", got)
	}

	newSig := Signature{Return: i1}
	b.SetUnitSignature(newSig)
	if got := b.Signature(); !got.Return.Equal(i1) {
		t.Fatalf("Signature().Return = %v after SetUnitSignature, want %v", got.Return, i1)
	}
}

// GetConst is the untyped counterpart of ConstInt/ConstTime/.../
// ConstStruct: it must answer for any capability-interface-implementing
// constant and say false for anything else.
func TestGetConst(t *testing.T) {
	b := NewFunction(GlobalName("f"), Signature{Return: i32})
	bb := b.Block()
	b.AppendTo(bb)

	c := b.BuildInst(constI(42), i32)
	cv := b.DFG().InstResult(c)

	notConst := b.BuildInst(inst("add", cv, cv), i32)
	nv := b.DFG().InstResult(notConst)

	got, ok := b.DFG().GetConst(cv)
	if !ok {
		t.Fatalf("GetConst(cv) should report true for a constant value")
	}
	if got.(int64) != 42 {
		t.Fatalf("GetConst(cv) = %v, want 42", got)
	}

	if _, ok := b.DFG().GetConst(nv); ok {
		t.Fatalf("GetConst should report false for a non-constant value")
	}
}

// Removing a block the cursor currently targets must clear the cursor
// rather than leave it pointing at deleted layout state; a later build
// then raises the normal cursor-not-set failure instead of panicking
// on a nil map lookup.
func TestRemoveBlockClearsAnchoredCursor(t *testing.T) {
	t.Run("append", func(t *testing.T) {
		b := NewProcess(GlobalName("p"), Signature{})
		bb := b.Block()
		b.AppendTo(bb)
		b.RemoveBlock(bb)
		assertPanics(t, "build after removing the appended-to block", func() {
			b.BuildInst(inst("noop"), Void)
		})
	})

	t.Run("after", func(t *testing.T) {
		b := NewProcess(GlobalName("p"), Signature{})
		bb := b.Block()
		b.AppendTo(bb)
		anchor := b.BuildInst(inst("noop"), Void)
		b.InsertAfter(anchor)
		b.RemoveBlock(bb)
		assertPanics(t, "build after removing the block behind an After cursor", func() {
			b.BuildInst(inst("noop"), Void)
		})
	})
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected a panic, got none", name)
		}
	}()
	fn()
}
