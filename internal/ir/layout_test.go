package ir

import "testing"

// A sequence of BuildInst calls at a fixed cursor position must land
// in the order they were called, for every cursor kind: this is what
// Layout.place's self-advance logic exists to guarantee.
func TestCursorPreservesCallOrder(t *testing.T) {
	t.Run("append", func(t *testing.T) {
		b := NewFunction(GlobalName("f"), Signature{Return: i32})
		bb := b.Block()
		b.AppendTo(bb)
		first := b.BuildInst(constI(1), i32)
		second := b.BuildInst(constI(2), i32)
		third := b.BuildInst(constI(3), i32)
		assertOrder(t, b.Layout().BlockInsts(bb), first, second, third)
	})

	t.Run("prepend", func(t *testing.T) {
		b := NewFunction(GlobalName("f"), Signature{Return: i32})
		bb := b.Block()
		b.PrependTo(bb)
		first := b.BuildInst(constI(1), i32)
		second := b.BuildInst(constI(2), i32)
		third := b.BuildInst(constI(3), i32)
		assertOrder(t, b.Layout().BlockInsts(bb), first, second, third)
	})

	t.Run("after", func(t *testing.T) {
		b := NewFunction(GlobalName("f"), Signature{Return: i32})
		bb := b.Block()
		b.AppendTo(bb)
		anchor := b.BuildInst(constI(0), i32)
		b.InsertAfter(anchor)
		first := b.BuildInst(constI(1), i32)
		second := b.BuildInst(constI(2), i32)
		third := b.BuildInst(constI(3), i32)
		assertOrder(t, b.Layout().BlockInsts(bb), anchor, first, second, third)
	})

	t.Run("before", func(t *testing.T) {
		b := NewFunction(GlobalName("f"), Signature{Return: i32})
		bb := b.Block()
		b.AppendTo(bb)
		anchor := b.BuildInst(constI(0), i32)
		b.InsertBefore(anchor)
		first := b.BuildInst(constI(1), i32)
		second := b.BuildInst(constI(2), i32)
		third := b.BuildInst(constI(3), i32)
		assertOrder(t, b.Layout().BlockInsts(bb), first, second, third, anchor)
	})
}

func TestInsertingWithNoCursorPanics(t *testing.T) {
	b := NewFunction(GlobalName("f"), Signature{Return: i32})
	assertPanics(t, "build with no cursor position", func() {
		b.BuildInst(constI(1), i32)
	})
}

func assertOrder(t *testing.T, got []Inst, want ...Inst) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %d, want %d (full: got=%v want=%v)", i, got[i], want[i], got, want)
		}
	}
}
