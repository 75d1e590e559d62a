package ir

import "llhd/internal/irerr"

// blockLink is the doubly-linked position of a block within the
// unit's block order.
type blockLink struct {
	prev, next Block
	headInst   Inst
	tailInst   Inst
}

// instLink is the doubly-linked position of an instruction within its
// containing block's instruction order.
type instLink struct {
	prev, next Inst
	block      Block
}

// cursorKind tags which variant of the insertion cursor is active.
type cursorKind int

const (
	cursorNone cursorKind = iota
	cursorAppend
	cursorPrepend
	cursorAfter
	cursorBefore
)

// cursor is the discriminated insertion-position state machine the
// builder consults before every write: {None, Append(bb), Prepend(bb),
// After(inst), Before(inst)}.
type cursor struct {
	kind  cursorKind
	block Block
	inst  Inst
}

// Layout is two linked orderings over the same unit: blocks within the
// unit, and instructions within each block. It also records each
// instruction's containing block so lookup is O(1), and it owns the
// insertion cursor that drives instruction placement.
type Layout struct {
	blocks    map[Block]*blockLink
	insts     map[Inst]*instLink
	headBlock Block
	tailBlock Block

	cur cursor
}

func newLayout() *Layout {
	return &Layout{
		blocks: make(map[Block]*blockLink),
		insts:  make(map[Inst]*instLink),
	}
}

// BlockOf returns the block an instruction currently belongs to.
func (l *Layout) BlockOf(inst Inst) (Block, bool) {
	link, ok := l.insts[inst]
	if !ok {
		return InvalidBlock, false
	}
	return link.block, true
}

// IsBlockInserted reports whether a block currently participates in
// the layout's block order.
func (l *Layout) IsBlockInserted(b Block) bool {
	_, ok := l.blocks[b]
	return ok
}

// Blocks returns the blocks in layout order.
func (l *Layout) Blocks() []Block {
	out := make([]Block, 0, len(l.blocks))
	for b := l.headBlock; b != InvalidBlock; b = l.blocks[b].next {
		out = append(out, b)
	}
	return out
}

// BlockInsts returns the instructions of b in layout order.
func (l *Layout) BlockInsts(b Block) []Inst {
	link := l.blocks[b]
	out := []Inst{}
	for i := link.headInst; i != InvalidInst; i = l.insts[i].next {
		out = append(out, i)
	}
	return out
}

// AppendBlock adds b to the end of the unit's block order.
func (l *Layout) AppendBlock(b Block) {
	link := &blockLink{prev: l.tailBlock, next: InvalidBlock}
	if l.tailBlock != InvalidBlock {
		l.blocks[l.tailBlock].next = b
	} else {
		l.headBlock = b
	}
	l.tailBlock = b
	l.blocks[b] = link
}

// PrependBlock adds b to the beginning of the unit's block order.
func (l *Layout) PrependBlock(b Block) {
	link := &blockLink{prev: InvalidBlock, next: l.headBlock}
	if l.headBlock != InvalidBlock {
		l.blocks[l.headBlock].prev = b
	} else {
		l.tailBlock = b
	}
	l.headBlock = b
	l.blocks[b] = link
}

// InsertBlockAfter inserts b immediately after anchor in the block
// order.
func (l *Layout) InsertBlockAfter(anchor, b Block) {
	anchorLink := l.blocks[anchor]
	next := anchorLink.next
	link := &blockLink{prev: anchor, next: next}
	anchorLink.next = b
	if next != InvalidBlock {
		l.blocks[next].prev = b
	} else {
		l.tailBlock = b
	}
	l.blocks[b] = link
}

// InsertBlockBefore inserts b immediately before anchor in the block
// order.
func (l *Layout) InsertBlockBefore(anchor, b Block) {
	anchorLink := l.blocks[anchor]
	prev := anchorLink.prev
	link := &blockLink{prev: prev, next: anchor}
	anchorLink.prev = b
	if prev != InvalidBlock {
		l.blocks[prev].next = b
	} else {
		l.headBlock = b
	}
	l.blocks[b] = link
}

// RemoveBlock unlinks b from the block order, along with every
// instruction still laid out inside it: a removed block does not
// leave behind instruction links pointing at a block the layout no
// longer knows about. Callers that still need those instructions'
// identities should snapshot BlockInsts(b) before calling this.
//
// Like RemoveInst, it defensively clears the cursor if the cursor
// anchors b itself (Append/Prepend) or an instruction that lived
// inside b (After/Before), so a later place() raises the descriptive
// cursor-not-set failure instead of dereferencing a deleted block.
func (l *Layout) RemoveBlock(b Block) {
	link := l.blocks[b]
	for i := link.headInst; i != InvalidInst; {
		next := l.insts[i].next
		if (l.cur.kind == cursorAfter || l.cur.kind == cursorBefore) && l.cur.inst == i {
			l.cur = cursor{kind: cursorNone}
		}
		delete(l.insts, i)
		i = next
	}
	if (l.cur.kind == cursorAppend || l.cur.kind == cursorPrepend) && l.cur.block == b {
		l.cur = cursor{kind: cursorNone}
	}

	if link.prev != InvalidBlock {
		l.blocks[link.prev].next = link.next
	} else {
		l.headBlock = link.next
	}
	if link.next != InvalidBlock {
		l.blocks[link.next].prev = link.prev
	} else {
		l.tailBlock = link.prev
	}
	delete(l.blocks, b)
}

// AppendInst adds inst to the end of b's instruction order.
func (l *Layout) AppendInst(b Block, inst Inst) {
	blockLink := l.blocks[b]
	link := &instLink{prev: blockLink.tailInst, next: InvalidInst, block: b}
	if blockLink.tailInst != InvalidInst {
		l.insts[blockLink.tailInst].next = inst
	} else {
		blockLink.headInst = inst
	}
	blockLink.tailInst = inst
	l.insts[inst] = link
}

// PrependInst adds inst to the beginning of b's instruction order.
func (l *Layout) PrependInst(b Block, inst Inst) {
	blockLink := l.blocks[b]
	link := &instLink{prev: InvalidInst, next: blockLink.headInst, block: b}
	if blockLink.headInst != InvalidInst {
		l.insts[blockLink.headInst].prev = inst
	} else {
		blockLink.tailInst = inst
	}
	blockLink.headInst = inst
	l.insts[inst] = link
}

// InsertInstAfter inserts inst immediately after anchor.
func (l *Layout) InsertInstAfter(anchor, inst Inst) {
	anchorLink := l.insts[anchor]
	next := anchorLink.next
	link := &instLink{prev: anchor, next: next, block: anchorLink.block}
	anchorLink.next = inst
	if next != InvalidInst {
		l.insts[next].prev = inst
	} else {
		l.blocks[anchorLink.block].tailInst = inst
	}
	l.insts[inst] = link
}

// InsertInstBefore inserts inst immediately before anchor.
func (l *Layout) InsertInstBefore(anchor, inst Inst) {
	anchorLink := l.insts[anchor]
	prev := anchorLink.prev
	link := &instLink{prev: prev, next: anchor, block: anchorLink.block}
	anchorLink.prev = inst
	if prev != InvalidInst {
		l.insts[prev].next = inst
	} else {
		l.blocks[anchorLink.block].headInst = inst
	}
	l.insts[inst] = link
}

// RemoveInst unlinks inst from its containing block's instruction
// order.
func (l *Layout) RemoveInst(inst Inst) {
	link, ok := l.insts[inst]
	if !ok {
		return
	}
	blockLink := l.blocks[link.block]
	if link.prev != InvalidInst {
		l.insts[link.prev].next = link.next
	} else {
		blockLink.headInst = link.next
	}
	if link.next != InvalidInst {
		l.insts[link.next].prev = link.prev
	} else {
		blockLink.tailInst = link.prev
	}
	delete(l.insts, inst)
	if l.cur.kind == cursorAfter && l.cur.inst == inst {
		l.cur = cursor{kind: cursorNone}
	}
	if l.cur.kind == cursorBefore && l.cur.inst == inst {
		l.cur = cursor{kind: cursorNone}
	}
}

// place inserts inst at the layout's current cursor position and
// advances the cursor so that a sequence of calls emits instructions
// in the order they were called: Append keeps appending to the same
// block tail; Before keeps inserting immediately ahead of the same
// anchor (so earlier insertions stay ahead of later ones); Prepend
// and After both advance to After(inst) so later insertions land
// immediately after the one just placed rather than reversing it.
func (l *Layout) place(inst Inst) {
	switch l.cur.kind {
	case cursorNone:
		irerr.Fail(irerr.CodeCursorNone, "")
	case cursorAppend:
		l.AppendInst(l.cur.block, inst)
	case cursorPrepend:
		l.PrependInst(l.cur.block, inst)
		l.cur = cursor{kind: cursorAfter, inst: inst}
	case cursorAfter:
		l.InsertInstAfter(l.cur.inst, inst)
		l.cur = cursor{kind: cursorAfter, inst: inst}
	case cursorBefore:
		l.InsertInstBefore(l.cur.inst, inst)
	}
}
