package ir

import "llhd/internal/irerr"

// blockRecord holds a block's display hints. The set of instructions
// contained in a block is tracked by the layout, not here: the CFG
// only owns block identity and naming.
type blockRecord struct {
	name        string
	hasName     bool
	anonHint    uint32
	hasAnonHint bool
}

// ControlFlowGraph stores block payloads, block names and anonymous
// hints. It has no opinion on block order or contents; that is the
// layout's job.
type ControlFlowGraph struct {
	blocks *arena[*blockRecord]
}

func newControlFlowGraph() *ControlFlowGraph {
	return &ControlFlowGraph{blocks: newArena[*blockRecord]()}
}

func (cfg *ControlFlowGraph) block(b Block) *blockRecord {
	rec, ok := cfg.blocks.get(uint32(b))
	if !ok {
		irerr.Fail(irerr.CodeInvalidHandle, "block")
	}
	return rec
}

// AddBlock allocates a fresh block.
func (cfg *ControlFlowGraph) AddBlock() Block {
	return Block(cfg.blocks.alloc(&blockRecord{}))
}

// RemoveBlock destroys the block node. Callers must first scrub
// references to the block via DataFlowGraph.RemoveBlockUse.
func (cfg *ControlFlowGraph) RemoveBlock(b Block) {
	cfg.block(b) // validates the handle
	cfg.blocks.remove(uint32(b))
}

// SetName attaches a textual hint to a block.
func (cfg *ControlFlowGraph) SetName(b Block, name string) {
	rec := cfg.block(b)
	rec.name, rec.hasName = name, true
}

// ClearName removes a block's textual hint.
func (cfg *ControlFlowGraph) ClearName(b Block) {
	rec := cfg.block(b)
	rec.name, rec.hasName = "", false
}

// GetName returns a block's textual hint, if any.
func (cfg *ControlFlowGraph) GetName(b Block) (string, bool) {
	rec := cfg.block(b)
	return rec.name, rec.hasName
}

// SetAnonymousHint attaches a numeric display hint to a block.
func (cfg *ControlFlowGraph) SetAnonymousHint(b Block, id uint32) {
	rec := cfg.block(b)
	rec.anonHint, rec.hasAnonHint = id, true
}

// ClearAnonymousHint removes a block's numeric display hint.
func (cfg *ControlFlowGraph) ClearAnonymousHint(b Block) {
	rec := cfg.block(b)
	rec.anonHint, rec.hasAnonHint = 0, false
}

// GetAnonymousHint returns a block's numeric display hint, if any.
func (cfg *ControlFlowGraph) GetAnonymousHint(b Block) (uint32, bool) {
	rec := cfg.block(b)
	return rec.anonHint, rec.hasAnonHint
}

// IsLive reports whether a block handle still refers to a live block.
func (cfg *ControlFlowGraph) IsLive(b Block) bool {
	return cfg.blocks.live(uint32(b))
}
