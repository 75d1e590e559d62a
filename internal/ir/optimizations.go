package ir

// PruneIfUnused is the canonical dead-code-elimination primitive: if
// inst has a result with zero uses, it collects the set of
// instructions that define inst's operands, removes inst, then
// recursively prunes each of those operand-defining instructions. It
// is not an optimization pass and is never applied automatically; the
// instruction-builder sugar layer (or a caller) invokes it explicitly
// after an edit that may have made a value dead.
//
// inst may be a handle that has already been pruned by an earlier
// cascade (for example, an operand shared by two branches of the same
// prune), in which case this call is a harmless no-op returning
// false rather than a programmer-error panic on a stale handle.
func (b *UnitBuilder) PruneIfUnused(inst Inst) bool {
	if !b.data.dfg.insts.live(uint32(inst)) {
		return false
	}

	result, hasResult := b.data.dfg.GetInstResult(inst)
	if !hasResult {
		return false
	}
	if b.data.dfg.HasUses(result) {
		return false
	}

	operands := b.data.dfg.InstOperands(inst)
	operandDefs := make(map[Inst]struct{}, len(operands))
	order := make([]Inst, 0, len(operands))
	for _, v := range operands {
		defInst, ok := b.data.dfg.GetValueInst(v)
		if !ok {
			continue
		}
		if _, seen := operandDefs[defInst]; seen {
			continue
		}
		operandDefs[defInst] = struct{}{}
		order = append(order, defInst)
	}

	b.RemoveInst(inst)

	for _, defInst := range order {
		b.PruneIfUnused(defInst)
	}

	return true
}
