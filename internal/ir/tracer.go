package ir

// Tracer receives a line of text each time a UnitBuilder allocates,
// places or removes an instruction and each time it creates or
// removes a block, when one is attached via WithTracer; other edits
// (use replacement, naming, cursor moves) are not traced. It is
// satisfied by internal/diag's commonlog-backed implementation; the
// core itself has no logging dependency, only this narrow interface.
type Tracer interface {
	Tracef(format string, args ...any)
}

func (ud *UnitData) trace(format string, args ...any) {
	if ud.tracer != nil {
		ud.tracer.Tracef(format, args...)
	}
}
