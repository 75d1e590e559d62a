package irerr

// Code identifies a distinct programmer-error condition the container
// can raise. Unlike a source-language compiler's error codes, these
// are not user-facing diagnostics: every one of them indicates a
// violated precondition in the caller's use of the library, per the
// error-handling design's "programmer errors (abort/panic)" category.
type Code string

const (
	// CodeArgOutOfBounds: an input/output argument index fell outside
	// the signature's declared count.
	CodeArgOutOfBounds Code = "E-ARG-001"

	// CodeInvalidHandle: a Value/Inst/Block/ExtUnit handle did not
	// resolve to a live payload.
	CodeInvalidHandle Code = "E-HANDLE-001"

	// CodeRemoveWithUses: an instruction's result still had uses when
	// its removal was requested.
	CodeRemoveWithUses Code = "E-SSA-001"

	// CodeBadSignature: a Function signature declared outputs or
	// omitted a return type, or a Process/Entity signature declared
	// a return type.
	CodeBadSignature Code = "E-SIG-001"

	// CodeNoResult: a non-existent instruction result was accessed.
	CodeNoResult Code = "E-SSA-002"

	// CodeCursorNone: an instruction was inserted with no cursor
	// position set.
	CodeCursorNone Code = "E-CURSOR-001"

	// CodeVerificationFailed: Unit.Verify received a non-empty
	// diagnostic list from the verifier.
	CodeVerificationFailed Code = "E-VERIFY-001"

	// CodePlaceholderWithUses: a placeholder was removed while it
	// still had uses.
	CodePlaceholderWithUses Code = "E-SSA-003"
)

// description returns a short human-readable label for a code, used
// in the reporter's header line.
func description(c Code) string {
	switch c {
	case CodeArgOutOfBounds:
		return "argument index out of bounds"
	case CodeInvalidHandle:
		return "dereferencing invalid handle"
	case CodeRemoveWithUses:
		return "removing an instruction whose result still has uses"
	case CodeBadSignature:
		return "signature does not conform to unit kind"
	case CodeNoResult:
		return "instruction has no result"
	case CodeCursorNone:
		return "inserting with no cursor position set"
	case CodeVerificationFailed:
		return "unit failed verification"
	case CodePlaceholderWithUses:
		return "removing a placeholder that still has uses"
	default:
		return "programmer error"
	}
}
