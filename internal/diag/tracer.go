// Package diag provides the structured logging used around the IR
// container: a commonlog-backed ir.Tracer that writes the builder's
// mutation trace at debug level. Colored reporting of programmer
// errors and verification failures lives in internal/irerr.
package diag

import "github.com/tliron/commonlog"

// CommonLogTracer adapts a github.com/tliron/commonlog logger to
// ir.Tracer, the same way cmd/kanso-lsp wires commonlog into the LSP
// handler: Configure once at process start, then pull named loggers
// per subsystem.
type CommonLogTracer struct {
	log commonlog.Logger
}

// NewTracer returns a tracer backed by the named commonlog logger.
// Call commonlog.Configure(verbosity, nil) once during process
// startup before constructing one.
func NewTracer(name string) *CommonLogTracer {
	return &CommonLogTracer{log: commonlog.GetLogger(name)}
}

// Tracef implements ir.Tracer.
func (t *CommonLogTracer) Tracef(format string, args ...any) {
	t.log.Debugf(format, args...)
}
