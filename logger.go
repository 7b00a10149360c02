// Package qoreir holds the few types shared across module boundaries that
// don't belong to any single internal package - today, just the logging
// collaborator (DESIGN NOTES §9: "Logging should be passed as a
// collaborator, not a global").
package qoreir

// Logger is accepted by the builder and the interpreter as an optional
// collaborator. Neither component reaches for a global logger or a
// concrete third-party logging facade - the teacher has no direct logging
// dependency of its own, so none is introduced here either; callers that
// want structured output wrap whatever facade they already use behind
// these two methods.
type Logger interface {
	// Debugf logs a one-off diagnostic event: a landing pad being built, a
	// global being torn down.
	Debugf(format string, args ...any)
	// Tracef logs a per-instruction or per-step event; expected to be
	// noisy, and always guarded by a nil check before the caller does any
	// formatting work.
	Tracef(format string, args ...any)
}
