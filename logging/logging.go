// Package logging re-exports github.com/luxfi/log's Logger interface so
// the rest of this module has a single import for structured logging,
// and supplies the no-op logger tests construct stars and lanes with.
package logging

import "github.com/luxfi/log"

// Logger is the structured logger every long-lived component takes at
// construction.
type Logger = log.Logger

// NewNoOp returns a logger that discards everything, for tests and for
// callers that haven't wired a real sink yet.
func NewNoOp() Logger {
	return log.NewNoOpLogger()
}
