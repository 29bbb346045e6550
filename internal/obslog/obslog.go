// Package obslog constructs the structured logger used by cmd/modutasksim
// and handed to the NSGA-II driver. The driver treats a nil *zap.Logger as
// "use zap.NewNop()" rather than panicking, so obslog.New is the only place
// a real sink gets wired in. The simulator and the catalog package do not
// log.
package obslog

import "go.uber.org/zap"

// New builds a production-style JSON logger. debug switches to zap's
// development config (console encoding, debug level, caller info) for
// interactive runs.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
