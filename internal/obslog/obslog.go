// Package obslog wires this module's logging into
// github.com/kubescape/go-logger, matching the ambient logging setup used
// throughout the codebase this protocol and tracer were extracted from.
package obslog

import (
	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
)

// Init sets the process-wide logger's level. level is one of go-logger's
// level names ("debug", "info", "warning", "error", "fatal").
func Init(level string) error {
	return logger.L().SetLevel(level)
}

// Fields is a convenience re-export so callers don't need a second import
// just to build a log line's key/value pairs.
var (
	String = helpers.String
	Error  = helpers.Error
	Int    = helpers.Int
)
