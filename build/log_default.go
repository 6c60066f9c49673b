//go:build !stdlog && !nolog

package build

import "os"

// LoggingType is a log type that writes to both stderr and the log rotator, if
// present.
const LoggingType = LogTypeDefault

// Write writes the byte slice to stderr and to the rotator pipe, if one has
// been attached. stdout is left to command output.
func (w *LogWriter) Write(b []byte) (int, error) {
	os.Stderr.Write(b)
	if w.RotatorPipe != nil {
		w.RotatorPipe.Write(b)
	}
	return len(b), nil
}
