package rarextract

import "github.com/sirupsen/logrus"

// Logger is the logging surface the orchestrator and the multi-volume
// reassembler log to, satisfied by both *logrus.Logger and *logrus.Entry so a
// caller can inject either one via WithLogger. WithFields lets call sites
// attach structured fields (path, blockType, offset, size) instead of
// formatting them into the message.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	WithFields(fields logrus.Fields) *logrus.Entry
}

// defaultLogger is used when no WithLogger Option is supplied. It replaces
// the teacher's RARINDEX_DEBUG-gated fmt.Fprintf debug trace with a
// structured logrus logger; set its level to Debug to see volume and block
// scan tracing.
var defaultLogger Logger = logrus.StandardLogger()
