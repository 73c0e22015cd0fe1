// Package stdlog adapts the standard library's log package to
// thermolink.Logger, for callers who don't already have a structured
// logging setup.
package stdlog

import (
	"log"

	"github.com/librescoot/thermolink/pkg/thermolink"
)

// Adapter bridges thermolink.Logger onto a *log.Logger.
type Adapter struct {
	l *log.Logger
}

// New wraps l, or the standard logger (log.Default()) if l is nil.
func New(l *log.Logger) *Adapter {
	if l == nil {
		l = log.Default()
	}
	return &Adapter{l: l}
}

// Log implements thermolink.Logger.
func (a *Adapter) Log(_ any, severity thermolink.Severity, message string) {
	a.l.Printf("[%s] %s", severity, message)
}

var _ thermolink.Logger = (*Adapter)(nil)
