package bramble

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
)

// CallbackError records a user callback that panicked.
type CallbackError struct {
	Kind   string // callback slot, e.g. "on_click" or "on_cell_enter"
	Target string // name or serial of the object the callback is on
	Value  any    // recovered value
	Stack  []byte
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("%s callback on %s panicked: %v", e.Kind, e.Target, e.Value)
}

// Unwrap exposes a recovered error value to errors.Is and errors.As.
func (e *CallbackError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "[bramble] ", log.LstdFlags)
}

// guard runs user callbacks. A panic is recovered, logged, and kept as the
// last error; the callback stays installed. With exitOnPanic set the guard
// asks the engine to stop at the end of the frame.
type guard struct {
	logger        *log.Logger
	exitOnPanic   bool
	exitRequested bool
	lastErr       *CallbackError
	errCount      int
}

func newGuard() *guard {
	return &guard{logger: newLogger(os.Stderr)}
}

// call runs fn and reports whether it returned normally.
func (g *guard) call(kind, target string, fn func()) (ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ok = false
		err := &CallbackError{Kind: kind, Target: target, Value: r, Stack: debug.Stack()}
		g.lastErr = err
		g.errCount++
		g.logger.Printf("%v", err)
		if g.exitOnPanic {
			g.exitRequested = true
		}
	}()
	fn()
	return true
}

func (g *guard) logf(format string, args ...any) {
	g.logger.Printf(format, args...)
}

// describe names a drawable for log lines.
func describe(d Drawable) string {
	if d == nil {
		return "<nil>"
	}
	return describeNamed(fmt.Sprintf("%T", d), d.Name(), d.Serial())
}

func describeEntity(e *Entity) string {
	return describeNamed("*bramble.Entity", e.name, e.serial)
}

func describeNamed(kind, name string, serial uint64) string {
	if name != "" {
		return fmt.Sprintf("%s %q (#%d)", kind, name, serial)
	}
	return fmt.Sprintf("%s #%d", kind, serial)
}
