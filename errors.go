package bramble

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Concrete errors wrap one of these; test with errors.Is.
var (
	// ErrType reports an argument of the wrong shape or type.
	ErrType = errors.New("bramble: type error")
	// ErrValue reports an out-of-range or semantically invalid argument.
	ErrValue = errors.New("bramble: value error")
	// ErrIndex reports an out-of-bounds cell or collection index.
	ErrIndex = errors.New("bramble: index error")
	// ErrRuntime reports a failed precondition.
	ErrRuntime = errors.New("bramble: runtime error")
)

func typeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrType, fmt.Sprintf(format, args...))
}

func valueErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValue, fmt.Sprintf(format, args...))
}

func indexErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIndex, fmt.Sprintf(format, args...))
}

func runtimeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRuntime, fmt.Sprintf(format, args...))
}

// unknownPropertyError lists the valid names so callers can fix typos.
func unknownPropertyError(kind, name string, valid []string) error {
	names := append([]string(nil), valid...)
	sort.Strings(names)
	return valueErrorf("%s has no property %q (valid: %s)", kind, name, strings.Join(names, ", "))
}
