package envline

import "fmt"

// ErrorKind classifies encoding errors.
type ErrorKind int

const (
	// ErrUnsupportedKind means the value cannot describe itself to the
	// encoder (channels, funcs, complex numbers).
	ErrUnsupportedKind ErrorKind = iota + 1
	// ErrUnbalancedCall means an End call on the visit surface had no
	// matching Begin.
	ErrUnbalancedCall
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupportedKind:
		return "unsupported kind"
	case ErrUnbalancedCall:
		return "unbalanced call"
	}
	return "unknown"
}

// Error is the only error type returned by this package. Any failure
// means the value is not encodable; no partial output is produced.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("envline: %v: %s", e.Kind, e.Detail)
}
