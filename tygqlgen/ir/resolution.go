package ir

// ResolutionKind identifies how a field's value is produced at serving time.
type ResolutionKind int

const (
	// ResolveRoot calls an exported function of another package; there is no parent value.
	ResolveRoot ResolutionKind = iota
	// ResolveParent calls a method on (or reads a field of) the resolved parent value.
	ResolveParent
)

// String returns the string representation of the resolution kind.
func (k ResolutionKind) String() string {
	switch k {
	case ResolveRoot:
		return "RootResolution"
	case ResolveParent:
		return "ParentResolution"
	default:
		return "Unknown"
	}
}

// Resolution binds a field to the Go code that produces its value.
type Resolution interface {
	ResolutionKind() ResolutionKind
	resolution()
}

// DeferredKind describes whether a member returns a deferred thunk.
type DeferredKind int

const (
	DeferredNone     DeferredKind = iota
	DeferredThunk                 // func() T or func() (T, error)
	DeferredThunkPtr              // *func() T or *func() (T, error)
)

// String returns the string representation of the deferred kind.
func (k DeferredKind) String() string {
	switch k {
	case DeferredNone:
		return "none"
	case DeferredThunk:
		return "thunk"
	case DeferredThunkPtr:
		return "thunkPtr"
	default:
		return "unknown"
	}
}

// Call describes the calling convention of a resolver member.
type Call struct {
	// Context is set when the member takes a leading context.Context.
	Context bool

	// Error is set when the member returns a trailing error.
	Error bool

	// Deferred reports whether the result is a thunk.
	Deferred DeferredKind

	// ThunkError is set when the thunk itself returns a trailing error.
	ThunkError bool
}

// RootResolution resolves a field by calling Container.Member from the
// package at ImportPath, forwarding arguments positionally.
type RootResolution struct {
	// Module is the declaring file relative to the configured base directory,
	// with its extension stripped.
	Module string

	// ImportPath is the import path of the declaring package.
	ImportPath string

	// Container is the name the package is referenced by.
	Container string

	// Member is the function name.
	Member string

	Call Call
}

func (*RootResolution) ResolutionKind() ResolutionKind { return ResolveRoot }
func (*RootResolution) resolution()                    {}

// ParentResolution resolves a field from the already-resolved parent value.
type ParentResolution struct {
	// Member is the Go method or field name.
	Member string

	// Property is set when Member is a struct field rather than a method.
	Property bool

	Call Call
}

func (*ParentResolution) ResolutionKind() ResolutionKind { return ResolveParent }
func (*ParentResolution) resolution()                    {}
