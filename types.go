package sqlfront

// BaseType is the storage-level type an expression resolves to.
type BaseType int

const (
	BaseUnknown BaseType = iota
	BaseInt
	BaseText
	BaseReal
	BaseBlob
	BaseBool
	BaseNull
)

var baseTypeNames = map[BaseType]string{
	BaseUnknown: "unknown",
	BaseInt:     "int",
	BaseText:    "text",
	BaseReal:    "real",
	BaseBlob:    "blob",
	BaseBool:    "bool",
	BaseNull:    "null",
}

func (b BaseType) String() string {
	if name, ok := baseTypeNames[b]; ok {
		return name
	}
	return "unknown"
}

// TypeHint carries logical-type information that the storage type alone
// cannot express. Hints survive comparison and assignment so that a bind
// variable compared against a datetime column is reported as a datetime.
type TypeHint int

const (
	HintNone TypeHint = iota
	HintDateTime
	HintBool
)

func (h TypeHint) String() string {
	switch h {
	case HintDateTime:
		return "datetime"
	case HintBool:
		return "bool"
	default:
		return "none"
	}
}

// ResolvedType is a fully determined expression type.
type ResolvedType struct {
	Base     BaseType
	Nullable bool
	IsArray  bool
	Hint     TypeHint
}

func (t ResolvedType) String() string {
	s := t.Base.String()
	if t.Hint == HintDateTime {
		s = "datetime"
	} else if t.Hint == HintBool {
		s = "bool"
	}
	if t.IsArray {
		s = "[]" + s
	}
	if t.Nullable {
		s += "?"
	}
	return s
}

// ResolveStatus reports how far resolution of a node has progressed.
type ResolveStatus int

const (
	// ResolveUnknown means no information has been gathered yet.
	ResolveUnknown ResolveStatus = iota
	// ResolveNeedsContext marks a node (typically a bind variable) whose
	// type can only come from the surrounding expression.
	ResolveNeedsContext
	// Resolved means the type is final.
	Resolved
)

func (s ResolveStatus) String() string {
	switch s {
	case ResolveNeedsContext:
		return "needs-context"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// ResolveResult is the tri-state outcome attached to each AST node during
// analysis. Type is only meaningful when Status is Resolved.
type ResolveResult struct {
	Status ResolveStatus
	Type   ResolvedType
}

// ResolvedAs builds a final result with the given type.
func ResolvedAs(t ResolvedType) ResolveResult {
	return ResolveResult{Status: Resolved, Type: t}
}

// NeedsContext builds a result waiting on an expectation from the
// surrounding expression.
func NeedsContext() ResolveResult {
	return ResolveResult{Status: ResolveNeedsContext}
}

// IsResolved reports whether the result carries a final type.
func (r ResolveResult) IsResolved() bool {
	return r.Status == Resolved
}
