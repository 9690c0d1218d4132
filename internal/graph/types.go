package graph

// RelationKind labels an edge between two facts of the same file.
type RelationKind string

const (
	// RelationNestedIn links a declaration to the declaration that encloses it in source.
	RelationNestedIn RelationKind = "nested_in"
	// RelationLoweredInto links a synthetic unit (lambda, delegate accessor) to its host.
	RelationLoweredInto RelationKind = "lowered_into"
)

type UnresolvedReason string

const (
	ReasonMissingParent UnresolvedReason = "missing_parent"
	ReasonDuplicateID   UnresolvedReason = "duplicate_id"
)

// Unresolved records a fact whose parent link could not be established.
type Unresolved struct {
	FactID   string           `json:"fact_id"`
	ParentID string           `json:"parent_id,omitempty"`
	Reason   UnresolvedReason `json:"reason"`
}
