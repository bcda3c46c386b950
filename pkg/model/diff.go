package model

// Moment identifies a point in the service's edit history. The moment captured
// when a version last shared state with DEFAULT is its ancestor moment.
type Moment int64

// DiffResultType selects how differences are reported
type DiffResultType string

const (
	// DiffObjectIds reports differences as bare object ids
	DiffObjectIds DiffResultType = "objectIds"

	// DiffFeatures reports differences as full feature snapshots
	DiffFeatures DiffResultType = "features"
)

// IsValid checks the value of a diff result type
func (d DiffResultType) IsValid() bool {
	return d == DiffObjectIds || d == DiffFeatures
}

func (d DiffResultType) String() string {
	return string(d)
}

// LayerDiff partitions the rows of one layer that changed between the ancestor
// moment and the current branch state.
//
// This is derived, read-only data: it is recomputed on every call and never
// mutated by the client.
type LayerDiff struct {
	LayerID int64   `json:"layerId"`
	Inserts []int64 `json:"inserts,omitempty"`
	Updates []int64 `json:"updates,omitempty"`
	Deletes []int64 `json:"deletes,omitempty"`

	// populated only when the diff was requested with DiffFeatures
	InsertFeatures Features `json:"insertFeatures,omitempty"`
	UpdateFeatures Features `json:"updateFeatures,omitempty"`
	_              struct{}
}

// Count yields the number of differing rows in the layer
func (d LayerDiff) Count() int {
	return len(d.Inserts) + len(d.Updates) + len(d.Deletes)
}

// LayerDiffs is a slice of per-layer differences
type LayerDiffs []LayerDiff

// RowSelection addresses a subset of rows in one layer
type RowSelection struct {
	LayerID   int64   `json:"layerId"`
	ObjectIDs []int64 `json:"objectIds"`
	_         struct{}
}

// PartialPostSpec restricts a post to the listed rows per layer. Rows left out
// remain pending in the version for a later post.
type PartialPostSpec []RowSelection

// IsZero tells whether the spec selects nothing
func (p PartialPostSpec) IsZero() bool {
	for _, sel := range p {
		if len(sel.ObjectIDs) > 0 {
			return false
		}
	}
	return true
}

// ReconcileOutcome reports what a reconcile did
type ReconcileOutcome struct {
	HasConflicts bool `json:"hasConflicts"`
	DidPost      bool `json:"didPost"`

	// Moment is the new ancestor moment of the version after a successful,
	// conflict-free reconcile
	Moment Moment `json:"moment,omitempty"`
	_      struct{}
}
