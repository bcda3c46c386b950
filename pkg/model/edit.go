package model

// EditBatch is a batch of feature adds, updates and deletes submitted to a
// single layer within an open edit session.
//
// A batch is not independently addressable: the service consumes buffered
// batches when the session stops with save, or discards them when the session
// stops without save.
type EditBatch struct {
	Adds    Features `json:"adds,omitempty"`
	Updates Features `json:"updates,omitempty"`
	Deletes []int64  `json:"deletes,omitempty"`
	_       struct{}
}

// IsEmpty tells whether the batch carries no edit at all
func (b EditBatch) IsEmpty() bool {
	return len(b.Adds) == 0 && len(b.Updates) == 0 && len(b.Deletes) == 0
}
