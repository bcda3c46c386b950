/*
 * Copyright © 2019 One Concern
 *
 */

package model

import "fmt"

// ConflictCategory classifies a conflicting feature by the kind of divergence
// detected between the branch version and DEFAULT.
type ConflictCategory string

const (
	// UpdateUpdate flags a feature modified on both sides since the common ancestor
	UpdateUpdate ConflictCategory = "update-update"

	// UpdateDelete flags a feature modified in the branch and deleted in DEFAULT
	UpdateDelete ConflictCategory = "update-delete"

	// DeleteUpdate flags a feature deleted in the branch and modified in DEFAULT
	DeleteUpdate ConflictCategory = "delete-update"
)

// IsValid checks the value of a conflict category
func (c ConflictCategory) IsValid() bool {
	switch c {
	case UpdateUpdate, UpdateDelete, DeleteUpdate:
		return true
	default:
		return false
	}
}

func (c ConflictCategory) String() string {
	return string(c)
}

// ConflictDetection selects how reconcile decides that two concurrent edits
// of the same feature conflict.
type ConflictDetection string

const (
	// DetectByObject flags any feature edited on both sides as a conflict
	DetectByObject ConflictDetection = "byObject"

	// DetectByAttribute flags only features whose edits overlap on the same
	// attributes or geometry; disjoint attribute edits merge cleanly
	DetectByAttribute ConflictDetection = "byAttribute"
)

// IsValid checks the value of a detection mode
func (d ConflictDetection) IsValid() bool {
	return d == DetectByObject || d == DetectByAttribute
}

func (d ConflictDetection) String() string {
	return string(d)
}

// ConflictEntry is the closed union over the three conflict categories.
//
// Each category carries exactly the feature snapshots that category can have,
// so invalid combinations (e.g. both delete sides populated) cannot be built.
type ConflictEntry interface {
	// Category yields the conflict category of the entry
	Category() ConflictCategory

	// ConflictObjectID yields the object id of the conflicting feature
	ConflictObjectID() int64

	// IsInspected tells whether a reviewer marked this conflict as inspected
	IsInspected() bool

	// InspectionNote yields the reviewer's note, if any
	InspectionNote() string

	sealedConflict()
}

// Inspection carries the human review state attached to a conflict.
// Inspecting does not resolve the conflict: it only records that someone looked.
type Inspection struct {
	Inspected bool   `json:"inspected,omitempty"`
	Note      string `json:"note,omitempty"`
}

// IsInspected tells whether a reviewer marked this conflict as inspected
func (i Inspection) IsInspected() bool { return i.Inspected }

// InspectionNote yields the reviewer's note, if any
func (i Inspection) InspectionNote() string { return i.Note }

// UpdateUpdateConflict is a feature modified differently on both sides.
// All three snapshots are present.
type UpdateUpdateConflict struct {
	ObjectID int64   `json:"objectId"`
	Branch   Feature `json:"branch"`
	Ancestor Feature `json:"ancestor"`
	Default  Feature `json:"default"`
	Inspection
	_ struct{}
}

// Category yields update-update
func (c UpdateUpdateConflict) Category() ConflictCategory { return UpdateUpdate }

// ConflictObjectID yields the conflicting object id
func (c UpdateUpdateConflict) ConflictObjectID() int64 { return c.ObjectID }
func (c UpdateUpdateConflict) sealedConflict()         {}

// UpdateDeleteConflict is a feature modified in the branch but deleted in
// DEFAULT: there is no default snapshot to show.
type UpdateDeleteConflict struct {
	ObjectID int64   `json:"objectId"`
	Branch   Feature `json:"branch"`
	Ancestor Feature `json:"ancestor"`
	Inspection
	_ struct{}
}

// Category yields update-delete
func (c UpdateDeleteConflict) Category() ConflictCategory { return UpdateDelete }

// ConflictObjectID yields the conflicting object id
func (c UpdateDeleteConflict) ConflictObjectID() int64 { return c.ObjectID }
func (c UpdateDeleteConflict) sealedConflict()         {}

// DeleteUpdateConflict is a feature deleted in the branch but modified in
// DEFAULT: there is no branch snapshot to show.
type DeleteUpdateConflict struct {
	ObjectID int64   `json:"objectId"`
	Ancestor Feature `json:"ancestor"`
	Default  Feature `json:"default"`
	Inspection
	_ struct{}
}

// Category yields delete-update
func (c DeleteUpdateConflict) Category() ConflictCategory { return DeleteUpdate }

// ConflictObjectID yields the conflicting object id
func (c DeleteUpdateConflict) ConflictObjectID() int64 { return c.ObjectID }
func (c DeleteUpdateConflict) sealedConflict()         {}

// LayerConflicts groups the conflicts found in one layer, bucketed by category.
type LayerConflicts struct {
	LayerID       int64                  `json:"layerId"`
	UpdateUpdates []UpdateUpdateConflict `json:"updateUpdate,omitempty"`
	UpdateDeletes []UpdateDeleteConflict `json:"updateDelete,omitempty"`
	DeleteUpdates []DeleteUpdateConflict `json:"deleteUpdate,omitempty"`
	_             struct{}
}

// Count yields the number of conflicting features in the layer
func (l LayerConflicts) Count() int {
	return len(l.UpdateUpdates) + len(l.UpdateDeletes) + len(l.DeleteUpdates)
}

// Entries flattens the category buckets into the conflict union
func (l LayerConflicts) Entries() []ConflictEntry {
	entries := make([]ConflictEntry, 0, l.Count())
	for _, c := range l.UpdateUpdates {
		entries = append(entries, c)
	}
	for _, c := range l.UpdateDeletes {
		entries = append(entries, c)
	}
	for _, c := range l.DeleteUpdates {
		entries = append(entries, c)
	}
	return entries
}

// ConflictSet is the conflict read model produced by one reconcile.
//
// A conflict set is superseded by the next reconcile: it must never be
// cached across reconciles.
type ConflictSet []LayerConflicts

// Count yields the total number of conflicting features
func (s ConflictSet) Count() int {
	n := 0
	for _, l := range s {
		n += l.Count()
	}
	return n
}

// HasConflicts tells whether the set contains at least one conflict
func (s ConflictSet) HasConflicts() bool {
	return s.Count() > 0
}

// Breakdown yields the per-category count of conflicts
func (s ConflictSet) Breakdown() map[ConflictCategory]int {
	b := make(map[ConflictCategory]int, 3)
	for _, l := range s {
		b[UpdateUpdate] += len(l.UpdateUpdates)
		b[UpdateDelete] += len(l.UpdateDeletes)
		b[DeleteUpdate] += len(l.DeleteUpdates)
	}
	return b
}

// Summary renders the count and category breakdown, e.g. for conflict errors
func (s ConflictSet) Summary() string {
	b := s.Breakdown()
	return fmt.Sprintf("%d conflicts (%s: %d, %s: %d, %s: %d)",
		s.Count(),
		UpdateUpdate, b[UpdateUpdate],
		UpdateDelete, b[UpdateDelete],
		DeleteUpdate, b[DeleteUpdate],
	)
}

// InspectedRow flags one conflicting feature as reviewed, with an optional note
type InspectedRow struct {
	ObjectID int64  `json:"objectId"`
	Note     string `json:"note,omitempty"`
	_        struct{}
}

// InspectionRecord flags reviewed conflicts in one layer
type InspectionRecord struct {
	LayerID int64          `json:"layerId"`
	Rows    []InspectedRow `json:"rows"`
	_       struct{}
}
