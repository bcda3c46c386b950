package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConflictSet() ConflictSet {
	attrs := func(kv map[string]interface{}) Feature {
		return Feature{Attributes: kv}
	}
	return ConflictSet{
		{
			LayerID: 0,
			UpdateUpdates: []UpdateUpdateConflict{
				{
					ObjectID: 1,
					Branch:   attrs(map[string]interface{}{ObjectIDField: int64(1), "status": "A"}),
					Ancestor: attrs(map[string]interface{}{ObjectIDField: int64(1), "status": "base"}),
					Default:  attrs(map[string]interface{}{ObjectIDField: int64(1), "status": "B"}),
				},
			},
			UpdateDeletes: []UpdateDeleteConflict{
				{
					ObjectID: 2,
					Branch:   attrs(map[string]interface{}{ObjectIDField: int64(2)}),
					Ancestor: attrs(map[string]interface{}{ObjectIDField: int64(2)}),
				},
			},
		},
		{
			LayerID: 1,
			DeleteUpdates: []DeleteUpdateConflict{
				{
					ObjectID: 7,
					Ancestor: attrs(map[string]interface{}{ObjectIDField: int64(7)}),
					Default:  attrs(map[string]interface{}{ObjectIDField: int64(7), "status": "moved"}),
				},
			},
		},
	}
}

func TestConflictSetCounts(t *testing.T) {
	s := testConflictSet()
	require.True(t, s.HasConflicts())
	assert.Equal(t, 3, s.Count())

	b := s.Breakdown()
	assert.Equal(t, 1, b[UpdateUpdate])
	assert.Equal(t, 1, b[UpdateDelete])
	assert.Equal(t, 1, b[DeleteUpdate])
	assert.Contains(t, s.Summary(), "3 conflicts")

	assert.False(t, ConflictSet{}.HasConflicts())
}

func TestConflictEntries(t *testing.T) {
	s := testConflictSet()
	entries := s[0].Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, UpdateUpdate, entries[0].Category())
	assert.EqualValues(t, 1, entries[0].ConflictObjectID())
	assert.Equal(t, UpdateDelete, entries[1].Category())
	assert.False(t, entries[1].IsInspected())
}

func TestConflictWireShape(t *testing.T) {
	// inspection state rides along each categorized entry
	c := UpdateUpdateConflict{
		ObjectID:   3,
		Inspection: Inspection{Inspected: true, Note: "keep branch side"},
	}
	buf, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded UpdateUpdateConflict
	require.NoError(t, json.Unmarshal(buf, &decoded))
	assert.True(t, decoded.IsInspected())
	assert.Equal(t, "keep branch side", decoded.InspectionNote())
	assert.EqualValues(t, 3, decoded.ConflictObjectID())
}

func TestDetectionAndCategoryValues(t *testing.T) {
	assert.True(t, DetectByObject.IsValid())
	assert.True(t, DetectByAttribute.IsValid())
	assert.False(t, ConflictDetection("byWhim").IsValid())

	for _, c := range []ConflictCategory{UpdateUpdate, UpdateDelete, DeleteUpdate} {
		assert.True(t, c.IsValid())
	}
	assert.False(t, ConflictCategory("merge-merge").IsValid())
}
