package core

import (
	"context"
	"strings"
	"testing"

	"github.com/oneconcern/geomon/pkg/core/mocks"
	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/errors"
	"github.com/oneconcern/geomon/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conflictedSession builds a session whose last reconcile found one
// update-update conflict on object 1
func conflictedSession(t *testing.T, svc *mocks.Service, vm *VersionManager) *EditSession {
	ctx := context.Background()
	svc.SeedLayer(testLayer, feat(1, "status", "base"))
	desc := createTestVersion(t, vm)
	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	require.NoError(t, session.ApplyEdits(ctx, testLayer, model.EditBatch{
		Updates: model.Features{feat(1, "status", "branch-edit")},
	}))
	svc.EditDefault(testLayer, feat(1, "status", "default-edit"))

	outcome, err := session.Reconcile(ctx)
	require.NoError(t, err)
	require.True(t, outcome.HasConflicts)
	return session
}

func TestPostBlockedByConflicts(t *testing.T) {
	svc, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	session := conflictedSession(t, svc, vm)
	defer func() { _ = session.Abandon(ctx) }()

	err := session.Post(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrConflicts))
	// the error carries the conflict breakdown
	assert.True(t, strings.Contains(err.Error(), "1 conflicts"))

	err = session.PostPartial(ctx, model.PartialPostSpec{
		{LayerID: testLayer, ObjectIDs: []int64{1}},
	})
	assert.True(t, errors.Is(err, status.ErrConflicts))

	// the concurrent DEFAULT edit was never overwritten
	row, found := svc.DefaultRow(testLayer, 1)
	require.True(t, found)
	assert.Equal(t, "default-edit", row.Attributes["status"])
}

func TestPostRequiresReconcile(t *testing.T) {
	svc, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	svc.SeedLayer(testLayer, feat(1, "status", "base"))
	desc := createTestVersion(t, vm)
	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	defer func() { _ = session.Abandon(ctx) }()

	require.NoError(t, session.ApplyEdits(ctx, testLayer, model.EditBatch{
		Updates: model.Features{feat(1, "status", "branch-edit")},
	}))
	assert.True(t, errors.Is(session.Post(ctx), status.ErrNotReconciled))

	outcome, err := session.Reconcile(ctx)
	require.NoError(t, err)
	require.False(t, outcome.HasConflicts)

	// editing again invalidates the reconcile
	require.NoError(t, session.ApplyEdits(ctx, testLayer, model.EditBatch{
		Updates: model.Features{feat(1, "status", "later-edit")},
	}))
	assert.True(t, errors.Is(session.Post(ctx), status.ErrNotReconciled))
}

func TestRestoreResolvesConflict(t *testing.T) {
	svc, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	session := conflictedSession(t, svc, vm)
	defer func() { _ = session.Abandon(ctx) }()

	// accept the ancestor side on the conflicting row
	require.NoError(t, session.RestoreRows(ctx, []model.RowSelection{
		{LayerID: testLayer, ObjectIDs: []int64{1}},
	}))

	// restoring alone does not unblock posting
	assert.True(t, errors.Is(session.Post(ctx), status.ErrNotReconciled))

	outcome, err := session.Reconcile(ctx)
	require.NoError(t, err)
	require.False(t, outcome.HasConflicts)

	set, err := session.Conflicts(ctx)
	require.NoError(t, err)
	assert.False(t, set.HasConflicts())

	require.NoError(t, session.Post(ctx))
	require.NoError(t, session.StopEditing(ctx, true))

	// DEFAULT kept the concurrent edit, since the branch side was given up
	row, found := svc.DefaultRow(testLayer, 1)
	require.True(t, found)
	assert.Equal(t, "default-edit", row.Attributes["status"])
}

func TestRestoreRowsValidation(t *testing.T) {
	_, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	desc := createTestVersion(t, vm)
	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	defer func() { _ = session.Abandon(ctx) }()

	assert.True(t, errors.Is(
		session.RestoreRows(ctx, nil),
		status.ErrValidation,
	))
	assert.True(t, errors.Is(
		session.RestoreRows(ctx, []model.RowSelection{{LayerID: testLayer}}),
		status.ErrValidation,
	))
}

func TestPartialPost(t *testing.T) {
	svc, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	svc.SeedLayer(testLayer,
		feat(1, "status", "base"),
		feat(2, "status", "base"),
	)
	desc := createTestVersion(t, vm)
	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	defer func() { _ = session.Abandon(ctx) }()

	require.NoError(t, session.ApplyEdits(ctx, testLayer, model.EditBatch{
		Updates: model.Features{
			feat(1, "status", "edited"),
			feat(2, "status", "edited"),
		},
	}))
	outcome, err := session.Reconcile(ctx)
	require.NoError(t, err)
	require.False(t, outcome.HasConflicts)

	require.NoError(t, session.PostPartial(ctx, model.PartialPostSpec{
		{LayerID: testLayer, ObjectIDs: []int64{1}},
	}))

	// only the selected row reached DEFAULT
	row, found := svc.DefaultRow(testLayer, 1)
	require.True(t, found)
	assert.Equal(t, "edited", row.Attributes["status"])
	row, found = svc.DefaultRow(testLayer, 2)
	require.True(t, found)
	assert.Equal(t, "base", row.Attributes["status"])

	// the unposted row is still pending in the version
	diffs, err := vm.Differences(ctx, desc.Guid, svc.Moment(), model.DiffObjectIds)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, []int64{2}, diffs[0].Updates)
	assert.Empty(t, diffs[0].Inserts)
	assert.Empty(t, diffs[0].Deletes)

	// a later full post flushes the remainder
	require.NoError(t, session.Post(ctx))
	row, found = svc.DefaultRow(testLayer, 2)
	require.True(t, found)
	assert.Equal(t, "edited", row.Attributes["status"])
}

func TestPartialPostEmptySpec(t *testing.T) {
	_, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	desc := createTestVersion(t, vm)
	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	defer func() { _ = session.Abandon(ctx) }()

	assert.True(t, errors.Is(
		session.PostPartial(ctx, model.PartialPostSpec{}),
		status.ErrValidation,
	))
	assert.True(t, errors.Is(
		session.PostPartial(ctx, model.PartialPostSpec{{LayerID: testLayer}}),
		status.ErrValidation,
	))
}

func TestDifferences(t *testing.T) {
	svc, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	svc.SeedLayer(testLayer,
		feat(1, "status", "base"),
		feat(2, "status", "base"),
	)
	desc := createTestVersion(t, vm)
	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	require.NoError(t, session.ApplyEdits(ctx, testLayer, model.EditBatch{
		Adds:    model.Features{feat(0, "status", "new")},
		Updates: model.Features{feat(1, "status", "edited")},
		Deletes: []int64{2},
	}))
	require.NoError(t, session.StopEditing(ctx, true))

	// the audit needs no edit session
	diffs, err := vm.Differences(ctx, desc.Guid, svc.Moment(), model.DiffObjectIds)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, testLayer, diffs[0].LayerID)
	assert.Len(t, diffs[0].Inserts, 1)
	assert.Equal(t, []int64{1}, diffs[0].Updates)
	assert.Equal(t, []int64{2}, diffs[0].Deletes)
	assert.Empty(t, diffs[0].UpdateFeatures)

	diffs, err = vm.Differences(ctx, desc.Guid, svc.Moment(), model.DiffFeatures)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	require.Len(t, diffs[0].UpdateFeatures, 1)
	assert.Equal(t, "edited", diffs[0].UpdateFeatures[0].Attributes["status"])
	require.Len(t, diffs[0].InsertFeatures, 1)
	assert.Equal(t, "new", diffs[0].InsertFeatures[0].Attributes["status"])

	_, err = vm.Differences(ctx, desc.Guid, svc.Moment(), model.DiffResultType("bogus"))
	assert.True(t, errors.Is(err, status.ErrValidation))
	_, err = vm.Differences(ctx, "not-a-guid", svc.Moment(), model.DiffObjectIds)
	assert.True(t, errors.Is(err, status.ErrInvalidGuid))
	_, err = vm.Differences(ctx, model.VersionGuid("7b1c8f1e-0000-4000-8000-000000000000"), svc.Moment(), model.DiffObjectIds)
	assert.True(t, errors.Is(err, status.ErrNotFound))
}
