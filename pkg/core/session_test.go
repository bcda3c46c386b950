package core

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/dlogger"
	"github.com/oneconcern/geomon/pkg/errors"
	"github.com/oneconcern/geomon/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLockExclusivity(t *testing.T) {
	_, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	desc := createTestVersion(t, vm)

	first, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)

	// the lock is granted to at most one session at a time
	_, err = vm.StartEditing(ctx, desc.Guid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrVersionLocked))

	require.NoError(t, first.StopEditing(ctx, false))

	second, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
	require.NoError(t, second.StopEditing(ctx, false))
}

func TestSessionStopExactlyOnce(t *testing.T) {
	_, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	desc := createTestVersion(t, vm)
	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)

	require.NoError(t, session.StopEditing(ctx, true))
	assert.True(t, errors.Is(session.StopEditing(ctx, true), status.ErrSessionClosed))

	// every mutating operation is rejected once the session stopped
	assert.True(t, errors.Is(
		session.ApplyEdits(ctx, testLayer, model.EditBatch{Deletes: []int64{1}}),
		status.ErrSessionClosed,
	))
	_, err = session.Reconcile(ctx)
	assert.True(t, errors.Is(err, status.ErrSessionClosed))
	assert.True(t, errors.Is(session.Post(ctx), status.ErrSessionClosed))
	assert.True(t, errors.Is(
		session.RestoreRows(ctx, []model.RowSelection{{LayerID: testLayer, ObjectIDs: []int64{1}}}),
		status.ErrSessionClosed,
	))
}

func TestSessionAbandon(t *testing.T) {
	svc, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	svc.SeedLayer(testLayer, feat(1, "status", "base"))
	desc := createTestVersion(t, vm)

	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	require.NoError(t, session.ApplyEdits(ctx, testLayer, model.EditBatch{
		Updates: model.Features{feat(1, "status", "doomed")},
	}))

	require.NoError(t, session.Abandon(ctx))
	assert.Empty(t, svc.LockHolder(desc.Guid))

	// abandoned edits are discarded
	row, found := svc.BranchRow(desc.Guid, testLayer, 1)
	require.True(t, found)
	assert.Equal(t, "base", row.Attributes["status"])

	// abandoning again is a no-op
	require.NoError(t, session.Abandon(ctx))
	// and so is abandoning after a regular stop
	other, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	require.NoError(t, other.StopEditing(ctx, false))
	require.NoError(t, other.Abandon(ctx))
}

func TestSessionStale(t *testing.T) {
	svc, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	svc.SeedLayer(testLayer, feat(1, "status", "base"))
	desc := createTestVersion(t, vm)

	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)

	// server-side lock timeout invalidates the session
	svc.ExpireSession(desc.Guid)

	err = session.ApplyEdits(ctx, testLayer, model.EditBatch{
		Updates: model.Features{feat(1, "status", "late")},
	})
	assert.True(t, errors.Is(err, status.ErrSessionStale))

	// a dropped session counts as released for cleanup purposes
	require.NoError(t, session.Abandon(ctx))
}

func TestSessionDiscardOnStopWithoutSave(t *testing.T) {
	svc, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	svc.SeedLayer(testLayer, feat(1, "status", "base"))
	desc := createTestVersion(t, vm)

	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	require.NoError(t, session.ApplyEdits(ctx, testLayer, model.EditBatch{
		Updates: model.Features{feat(1, "status", "scrapped")},
	}))
	require.NoError(t, session.StopEditing(ctx, false))

	row, found := svc.BranchRow(desc.Guid, testLayer, 1)
	require.True(t, found)
	assert.Equal(t, "base", row.Attributes["status"])
}

func TestSessionEmptyBatchRejected(t *testing.T) {
	_, vm, teardown := testEnv(t)
	defer teardown()
	ctx := context.Background()

	desc := createTestVersion(t, vm)
	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	defer func() { _ = session.Abandon(ctx) }()

	assert.True(t, errors.Is(
		session.ApplyEdits(ctx, testLayer, model.EditBatch{}),
		status.ErrValidation,
	))
}

func TestSessionLogging(t *testing.T) {
	var buf bytes.Buffer
	logger, err := dlogger.GetLoggerWithWriter(dlogger.LogLevelDebug, &buf)
	require.NoError(t, err)

	_, vm, teardown := testEnv(t, WithLogger(logger), WithTag("wf-0001"))
	defer teardown()
	ctx := context.Background()

	assert.Equal(t, "wf-0001", vm.Tag())

	desc := createTestVersion(t, vm)
	session, err := vm.StartEditing(ctx, desc.Guid)
	require.NoError(t, err)
	require.NoError(t, session.StopEditing(ctx, false))

	// the session lifecycle is logged, stamped with the workflow tag
	out := buf.String()
	assert.Contains(t, out, "edit session started")
	assert.Contains(t, out, "edit session stopped")
	assert.Contains(t, out, desc.Guid.String())
	assert.Contains(t, out, `"tag":"wf-0001"`)
}

func TestStartEditingRetriesOnContention(t *testing.T) {
	svc := newLockedEnv(t)
	defer svc.teardown()
	ctx := context.Background()

	clock := &testClock{}
	clock.onSleep = func(n int) {
		// the holder releases the lock while we back off the second time
		if n == 2 {
			svc.svc.ExpireSession(svc.desc.Guid)
		}
	}
	vm := New(svc.remoteClient(t), WithRetry(ConstantBackoff(3, time.Second)), WithClock(clock))

	session, err := vm.StartEditing(ctx, svc.desc.Guid)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, clock.recorded())
	require.NoError(t, session.Abandon(ctx))
}

func TestStartEditingNoSilentRetryByDefault(t *testing.T) {
	svc := newLockedEnv(t)
	defer svc.teardown()

	vm := New(svc.remoteClient(t))
	_, err := vm.StartEditing(context.Background(), svc.desc.Guid)
	assert.True(t, errors.Is(err, status.ErrVersionLocked))
}

func TestStartEditingRetryExhaustion(t *testing.T) {
	svc := newLockedEnv(t)
	defer svc.teardown()

	clock := &testClock{}
	vm := New(svc.remoteClient(t), WithRetry(ConstantBackoff(3, time.Second)), WithClock(clock))

	_, err := vm.StartEditing(context.Background(), svc.desc.Guid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrVersionLocked))
	assert.Len(t, clock.recorded(), 2)
}
