package core

import (
	"context"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/model"
	"go.uber.org/zap"
)

type applyEditsRequest struct {
	SessionID model.SessionGuid `json:"sessionId"`
	Adds      model.Features    `json:"adds,omitempty"`
	Updates   model.Features    `json:"updates,omitempty"`
	Deletes   []int64           `json:"deletes,omitempty"`
}

// ApplyEdits submits a batch of feature adds, updates and deletes to one layer
// of the locked version.
//
// Edits accumulate in the session: they are committed by StopEditing with save,
// or discarded without. Submitting edits invalidates any prior reconcile, so a
// fresh reconcile is required before posting.
func (s *EditSession) ApplyEdits(ctx context.Context, layerID int64, batch model.EditBatch) (err error) {
	defer func(t0 time.Time) {
		if s.vm.MetricsEnabled() {
			s.vm.m.UsedAll(t0, "ApplyEdits")(err)
		}
	}(time.Now())

	if err = s.guard(); err != nil {
		return err
	}
	if batch.IsEmpty() {
		return status.ErrValidation.WrapMessage("empty edit batch for layer %d", layerID)
	}

	err = classify(s.vm.remote.PostJSON(ctx, model.LayerEditsRoute(s.version, layerID), applyEditsRequest{
		SessionID: s.id,
		Adds:      batch.Adds,
		Updates:   batch.Updates,
		Deletes:   batch.Deletes,
	}, nil))
	if err != nil {
		return err
	}

	s.invalidateReconcile()
	s.l.Debug("edits applied",
		zap.Int64("layer_id", layerID),
		zap.Int("adds", len(batch.Adds)),
		zap.Int("updates", len(batch.Updates)),
		zap.Int("deletes", len(batch.Deletes)),
	)
	return nil
}
