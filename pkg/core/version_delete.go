package core

import (
	"context"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/errors"
	"github.com/oneconcern/geomon/pkg/model"
	"go.uber.org/zap"
)

// Delete removes a version and its pending edits.
//
// Delete is idempotent: deleting an unknown or already-deleted version yields
// (false, nil) rather than an error, so cleanup paths may call it blindly.
func (vm *VersionManager) Delete(ctx context.Context, version model.VersionGuid) (ok bool, err error) {
	defer func(t0 time.Time) {
		if vm.MetricsEnabled() {
			vm.m.UsedAll(t0, "VersionDelete")(err)
		}
	}(time.Now())

	if err = version.Validate(); err != nil {
		return false, status.ErrInvalidGuid.Wrap(err)
	}

	err = classify(vm.remote.PostJSON(ctx, model.VersionRoute(version, "delete"), nil, nil))
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			vm.l.Debug("version already gone", zap.String("version_id", version.String()))
			return false, nil
		}
		return false, err
	}

	vm.l.Info("version deleted", zap.String("version_id", version.String()))
	return true, nil
}
