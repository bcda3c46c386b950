package core

import (
	"context"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/model"
	"go.uber.org/zap"
)

// Alter applies a partial update to a version's metadata. Fields not set by
// any option are left untouched; an empty patch is a no-op.
//
// The version's guid never changes, whatever the alterations.
func (vm *VersionManager) Alter(ctx context.Context, version model.VersionGuid, opts ...model.PatchOption) (err error) {
	defer func(t0 time.Time) {
		if vm.MetricsEnabled() {
			vm.m.UsedAll(t0, "VersionAlter")(err)
		}
	}(time.Now())

	if err = version.Validate(); err != nil {
		return status.ErrInvalidGuid.Wrap(err)
	}
	patch := model.NewVersionPatch(opts...)
	if patch.IsZero() {
		return nil
	}
	if err = patch.Validate(); err != nil {
		return status.ErrValidation.Wrap(err)
	}

	if err = vm.remote.PostJSON(ctx, model.VersionRoute(version, "alter"), patch, nil); err != nil {
		return classify(err)
	}

	vm.l.Info("version altered", zap.String("version_id", version.String()))
	return nil
}
