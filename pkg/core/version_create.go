package core

import (
	"context"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/model"
	"go.uber.org/zap"
)

type createVersionRequest struct {
	Name        string            `json:"name"`
	Access      model.AccessLevel `json:"access"`
	Description string            `json:"description,omitempty"`
}

type createVersionResponse struct {
	Success bool                    `json:"success"`
	Version model.VersionDescriptor `json:"version"`
}

// Create registers a new version branching off DEFAULT and returns its
// server-issued descriptor.
//
// The version name must be unique for its owner: a duplicate is rejected by
// the service and surfaces as a validation error.
func (vm *VersionManager) Create(ctx context.Context, desc model.VersionDescriptor) (created model.VersionDescriptor, err error) {
	defer func(t0 time.Time) {
		if vm.MetricsEnabled() {
			vm.m.UsedAll(t0, "VersionCreate")(err)
		}
	}(time.Now())

	if err = model.Validate(desc); err != nil {
		return created, status.ErrValidation.Wrap(err)
	}

	var result createVersionResponse
	err = vm.remote.PostJSON(ctx, model.VersionsRoute("create"), createVersionRequest{
		Name:        desc.Name,
		Access:      desc.Access,
		Description: desc.Description,
	}, &result)
	if err != nil {
		return created, classify(err)
	}

	vm.l.Info("version created",
		zap.String("version_id", result.Version.Guid.String()),
		zap.String("name", result.Version.Name),
	)
	return result.Version, nil
}
