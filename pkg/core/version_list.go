package core

import (
	"context"
	"sort"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/model"
)

type listVersionsResponse struct {
	Success  bool                     `json:"success"`
	Versions model.VersionDescriptors `json:"versions"`
}

type getVersionResponse struct {
	Success bool                    `json:"success"`
	Version model.VersionDescriptor `json:"version"`
}

// List enumerates all versions known to the service, in creation order.
// No edit session is required: this is a read-only operation.
func (vm *VersionManager) List(ctx context.Context) (versions model.VersionDescriptors, err error) {
	defer func(t0 time.Time) {
		if vm.MetricsEnabled() {
			vm.m.UsedAll(t0, "VersionList")(err)
		}
	}(time.Now())

	var result listVersionsResponse
	if err = vm.remote.PostJSON(ctx, model.VersionsRoute("list"), nil, &result); err != nil {
		return nil, classify(err)
	}
	sort.Sort(result.Versions)
	return result.Versions, nil
}

// ApplyVersionFunc is a function to be applied on a version descriptor
type ApplyVersionFunc func(model.VersionDescriptor) error

// ListApply applies some function to the listed versions, in creation order
func (vm *VersionManager) ListApply(ctx context.Context, apply ApplyVersionFunc) error {
	versions, err := vm.List(ctx)
	if err != nil {
		return err
	}
	for _, version := range versions {
		if err := apply(version); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves the descriptor of one version
func (vm *VersionManager) Get(ctx context.Context, version model.VersionGuid) (desc model.VersionDescriptor, err error) {
	defer func(t0 time.Time) {
		if vm.MetricsEnabled() {
			vm.m.UsedAll(t0, "VersionGet")(err)
		}
	}(time.Now())

	if err = version.Validate(); err != nil {
		return desc, status.ErrInvalidGuid.Wrap(err)
	}
	var result getVersionResponse
	if err = vm.remote.PostJSON(ctx, model.VersionRoute(version, "get"), nil, &result); err != nil {
		return desc, classify(err)
	}
	return result.Version, nil
}
