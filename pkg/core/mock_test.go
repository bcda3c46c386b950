package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oneconcern/geomon/internal/rand"
	"github.com/oneconcern/geomon/pkg/core/mocks"
	"github.com/oneconcern/geomon/pkg/model"
	"github.com/oneconcern/geomon/pkg/rest"
	"github.com/stretchr/testify/require"
)

const testLayer = int64(0)

// testEnv wires a manager to a fresh in-memory service
func testEnv(t testing.TB, opts ...Option) (*mocks.Service, *VersionManager, func()) {
	svc := mocks.NewService()
	url, teardown := mocks.NewTestServer(t, svc)
	remote, err := rest.NewClient(url)
	require.NoError(t, err)
	return svc, New(remote, opts...), teardown
}

// feat builds a feature snapshot from an object id and attribute pairs
func feat(oid int64, kv ...string) model.Feature {
	attrs := map[string]interface{}{}
	if oid > 0 {
		attrs[model.ObjectIDField] = oid
	}
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return model.Feature{Attributes: attrs}
}

func testVersionName() string {
	return "test-version-" + rand.LetterString(8)
}

// createTestVersion registers a version on a service seeded by the caller
func createTestVersion(t testing.TB, vm *VersionManager) model.VersionDescriptor {
	desc, err := vm.Create(context.Background(), *model.NewVersionDescriptor(
		model.VersionName(testVersionName()),
		model.VersionDescription("created by test"),
	))
	require.NoError(t, err)
	require.NoError(t, desc.Guid.Validate())
	return desc
}

// lockedEnv is a service hosting one version whose write lock is already held
// by another client
type lockedEnv struct {
	svc      *mocks.Service
	desc     model.VersionDescriptor
	url      string
	teardown func()
}

func newLockedEnv(t testing.TB) *lockedEnv {
	svc := mocks.NewService()
	url, teardown := mocks.NewTestServer(t, svc)
	remote, err := rest.NewClient(url)
	require.NoError(t, err)

	holder := New(remote)
	desc, err := holder.Create(context.Background(), *model.NewVersionDescriptor(
		model.VersionName(testVersionName()),
	))
	require.NoError(t, err)
	_, err = holder.StartEditing(context.Background(), desc.Guid)
	require.NoError(t, err)

	return &lockedEnv{svc: svc, desc: desc, url: url, teardown: teardown}
}

func (e *lockedEnv) remoteClient(t testing.TB) *rest.Client {
	remote, err := rest.NewClient(e.url)
	require.NoError(t, err)
	return remote
}

// testClock records sleeps instead of waiting, optionally reacting to them
type testClock struct {
	mx      sync.Mutex
	sleeps  []time.Duration
	onSleep func(n int)
}

func (c *testClock) Now() time.Time {
	return time.Unix(0, 0)
}

func (c *testClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mx.Lock()
	c.sleeps = append(c.sleeps, d)
	n := len(c.sleeps)
	hook := c.onSleep
	c.mx.Unlock()
	if hook != nil {
		hook(n)
	}
	return ctx.Err()
}

func (c *testClock) recorded() []time.Duration {
	c.mx.Lock()
	defer c.mx.Unlock()
	return append([]time.Duration{}, c.sleeps...)
}
