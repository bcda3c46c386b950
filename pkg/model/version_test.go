package model

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionValidate(t *testing.T) {
	ok := NewVersionDescriptor(VersionName("qa-edits-2"), VersionDescription("qa working copy"))
	require.NoError(t, Validate(*ok))
	assert.Equal(t, AccessProtected, ok.Access)

	assert.Error(t, Validate(*NewVersionDescriptor()))
	assert.Error(t, Validate(*NewVersionDescriptor(VersionName("bad name"))))
	assert.Error(t, Validate(*NewVersionDescriptor(VersionName("with/slash"))))
	assert.Error(t, Validate(VersionDescriptor{Name: "ok-name", Access: "sneaky"}))
	assert.NoError(t, Validate(*NewVersionDescriptor(VersionName("under_score"), VersionAccess(AccessPrivate))))
}

func TestVersionGuid(t *testing.T) {
	assert.Error(t, VersionGuid("not-a-guid").Validate())
	assert.NoError(t, VersionGuid("01234567-89ab-cdef-0123-456789abcdef").Validate())
	assert.True(t, VersionGuid("").IsZero())

	s := NewSessionGuid()
	require.False(t, s.IsZero())
	assert.NotEqual(t, s, NewSessionGuid())
}

func TestVersionClone(t *testing.T) {
	original := NewVersionDescriptor(
		VersionName("survey-main"),
		VersionDescription("field survey working copy"),
		VersionAccess(AccessPublic),
	)

	// options following the clone override the cloned fields
	copied := NewVersionDescriptor(VersionClone(*original), VersionName("survey-copy"))
	require.NoError(t, Validate(*copied))
	assert.Equal(t, "survey-copy", copied.Name)
	assert.Equal(t, original.Description, copied.Description)
	assert.Equal(t, AccessPublic, copied.Access)
	assert.Equal(t, "survey-main", original.Name)
}

func TestVersionPatch(t *testing.T) {
	assert.True(t, NewVersionPatch().IsZero())

	p := NewVersionPatch(PatchName("renamed"), PatchAccess(AccessPublic))
	require.False(t, p.IsZero())
	require.NoError(t, p.Validate())
	assert.Nil(t, p.Description)

	assert.Error(t, NewVersionPatch(PatchName("")).Validate())
	assert.Error(t, NewVersionPatch(PatchAccess("whatever")).Validate())
}

func TestVersionDescriptorsSort(t *testing.T) {
	t0 := time.Now()
	versions := VersionDescriptors{
		{Name: "b", CreatedAt: t0.Add(time.Hour)},
		{Name: "c", CreatedAt: t0},
		{Name: "a", CreatedAt: t0},
	}
	sort.Sort(versions)
	assert.Equal(t, "a", versions[0].Name)
	assert.Equal(t, "c", versions[1].Name)
	assert.Equal(t, "b", versions[2].Name)
}
