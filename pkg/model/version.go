/*
 * Copyright © 2019 One Concern
 *
 */

package model

import (
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// VersionGuid is the opaque, server-issued identity of a version.
//
// It never changes once the version is created, whatever alterations are
// applied to the version's metadata.
type VersionGuid string

// String yields the guid as a string
func (g VersionGuid) String() string {
	return string(g)
}

// IsZero tells whether the guid is unset
func (g VersionGuid) IsZero() bool {
	return g == ""
}

// Validate checks that the guid parses as a UUID
func (g VersionGuid) Validate() error {
	if _, err := uuid.Parse(string(g)); err != nil {
		return fmt.Errorf("invalid version guid %q: %v", string(g), err)
	}
	return nil
}

// SessionGuid identifies an edit session, i.e. a write lock granted on one version.
type SessionGuid string

// NewSessionGuid mints a fresh session guid.
//
// Session guids are generated client-side and registered with the service
// when the session starts.
func NewSessionGuid() SessionGuid {
	return SessionGuid(uuid.NewString())
}

// String yields the guid as a string
func (g SessionGuid) String() string {
	return string(g)
}

// IsZero tells whether the guid is unset
func (g SessionGuid) IsZero() bool {
	return g == ""
}

// AccessLevel restricts who may view or edit a version
type AccessLevel string

const (
	// AccessPublic lets any user view and edit the version
	AccessPublic AccessLevel = "public"

	// AccessProtected lets any user view the version, but only the owner edit it
	AccessProtected AccessLevel = "protected"

	// AccessPrivate restricts both viewing and editing to the owner
	AccessPrivate AccessLevel = "private"
)

// IsValid checks the value of an access level
func (a AccessLevel) IsValid() bool {
	switch a {
	case AccessPublic, AccessProtected, AccessPrivate:
		return true
	default:
		return false
	}
}

func (a AccessLevel) String() string {
	return string(a)
}

// VersionDescriptor models a version's metadata.
//
// Every version branches directly off DEFAULT: there is no nesting of versions.
type VersionDescriptor struct {
	Guid        VersionGuid `json:"versionGuid" yaml:"versionGuid"`
	Name        string      `json:"name" yaml:"name"`
	Access      AccessLevel `json:"access" yaml:"access"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	ModifiedAt  time.Time   `json:"modifiedAt,omitempty" yaml:"modifiedAt,omitempty"`
	_           struct{}
}

// VersionDescriptors is a sortable slice of VersionDescriptor
type VersionDescriptors []VersionDescriptor

func (b VersionDescriptors) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}
func (b VersionDescriptors) Len() int {
	return len(b)
}
func (b VersionDescriptors) Less(i, j int) bool {
	if !b[i].CreatedAt.IsZero() && !b[j].CreatedAt.IsZero() && !b[i].CreatedAt.Equal(b[j].CreatedAt) {
		return b[i].CreatedAt.Before(b[j].CreatedAt)
	}
	return b[i].Name < b[j].Name
}

// NewVersionDescriptor builds a descriptor for a version to be created.
//
// The default descriptor has protected access.
func NewVersionDescriptor(opts ...VersionDescriptorOption) *VersionDescriptor {
	desc := &VersionDescriptor{
		Access: AccessProtected,
	}
	for _, apply := range opts {
		apply(desc)
	}
	return desc
}

// Validate the fields of a version descriptor before submitting it for creation
func Validate(version VersionDescriptor) error {
	if version.Name == "" {
		return fmt.Errorf("empty field: version name is empty")
	}
	for i, c := range version.Name {
		if !unicode.IsDigit(c) && !unicode.IsLetter(c) && !unicode.Is(unicode.Hyphen, c) && c != '_' {
			return fmt.Errorf("invalid name: version name:%s contains unsupported character \"%s\"",
				version.Name,
				string([]rune(version.Name)[i]))
		}
	}
	if !version.Access.IsValid() {
		return fmt.Errorf("invalid access level: %q", version.Access)
	}
	return nil
}

// VersionPatch describes a partial update to a version's metadata.
// Nil fields are left untouched by Alter.
type VersionPatch struct {
	Name        *string      `json:"name,omitempty"`
	Access      *AccessLevel `json:"access,omitempty"`
	Description *string      `json:"description,omitempty"`
	_           struct{}
}

// IsZero tells whether the patch alters anything at all
func (p VersionPatch) IsZero() bool {
	return p.Name == nil && p.Access == nil && p.Description == nil
}

// Validate the fields set on a patch
func (p VersionPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("empty field: version name is empty")
	}
	if p.Access != nil && !p.Access.IsValid() {
		return fmt.Errorf("invalid access level: %q", *p.Access)
	}
	return nil
}
