package model

// VersionDescriptorOption defines an option to build a VersionDescriptor
type VersionDescriptorOption func(*VersionDescriptor)

// VersionName sets the name of a VersionDescriptor
func VersionName(name string) VersionDescriptorOption {
	return func(d *VersionDescriptor) {
		if name != "" {
			d.Name = name
		}
	}
}

// VersionAccess sets the access level of a VersionDescriptor
func VersionAccess(access AccessLevel) VersionDescriptorOption {
	return func(d *VersionDescriptor) {
		if access != "" {
			d.Access = access
		}
	}
}

// VersionDescription sets an informative description on the version
func VersionDescription(description string) VersionDescriptorOption {
	return func(d *VersionDescriptor) {
		d.Description = description
	}
}

// VersionClone clones from a VersionDescriptor
func VersionClone(m VersionDescriptor) VersionDescriptorOption {
	return func(d *VersionDescriptor) {
		*d = m
	}
}

// PatchOption defines an option to build a VersionPatch
type PatchOption func(*VersionPatch)

// PatchName renames the version
func PatchName(name string) PatchOption {
	return func(p *VersionPatch) {
		p.Name = &name
	}
}

// PatchAccess changes the access level of the version
func PatchAccess(access AccessLevel) PatchOption {
	return func(p *VersionPatch) {
		p.Access = &access
	}
}

// PatchDescription changes the description of the version
func PatchDescription(description string) PatchOption {
	return func(p *VersionPatch) {
		p.Description = &description
	}
}

// NewVersionPatch builds a partial update from options
func NewVersionPatch(opts ...PatchOption) VersionPatch {
	var p VersionPatch
	for _, apply := range opts {
		apply(&p)
	}
	return p
}
