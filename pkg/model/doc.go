// Package model describes the data model of a branch-versioned feature service:
// versions branching off DEFAULT, edit sessions holding the write lock on a
// version, conflicts detected by a reconcile, and differences between a branch
// and its ancestor state.
//
// Types in this package are pure data: they carry no client state and map
// one-to-one onto the service's wire representation.
package model
