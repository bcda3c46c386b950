// Package core drives the branch-versioning protocol of a remote feature
// service: version registry, edit sessions, edit submission, reconcile,
// conflict inspection, post, and difference/restore.
//
// The client is a sequential, stateless driver: all concurrency control lives
// on the service side. What core enforces locally is the legal ordering of
// operations within one edit session, so that a caller cannot mutate a version
// without holding its write lock, nor post without a prior conflict-free
// reconcile.
package core
