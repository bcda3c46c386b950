package core

import (
	"github.com/oneconcern/geomon/pkg/metrics"
	"go.uber.org/zap"
)

// Option is a functor to build a version manager with some options
type Option func(*VersionManager)

// WithLogger injects a logging facility into the manager and the sessions it hands out
func WithLogger(l *zap.Logger) Option {
	return func(vm *VersionManager) {
		if l != nil {
			vm.l = l
		}
	}
}

// WithMetrics enables usage metrics collection
func WithMetrics(m *metrics.Usage) Option {
	return func(vm *VersionManager) {
		vm.m = m
	}
}

// WithRetry sets the retry policy applied when the version lock is contended.
//
// The default policy surfaces lock contention immediately: retrying is always
// an explicit caller choice.
func WithRetry(policy RetryPolicy) Option {
	return func(vm *VersionManager) {
		vm.retry = policy
	}
}

// WithClock injects a clock, so retry schedules can run without real time delays
func WithClock(clock Clock) Option {
	return func(vm *VersionManager) {
		if clock != nil {
			vm.clock = clock
		}
	}
}

// WithTag overrides the generated workflow tag stamped into logs
func WithTag(tag string) Option {
	return func(vm *VersionManager) {
		if tag != "" {
			vm.tag = tag
		}
	}
}
