package cmd

import (
	"github.com/oneconcern/geomon/pkg/core"
	"github.com/oneconcern/geomon/pkg/dlogger"
	"github.com/oneconcern/geomon/pkg/metrics"
	"github.com/oneconcern/geomon/pkg/model"
	"github.com/oneconcern/geomon/pkg/rest"
)

// paramsToManager builds a version manager from the effective flags and config
func paramsToManager(flags *flagsT) (*core.VersionManager, error) {
	logger, err := dlogger.GetLogger(logLevelOrDefault(flags))
	if err != nil {
		return nil, err
	}

	clientOpts := []rest.Option{
		rest.WithLogger(logger),
	}
	if flags.root.token != "" {
		clientOpts = append(clientOpts, rest.WithToken(flags.root.token))
	}
	remote, err := rest.NewClient(flags.root.url, clientOpts...)
	if err != nil {
		return nil, err
	}

	managerOpts := []core.Option{
		core.WithLogger(logger),
	}
	if flags.root.metrics {
		managerOpts = append(managerOpts, core.WithMetrics(metrics.NewUsage(
			metrics.WithNamespace("geomon_cli"),
		)))
	}
	return core.New(remote, managerOpts...), nil
}

func logLevelOrDefault(flags *flagsT) string {
	if flags.root.logLevel == "" {
		return dlogger.LogLevelInfo
	}
	return flags.root.logLevel
}

// paramsToGuid validates the version flag early, so commands fail before any
// service round trip
func paramsToGuid(flags *flagsT) (model.VersionGuid, error) {
	guid := model.VersionGuid(flags.version.guid)
	if err := guid.Validate(); err != nil {
		return "", err
	}
	return guid, nil
}
