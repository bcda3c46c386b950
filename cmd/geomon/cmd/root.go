// Copyright © 2019 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geomon",
	Short: "Geomon drives branch-versioned edits on a feature service",
	Long: `Geomon drives the branch-versioning workflow of a feature service: create a
named version off DEFAULT, edit it in isolation, reconcile it against the
concurrent edits landed on DEFAULT, review conflicts, and post the merged
result back.

Every command runs one complete, self-cleaning workflow: the version write
lock is always released before the command returns, even on failure.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	addURLFlag(rootCmd)
	addTokenFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addMetricsFlag(rootCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("loglevel", "info")
	if os.Getenv("GEOMON_CONFIG") != "" {
		// Use config file from the flag.
		viper.SetConfigFile(os.Getenv("GEOMON_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.geomon")
		viper.AddConfigPath("/etc/geomon")
		viper.SetConfigName("geomon")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setGeomonParams(&geomonFlags)
}
