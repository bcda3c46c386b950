package cmd

import (
	"os/user"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"
)

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the CLI config",
	Long: `Commands to manage the geomon CLI config.

Configuration for geomon is the common set of flags that are needed for most
commands and do not change across runs, analogous to "git config ...".`,
}

var configGen = &cobra.Command{
	Use:   "create",
	Short: "Create a config",
	Long:  "Create a config to use for geomon. Config file will be placed in $HOME/.geomon/geomon.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		usr, err := user.Current()
		if usr == nil || err != nil {
			wrapFatalln("could not get home directory for user", err)
			return
		}
		config := CLIConfig{
			URL:      geomonFlags.root.url,
			Token:    geomonFlags.root.token,
			LogLevel: geomonFlags.root.logLevel,
		}
		buf, err := yaml.Marshal(config)
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		target := filepath.Join(usr.HomeDir, ".geomon")
		if err = cmdFS.MkdirAll(target, 0777); err != nil {
			wrapFatalln("create config directory", err)
			return
		}
		err = afero.WriteFile(cmdFS, filepath.Join(target, "geomon.yaml"), buf, 0666)
		if err != nil {
			wrapFatalln("write config file", err)
			return
		}
	},
}

func init() {
	configCmd.AddCommand(configGen)
	rootCmd.AddCommand(configCmd)
}
