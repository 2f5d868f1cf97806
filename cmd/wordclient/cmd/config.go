package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wordgame/wordclient/internal/config"
	"gopkg.in/yaml.v3"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect and change the configuration",
	}
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run:   startConfigShow,
	}
	configSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Save the game server given with --host and --port to the config file",
		Run:   startConfigSet,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	Root.AddCommand(configCmd)
}

func startConfigShow(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	if cfg.File != "" {
		fmt.Printf("# %s\n", cfg.File)
	} else {
		fmt.Println("# no config file found, showing defaults")
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		exitWithError(err.Error())
		return
	}
	if err := enc.Close(); err != nil {
		exitWithError(err.Error())
	}
}

func startConfigSet(cmd *cobra.Command, args []string) {
	if !cmd.Flags().Changed("host") && !cmd.Flags().Changed("port") {
		exitWithError("nothing to set, use --host and/or --port")
		return
	}

	cfg := loadConfig(cmd)

	path := cfg.File
	if path == "" {
		path = rootFlags.Config
	}
	if path == "" {
		path = config.DefaultFile
	}

	if err := config.Save(path, cfg.Server); err != nil {
		exitWithError(err.Error())
		return
	}

	fmt.Printf("Saved server %s:%d to %s\n", cfg.Server.Host, cfg.Server.Port, path)
}
