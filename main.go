// Package main is the entry point for the todoapp server and its clients.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todoapp/internal/client"
	"todoapp/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath   string
	apiURLFlag   string
	logLevelFlag string
	logFmtFlag   string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "todoapp",
	Short: "todoapp - a minimal todo list server and client",
	Long: `todoapp serves a small REST API over a SQLite-backed todo collection
and ships the clients that use it: an interactive terminal UI and
one-shot commands for scripting.

Start the server with "todoapp serve", then run "todoapp ui".`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("todoapp version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.toml or .yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "todo API base URL (default "+config.DefaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFmtFlag, "log-format", "", "log format: text, json, logfmt")
}

// loadConfig resolves configuration; flags override every other source.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		c.APIURL = apiURLFlag
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevelFlag
	}
	if flags.Changed("log-format") {
		c.LogFormat = logFmtFlag
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		c.Port = servePort
	}
	if flags.Lookup("db") != nil && flags.Changed("db") {
		c.DBPath = serveDBPath
	}

	if err := c.Finalize(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func newClient() *client.Client {
	return client.New(cfg.APIURL, cfg.Timeout)
}
