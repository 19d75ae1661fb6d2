package main

import (
	"fmt"
	"os"

	"tzbundle/internal/app"
	"tzbundle/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Fetch", "Build").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "tzbundle",
	Short: "IANA time zone database parser and bundle tool",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Input Dir:  %s\n", cfg.InputDir)
		fmt.Printf("Output Dir: %s\n", cfg.OutputDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Input Dir:   %s\n", cfg.InputDir)
		fmt.Printf("Output Dir:  %s\n", cfg.OutputDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Archive URL: %s\n", cfg.Fetch.ArchiveURL)
		fmt.Printf("Windows URL: %s\n", cfg.Fetch.WindowsZonesURL)
		return nil
	},
}

// fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and extract the latest tzdata release",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Fetch")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Fetch(cmd.Context()); err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}

		fmt.Println("Fetch complete")
		return nil
	},
}

// build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Parse tzdata files and write the JSON and SQLite bundles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Build")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Build()
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}

		fmt.Printf("Built bundle for tzdata %s: %d zones, %d rule sets\n",
			res.Bundle.Version, len(res.Bundle.Zones), len(res.Bundle.Rules))
		return nil
	},
}

// version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the tzdata release in the input directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Version")
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println(a.Version())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)
}
