package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wfmake/utils/builder"
	"wfmake/utils/config"
	"wfmake/utils/fileutil"
	"wfmake/utils/manifest"
)

// version is a placeholder for the version string, set at build time.
var version string

// configDefaultName is the configuration file looked up when -c is not given.
const configDefaultName = "configurations.txt"

var (
	verbose    bool
	debug      bool
	configPath string
	jsonIndent int
)

var rootCmd = &cobra.Command{
	Use:   "wfmake [target...]",
	Short: "Create workflow files from a template and a config file",
	Long: `wfmake generates concrete workflow JSON files from a reusable template
graph plus a declarative per-target configuration.

Each target declared in the configuration file becomes one output file.
Without arguments every declared target is built.`,
	Example: `  # Build every target declared in configurations.txt
  wfmake

  # Build two specific targets
  wfmake photo-fast photo-hq

  # Remove all generated files
  wfmake clean

  # Use another configuration file and compact output
  wfmake -c nightly.txt -i 0 all`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// no timestamps, this is interactive CLI output
		log.SetFlags(0)
		config.Verbose = verbose
		config.Debug = debug
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		targets := args
		if len(targets) == 0 {
			targets = []string{"all"}
		}

		path, err := resolveConfigPath(configPath)
		if err != nil {
			return err
		}
		config.VerboseLog("loading configuration from %s", path)

		configs, err := manifest.ParseFile(path)
		if err != nil {
			return err
		}

		b := builder.New(configs, jsonIndent)
		for _, target := range targets {
			if err := b.Process(target); err != nil {
				return err
			}
		}
		return nil
	},
}

// resolveConfigPath picks the configuration file: the -c flag, then
// configurations.txt in the working directory, then alongside the
// executable. A missing configuration file is fatal.
func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		path, err := fileutil.ExpandPath(flagValue)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file not found: %s", path)
		}
		return path, nil
	}
	if _, err := os.Stat(configDefaultName); err == nil {
		return configDefaultName, nil
	}
	if exe, err := os.Executable(); err == nil {
		path := filepath.Join(filepath.Dir(exe), configDefaultName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("config file not found: %s", configDefaultName)
}

func getVersion() string {
	if version != "" {
		return version
	}
	return "dev"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wfmake %s\n", getVersion())
	},
}

func init() {
	rootCmd.Version = getVersion()
	rootCmd.SetVersionTemplate("wfmake {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Read FILE as the configurations (default: configurations.txt)")
	rootCmd.Flags().IntVarP(&jsonIndent, "indent", "i", 2, "Indentation level for the generated JSON files")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
}

func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		config.Error("%v", err)
		os.Exit(1)
	}
}
