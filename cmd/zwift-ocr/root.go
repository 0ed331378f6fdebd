package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ironsheep/zwift-ocr/internal/config"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zwift-ocr",
		Short: "Extract telemetry from Zwift HUD screenshots",
		Long: `zwift-ocr reads speed, power, distance, the leaderboard and the rider pose
from a Zwift screenshot and prints them as JSON. It also runs as an MCP
server over stdio.`,
		Version:       Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, viper.GetViper())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.zwift-ocr.yaml)")
	flags.String("tessdata-prefix", "", "directory holding tesseract language data")
	flags.String("language", "", "tesseract language")
	flags.String("neural-model", "", "ONNX text recognition model for the leaderboard")
	flags.String("neural-vocabulary", "", "vocabulary file for the neural model, one symbol per line")
	flags.Bool("neural-grayscale", false, "feed the neural model single-channel input")
	flags.String("region-dir", "", "directory with per-resolution region files")
	flags.Int("pool-size", 0, "classical engines in the pool (0 picks from the CPU count)")
	flags.Bool("debug", false, "log raw OCR text and pose features")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	root.SetVersionTemplate(fmt.Sprintf("zwift-ocr %s\n  Build time: %s\n  Git commit: %s\n",
		Version, BuildTime, GitCommit))

	root.AddCommand(
		newExtractCmd(),
		newPoseCmd(),
		newRegionsCmd(),
		newBenchmarkCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

// initConfig reads the config file, if any, and binds every flag of cmd to
// its viper key.
func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".zwift-ocr")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}

	return bindFlags(cmd, v)
}

// bindFlags binds each flag to the viper key of the same name with dashes
// replaced by underscores, so --pool-size, ZWIFT_OCR_POOL_SIZE and pool_size
// in the config file all set the same value. A flag set on the command line
// wins.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var firstErr error
	bind := func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if key == "config" {
			return
		}
		if err := v.BindPFlag(key, f); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not bind flag %s: %w", f.Name, err)
		}
	}
	cmd.LocalFlags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
	return firstErr
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "zwift-ocr %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

// loadConfig resolves the configuration for a running command.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}
