package cli

import (
	"os"
	"strings"

	"github.com/grovetools/envtree/config"
	"github.com/grovetools/envtree/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment variables that supply flag defaults.
const EnvPrefix = "ENVTREE_"

// CommandOptions holds common options for envtree commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard envtree flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return BindEnv(cmd.Flags())
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to envtree.yml config file")

	return cmd
}

// BindEnv fills flags the user did not set from ENVTREE_<FLAG> variables.
// Dashes in flag names become underscores, so --debounce-ms reads
// ENVTREE_DEBOUNCE_MS.
func BindEnv(flags *pflag.FlagSet) error {
	var firstErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || firstErr != nil {
			return
		}
		name := EnvPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		value, ok := os.LookupEnv(name)
		if !ok {
			return
		}
		if err := flags.Set(f.Name, value); err != nil {
			firstErr = err
		}
	})
	return firstErr
}

// GetLogger returns the CLI logger, adjusted for the command's flags
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("envtree-cli")

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return entry
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the file named by --config, or discovers envtree.yml from
// the working directory. Without any config file the defaults are used.
func LoadConfig(opts CommandOptions) (*config.Config, error) {
	if opts.ConfigFile != "" {
		return config.Load(opts.ConfigFile)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadFrom(cwd)
	if err == nil {
		return cfg, nil
	}
	if _, findErr := config.FindConfigFile(cwd); findErr != nil {
		cfg = &config.Config{}
		cfg.SetDefaults()
		return cfg, nil
	}
	return nil, err
}
