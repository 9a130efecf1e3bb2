package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/near/near-cli-go/cmd/common"
	"github.com/near/near-cli-go/commands"
	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/logging"
	"github.com/near/near-cli-go/network"
	_ "github.com/near/near-cli-go/wallet/file" // Register file wallet backend.
)

const (
	programName   = "near-cli"
	defaultMarker = " (*)"
)

var (
	cfgFile  string
	logLevel string

	// prompter asks the user for input in all commands.
	prompter interactive.Prompter = interactive.NewSurveyPrompter()

	rootCmd = &cobra.Command{
		Use:   programName + " [<command> <tokens>...]",
		Short: "CLI for interacting with the NEAR protocol",
		Long: `Builds, signs and sends transactions and views the network state.

Every parameter missing from the command line is asked for interactively. Once
all of them are known, the equivalent command line is printed so that it can
be replayed without prompts.`,
		Version:       "0.1.0",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInteractive,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.HasParent() {
				// The root command loads the configuration once its own flags are parsed.
				return nil
			}
			return initConfig()
		},
	}
)

// Execute executes the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func initConfig() error {
	v := viper.New()

	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		const configFilename = "cli.toml"
		configDir := config.Directory()
		configPath := filepath.Join(configDir, configFilename)

		v.AddConfigPath(configDir)
		v.SetConfigType("toml")
		v.SetConfigName(configFilename)

		// Ensure the configuration file exists.
		_ = os.MkdirAll(configDir, 0o700)
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			if _, err := os.Create(configPath); err != nil {
				return fmt.Errorf("failed to create configuration file: %w", err)
			}

			// Populate the initial configuration file with defaults.
			config.ResetDefaults()
			_ = config.Save(v)
		}
	}

	_ = v.ReadInConfig()

	// Load and validate global configuration.
	config.ResetDefaults()
	if err := config.Load(v); err != nil {
		return err
	}
	return config.Global().Validate()
}

var errVersion = errors.New("version requested")

// stripRootFlags parses the flags in front of the first command token.
func stripRootFlags(cmd *cobra.Command, args []string) ([]string, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.AddFlagSet(cmd.PersistentFlags())
	fs.BoolP("help", "h", false, "help for "+programName)
	fs.Bool("version", false, "version for "+programName)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if help, _ := fs.GetBool("help"); help {
		return nil, flag.ErrHelp
	}
	if version, _ := fs.GetBool("version"); version {
		return nil, errVersion
	}
	return fs.Args(), nil
}

func newEnv(cmd *cobra.Command) (*interactive.Env, error) {
	cfg := config.Global()

	level := logLevel
	if level == "" {
		level = cfg.Log.Level
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logging.New(lvl)
	logger.Debug("configuration loaded", "path", cfgFile, "dir", config.Directory())

	out := cmd.OutOrStdout()
	return &interactive.Env{
		Prompter:   prompter,
		Out:        out,
		Logger:     logger,
		Network:    network.NewDialer(&cfg.Networks, logger),
		Keychain:   &common.Keychain{Config: cfg, Out: out},
		Config:     cfg,
		RetryDelay: cfg.Broadcast.RetryDelay,
		Program:    programName,
	}, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	tokens, err := stripRootFlags(cmd, args)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return cmd.Help()
	case errors.Is(err, errVersion):
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", programName, cmd.Version)
		return nil
	case err != nil:
		return err
	}

	if err = initConfig(); err != nil {
		return err
	}
	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	return interactive.Run(cmd.Context(), env, commands.New(), tokens)
}

func init() {
	// Tokens of the interactive tree carry their own flags.
	rootCmd.DisableFlagParsing = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file to use")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(addressBookCmd)
}
