package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/internal/config"
	"github.com/goliatone/go-formkit/internal/logging"
)

var (
	cfgFile string
	verbose bool
	baseURL string

	v      = config.NewViper()
	cfg    config.Config
	logger = zap.NewNop()
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "formkit",
	Short: "Client-side form validation and data table toolkit",
	Long: `formkit validates registration input, registers users against the
collaborator API and browses its records as a searchable, sortable table.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Log.Level, cfg.Log.Format, verbose)
		if err != nil {
			return err
		}
		logger = l
		if used := v.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("file", used))
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.formkit.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "collaborator API base URL")

	if err := v.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url")); err != nil {
		panic(fmt.Sprintf("bind base-url flag: %v", err))
	}

	rootCmd.AddCommand(validateCmd, generateCmd, registerCmd, tableCmd)
}
