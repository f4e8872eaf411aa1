package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/marktree/internal/commands"
	"github.com/arthur-debert/marktree/internal/version"
	"github.com/arthur-debert/marktree/pkg/config"
	"github.com/arthur-debert/marktree/pkg/display"
	"github.com/arthur-debert/marktree/pkg/filesystem"
	"github.com/arthur-debert/marktree/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		configFile string
		dbPath     string
		color      string
	)
	a := &app{fsys: filesystem.NewOS()}

	rootCmd := &cobra.Command{
		Use:     "marktree",
		Short:   commands.MsgRootShort,
		Long:    commands.MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if cmd.Flags().Changed("db") {
				overrides["store.path"] = dbPath
			}
			if cmd.Flags().Changed("color") {
				overrides["render.color"] = color
			}
			cfg, err := config.LoadConfiguration(config.LoadOptions{
				ConfigFile: configFile,
				Overrides:  overrides,
			})
			if err != nil {
				return err
			}

			// Setup logging based on configured and flag verbosity
			logging.SetupLogger(cfg.Logging.Verbosity + verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			config.Initialize(cfg)

			now, err := cfg.Tree.ReferenceTime()
			if err != nil {
				return err
			}
			printer, err := display.New(cmd.OutOrStdout(), display.Options{
				Color: cfg.Render.Color,
				Width: cfg.Render.Width,
			})
			if err != nil {
				return err
			}

			a.cfg, a.now, a.printer = cfg, now, printer
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", commands.MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", commands.MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", commands.MsgFlagDB)
	rootCmd.PersistentFlags().StringVar(&color, "color", config.ColorAuto, commands.MsgFlagColor)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newResolveCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newShowCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newCompareCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: commands.MsgVersionShort,
		Long:  commands.MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, commands.MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, commands.MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, commands.MsgBuiltFormat, version.Date)
			}
		},
	}
}
