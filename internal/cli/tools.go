package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/marktree/internal/commands"
	"github.com/arthur-debert/marktree/internal/version"
	"github.com/arthur-debert/marktree/pkg/config"
	"github.com/arthur-debert/marktree/pkg/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	var template bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: commands.MsgConfigShort,
		Long: `Config prints the configuration marktree runs with: the built-in defaults,
overridden by the config file, then by MARKTREE_* environment variables
(sections separated by a double underscore, e.g. MARKTREE_STORE__PATH) and
finally by command line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				_, err := cmd.OutOrStdout().Write([]byte(config.GenerateConfigContent()))
				return err
			}
			data, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&template, "template", false, commands.MsgFlagTemplate)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     commands.MsgCompletionShort,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return errors.Newf(errors.ErrInvalidInput, commands.MsgErrUnknownShell, args[0])
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  commands.MsgManShort,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "MARKTREE",
				Section: "1",
				Source:  "marktree " + version.Version,
				Manual:  "marktree manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
