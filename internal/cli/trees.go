package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/marktree/internal/commands"
	"github.com/arthur-debert/marktree/pkg/display"
	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/sources"
	"github.com/arthur-debert/marktree/pkg/store"
	"github.com/arthur-debert/marktree/pkg/tree"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		strict bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "resolve FILE",
		Short: commands.MsgResolveShort,
		Long: `Resolve reads a record document (JSON or YAML) the way a remote replica is
read: every item first, then each folder's children, then each record's
parentid. It prints the resulting tree, marking repaired items with ❗, and a
table of the structure problems found along the way.

Parent cycles cannot be repaired and make the command fail.`,
		Example: `  # Show how a replica's records resolve
  marktree resolve remote.json

  # Fail when the records are not consistent
  marktree resolve --strict remote.yaml

  # Save the repaired records
  marktree resolve remote.json -o fixed.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.readRemote(args[0])
			if err != nil {
				return err
			}

			if err := a.printer.Println(a.printer.Tree(t)); err != nil {
				return err
			}
			if err := a.printProblems(t.Problems()); err != nil {
				return err
			}

			if output != "" {
				if err := sources.WriteRecords(a.fsys, output, sources.RecordsFromTree(t, a.now)); err != nil {
					return err
				}
				if err := a.printer.Println(a.printer.Muted(fmt.Sprintf(commands.MsgRecordsWritten, output))); err != nil {
					return err
				}
			}

			if n := len(t.Problems()); strict && n > 0 {
				return errors.Newf(errors.ErrInvalidInput, commands.MsgErrProblems, n).
					WithDetail("path", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, commands.MsgFlagStrict)
	cmd.Flags().StringVarP(&output, "output", "o", "", commands.MsgFlagOutput)
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.xbel",
		Short: commands.MsgImportShort,
		Long: `Import reads an XBEL bookmark file and replaces the local store with it.
Elements without a GUID id attribute get a stable GUID derived from their
place in the file, so importing the same file twice yields the same tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := sources.ReadXBEL(a.fsys, args[0])
			if err != nil {
				return err
			}
			t, err := sources.BuildLocalTree(records, a.sourceOptions())
			if err != nil {
				return err
			}

			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if err := s.SaveTree(cmd.Context(), t, a.now); err != nil {
				return err
			}
			return a.printer.Println(fmt.Sprintf(commands.MsgImported, t.Size()-1, args[0], s.Path()))
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: commands.MsgShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, stats, err := a.loadLocal(cmd.Context())
			if err != nil {
				return err
			}
			if stats.Items == 0 {
				return a.printer.Println(commands.MsgStoreEmpty)
			}

			if err := a.printer.Println(a.printer.Tree(t)); err != nil {
				return err
			}
			if len(t.Problems()) > 0 {
				if err := a.printProblems(t.Problems()); err != nil {
					return err
				}
			}
			return a.printer.Println(a.printer.Muted(statsLine(stats)))
		},
	}
}

func statsLine(stats store.Stats) string {
	return fmt.Sprintf(commands.MsgStoreStats, stats.Items, stats.Folders, stats.Tombstones,
		stats.SavedAt.Format("2006-01-02 15:04:05 MST"))
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE.xbel",
		Short: commands.MsgExportShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := a.loadLocal(cmd.Context())
			if err != nil {
				return err
			}
			if err := sources.WriteXBEL(a.fsys, args[0], t, a.now); err != nil {
				return err
			}
			return a.printer.Println(fmt.Sprintf(commands.MsgExported, t.Size()-1, args[0]))
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare FILE",
		Short: commands.MsgCompareShort,
		Long: `Compare loads the local store and a remote record document side by side and
lists every item that exists on one side only, was deleted on one side,
sits under a different parent, or had to be repaired on the remote side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var local, remote *tree.Tree

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				t, _, err := a.loadLocal(ctx)
				local = t
				return err
			})
			g.Go(func() error {
				t, err := a.readRemote(args[0])
				remote = t
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			p := a.printer
			sections := []struct {
				heading string
				body    string
			}{
				{fmt.Sprintf(commands.MsgLocalHeading, a.cfg.Store.Path), p.Tree(local)},
				{fmt.Sprintf(commands.MsgRemoteHeading, args[0]), p.Tree(remote)},
			}
			for _, section := range sections {
				if err := p.Println(p.Heading(section.heading) + "\n" + section.body + "\n"); err != nil {
					return err
				}
			}

			diffs, err := p.Differences(display.Compare(local, remote))
			if err != nil {
				return err
			}
			return p.Println(p.Heading(commands.MsgDiffHeading) + "\n" + diffs)
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report FILE",
		Short: commands.MsgReportShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.readRemote(args[0])
			if err != nil {
				return err
			}
			rendered, err := a.printer.RenderMarkdown(display.ReportMarkdown(args[0], t))
			if err != nil {
				return err
			}
			return a.printer.Println(rendered)
		},
	}
}
