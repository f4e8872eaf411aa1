package cli

import (
	"context"
	"time"

	"github.com/arthur-debert/marktree/internal/commands"
	"github.com/arthur-debert/marktree/pkg/config"
	"github.com/arthur-debert/marktree/pkg/display"
	"github.com/arthur-debert/marktree/pkg/filesystem"
	"github.com/arthur-debert/marktree/pkg/sources"
	"github.com/arthur-debert/marktree/pkg/store"
	"github.com/arthur-debert/marktree/pkg/tree"
)

// app carries what every command needs once the root command has loaded
// the configuration
type app struct {
	cfg     *config.Config
	fsys    filesystem.FS
	printer *display.Printer
	now     time.Time
}

func (a *app) sourceOptions() sources.Options {
	return sources.Options{
		ReparentOrphansTo: a.cfg.Tree.OrphanFolder(),
		Now:               a.now,
	}
}

func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, a.cfg.Store.Path, store.Options{
		BusyTimeout: a.cfg.Store.BusyTimeout,
		FS:          a.fsys,
	})
}

// readRemote builds a tree from the record document at path
func (a *app) readRemote(path string) (*tree.Tree, error) {
	records, err := sources.LoadRecords(a.fsys, path)
	if err != nil {
		return nil, err
	}
	return sources.BuildRemoteTree(records, a.sourceOptions())
}

// loadLocal reads the tree in the local store
func (a *app) loadLocal(ctx context.Context) (*tree.Tree, store.Stats, error) {
	s, err := a.openStore(ctx)
	if err != nil {
		return nil, store.Stats{}, err
	}
	defer func() { _ = s.Close() }()

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, store.Stats{}, err
	}
	t, err := s.LoadTree(ctx, a.sourceOptions())
	if err != nil {
		return nil, store.Stats{}, err
	}
	return t, stats, nil
}

// printProblems prints the problem table under a heading
func (a *app) printProblems(problems tree.Problems) error {
	table, err := a.printer.Problems(problems)
	if err != nil {
		return err
	}
	if err := a.printer.Println("\n" + a.printer.Heading(commands.MsgProblemHeading)); err != nil {
		return err
	}
	return a.printer.Println(table)
}
