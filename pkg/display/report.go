package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/tree"
)

// TreeSummary counts the items of a tree by kind
type TreeSummary struct {
	Folders    int
	Bookmarks  int
	Queries    int
	Separators int
	Diverged   int
	Deleted    int
}

// Summarize counts the items below the root of t
func Summarize(t *tree.Tree) TreeSummary {
	s := TreeSummary{Deleted: len(t.Deletions())}
	for n := range t.Root().Descendants() {
		switch n.Kind() {
		case tree.Folder, tree.Livemark:
			s.Folders++
		case tree.Query:
			s.Queries++
		case tree.Separator:
			s.Separators++
		default:
			s.Bookmarks++
		}
		if n.Diverged() {
			s.Diverged++
		}
	}
	return s
}

// ReportMarkdown writes a markdown report for the tree built from source:
// its size, its structure problems, and every diverged item with where it
// ended up.
func ReportMarkdown(source string, t *tree.Tree) string {
	var sb strings.Builder
	s := Summarize(t)

	fmt.Fprintf(&sb, "# Structure report: %s\n\n", source)
	sb.WriteString("## Contents\n\n")
	sb.WriteString("| Kind | Count |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Folders | %d |\n", s.Folders)
	fmt.Fprintf(&sb, "| Bookmarks | %d |\n", s.Bookmarks)
	fmt.Fprintf(&sb, "| Queries | %d |\n", s.Queries)
	fmt.Fprintf(&sb, "| Separators | %d |\n", s.Separators)
	fmt.Fprintf(&sb, "| Tombstones | %d |\n\n", s.Deleted)

	problems := t.Problems()
	sb.WriteString("## Problems\n\n")
	if len(problems) == 0 {
		sb.WriteString("The structure is consistent.\n\n")
	} else {
		c := problems.Counts()
		fmt.Fprintf(&sb, "- Orphans: %d\n", c.Orphans)
		fmt.Fprintf(&sb, "- Misparented roots: %d\n", c.MisparentedRoots)
		fmt.Fprintf(&sb, "- Diverged parents: %d\n", c.DivergedParents)
		fmt.Fprintf(&sb, "- Missing children: %d\n", c.MissingChildren)
		fmt.Fprintf(&sb, "- Invalid parent GUIDs: %d\n\n", c.InvalidParentGuids)
		for _, p := range problems {
			fmt.Fprintf(&sb, "- `%s`\n", p)
		}
		sb.WriteString("\n")
	}

	if s.Diverged > 0 {
		sb.WriteString("## Diverged items\n\n")
		sb.WriteString("These items will be re-uploaded with their resolved parent.\n\n")
		for n := range t.Root().Descendants() {
			if !n.Diverged() {
				continue
			}
			fmt.Fprintf(&sb, "- `%s` (%s) now under `%s`\n", n.Guid(), n.Kind(), parentOf(n))
		}
	}
	return sb.String()
}

// RenderMarkdown renders markdown for the terminal. Plain printers get
// glamour's notty style.
func (p *Printer) RenderMarkdown(md string) (string, error) {
	var options []glamour.TermRendererOption
	switch {
	case p.Plain():
		options = append(options, glamour.WithStandardStyle("notty"))
	default:
		options = append(options, glamour.WithAutoStyle())
	}
	if p.width > 0 {
		options = append(options, glamour.WithWordWrap(p.width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to create markdown renderer")
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render markdown")
	}
	return rendered, nil
}
