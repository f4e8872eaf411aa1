package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/marktree/pkg/logging"
	"github.com/arthur-debert/marktree/pkg/tree"
)

// Options configure a Printer
type Options struct {
	// Color is one of auto, always or never
	Color string
	// Width wraps rendered markdown; 0 picks the default
	Width int
}

// Printer renders trees, problem tables and reports for one output
type Printer struct {
	out     io.Writer
	profile termenv.Profile
	width   int
	styles  styles
}

// New creates a Printer writing to out
func New(out io.Writer, opts Options) (*Printer, error) {
	profile, err := DetectProfile(opts.Color, out)
	if err != nil {
		return nil, err
	}

	// pterm styling is process-wide
	if profile == termenv.Ascii {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
	}

	logger := logging.GetLogger("display")
	logger.Debug().
		Str("color", opts.Color).
		Bool("plain", profile == termenv.Ascii).
		Msg("Printer created")

	return &Printer{
		out:     out,
		profile: profile,
		width:   opts.Width,
		styles:  newStyles(out, profile),
	}, nil
}

// Plain reports whether output is unstyled
func (p *Printer) Plain() bool {
	return p.profile == termenv.Ascii
}

// Println writes s followed by a newline
func (p *Printer) Println(s string) error {
	_, err := fmt.Fprintln(p.out, s)
	return err
}

// Heading renders a section title
func (p *Printer) Heading(s string) string {
	return p.styles.heading.Render(s)
}

// Muted renders secondary text
func (p *Printer) Muted(s string) string {
	return p.styles.muted.Render(s)
}

// Tree renders t one node per line, indented by level, with folder and
// bookmark titles next to each GUID. Tombstones follow on a Deleted line.
func (p *Printer) Tree(t *tree.Tree) string {
	var lines []string
	lines = append(lines, p.nodeLine(t.Root()))
	for n := range t.Root().Descendants() {
		lines = append(lines, p.nodeLine(n))
	}

	if deletions := t.Deletions(); len(deletions) > 0 {
		guids := make([]string, len(deletions))
		for i, g := range deletions {
			guids[i] = string(g)
		}
		lines = append(lines, p.styles.muted.Render("Deleted: "+strings.Join(guids, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (p *Printer) nodeLine(n tree.Node) string {
	var sb strings.Builder
	sb.WriteString(p.styles.guide.Render(strings.Repeat("| ", n.Level())))

	marker := "🔖"
	label := p.styles.bookmark
	if n.Item().IsFolder() {
		marker = "📂"
		label = p.styles.folder
	}
	if n.Diverged() {
		sb.WriteString(p.styles.diverged.Render("❗"))
	}
	sb.WriteString(marker + " ")
	sb.WriteString(label.Render(string(n.Guid())))

	switch content := n.Content().(type) {
	case tree.FolderContent:
		if content.Title != "" {
			sb.WriteString(" " + content.Title)
		}
	case tree.BookmarkContent:
		if content.Title != "" {
			sb.WriteString(" " + content.Title)
		}
		if content.URL != "" {
			sb.WriteString(" " + p.styles.muted.Render("<"+content.URL+">"))
		}
	case tree.SeparatorContent:
		sb.WriteString(" " + p.styles.muted.Render("----"))
	}
	return sb.String()
}
