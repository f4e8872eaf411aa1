package display

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/tree"
)

func guidList[G ~string](guids []G) string {
	parts := make([]string, len(guids))
	for i, g := range guids {
		parts[i] = string(g)
	}
	return strings.Join(parts, ", ")
}

func renderTable(data pterm.TableData) (string, error) {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render table")
	}
	return out, nil
}

// Problems renders the structure problem report as a table with one row
// per problem
func (p *Printer) Problems(ps tree.Problems) (string, error) {
	if len(ps) == 0 {
		return p.styles.muted.Render("No structure problems"), nil
	}

	data := pterm.TableData{{"GUID", "Problem", "Parents"}}
	for _, problem := range ps {
		data = append(data, []string{string(problem.Guid), problem.Kind.String(), guidList(problem.Parents)})
	}
	table, err := renderTable(data)
	if err != nil {
		return "", err
	}

	c := ps.Counts()
	summary := fmt.Sprintf("%d problems: %d orphans, %d misparented roots, %d diverged, %d missing children, %d invalid parents",
		c.Total(), c.Orphans, c.MisparentedRoots, c.DivergedParents, c.MissingChildren, c.InvalidParentGuids)
	return table + "\n" + p.styles.muted.Render(summary), nil
}

// Differences renders a comparison as a table
func (p *Printer) Differences(diffs []Difference) (string, error) {
	if len(diffs) == 0 {
		return p.styles.muted.Render("Trees agree"), nil
	}

	data := pterm.TableData{{"GUID", "Change", "Local parent", "Remote parent"}}
	for _, d := range diffs {
		data = append(data, []string{string(d.Guid), d.Kind.String(), string(d.LocalParent), string(d.RemoteParent)})
	}
	return renderTable(data)
}
