package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	folderColor = lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"}
	textColor   = lipgloss.AdaptiveColor{Light: "#495057", Dark: "#E9ECEF"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"}
	warnColor   = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	headColor   = lipgloss.AdaptiveColor{Light: "#212529", Dark: "#F8F9FA"}
)

// styles are bound to one lipgloss renderer so the chosen profile applies
// to every string they render
type styles struct {
	heading  lipgloss.Style
	folder   lipgloss.Style
	bookmark lipgloss.Style
	muted    lipgloss.Style
	diverged lipgloss.Style
	guide    lipgloss.Style
}

func newStyles(out io.Writer, profile termenv.Profile) styles {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(profile)

	return styles{
		heading:  r.NewStyle().Foreground(headColor).Bold(true),
		folder:   r.NewStyle().Foreground(folderColor).Bold(true),
		bookmark: r.NewStyle().Foreground(textColor),
		muted:    r.NewStyle().Foreground(mutedColor),
		diverged: r.NewStyle().Foreground(warnColor).Bold(true),
		guide:    r.NewStyle().Foreground(mutedColor).Faint(true),
	}
}
