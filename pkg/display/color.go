package display

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/marktree/pkg/config"
	"github.com/arthur-debert/marktree/pkg/errors"
)

// DetectProfile picks the color profile for out. "auto" colors only real
// terminals and honors NO_COLOR; "always" and "never" force the choice.
func DetectProfile(mode string, out io.Writer) (termenv.Profile, error) {
	switch strings.ToLower(mode) {
	case config.ColorNever:
		return termenv.Ascii, nil
	case config.ColorAlways:
		return termenv.TrueColor, nil
	case config.ColorAuto, "":
	default:
		return termenv.Ascii, errors.Newf(errors.ErrInvalidInput, "unknown color mode %q", mode).
			WithDetail("mode", mode)
	}

	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii, nil
	}
	f, ok := out.(*os.File)
	if !ok {
		return termenv.Ascii, nil
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return termenv.Ascii, nil
	}
	return termenv.NewOutput(f).EnvColorProfile(), nil
}
