package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/wg-manager/vpn"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	linkDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	inactiveStyle = lipgloss.NewStyle().Faint(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okMark        = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
)

// stateLabel renders a tunnel state for terminal output.
func stateLabel(state vpn.NetState) string {
	switch state {
	case vpn.WgQuickUp:
		return activeStyle.Render(state.String())
	case vpn.IplinkDown:
		return linkDownStyle.Render(state.String())
	default:
		return inactiveStyle.Render(state.String())
	}
}

func activeLabel(active bool) string {
	if active {
		return stateLabel(vpn.WgQuickUp)
	}
	return stateLabel(vpn.WgQuickDown)
}

// printWarnings writes one line per joined error.
func printWarnings(w io.Writer, err error) {
	var joined interface{ Unwrap() []error }
	errs := []error{err}
	if errors.As(err, &joined) {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		for _, line := range strings.Split(e.Error(), "\n") {
			fmt.Fprintln(w, warnStyle.Render("Warning: ")+line)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
