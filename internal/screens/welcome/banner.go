package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/ui/theme"
)

const bannerArt = `
 ███████╗██╗   ██╗███╗   ██╗ ██████╗██████╗  █████╗ ████████╗███████╗
 ██╔════╝╚██╗ ██╔╝████╗  ██║██╔════╝██╔══██╗██╔══██╗╚══██╔══╝██╔════╝
 ███████╗ ╚████╔╝ ██╔██╗ ██║██║     ██████╔╝███████║   ██║   █████╗
 ╚════██║  ╚██╔╝  ██║╚██╗██║██║     ██╔══██╗██╔══██║   ██║   ██╔══╝
 ███████║   ██║   ██║ ╚████║╚██████╗██║  ██║██║  ██║   ██║   ███████╗
 ╚══════╝   ╚═╝   ╚═╝  ╚═══╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝   ╚══════╝`

const bannerCompact = "S Y N C R A T E"

// bannerMinWidth is the narrowest terminal that fits the block letters.
const bannerMinWidth = 72

// RenderBanner returns the SYNCRATE banner, falling back to spaced letters
// on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
