package report

import (
	"fmt"
	"strings"
	"time"

	"fleaflip/pkg/tarkov"

	"github.com/charmbracelet/lipgloss"
)

// ColumnHeader titles the single list column
const ColumnHeader = "Item Name :  Price Difference (Optimal Vendor)"

const discordLimit = 2000

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))

// OutputFormatter renders catalogs for different outputs
type OutputFormatter struct {
	now func() time.Time
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatter {
	return &OutputFormatter{now: time.Now}
}

// FormatForTerminal renders the top limit items as a numbered list.
// limit <= 0 means every item.
func (of *OutputFormatter) FormatForTerminal(catalog tarkov.Catalog, limit int) string {
	var output strings.Builder

	output.WriteString("\n" + titleStyle.Render("Flea flips") + "\n")
	output.WriteString(strings.Repeat("=", 60) + "\n")

	if catalog.Empty() {
		output.WriteString("No items with a flea price were returned.\n")
		return output.String()
	}

	items := catalog.Top(limit)
	output.WriteString(fmt.Sprintf("Showing %d of %d items | %s\n\n",
		len(items), catalog.Len(), of.now().Format("2006-01-02 15:04:05")))
	output.WriteString(ColumnHeader + "\n")
	output.WriteString(strings.Repeat("-", 60) + "\n")
	for i, item := range items {
		output.WriteString(fmt.Sprintf("%3d. %s\n", i+1, item))
	}

	return output.String()
}

// FormatForMarkdown renders the top limit items as a markdown table
func (of *OutputFormatter) FormatForMarkdown(catalog tarkov.Catalog, limit int) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("# Flea flips (%s)\n\n", of.now().Format("2006-01-02 15:04")))
	output.WriteString("| # | Item | Short | Flea 24h low | Best trader | Trader price | Profit |\n")
	output.WriteString("|---|------|-------|-------------:|-------------|-------------:|-------:|\n")
	for i, item := range catalog.Top(limit) {
		output.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %s | %d | %d |\n",
			i+1, escapeCell(item.Name), escapeCell(item.ShortName), item.MarketPrice,
			escapeCell(item.BestVendorName), item.VendorPrice, item.ProfitDelta()))
	}

	return output.String()
}

// FormatForDiscord renders the top limit items in a code block that fits
// one Discord message.
func (of *OutputFormatter) FormatForDiscord(catalog tarkov.Catalog, limit int) string {
	if catalog.Empty() {
		return "No items with a flea price were returned."
	}

	const fenceOpen, fenceClose = "```\n", "```"
	var body strings.Builder
	for i, item := range catalog.Top(limit) {
		line := fmt.Sprintf("%2d. %s\n", i+1, item)
		if len(fenceOpen)+body.Len()+len(line)+len(fenceClose) > discordLimit {
			break
		}
		body.WriteString(line)
	}

	return fenceOpen + body.String() + fenceClose
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
