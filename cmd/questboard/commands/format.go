package commands

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Ajinkya236/course-questing-72-sub001/internal/leaderboard"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a boxed section title
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	fmt.Println(formatRow(values, widths))
}

func formatRow(values []string, widths []int) string {
	var b strings.Builder
	for i, val := range values {
		val = clip(val, widths[i])
		b.WriteString(val)
		if i < len(values)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(val)+2))
		}
	}
	return b.String()
}

// clip shortens s to width runes, marking the cut with an ellipsis
func clip(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 1 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-1]) + "…"
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// formatChange renders a position change as ▲n, ▼n or –
func formatChange(change int) string {
	switch {
	case change > 0:
		return "▲" + strconv.Itoa(change)
	case change < 0:
		return "▼" + strconv.Itoa(-change)
	default:
		return "–"
	}
}

var boardColumns = []string{"#", "Name", "Points", "Change", "Group"}
var boardWidths = []int{4, 28, 8, 6, 20}

// boardRows turns entries into table rows; group is the team or department column
func boardRows(entries []leaderboard.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.User != nil:
			u := e.User
			rows = append(rows, []string{
				strconv.Itoa(u.Position), u.Name, strconv.Itoa(u.Points), formatChange(u.PositionChange), u.Department,
			})
		case e.Team != nil:
			t := e.Team
			group := fmt.Sprintf("%d members", t.MemberCount)
			if t.IsCurrentUserGroup {
				group += " (you)"
			}
			rows = append(rows, []string{
				strconv.Itoa(t.Position), t.Name, strconv.Itoa(t.Points), formatChange(t.PositionChange), group,
			})
		}
	}
	return rows
}

// PrintBoard prints a leaderboard as a table
func PrintBoard(board leaderboard.Board) {
	PrintHeader(board.Title)
	fmt.Printf("  %s\n", board.Description)
	if board.Stale {
		PrintWarning("Showing fallback data: the store could not be reached")
	}
	fmt.Println()

	rows := boardRows(board.Entries)
	if len(rows) == 0 {
		PrintInfo("No entries")
		return
	}

	PrintTableHeader(boardColumns, boardWidths)
	for _, row := range rows {
		PrintTableRow(row, boardWidths)
	}
}
