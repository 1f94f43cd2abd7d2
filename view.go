package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-match/internal/config"
	"go-match/internal/game"
	"go-match/internal/scoring"
	"go-match/internal/state"
)

var (
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // mismatches, errors
	greenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // matches, results
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // status line
	boldStyle    = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	hiddenStyle  = lipgloss.NewStyle().Background(lipgloss.Color("8")).Padding(0, 1)
	faceUpStyle  = lipgloss.NewStyle().Background(lipgloss.Color("15")).Padding(0, 1)
	matchedStyle = lipgloss.NewStyle().Background(lipgloss.Color("22")).Padding(0, 1)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
)

func (s *LocalState) View() string {
	snap := s.Game.Snapshot()

	var body string
	switch snap.Phase {
	case state.PhaseIdle:
		body = s.renderMenu()
	case state.PhaseEnded:
		body = s.RenderBoard(snap) + "\n" + s.renderStatus(snap) + "\n" + s.renderResult(snap)
	default:
		body = s.RenderBoard(snap) + "\n" + s.renderStatus(snap)
	}

	display := renderBanner(snap) + "\n" + body
	if s.Message != "" {
		display += "\n" + s.renderMessage()
	}
	return display + "\n\n" + s.help.View(s.keys) + "\n"
}

func renderBanner(snap game.Snapshot) string {
	title := "┃ GO-MATCH"
	if snap.Phase != state.PhaseIdle {
		title += " | " + strings.ToUpper(snap.Difficulty.Title())
	}
	bar := strings.Repeat("━", lipgloss.Width(title)+1)
	return "┏" + bar + "┓\n" + boldStyle.Render(title) + " ┃"
}

func (s *LocalState) renderMenu() string {
	var b strings.Builder
	b.WriteString("\nChoose a difficulty:\n\n")
	for _, d := range config.Difficulties() {
		level, _ := config.Lookup(d)
		line := fmt.Sprintf("%-8s %2d pairs  %dx%d  %ds preview  x%d",
			d.Title(), level.PairCount, level.GridColumns, level.GridRows, level.PreviewSeconds, level.Multiplier)
		if best := s.Game.History.Best(d); best != nil {
			line += fmt.Sprintf("  best %d", best.Score)
		}
		if d == s.Difficulty {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\nPress s to start.")
	return b.String()
}

// RenderBoard draws the tile grid with the cursor while playing.
func (s *LocalState) RenderBoard(snap game.Snapshot) string {
	if len(snap.Tiles) == 0 || snap.Columns == 0 {
		return ""
	}

	rows := make([]string, 0, snap.Rows)
	for start := 0; start < len(snap.Tiles); start += snap.Columns {
		end := min(start+snap.Columns, len(snap.Tiles))
		cells := make([]string, 0, snap.Columns)
		for i := start; i < end; i++ {
			cells = append(cells, s.renderTile(snap, i)+" ")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	customBorder := lipgloss.ThickBorder()
	customBorder.Top = "═"
	customBorder.TopLeft = "┃"
	customBorder.TopRight = "┃"

	borderStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Border(customBorder)
	return borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s *LocalState) renderTile(snap game.Snapshot, i int) string {
	tile := snap.Tiles[i]

	var style lipgloss.Style
	face := "  "
	switch {
	case tile.Matched:
		style = matchedStyle
		face = tile.Symbol
	case tile.FaceUp:
		style = faceUpStyle
		face = tile.Symbol
	default:
		style = hiddenStyle
	}
	if snap.Phase == state.PhasePlaying && i == s.Cursor {
		style = style.Reverse(true)
		if !tile.FaceUp {
			face = "[]"
		}
	}
	return style.Render(face)
}

func (s *LocalState) renderStatus(snap game.Snapshot) string {
	if snap.Phase == state.PhasePreviewing {
		countdown := redStyle.Render(fmt.Sprintf("%d", snap.PreviewRemaining))
		return scoreStyle.Render("MEMORIZE: ") + countdown
	}

	statusLine := fmt.Sprintf("PAIRS: %d/%d | ATTEMPTS: %d | TIME: %s",
		snap.PairsFound, snap.PairCount, snap.Attempts, clock(snap.Elapsed))
	return scoreStyle.Render(statusLine)
}

func (s *LocalState) renderResult(snap game.Snapshot) string {
	if snap.Result == nil {
		return ""
	}
	display := greenStyle.Render(fmt.Sprintf("Congratulations! Final score: %d", snap.Result.Score))
	if snap.HighScore {
		display += "\nYou got a high score! Top 5 scores:"
	} else {
		display += "\nTop 5 scores:"
	}
	for _, entry := range s.Game.History.Top(snap.Difficulty, 5) {
		display += "\n" + formatEntry(entry, entry.SessionID == snap.SessionID)
	}
	display += "\n" + faintStyle.Render("Press s to play again or r for the menu.")
	return display
}

func formatEntry(e scoring.Entry, current bool) string {
	line := fmt.Sprintf("  * %d (%d attempts, %s) at %s",
		e.Score, e.Attempts, clock(e.ElapsedSeconds), e.Timestamp.Format("15:04:05"))
	if current {
		return boldStyle.Render(line)
	}
	return line
}

func (s *LocalState) renderMessage() string {
	if s.IsError {
		return redStyle.Render(s.Message)
	}
	return greenStyle.Render(s.Message)
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
