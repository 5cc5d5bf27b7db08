package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cory-johannsen/seabattle/internal/game/battle"
	"github.com/cory-johannsen/seabattle/internal/game/board"
)

// boardGap separates the two boards when drawn side by side.
const boardGap = "    "

// Renderer writes a match to a terminal. It implements battle.View.
//
// Write errors are remembered rather than returned; Err reports the first.
type Renderer struct {
	out  io.Writer
	msgs Catalog
	pal  palette
	err  error
}

// NewRenderer creates a Renderer writing to out.
//
// Precondition: out must be non-nil; msgs should pass Validate.
func NewRenderer(out io.Writer, msgs Catalog, color bool) *Renderer {
	return &Renderer{out: out, msgs: msgs, pal: palette{enabled: color}}
}

// Err returns the first write error, if any.
func (r *Renderer) Err() error { return r.err }

func (r *Renderer) println(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.out, s+"\n")
}

// Welcome prints the banner and the coordinate legend.
func (r *Renderer) Welcome() {
	rule := strings.Repeat("=", 37)
	r.println("")
	r.println(r.pal.paint(Bold+BrightCyan, r.msgs.Welcome))
	r.println(rule)
	for _, line := range r.msgs.Intro {
		r.println(line)
	}
	r.println(rule)
	r.println("")
}

// SetupStarted announces fleet placement.
func (r *Renderer) SetupStarted() {
	r.println(r.msgs.Setup)
}

// SetupComplete reports that every ship was placed.
func (r *Renderer) SetupComplete(ships int) {
	r.println(r.pal.paint(Green, fmt.Sprintf(r.msgs.ShipsPlaced, ships)))
}

// SetupFailed reports a placement failure.
func (r *Renderer) SetupFailed(err error) {
	r.println(r.pal.paint(Red, "ERROR: "+r.msgs.SetupFailed))
	if err != nil {
		r.println(r.pal.paint(Dim, err.Error()))
	}
}

// Interrupted prints the farewell shown when the match is cancelled.
func (r *Renderer) Interrupted() {
	r.println("")
	r.println(r.msgs.Interrupted)
}

// ShowBoards draws the opponent and own grids side by side.
func (r *Renderer) ShowBoards(opponent, own board.Grid) {
	header := columnHeader()
	width := len(header)

	r.println("")
	r.println(PadRight("   "+r.msgs.OpponentHeading, width) + boardGap + "   " + r.msgs.OwnHeading)
	r.println(header + boardGap + header)
	for row := 0; row < board.Size; row++ {
		r.println(PadRight(r.formatRow(row, opponent), width) + boardGap + r.formatRow(row, own))
	}
	r.println("")
}

func columnHeader() string {
	var b strings.Builder
	b.WriteString("  ")
	for col := 0; col < board.Size; col++ {
		b.WriteString(strconv.Itoa(col))
		b.WriteByte(' ')
	}
	return b.String()
}

func (r *Renderer) formatRow(row int, g board.Grid) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(row))
	b.WriteByte(' ')
	for col := 0; col < board.Size; col++ {
		b.WriteString(r.symbol(g[row][col]))
		b.WriteByte(' ')
	}
	return b.String()
}

// symbol draws hidden ship cells exactly like water.
func (r *Renderer) symbol(c board.Cell) string {
	switch c {
	case board.CellShipVisible:
		return r.pal.paint(BrightGreen, "S")
	case board.CellHit:
		return r.pal.paint(BrightRed, "X")
	case board.CellMiss:
		return r.pal.paint(White, "O")
	default:
		return r.pal.paint(Blue, "~")
	}
}

// ShowTurn narrates one resolved turn.
func (r *Renderer) ShowTurn(t battle.TurnReport) {
	coord := t.Result.Coordinate.String()
	if t.Side == battle.SidePlayer {
		if t.Result.IsHit() {
			r.println(r.pal.paint(BrightGreen, fmt.Sprintf("%s at %s", r.msgs.PlayerHit, coord)))
			if t.Result.Sunk {
				r.println(r.pal.paint(BrightGreen, r.msgs.PlayerSunk))
			}
			return
		}
		r.println(fmt.Sprintf("%s at %s", r.msgs.PlayerMiss, coord))
		return
	}

	r.println("")
	r.println(r.pal.paint(Yellow, r.msgs.CPUTurn))
	if t.Result.IsHit() {
		r.println(r.pal.paint(BrightRed, fmt.Sprintf("%s at %s!", r.msgs.CPUHit, coord)))
		if t.Result.Sunk {
			r.println(r.pal.paint(BrightRed, r.msgs.CPUSunk))
		}
	} else {
		r.println(fmt.Sprintf("%s at %s.", r.msgs.CPUMiss, coord))
	}
	r.println(r.pal.paint(Dim, fmt.Sprintf(r.msgs.CPUMode, t.Mode)))
}

// ShowRejection explains why a guess was not accepted.
func (r *Renderer) ShowRejection(rej *battle.Rejection) {
	if rej == nil {
		return
	}
	switch rej.Reason {
	case battle.ReasonOutOfBounds:
		r.println(r.pal.paint(Red, "ERROR: "+r.msgs.OutOfBounds))
	case battle.ReasonDuplicate, battle.ReasonAlreadyGuessed:
		r.println(r.pal.paint(Yellow, "WARNING: "+r.msgs.Duplicate))
	case battle.ReasonAlreadyHit:
		r.println(r.pal.paint(Yellow, "WARNING: "+r.msgs.AlreadyHit))
	default:
		r.println(r.pal.paint(Red, "ERROR: "+r.msgs.Malformed))
	}
}

// ShowGameOver prints the result banner and the final statistics.
func (r *Renderer) ShowGameOver(s battle.Stats) {
	rule := strings.Repeat("=", 37)
	r.println("")
	r.println(rule)
	if s.Winner == battle.SidePlayer {
		r.println(r.pal.paint(Bold+BrightGreen, r.msgs.Win))
	} else {
		r.println(r.pal.paint(Bold+BrightRed, r.msgs.Lose))
	}
	r.println(rule)

	winner := s.CPUName
	if s.Winner == battle.SidePlayer {
		winner = s.PlayerName
	}
	r.println("")
	r.println(r.msgs.StatsHeading)
	r.println(fmt.Sprintf("%s Ships Remaining: %d", s.PlayerName, s.PlayerShipsRemaining))
	r.println(fmt.Sprintf("%s Ships Remaining: %d", s.CPUName, s.CPUShipsRemaining))
	r.println(fmt.Sprintf("%s Guesses: %d", s.PlayerName, s.PlayerGuesses))
	r.println(fmt.Sprintf("%s Guesses: %d", s.CPUName, s.CPUGuesses))
	r.println(fmt.Sprintf("%s Hit Rate: %.1f%%", s.PlayerName, s.PlayerHitRate))
	r.println(fmt.Sprintf("%s Hit Rate: %.1f%%", s.CPUName, s.CPUHitRate))
	r.println(fmt.Sprintf("Rounds: %d", s.Rounds))
	r.println(fmt.Sprintf("Game Duration: %d seconds", int(s.Elapsed.Round(time.Second)/time.Second)))
	r.println(fmt.Sprintf("Winner: %s", winner))
	r.println(strings.Repeat("-", 24))
	r.println("")
}

var _ battle.View = (*Renderer)(nil)
