package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/generals-tunnels/internal/game/core"
	"github.com/mitchelldurbincs/generals-tunnels/internal/pathfind/teleport"
)

// Overlay symbols for tunnel ends
const (
	SourceSymbol = 'S'
	TargetSymbol = 'T'
	BothSymbol   = 'B'
)

// RenderTunnels draws the terrain with every tunnel source, target, or cell
// that is both, marked over its terrain glyph.
func RenderTunnels(board *core.Board, m *teleport.Map) string {
	var sb strings.Builder
	sb.Grow((board.W*2 + 4) * (board.H + 3))

	// Header row
	sb.WriteString("   ")
	for x := 0; x < board.W; x++ {
		fmt.Fprintf(&sb, "%2d", x%100)
	}
	sb.WriteString("\n")

	sources, targets := m.Sources(), m.Targets()
	for y := 0; y < board.H; y++ {
		fmt.Fprintf(&sb, "%2d ", y%100)
		for x := 0; x < board.W; x++ {
			c := core.NewCoordinate(x, y)
			glyph := core.TerrainGlyph(board.GetTile(x, y).Type)
			switch isSource, isTarget := sources.Has(c), targets.Has(c); {
			case isSource && isTarget:
				glyph = BothSymbol
			case isSource:
				glyph = SourceSymbol
			case isTarget:
				glyph = TargetSymbol
			}
			sb.WriteByte(' ')
			sb.WriteByte(glyph)
		}
		sb.WriteString("\n")
	}

	// Legend
	sb.WriteString("\nS=source T=target B=both\n")
	return sb.String()
}

// FormatAdjacency lists every tunnel edge as "from -> to, to" lines in coordinate order
func FormatAdjacency(m *teleport.Map) string {
	var sb strings.Builder
	for _, from := range m.Entries() {
		targets := m.Adjacents(from).Sorted()
		parts := make([]string, len(targets))
		for i, to := range targets {
			parts[i] = to.String()
		}
		fmt.Fprintf(&sb, "%s -> %s\n", from, strings.Join(parts, ", "))
	}
	return sb.String()
}
