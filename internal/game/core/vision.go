package core

// UpdateVision recomputes every team's fog from scratch.
// Each unit reveals a square of the given radius around itself to its own
// side and all allied sides.
func UpdateVision(b *Board, units UnitLookup, teams []*Team, radius int) {
	for _, t := range teams {
		t.ResetFog()
	}
	if units == nil {
		return
	}
	for _, u := range units.All() {
		for _, t := range teams {
			if t.IsAlly(u.Side) {
				revealAround(b, t, u.Loc, radius)
			}
		}
	}
}

// revealAround clears fog for a team in a square around a cell
func revealAround(b *Board, t *Team, c Coordinate, radius int) {
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			nx, ny := c.X+dx, c.Y+dy
			if b.InBounds(nx, ny) {
				t.ClearFog(NewCoordinate(nx, ny))
			}
		}
	}
}
