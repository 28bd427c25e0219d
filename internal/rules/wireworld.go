package rules

import "wireworld/internal/core"

/*
Next applies the Wireworld transition to a single cell.

A conductor fires when one, two or four-to-eight electron heads touch it; none
or exactly three leave it idle. Heads decay to tails, tails back to conductor,
and empty cells never change.
*/
func Next(current core.Cell, heads int) core.Cell {
	switch current {
	case core.Conductor:
		if heads > 0 && heads != 3 {
			return core.ElectronHead
		}
		return core.Conductor
	case core.ElectronHead:
		return core.ElectronTail
	case core.ElectronTail:
		return core.Conductor
	}
	return core.Empty
}
