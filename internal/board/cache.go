package board

import "github.com/park285/boardcore/internal/geom"

// MoveCache holds the legal moves of the current authoritative position
// in UCI form, with a prefix index so destination checks ignore any
// promotion suffix.
type MoveCache struct {
	moves    []string
	prefixes map[string]struct{}
}

func NewMoveCache() *MoveCache {
	return &MoveCache{prefixes: map[string]struct{}{}}
}

// Replace swaps in a fresh enumeration, dropping the old one wholesale.
func (c *MoveCache) Replace(moves []string) {
	c.moves = moves
	c.prefixes = make(map[string]struct{}, len(moves))
	for _, m := range moves {
		if len(m) < 4 {
			continue
		}
		c.prefixes[m[:4]] = struct{}{}
	}
}

// Moves returns the cached enumeration.
func (c *MoveCache) Moves() []string { return c.moves }

// CanMove reports whether any cached move starts with from+to. Promotion
// variants all share the same prefix, so "e7e8" matches "e7e8q".
func (c *MoveCache) CanMove(from, to geom.Square) bool {
	_, ok := c.prefixes[from.String()+to.String()]
	return ok
}

// TargetsFrom returns the distinct destination squares reachable from
// from, for highlighting.
func (c *MoveCache) TargetsFrom(from geom.Square) []geom.Square {
	prefix := from.String()
	seen := map[geom.Square]struct{}{}
	var targets []geom.Square
	for _, m := range c.moves {
		if len(m) < 4 || m[:2] != prefix {
			continue
		}
		to, err := geom.ParseSquare(m[2:4])
		if err != nil {
			continue
		}
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}
		targets = append(targets, to)
	}
	return targets
}
