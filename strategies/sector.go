package strategies

import "github.com/rustyeddy/intraday/trade"

// UnknownSector is used for symbols missing from the sector map.
const UnknownSector = "UNKNOWN"

// SectorFilter caps how many candidates per sector may be accepted in a day.
type SectorFilter struct {
	Enabled            bool
	MaxPerSectorPerDay int
}

func sectorOf(c trade.Candidate) string {
	if c.Sector == "" {
		return UnknownSector
	}
	return c.Sector
}

// Allow reports whether c fits under the cap given today's accepted counts.
func (f SectorFilter) Allow(c trade.Candidate, counts map[string]int) bool {
	if !f.Enabled {
		return true
	}
	return counts[sectorOf(c)] < f.MaxPerSectorPerDay
}

// Accept walks cands in order, keeping those under the cap and counting each
// kept candidate against its sector. counts is updated in place.
func (f SectorFilter) Accept(cands []trade.Candidate, counts map[string]int) []trade.Candidate {
	out := make([]trade.Candidate, 0, len(cands))
	for _, c := range cands {
		if !f.Allow(c, counts) {
			continue
		}
		counts[sectorOf(c)]++
		out = append(out, c)
	}
	return out
}
