// Package model holds the domain records rendered on the scoreboard.
package model

import "strings"

// Sheet column positions (0-based) of a ranking row.
const (
	ColTeamName  = 3  // D
	ColLogoTag   = 4  // E
	ColMatches   = 5  // F
	ColBooyahs   = 6  // G
	ColElims     = 7  // H
	ColPlacement = 8  // I
	ColTotal     = 10 // K
	RowWidth     = 11 // A..K
)

// Team is one ranked competitor's display data for a single refresh cycle.
// All stats are rendered verbatim; totals are computed by the sheet.
type Team struct {
	Name            string `json:"name"`
	LogoTag         string `json:"logo_tag"`
	MatchesPlayed   string `json:"matches_played"`
	Booyahs         string `json:"booyahs"`
	Eliminations    string `json:"eliminations"`
	PlacementPoints string `json:"placement_points"`
	TotalPoints     string `json:"total_points"`
}

// TeamFromRow maps a sheet row onto a Team. Rows shorter than RowWidth are
// padded with empty cells.
func TeamFromRow(row []string) Team {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Team{
		Name:            cell(ColTeamName),
		LogoTag:         strings.TrimSpace(cell(ColLogoTag)),
		MatchesPlayed:   cell(ColMatches),
		Booyahs:         cell(ColBooyahs),
		Eliminations:    cell(ColElims),
		PlacementPoints: cell(ColPlacement),
		TotalPoints:     cell(ColTotal),
	}
}

// Stat identifies one of the five numeric columns.
type Stat int

// Stats in drawing order.
const (
	StatMatches Stat = iota
	StatBooyahs
	StatElims
	StatPlacement
	StatTotal
)

// Stats lists every stat in drawing order.
var Stats = [...]Stat{StatMatches, StatBooyahs, StatElims, StatPlacement, StatTotal}

// Value returns the team's text for s.
func (t Team) Value(s Stat) string {
	switch s {
	case StatMatches:
		return t.MatchesPlayed
	case StatBooyahs:
		return t.Booyahs
	case StatElims:
		return t.Eliminations
	case StatPlacement:
		return t.PlacementPoints
	case StatTotal:
		return t.TotalPoints
	}
	return ""
}
