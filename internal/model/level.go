package model

// Level is a named rank derived from a user's cumulative points.
type Level struct {
	Number    int    `json:"level"`
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
}

// Levels is the threshold table, ordered by MinPoints ascending.
var Levels = []Level{
	{Number: 1, Name: "Innovator", MinPoints: 0},
	{Number: 2, Name: "Explorer", MinPoints: 100},
	{Number: 3, Name: "Creator", MinPoints: 500},
	{Number: 4, Name: "Pioneer", MinPoints: 1500},
	{Number: 5, Name: "Visionary", MinPoints: 3000},
	{Number: 6, Name: "Innovation Master", MinPoints: 5000},
}

// LevelFor returns the highest level whose threshold does not exceed points.
// Negative totals map to level 1.
func LevelFor(points int) Level {
	lvl := Levels[0]
	for _, l := range Levels[1:] {
		if points < l.MinPoints {
			break
		}
		lvl = l
	}
	return lvl
}

// NextLevel returns the level after l and true, or false at the top level.
func NextLevel(l Level) (Level, bool) {
	if l.Number >= len(Levels) {
		return Level{}, false
	}
	return Levels[l.Number], true
}
