package model

import "testing"

func TestLevelForBoundaries(t *testing.T) {
	cases := []struct {
		points int
		want   int
		name   string
	}{
		{-5, 1, "Innovator"},
		{0, 1, "Innovator"},
		{99, 1, "Innovator"},
		{100, 2, "Explorer"},
		{499, 2, "Explorer"},
		{500, 3, "Creator"},
		{1500, 4, "Pioneer"},
		{2999, 4, "Pioneer"},
		{3000, 5, "Visionary"},
		{4999, 5, "Visionary"},
		{5000, 6, "Innovation Master"},
		{5001, 6, "Innovation Master"},
	}
	for _, tc := range cases {
		got := LevelFor(tc.points)
		if got.Number != tc.want || got.Name != tc.name {
			t.Errorf("LevelFor(%d) = %d %q, want %d %q", tc.points, got.Number, got.Name, tc.want, tc.name)
		}
	}
}

func TestNextLevel(t *testing.T) {
	next, ok := NextLevel(LevelFor(0))
	if !ok || next.Number != 2 || next.MinPoints != 100 {
		t.Fatalf("next after level 1 = %+v, %v", next, ok)
	}
	if _, ok := NextLevel(LevelFor(10000)); ok {
		t.Fatal("top level should have no successor")
	}
}
