package service

import (
	"fmt"
	"sort"

	"github.com/iliyamo/innovation-hub/internal/model"
)

// Bounds of a single dimension score.
const (
	MinDimensionScore = 1
	MaxDimensionScore = 10
)

// Scores are the four reviewer-assigned dimension ratings.
type Scores struct {
	Impact      int `json:"impact"`
	Feasibility int `json:"feasibility"`
	Innovation  int `json:"innovation"`
	Strategic   int `json:"strategic"`
}

// Validate checks that every dimension lies in [1,10].
func (s Scores) Validate() error {
	dims := []struct {
		name  string
		value int
	}{
		{"impact", s.Impact},
		{"feasibility", s.Feasibility},
		{"innovation", s.Innovation},
		{"strategic", s.Strategic},
	}
	for _, d := range dims {
		if d.value < MinDimensionScore || d.value > MaxDimensionScore {
			return fmt.Errorf("%w: %s score %d must be between %d and %d",
				ErrValidation, d.name, d.value, MinDimensionScore, MaxDimensionScore)
		}
	}
	return nil
}

// TotalScore returns the sum of the four dimensions, 4..40.
func TotalScore(s Scores) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return s.Impact + s.Feasibility + s.Innovation + s.Strategic, nil
}

// RankIdeas returns a copy of ideas ordered for "Top Ideas": total_score
// descending, then upvotes descending, then earlier submission first.
func RankIdeas(ideas []model.Idea) []model.Idea {
	out := make([]model.Idea, len(ideas))
	copy(out, ideas)
	sort.SliceStable(out, func(a, b int) bool {
		x, y := out[a], out[b]
		if x.TotalScore != y.TotalScore {
			return x.TotalScore > y.TotalScore
		}
		if x.Upvotes != y.Upvotes {
			return x.Upvotes > y.Upvotes
		}
		return x.SubmitDate.Before(y.SubmitDate)
	})
	return out
}

// TopIdeas returns at most n ideas in ranking order.  n <= 0 means all.
func TopIdeas(ideas []model.Idea, n int) []model.Idea {
	ranked := RankIdeas(ideas)
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
