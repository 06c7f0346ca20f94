package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/queue"
	"github.com/iliyamo/innovation-hub/internal/repository"
)

// Event is a point-earning action.
type Event string

const (
	EventIdeaSubmitted Event = "idea submitted"
	EventIdeaUpvoted   Event = "idea upvoted"
	EventCommentPosted Event = "comment posted"
	EventIdeaApproved  Event = "idea approved"
)

var awardTable = map[Event]int{
	EventIdeaSubmitted: 10,
	EventIdeaUpvoted:   1,
	EventCommentPosted: 2,
	EventIdeaApproved:  100,
}

// PointsFor returns the award for ev, or 0 for an unknown event.
func PointsFor(ev Event) int { return awardTable[ev] }

// Award is the outcome of a points credit.
type Award struct {
	Username   string      `json:"username"`
	Amount     int         `json:"amount"`
	Points     int         `json:"points"`
	Level      model.Level `json:"level"`
	Reason     string      `json:"reason"`
	LevelledUp bool        `json:"levelled_up"`
}

// Gamification credits points and produces leaderboards.
type Gamification struct {
	store  *repository.Store
	events queue.Publisher
}

// NewGamification returns an engine over store.  A nil publisher discards
// events.
func NewGamification(store *repository.Store, events queue.Publisher) *Gamification {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &Gamification{store: store, events: events}
}

// AwardPoints adds amount to the user's points, recomputes the level and
// persists the row.  The users table is held under its writer lock for the
// whole read-modify-write, so concurrent awards to one user are never lost.
func (g *Gamification) AwardPoints(ctx context.Context, username string, amount int, reason string) (Award, error) {
	if amount <= 0 {
		return Award{}, fmt.Errorf("%w: award amount must be positive", ErrValidation)
	}
	award := Award{Username: username, Amount: amount, Reason: reason}
	err := g.store.UpdateUsers(ctx, func(users []model.User) ([]model.User, error) {
		idx := findUser(users, username)
		if idx < 0 {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		u := &users[idx]
		before := model.LevelFor(u.Points)
		u.Points += amount
		lvl := model.LevelFor(u.Points)
		u.Level = lvl.Number
		award.Points = u.Points
		award.Level = lvl
		award.LevelledUp = lvl.Number > before.Number
		return users, nil
	})
	if err != nil {
		return Award{}, err
	}
	if award.LevelledUp {
		log.Infof("gamification: %s reached level %d (%s)", username, award.Level.Number, award.Level.Name)
	}
	publish(ctx, g.events, queue.ActivityEvent{
		Type:     queue.EventPointsAwarded,
		Username: username,
		Points:   amount,
		Total:    award.Points,
		Level:    award.Level.Number,
		Reason:   reason,
	})
	return award, nil
}

// AwardFor credits the points defined for ev.
func (g *Gamification) AwardFor(ctx context.Context, username string, ev Event) (Award, error) {
	return g.AwardPoints(ctx, username, PointsFor(ev), string(ev))
}

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	Username   string `json:"username"`
	Department string `json:"department"`
	Points     int    `json:"points"`
	Level      int    `json:"level"`
	LevelName  string `json:"level_name"`
	JoinDate   string `json:"join_date"`
}

// RankUsers orders users by points descending; ties go to the user who
// joined earlier.
func RankUsers(users []model.User) []LeaderboardEntry {
	sorted := make([]model.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Points != sorted[b].Points {
			return sorted[a].Points > sorted[b].Points
		}
		return sorted[a].JoinDate.Before(sorted[b].JoinDate)
	})
	out := make([]LeaderboardEntry, len(sorted))
	for i, u := range sorted {
		lvl := model.LevelFor(u.Points)
		out[i] = LeaderboardEntry{
			Rank:       i + 1,
			Username:   u.Username,
			Department: u.Department,
			Points:     u.Points,
			Level:      lvl.Number,
			LevelName:  lvl.Name,
			JoinDate:   u.JoinDate.Format("2006-01-02"),
		}
	}
	return out
}

// Leaderboard returns the top limit users (all when limit <= 0).
func (g *Gamification) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	snap, err := g.store.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	ranked := RankUsers(snap.Rows)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// DepartmentStanding aggregates the ideas submitted by one department.
// AverageScore only counts evaluated ideas.
type DepartmentStanding struct {
	Department     string  `json:"department"`
	Ideas          int     `json:"ideas"`
	Upvotes        int     `json:"upvotes"`
	EvaluatedIdeas int     `json:"evaluated_ideas"`
	AverageScore   float64 `json:"average_score"`
}

// UnknownDepartment groups ideas whose submitter has no user row.
const UnknownDepartment = "Unknown"

// RankDepartments groups ideas by their submitter's department.  Result is
// ordered by idea count, then upvotes, then department name.
func RankDepartments(ideas []model.Idea, users []model.User) []DepartmentStanding {
	dept := make(map[string]string, len(users))
	for _, u := range users {
		dept[u.Username] = u.Department
	}
	byDept := map[string]*DepartmentStanding{}
	scoreSum := map[string]int{}
	for _, i := range ideas {
		d := strings.TrimSpace(dept[i.Submitter])
		if d == "" {
			d = UnknownDepartment
		}
		s, ok := byDept[d]
		if !ok {
			s = &DepartmentStanding{Department: d}
			byDept[d] = s
		}
		s.Ideas++
		s.Upvotes += i.Upvotes
		if i.TotalScore > 0 {
			s.EvaluatedIdeas++
			scoreSum[d] += i.TotalScore
		}
	}
	out := make([]DepartmentStanding, 0, len(byDept))
	for d, s := range byDept {
		if s.EvaluatedIdeas > 0 {
			s.AverageScore = float64(scoreSum[d]) / float64(s.EvaluatedIdeas)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Ideas != out[b].Ideas {
			return out[a].Ideas > out[b].Ideas
		}
		if out[a].Upvotes != out[b].Upvotes {
			return out[a].Upvotes > out[b].Upvotes
		}
		return out[a].Department < out[b].Department
	})
	return out
}

// DepartmentLeaderboard loads ideas and users and ranks departments.
func (g *Gamification) DepartmentLeaderboard(ctx context.Context) ([]DepartmentStanding, error) {
	ideas, err := g.store.LoadIdeas(ctx)
	if err != nil {
		return nil, err
	}
	users, err := g.store.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	return RankDepartments(ideas.Rows, users.Rows), nil
}

func findUser(users []model.User, username string) int {
	for i := range users {
		if users[i].Username == username {
			return i
		}
	}
	return -1
}

func publish(ctx context.Context, p queue.Publisher, ev queue.ActivityEvent) {
	if err := p.Publish(ctx, ev); err != nil {
		log.Warnf("events: %s not published: %v", ev.Type, err)
	}
}
