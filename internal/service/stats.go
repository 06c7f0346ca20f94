package service

import (
	"context"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/repository"
)

// DashboardStats summarizes the idea pipeline.
type DashboardStats struct {
	TotalIdeas         int                    `json:"total_ideas"`
	TotalUsers         int                    `json:"total_users"`
	TotalUpvotes       int                    `json:"total_upvotes"`
	TotalComments      int                    `json:"total_comments"`
	ByStatus           map[model.Status]int   `json:"by_status"`
	ByCategory         map[model.Category]int `json:"by_category"`
	CostSavingsCents   int64                  `json:"cost_savings_cents"`
	RevenueImpactCents int64                  `json:"revenue_impact_cents"`
	ApprovalRate       float64                `json:"approval_rate"`
	ImplementationRate float64                `json:"implementation_rate"`
}

// ComputeStats aggregates ideas and users.  Monetary totals only include
// approved or later ideas; rates are fractions of all submitted ideas.
func ComputeStats(ideas []model.Idea, users []model.User) DashboardStats {
	s := DashboardStats{
		TotalIdeas: len(ideas),
		TotalUsers: len(users),
		ByStatus:   make(map[model.Status]int, len(model.Statuses)),
		ByCategory: make(map[model.Category]int, len(model.Categories)),
	}
	approved, implemented := 0, 0
	for _, i := range ideas {
		s.ByStatus[i.Status]++
		s.ByCategory[i.Category]++
		s.TotalUpvotes += i.Upvotes
		s.TotalComments += i.CommentsCount
		if approvedStatuses[i.Status] {
			approved++
			s.CostSavingsCents += i.CostSavingsCents
			s.RevenueImpactCents += i.RevenueImpactCents
		}
		if i.Status == model.StatusImplemented {
			implemented++
		}
	}
	if len(ideas) > 0 {
		s.ApprovalRate = float64(approved) / float64(len(ideas))
		s.ImplementationRate = float64(implemented) / float64(len(ideas))
	}
	return s
}

// Stats loads both tables and computes DashboardStats.
func Stats(ctx context.Context, store *repository.Store) (DashboardStats, error) {
	ideas, err := store.LoadIdeas(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	users, err := store.LoadUsers(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	return ComputeStats(ideas.Rows, users.Rows), nil
}
