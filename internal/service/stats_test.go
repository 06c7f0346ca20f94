package service

import (
	"testing"

	"github.com/iliyamo/innovation-hub/internal/model"
)

func TestComputeStats(t *testing.T) {
	ideas := []model.Idea{
		{Status: model.StatusNew, Category: model.CategoryCost, Upvotes: 2, CostSavingsCents: 999},
		{Status: model.StatusApproved, Category: model.CategoryCost, Upvotes: 1, CommentsCount: 3, CostSavingsCents: 5000, RevenueImpactCents: 100},
		{Status: model.StatusImplemented, Category: model.CategoryTechnology, CostSavingsCents: 2500},
		{Status: model.StatusRejected, Category: model.CategoryOther, CommentsCount: 1},
	}
	s := ComputeStats(ideas, make([]model.User, 5))
	if s.TotalIdeas != 4 || s.TotalUsers != 5 || s.TotalUpvotes != 3 || s.TotalComments != 4 {
		t.Fatalf("totals = %+v", s)
	}
	if s.ByStatus[model.StatusNew] != 1 || s.ByCategory[model.CategoryCost] != 2 {
		t.Fatalf("breakdowns = %v %v", s.ByStatus, s.ByCategory)
	}
	if s.CostSavingsCents != 7500 || s.RevenueImpactCents != 100 {
		t.Fatalf("money = %d/%d", s.CostSavingsCents, s.RevenueImpactCents)
	}
	if s.ApprovalRate != 0.5 || s.ImplementationRate != 0.25 {
		t.Fatalf("rates = %v/%v", s.ApprovalRate, s.ImplementationRate)
	}
	if empty := ComputeStats(nil, nil); empty.ApprovalRate != 0 {
		t.Fatalf("empty stats = %+v", empty)
	}
}
