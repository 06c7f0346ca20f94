package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/queue"
)

type stubEnhancer struct {
	out string
	err error
}

func (s stubEnhancer) EnhanceDescription(context.Context, IdeaDraft) (string, error) {
	return s.out, s.err
}

func TestSubmitIdeaCreatesNewIdeaAndAwards(t *testing.T) {
	env := newTestEnv(t, nil)
	res, err := env.ctrl.SubmitIdea(context.Background(), env.employee, IdeaDraft{
		Title:            "  Reusable cups ",
		Description:      "Replace paper cups",
		Category:         model.CategorySustainable,
		CostSavingsCents: 150000,
	}, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	i := res.Idea
	if i.ID != 1 || i.Status != model.StatusNew || i.Submitter != "employee" || i.Title != "Reusable cups" {
		t.Fatalf("idea = %+v", i)
	}
	if i.Upvotes != 0 || i.CommentsCount != 0 || i.TotalScore != 0 || i.SubmitDate.IsZero() {
		t.Fatalf("new idea counters = %+v", i)
	}
	if res.Award.Amount != 10 || res.Award.Points != 10 {
		t.Fatalf("award = %+v", res.Award)
	}
	if second := env.submit(t, env.admin, "Second"); second != 2 {
		t.Fatalf("second id = %d, want 2", second)
	}
	types := env.events.types()
	if len(types) == 0 || types[0] != queue.EventIdeaSubmitted {
		t.Fatalf("events = %v", types)
	}
}

func TestSubmitIdeaValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	for name, d := range map[string]IdeaDraft{
		"no title":       {Description: "d", Category: model.CategoryOther},
		"no description": {Title: "t", Category: model.CategoryOther},
		"bad category":   {Title: "t", Description: "d", Category: "Snacks"},
		"negative money": {Title: "t", Description: "d", Category: model.CategoryOther, RevenueImpactCents: -1},
		"long title":     {Title: strings.Repeat("x", model.MaxTitleLen+1), Description: "d", Category: model.CategoryOther},
	} {
		if _, err := env.ctrl.SubmitIdea(context.Background(), env.employee, d, false); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", name, err)
		}
	}
	ghost := model.User{Username: "ghost", Role: model.RoleEmployee}
	if _, err := env.ctrl.SubmitIdea(context.Background(), ghost, IdeaDraft{Title: "t", Description: "d", Category: model.CategoryOther}, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown submitter err = %v, want ErrNotFound", err)
	}
	if ideas, _ := env.ctrl.ListIdeas(context.Background(), IdeaFilter{}); len(ideas) != 0 {
		t.Fatalf("rejected submissions were stored: %d", len(ideas))
	}
}

func TestSubmitIdeaEnhancement(t *testing.T) {
	draft := IdeaDraft{Title: "Kiosk", Description: "self checkout", Category: model.CategoryCustomer}

	ok := newTestEnv(t, stubEnhancer{out: "A self-service kiosk that cuts queue time."})
	res, err := ok.ctrl.SubmitIdea(context.Background(), ok.employee, draft, true)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Enhanced || res.Idea.Description != "A self-service kiosk that cuts queue time." {
		t.Fatalf("enhanced result = %+v", res)
	}

	failing := newTestEnv(t, stubEnhancer{err: errors.New("timeout")})
	res, err = failing.ctrl.SubmitIdea(context.Background(), failing.employee, draft, true)
	if err != nil {
		t.Fatalf("submit with failed enhancement: %v", err)
	}
	if res.Enhanced || res.EnhanceError == "" || res.Idea.Description != "self checkout" {
		t.Fatalf("failed enhancement result = %+v", res)
	}
}

func TestUpvoteCreditsSubmitter(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.submit(t, env.employee, "Bike racks")

	res, err := env.ctrl.Upvote(ctx, env.admin, id)
	if err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if res.Idea.Upvotes != 1 || res.Award.Username != "employee" || res.Award.Points != 11 {
		t.Fatalf("result = %+v", res)
	}
	if admin := env.user(t, "admin"); admin.Points != 0 {
		t.Fatalf("voter credited: %d", admin.Points)
	}
	if _, err := env.ctrl.Upvote(ctx, env.admin, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown idea err = %v", err)
	}
}

func TestPostCommentUpdatesCountAndAwards(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.submit(t, env.employee, "Bike racks")

	res, err := env.ctrl.PostComment(ctx, env.admin, id, "  Great idea  ")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if res.CommentsCount != 1 || res.Comment.Text != "Great idea" || res.Comment.ID != 1 {
		t.Fatalf("result = %+v", res)
	}
	if _, err := env.ctrl.PostComment(ctx, env.employee, id, "Thanks"); err != nil {
		t.Fatalf("second comment: %v", err)
	}
	if got := env.idea(t, id); got.CommentsCount != 2 {
		t.Fatalf("comments_count = %d, want 2", got.CommentsCount)
	}
	if admin := env.user(t, "admin"); admin.Points != 2 {
		t.Fatalf("admin points = %d, want 2", admin.Points)
	}
	if emp := env.user(t, "employee"); emp.Points != 12 {
		t.Fatalf("employee points = %d, want 12", emp.Points)
	}
	comments, err := env.ctrl.Comments(ctx, id)
	if err != nil || len(comments) != 2 || comments[0].Username != "admin" {
		t.Fatalf("comments = %+v, err %v", comments, err)
	}

	if _, err := env.ctrl.PostComment(ctx, env.admin, id, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank comment err = %v", err)
	}
	if _, err := env.ctrl.PostComment(ctx, env.admin, 77, "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown idea err = %v", err)
	}
}

func TestSyncCommentCountsRepairsDrift(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.submit(t, env.employee, "Bike racks")
	if _, err := env.ctrl.PostComment(ctx, env.admin, id, "one"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	snap, _ := env.store.LoadIdeas(ctx)
	snap.Rows[0].CommentsCount = 9
	if _, err := env.store.SaveIdeas(ctx, snap.Rows, snap.Version); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if err := env.ctrl.SyncCommentCounts(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if got := env.idea(t, id); got.CommentsCount != 1 {
		t.Fatalf("comments_count = %d, want 1", got.CommentsCount)
	}
}

func TestLikeComment(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.submit(t, env.employee, "Bike racks")
	res, _ := env.ctrl.PostComment(ctx, env.admin, id, "nice")

	cm, err := env.ctrl.LikeComment(ctx, env.employee, res.Comment.ID)
	if err != nil || cm.Likes != 1 {
		t.Fatalf("like = %+v, err %v", cm, err)
	}
	if _, err := env.ctrl.LikeComment(ctx, env.employee, 500); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown comment err = %v", err)
	}
	if emp := env.user(t, "employee"); emp.Points != 10 {
		t.Fatalf("likes must not award points: %d", emp.Points)
	}
}

func TestListIdeasFilters(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	a := env.submit(t, env.employee, "Recycle toner")
	env.submit(t, env.admin, "Four-day week")
	if _, err := env.ctrl.Reject(ctx, env.admin, a); err != nil {
		t.Fatalf("reject: %v", err)
	}

	all, _ := env.ctrl.ListIdeas(ctx, IdeaFilter{})
	if len(all) != 2 || all[0].Title != "Four-day week" {
		t.Fatalf("all = %+v", all)
	}
	rejected, _ := env.ctrl.ListIdeas(ctx, IdeaFilter{Status: model.StatusRejected})
	if len(rejected) != 1 || rejected[0].ID != a {
		t.Fatalf("rejected = %+v", rejected)
	}
	mine, _ := env.ctrl.ListIdeas(ctx, IdeaFilter{Submitter: "admin"})
	if len(mine) != 1 || mine[0].Submitter != "admin" {
		t.Fatalf("by submitter = %+v", mine)
	}
	found, _ := env.ctrl.ListIdeas(ctx, IdeaFilter{Search: "TONER"})
	if len(found) != 1 || found[0].ID != a {
		t.Fatalf("search = %+v", found)
	}
}

func TestTopIdeasOnlyEvaluated(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	low := env.submit(t, env.employee, "Low")
	high := env.submit(t, env.employee, "High")
	env.submit(t, env.employee, "Unscored")
	if _, err := env.ctrl.Approve(ctx, env.admin, low, Scores{Impact: 2, Feasibility: 2, Innovation: 2, Strategic: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.ctrl.Approve(ctx, env.admin, high, Scores{Impact: 9, Feasibility: 9, Innovation: 9, Strategic: 9}); err != nil {
		t.Fatal(err)
	}
	top, err := env.ctrl.TopIdeas(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].ID != high || top[1].ID != low {
		t.Fatalf("top = %+v", top)
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, queue.ActivityEvent) error {
	return errors.New("broker down")
}

func TestSubmitSucceedsWhenPublishFails(t *testing.T) {
	env := newTestEnv(t, nil)
	env.ctrl.events = failingPublisher{}
	env.game.events = failingPublisher{}
	id := env.submit(t, env.employee, "Lunch and learn")
	if got := env.idea(t, id); got.Status != model.StatusNew {
		t.Fatalf("idea = %+v", got)
	}
	if u := env.user(t, "employee"); u.Points != 10 {
		t.Fatalf("points = %d, want 10", u.Points)
	}
}
