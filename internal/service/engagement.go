package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/queue"
	"github.com/iliyamo/innovation-hub/internal/repository"
)

// IdeaDraft is the submitter-supplied part of an idea.
type IdeaDraft struct {
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Category           model.Category `json:"category"`
	Problem            string         `json:"problem"`
	Solution           string         `json:"solution"`
	Benefits           string         `json:"benefits"`
	Resources          string         `json:"resources"`
	Tags               string         `json:"tags"`
	CostSavingsCents   int64          `json:"cost_savings_cents"`
	RevenueImpactCents int64          `json:"revenue_impact_cents"`
}

// Validate checks required fields and enumerations.
func (d IdeaDraft) Validate() error {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case model.TooLong(d.Title, model.MaxTitleLen):
		return fmt.Errorf("%w: title must be at most %d characters", ErrValidation, model.MaxTitleLen)
	case strings.TrimSpace(d.Description) == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	case !d.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrValidation, d.Category)
	case d.CostSavingsCents < 0 || d.RevenueImpactCents < 0:
		return fmt.Errorf("%w: monetary amounts must be non-negative", ErrValidation)
	}
	return nil
}

// SubmitResult is the outcome of SubmitIdea.  EnhanceError is set when
// enhancement was requested but failed; the idea was still submitted with
// the original description.
type SubmitResult struct {
	Idea         model.Idea `json:"idea"`
	Award        Award      `json:"award"`
	Enhanced     bool       `json:"enhanced"`
	EnhanceError string     `json:"enhance_error,omitempty"`
}

// SubmitIdea creates a New idea for actor and credits the submission award.
// When enhance is set the description is first rewritten by the assistant;
// a failed rewrite keeps the original description and does not block the
// submission.
func (c *Controller) SubmitIdea(ctx context.Context, actor model.User, draft IdeaDraft, enhance bool) (SubmitResult, error) {
	var res SubmitResult
	draft.Title = strings.TrimSpace(draft.Title)
	if err := draft.Validate(); err != nil {
		return res, err
	}
	if err := c.requireUser(ctx, actor.Username); err != nil {
		return res, err
	}

	if enhance {
		if c.enhancer == nil {
			res.EnhanceError = fmt.Errorf("%w: description enhancement is not configured", ErrCollaborator).Error()
		} else if improved, err := c.enhancer.EnhanceDescription(ctx, draft); err != nil {
			res.EnhanceError = err.Error()
		} else {
			draft.Description = improved
			res.Enhanced = true
		}
	}

	err := c.store.UpdateIdeas(ctx, func(ideas []model.Idea) ([]model.Idea, error) {
		var next int64 = 1
		for _, i := range ideas {
			if i.ID >= next {
				next = i.ID + 1
			}
		}
		res.Idea = model.Idea{
			ID:                 next,
			Title:              draft.Title,
			Description:        draft.Description,
			Category:           draft.Category,
			Problem:            draft.Problem,
			Solution:           draft.Solution,
			Benefits:           draft.Benefits,
			Resources:          draft.Resources,
			Submitter:          actor.Username,
			SubmitDate:         c.now().UTC(),
			Status:             model.StatusNew,
			Tags:               draft.Tags,
			CostSavingsCents:   draft.CostSavingsCents,
			RevenueImpactCents: draft.RevenueImpactCents,
		}
		return append(ideas, res.Idea), nil
	})
	if err != nil {
		return SubmitResult{}, err
	}
	publish(ctx, c.events, queue.ActivityEvent{
		Type:      queue.EventIdeaSubmitted,
		IdeaID:    res.Idea.ID,
		IdeaTitle: res.Idea.Title,
		Username:  actor.Username,
		Status:    string(res.Idea.Status),
	})

	res.Award, err = c.game.AwardFor(ctx, actor.Username, EventIdeaSubmitted)
	if err != nil {
		return res, fmt.Errorf("idea %d submitted, crediting %s failed: %w", res.Idea.ID, actor.Username, err)
	}
	return res, nil
}

// UpvoteResult reports the idea after an upvote and the submitter's award.
type UpvoteResult struct {
	Idea  model.Idea `json:"idea"`
	Award Award      `json:"award"`
}

// Upvote adds one upvote to the idea and credits its submitter.  Any user
// may upvote, including the submitter.
func (c *Controller) Upvote(ctx context.Context, actor model.User, ideaID int64) (UpvoteResult, error) {
	var res UpvoteResult
	err := c.store.UpdateIdeas(ctx, func(ideas []model.Idea) ([]model.Idea, error) {
		idx := findIdea(ideas, ideaID)
		if idx < 0 {
			return nil, fmt.Errorf("%w: idea %d", ErrNotFound, ideaID)
		}
		ideas[idx].Upvotes++
		res.Idea = ideas[idx]
		return ideas, nil
	})
	if err != nil {
		return res, err
	}
	publish(ctx, c.events, queue.ActivityEvent{
		Type:      queue.EventIdeaUpvoted,
		IdeaID:    ideaID,
		IdeaTitle: res.Idea.Title,
		Username:  actor.Username,
	})
	res.Award, err = c.game.AwardFor(ctx, res.Idea.Submitter, EventIdeaUpvoted)
	if err != nil {
		return res, fmt.Errorf("idea %d upvoted, crediting %s failed: %w", ideaID, res.Idea.Submitter, err)
	}
	return res, nil
}

// CommentResult reports the stored comment, the idea's refreshed counter
// and the commenter's award.
type CommentResult struct {
	Comment       model.Comment `json:"comment"`
	CommentsCount int           `json:"comments_count"`
	Award         Award         `json:"award"`
}

// PostComment appends a comment to the idea, recomputes the idea's
// comments_count from the comments table and credits the commenter.
func (c *Controller) PostComment(ctx context.Context, actor model.User, ideaID int64, text string) (CommentResult, error) {
	var res CommentResult
	text = strings.TrimSpace(text)
	if text == "" {
		return res, fmt.Errorf("%w: comment text is required", ErrValidation)
	}
	if _, err := c.GetIdea(ctx, ideaID); err != nil {
		return res, err
	}

	err := c.store.UpdateComments(ctx, func(comments []model.Comment) ([]model.Comment, error) {
		var next int64 = 1
		for _, cm := range comments {
			if cm.ID >= next {
				next = cm.ID + 1
			}
		}
		res.Comment = model.Comment{
			ID:       next,
			IdeaID:   ideaID,
			Username: actor.Username,
			Text:     text,
			Date:     c.now().UTC(),
		}
		return append(comments, res.Comment), nil
	})
	if err != nil {
		return CommentResult{}, err
	}

	counts, err := c.syncCommentCounts(ctx, ideaID)
	if err != nil {
		return res, err
	}
	res.CommentsCount = counts[ideaID]
	publish(ctx, c.events, queue.ActivityEvent{
		Type:     queue.EventCommentPosted,
		IdeaID:   ideaID,
		Username: actor.Username,
	})

	res.Award, err = c.game.AwardFor(ctx, actor.Username, EventCommentPosted)
	if err != nil {
		return res, fmt.Errorf("comment %d posted, crediting %s failed: %w", res.Comment.ID, actor.Username, err)
	}
	return res, nil
}

// SyncCommentCounts rewrites every idea's comments_count from the comments
// table.  It repairs counters left stale by an interrupted PostComment and
// is cheap to run at startup.
func (c *Controller) SyncCommentCounts(ctx context.Context) error {
	_, err := c.syncCommentCounts(ctx, 0)
	return err
}

// syncCommentCounts recounts under the ideas writer lock.  When only is
// non-zero just that idea is touched.
func (c *Controller) syncCommentCounts(ctx context.Context, only int64) (map[int64]int, error) {
	var counts map[int64]int
	err := c.store.UpdateIdeas(ctx, func(ideas []model.Idea) ([]model.Idea, error) {
		comments, err := c.store.LoadComments(ctx)
		if err != nil {
			return nil, err
		}
		counts = make(map[int64]int, len(ideas))
		for _, cm := range comments.Rows {
			counts[cm.IdeaID]++
		}
		changed := false
		for i := range ideas {
			if only != 0 && ideas[i].ID != only {
				continue
			}
			if ideas[i].CommentsCount != counts[ideas[i].ID] {
				ideas[i].CommentsCount = counts[ideas[i].ID]
				changed = true
			}
		}
		if !changed {
			return nil, repository.ErrNoChange
		}
		return ideas, nil
	})
	return counts, err
}

// LikeComment adds one like to a comment.  Likes earn no points.
func (c *Controller) LikeComment(ctx context.Context, actor model.User, commentID int64) (model.Comment, error) {
	var out model.Comment
	err := c.store.UpdateComments(ctx, func(comments []model.Comment) ([]model.Comment, error) {
		for i := range comments {
			if comments[i].ID == commentID {
				comments[i].Likes++
				out = comments[i]
				return comments, nil
			}
		}
		return nil, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
	})
	return out, err
}

// IdeaFilter narrows ListIdeas.  Zero fields match everything; Search is a
// case-insensitive substring match on title, description and tags.
type IdeaFilter struct {
	Status    model.Status
	Category  model.Category
	Submitter string
	Search    string
}

func (f IdeaFilter) match(i model.Idea) bool {
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.Category != "" && i.Category != f.Category {
		return false
	}
	if f.Submitter != "" && i.Submitter != f.Submitter {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		hay := strings.ToLower(i.Title + "\n" + i.Description + "\n" + i.Tags)
		return strings.Contains(hay, q)
	}
	return true
}

// ListIdeas returns matching ideas, newest submission first.
func (c *Controller) ListIdeas(ctx context.Context, f IdeaFilter) ([]model.Idea, error) {
	snap, err := c.store.LoadIdeas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Idea, 0, len(snap.Rows))
	for _, i := range snap.Rows {
		if f.match(i) {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].SubmitDate.After(out[b].SubmitDate) })
	return out, nil
}

// TopIdeas returns the n best-ranked evaluated ideas.
func (c *Controller) TopIdeas(ctx context.Context, n int) ([]model.Idea, error) {
	snap, err := c.store.LoadIdeas(ctx)
	if err != nil {
		return nil, err
	}
	evaluated := make([]model.Idea, 0, len(snap.Rows))
	for _, i := range snap.Rows {
		if i.TotalScore > 0 {
			evaluated = append(evaluated, i)
		}
	}
	return TopIdeas(evaluated, n), nil
}

// GetIdea returns one idea by id.
func (c *Controller) GetIdea(ctx context.Context, id int64) (model.Idea, error) {
	snap, err := c.store.LoadIdeas(ctx)
	if err != nil {
		return model.Idea{}, err
	}
	idx := findIdea(snap.Rows, id)
	if idx < 0 {
		return model.Idea{}, fmt.Errorf("%w: idea %d", ErrNotFound, id)
	}
	return snap.Rows[idx], nil
}

// Comments returns the comments on an idea, oldest first.
func (c *Controller) Comments(ctx context.Context, ideaID int64) ([]model.Comment, error) {
	if _, err := c.GetIdea(ctx, ideaID); err != nil {
		return nil, err
	}
	snap, err := c.store.LoadComments(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Comment{}
	for _, cm := range snap.Rows {
		if cm.IdeaID == ideaID {
			out = append(out, cm)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Date.Before(out[b].Date) })
	return out, nil
}

func (c *Controller) requireUser(ctx context.Context, username string) error {
	snap, err := c.store.LoadUsers(ctx)
	if err != nil {
		return err
	}
	if findUser(snap.Rows, username) < 0 {
		return fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	return nil
}
