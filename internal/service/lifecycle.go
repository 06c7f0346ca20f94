package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/queue"
	"github.com/iliyamo/innovation-hub/internal/repository"
)

// transitions lists the statuses reachable in one step from each status.
// Rejected and Implemented are terminal.
var transitions = map[model.Status][]model.Status{
	model.StatusNew:         {model.StatusUnderReview, model.StatusApproved, model.StatusRejected},
	model.StatusUnderReview: {model.StatusApproved, model.StatusRejected},
	model.StatusApproved:    {model.StatusInProgress},
	model.StatusInProgress:  {model.StatusImplemented},
}

// CanTransition reports whether an idea in status from may move to to.
func CanTransition(from, to model.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Enhancer rewrites an idea description.  It is satisfied by *Assistant.
type Enhancer interface {
	EnhanceDescription(ctx context.Context, draft IdeaDraft) (string, error)
}

// Controller owns the idea status state machine and the engagement
// operations (submission, upvotes, comments) that feed the gamification
// engine.
type Controller struct {
	store    *repository.Store
	game     *Gamification
	events   queue.Publisher
	enhancer Enhancer
	now      func() time.Time
}

// NewController wires the lifecycle controller.  enhancer may be nil, in
// which case enhancement requests are reported as unavailable.
func NewController(store *repository.Store, game *Gamification, events queue.Publisher, enhancer Enhancer) *Controller {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &Controller{store: store, game: game, events: events, enhancer: enhancer, now: time.Now}
}

// TransitionResult reports the idea after a status operation.  Changed is
// false when the idea was already in the target status.
type TransitionResult struct {
	Idea    model.Idea `json:"idea"`
	Changed bool       `json:"changed"`
	Award   *Award     `json:"award,omitempty"`
}

// authorizeAdmin is the single guard in front of every status change.
func authorizeAdmin(actor model.User) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: %q is not an admin", ErrForbidden, actor.Username)
	}
	return nil
}

// MarkUnderReview moves a New idea to Under Review.
func (c *Controller) MarkUnderReview(ctx context.Context, actor model.User, ideaID int64) (TransitionResult, error) {
	return c.transition(ctx, actor, ideaID, model.StatusUnderReview, nil)
}

// Approve records the four dimension scores and their total, moves the
// idea to Approved and credits the submitter with the approval award.
//
// The idea row is saved before the points are credited.  If crediting
// fails the idea stays approved and the error is returned; approving again
// is a no-op, so an admin re-drives the award with GrantPoints.
func (c *Controller) Approve(ctx context.Context, actor model.User, ideaID int64, scores Scores) (TransitionResult, error) {
	if err := authorizeAdmin(actor); err != nil {
		return TransitionResult{}, err
	}
	total, err := TotalScore(scores)
	if err != nil {
		return TransitionResult{}, err
	}
	res, err := c.transition(ctx, actor, ideaID, model.StatusApproved, func(i *model.Idea) {
		i.Impact = scores.Impact
		i.Feasibility = scores.Feasibility
		i.Innovation = scores.Innovation
		i.Strategic = scores.Strategic
		i.TotalScore = total
	})
	if err != nil || !res.Changed {
		return res, err
	}
	award, err := c.game.AwardFor(ctx, res.Idea.Submitter, EventIdeaApproved)
	if err != nil {
		log.Errorf("lifecycle: idea %d approved but %s was not credited: %v", ideaID, res.Idea.Submitter, err)
		return res, fmt.Errorf("idea %d approved, crediting %s failed: %w", ideaID, res.Idea.Submitter, err)
	}
	res.Award = &award
	return res, nil
}

// GrantPoints lets an admin credit a user directly, for example to re-drive
// an approval award whose credit failed.
func (c *Controller) GrantPoints(ctx context.Context, actor model.User, username string, amount int, reason string) (Award, error) {
	if err := authorizeAdmin(actor); err != nil {
		return Award{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Award{}, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	award, err := c.game.AwardPoints(ctx, username, amount, reason)
	if err != nil {
		return Award{}, err
	}
	log.Infof("lifecycle: %s granted %d points to %s (%s)", actor.Username, amount, username, reason)
	return award, nil
}

// Reject moves a New or Under Review idea to Rejected.  No scores are
// recorded and no points are awarded.
func (c *Controller) Reject(ctx context.Context, actor model.User, ideaID int64) (TransitionResult, error) {
	return c.transition(ctx, actor, ideaID, model.StatusRejected, nil)
}

// StartImplementation moves an Approved idea to In Progress.
func (c *Controller) StartImplementation(ctx context.Context, actor model.User, ideaID int64) (TransitionResult, error) {
	return c.transition(ctx, actor, ideaID, model.StatusInProgress, nil)
}

// MarkImplemented moves an In Progress idea to Implemented.
func (c *Controller) MarkImplemented(ctx context.Context, actor model.User, ideaID int64) (TransitionResult, error) {
	return c.transition(ctx, actor, ideaID, model.StatusImplemented, nil)
}

// Transition dispatches to the operation for target.  scores is required
// only when target is Approved.  New is never a valid destination: asking
// for it on an idea that has moved on is an invalid transition, and on a
// New idea it is a no-op.
func (c *Controller) Transition(ctx context.Context, actor model.User, ideaID int64, target model.Status, scores *Scores) (TransitionResult, error) {
	if !target.Valid() {
		return TransitionResult{}, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}
	switch target {
	case model.StatusNew:
		return c.transition(ctx, actor, ideaID, model.StatusNew, nil)
	case model.StatusUnderReview:
		return c.MarkUnderReview(ctx, actor, ideaID)
	case model.StatusApproved:
		if scores == nil {
			return TransitionResult{}, fmt.Errorf("%w: scores are required to approve", ErrValidation)
		}
		return c.Approve(ctx, actor, ideaID, *scores)
	case model.StatusRejected:
		return c.Reject(ctx, actor, ideaID)
	case model.StatusInProgress:
		return c.StartImplementation(ctx, actor, ideaID)
	case model.StatusImplemented:
		return c.MarkImplemented(ctx, actor, ideaID)
	}
	return TransitionResult{}, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
}

func (c *Controller) transition(ctx context.Context, actor model.User, ideaID int64, target model.Status, apply func(*model.Idea)) (TransitionResult, error) {
	if err := authorizeAdmin(actor); err != nil {
		return TransitionResult{}, err
	}
	var res TransitionResult
	err := c.store.UpdateIdeas(ctx, func(ideas []model.Idea) ([]model.Idea, error) {
		idx := findIdea(ideas, ideaID)
		if idx < 0 {
			return nil, fmt.Errorf("%w: idea %d", ErrNotFound, ideaID)
		}
		cur := ideas[idx]
		if cur.Status == target {
			res.Idea = cur
			return nil, repository.ErrNoChange
		}
		if !CanTransition(cur.Status, target) {
			return nil, fmt.Errorf("%w: idea %d is %s, cannot move to %s", ErrInvalidTransition, ideaID, cur.Status, target)
		}
		cur.Status = target
		if apply != nil {
			apply(&cur)
		}
		ideas[idx] = cur
		res.Idea = cur
		res.Changed = true
		return ideas, nil
	})
	if err != nil {
		return TransitionResult{}, err
	}
	if res.Changed {
		log.Infof("lifecycle: idea %d -> %s by %s", ideaID, target, actor.Username)
		publish(ctx, c.events, queue.ActivityEvent{
			Type:      queue.EventIdeaStatusChanged,
			IdeaID:    ideaID,
			IdeaTitle: res.Idea.Title,
			Username:  actor.Username,
			Status:    string(target),
		})
	}
	return res, nil
}

func findIdea(ideas []model.Idea, id int64) int {
	for i := range ideas {
		if ideas[i].ID == id {
			return i
		}
	}
	return -1
}
