package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/service"
)

// IdeaHandler serves idea browsing, submission, upvotes and comments.
type IdeaHandler struct {
	Ideas *service.Controller
}

// NewIdeaHandler constructs an IdeaHandler and panics on a nil controller.
func NewIdeaHandler(ctrl *service.Controller) *IdeaHandler {
	if ctrl == nil {
		panic("nil controller passed to NewIdeaHandler")
	}
	return &IdeaHandler{Ideas: ctrl}
}

// List returns ideas newest first, filtered by the optional status,
// category, submitter and q query parameters.
func (h *IdeaHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	ideas, err := h.Ideas.ListIdeas(ctx, service.IdeaFilter{
		Status:    model.Status(c.QueryParam("status")),
		Category:  model.Category(c.QueryParam("category")),
		Submitter: c.QueryParam("submitter"),
		Search:    c.QueryParam("q"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ideas": ideas, "count": len(ideas)})
}

// Top returns evaluated ideas in scoring order; limit defaults to 10.
func (h *IdeaHandler) Top(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	ideas, err := h.Ideas.TopIdeas(ctx, queryInt(c, "limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ideas": ideas})
}

// Get returns a single idea.
func (h *IdeaHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	idea, err := h.Ideas.GetIdea(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, idea)
}

type submitReq struct {
	service.IdeaDraft
	Enhance bool `json:"enhance"`
}

// Submit creates a New idea owned by the caller.  With "enhance": true the
// description is rewritten by the assistant first; a failed rewrite is
// reported in enhance_error and the original description is kept.
func (h *IdeaHandler) Submit(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	// Enhancement may wait on the completion service far longer than the
	// store timeout, so only the request context bounds it.
	res, err := h.Ideas.SubmitIdea(c.Request().Context(), u, req.IdeaDraft, req.Enhance)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Upvote adds one upvote to the idea and credits its submitter.
func (h *IdeaHandler) Upvote(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Ideas.Upvote(ctx, u, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Comments lists an idea's comments oldest first.
func (h *IdeaHandler) Comments(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	comments, err := h.Ideas.Comments(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

type commentReq struct {
	Text string `json:"text"`
}

// PostComment appends a comment authored by the caller.
func (h *IdeaHandler) PostComment(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Ideas.PostComment(ctx, u, id, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// LikeComment increments a comment's like counter.
func (h *IdeaHandler) LikeComment(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	cm, err := h.Ideas.LikeComment(ctx, u, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cm)
}
