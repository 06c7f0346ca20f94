package model

import (
	"fmt"
	"strings"
	"time"
)

// Comment mirrors the `comments` table.  Comments are never deleted.
type Comment struct {
	ID       int64     `json:"id"`
	IdeaID   int64     `json:"idea_id"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
	Likes    int       `json:"likes"`
}

// Validate checks the fixed schema of a comment row.
func (c Comment) Validate() error {
	switch {
	case c.ID <= 0:
		return fmt.Errorf("%w: comment id must be positive", ErrInvalidRow)
	case c.IdeaID <= 0:
		return fmt.Errorf("%w: comment %d: idea_id is required", ErrInvalidRow, c.ID)
	case strings.TrimSpace(c.Username) == "":
		return fmt.Errorf("%w: comment %d: username is required", ErrInvalidRow, c.ID)
	case strings.TrimSpace(c.Text) == "":
		return fmt.Errorf("%w: comment %d: text is required", ErrInvalidRow, c.ID)
	case c.Date.IsZero():
		return fmt.Errorf("%w: comment %d: date is required", ErrInvalidRow, c.ID)
	case c.Likes < 0:
		return fmt.Errorf("%w: comment %d: likes must be non-negative", ErrInvalidRow, c.ID)
	}
	return nil
}
