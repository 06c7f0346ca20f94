package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Column widths of the VARCHAR columns that hold user input.
const (
	MaxTitleLen      = 255
	MaxUsernameLen   = 64
	MaxEmailLen      = 255
	MaxDepartmentLen = 128
)

// TooLong reports whether s has more than max characters.
func TooLong(s string, max int) bool { return utf8.RuneCountInString(s) > max }

// Status is the lifecycle stage of an idea.  Values are stored verbatim in
// the ideas.status column.
type Status string

const (
	StatusNew         Status = "New"
	StatusUnderReview Status = "Under Review"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
	StatusInProgress  Status = "In Progress"
	StatusImplemented Status = "Implemented"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusNew, StatusUnderReview, StatusApproved,
	StatusRejected, StatusInProgress, StatusImplemented,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Category is the enumerated idea category.
type Category string

const (
	CategoryProcess     Category = "Process Improvement"
	CategoryProduct     Category = "Product Innovation"
	CategoryCost        Category = "Cost Reduction"
	CategoryCustomer    Category = "Customer Experience"
	CategoryTechnology  Category = "Technology"
	CategorySustainable Category = "Sustainability"
	CategoryCulture     Category = "Workplace Culture"
	CategoryOther       Category = "Other"
)

// Categories lists the accepted categories in display order.
var Categories = []Category{
	CategoryProcess, CategoryProduct, CategoryCost, CategoryCustomer,
	CategoryTechnology, CategorySustainable, CategoryCulture, CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ErrInvalidRow is wrapped by every Validate failure so that the store can
// report schema violations uniformly.
var ErrInvalidRow = errors.New("invalid row")

// Idea is a submitted innovation proposal.  It mirrors the `ideas` table.
//
// Dimension scores are 0 until the idea has been evaluated; after approval
// all four are in [1,10] and TotalScore is their sum.  Monetary amounts are
// kept in cents.
type Idea struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Category           Category  `json:"category"`
	Problem            string    `json:"problem"`
	Solution           string    `json:"solution"`
	Benefits           string    `json:"benefits"`
	Resources          string    `json:"resources"`
	Submitter          string    `json:"submitter"`
	SubmitDate         time.Time `json:"submit_date"`
	Status             Status    `json:"status"`
	Upvotes            int       `json:"upvotes"`
	CommentsCount      int       `json:"comments_count"`
	Impact             int       `json:"impact"`
	Feasibility        int       `json:"feasibility"`
	Innovation         int       `json:"innovation"`
	Strategic          int       `json:"strategic"`
	TotalScore         int       `json:"total_score"`
	Tags               string    `json:"tags"`
	CostSavingsCents   int64     `json:"cost_savings_cents"`
	RevenueImpactCents int64     `json:"revenue_impact_cents"`
}

// Evaluated reports whether all four dimension scores have been recorded.
func (i Idea) Evaluated() bool {
	return i.Impact > 0 && i.Feasibility > 0 && i.Innovation > 0 && i.Strategic > 0
}

// Validate checks the fixed schema of an idea row.
func (i Idea) Validate() error {
	switch {
	case i.ID <= 0:
		return fmt.Errorf("%w: idea id must be positive", ErrInvalidRow)
	case strings.TrimSpace(i.Title) == "":
		return fmt.Errorf("%w: idea %d: title is required", ErrInvalidRow, i.ID)
	case TooLong(i.Title, MaxTitleLen):
		return fmt.Errorf("%w: idea %d: title longer than %d characters", ErrInvalidRow, i.ID, MaxTitleLen)
	case strings.TrimSpace(i.Description) == "":
		return fmt.Errorf("%w: idea %d: description is required", ErrInvalidRow, i.ID)
	case !i.Category.Valid():
		return fmt.Errorf("%w: idea %d: unknown category %q", ErrInvalidRow, i.ID, i.Category)
	case strings.TrimSpace(i.Submitter) == "":
		return fmt.Errorf("%w: idea %d: submitter is required", ErrInvalidRow, i.ID)
	case i.SubmitDate.IsZero():
		return fmt.Errorf("%w: idea %d: submit_date is required", ErrInvalidRow, i.ID)
	case !i.Status.Valid():
		return fmt.Errorf("%w: idea %d: unknown status %q", ErrInvalidRow, i.ID, i.Status)
	case i.Upvotes < 0 || i.CommentsCount < 0:
		return fmt.Errorf("%w: idea %d: counters must be non-negative", ErrInvalidRow, i.ID)
	case i.CostSavingsCents < 0 || i.RevenueImpactCents < 0:
		return fmt.Errorf("%w: idea %d: monetary amounts must be non-negative", ErrInvalidRow, i.ID)
	}
	scores := []int{i.Impact, i.Feasibility, i.Innovation, i.Strategic}
	zero := 0
	for _, s := range scores {
		if s < 0 || s > 10 {
			return fmt.Errorf("%w: idea %d: dimension score %d out of range", ErrInvalidRow, i.ID, s)
		}
		if s == 0 {
			zero++
		}
	}
	switch zero {
	case len(scores):
		if i.TotalScore != 0 {
			return fmt.Errorf("%w: idea %d: total_score set on unevaluated idea", ErrInvalidRow, i.ID)
		}
	case 0:
		if i.TotalScore != i.Impact+i.Feasibility+i.Innovation+i.Strategic {
			return fmt.Errorf("%w: idea %d: total_score does not match dimension scores", ErrInvalidRow, i.ID)
		}
	default:
		return fmt.Errorf("%w: idea %d: partially evaluated", ErrInvalidRow, i.ID)
	}
	return nil
}
