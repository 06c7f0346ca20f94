package repository

import (
	"strconv"

	"github.com/iliyamo/innovation-hub/internal/database"
	"github.com/iliyamo/innovation-hub/internal/model"
)

var ideaTable = tableDef[model.Idea]{
	name: database.TableIdeas,
	columns: []string{
		"id", "title", "description", "category", "problem", "solution",
		"benefits", "resources", "submitter", "submit_date", "status",
		"upvotes", "comments_count", "impact", "feasibility", "innovation",
		"strategic", "total_score", "tags", "cost_savings_cents", "revenue_impact_cents",
	},
	orderBy:  "id",
	key:      func(i model.Idea) string { return strconv.FormatInt(i.ID, 10) },
	validate: model.Idea.Validate,
	values: func(i model.Idea) []any {
		return []any{
			i.ID, i.Title, i.Description, string(i.Category), i.Problem, i.Solution,
			i.Benefits, i.Resources, i.Submitter, formatTime(i.SubmitDate), string(i.Status),
			i.Upvotes, i.CommentsCount, i.Impact, i.Feasibility, i.Innovation,
			i.Strategic, i.TotalScore, i.Tags, i.CostSavingsCents, i.RevenueImpactCents,
		}
	},
	scan: func(s scanner) (model.Idea, error) {
		var (
			i                model.Idea
			category, status string
			submitted        string
		)
		err := s.Scan(
			&i.ID, &i.Title, &i.Description, &category, &i.Problem, &i.Solution,
			&i.Benefits, &i.Resources, &i.Submitter, &submitted, &status,
			&i.Upvotes, &i.CommentsCount, &i.Impact, &i.Feasibility, &i.Innovation,
			&i.Strategic, &i.TotalScore, &i.Tags, &i.CostSavingsCents, &i.RevenueImpactCents,
		)
		if err != nil {
			return i, err
		}
		i.Category = model.Category(category)
		i.Status = model.Status(status)
		i.SubmitDate, err = parseTime(submitted)
		return i, err
	},
}

var userTable = tableDef[model.User]{
	name: database.TableUsers,
	columns: []string{
		"username", "password_hash", "email", "department", "role", "join_date", "points", "level",
	},
	orderBy:  "username",
	key:      func(u model.User) string { return u.Username },
	validate: model.User.Validate,
	values: func(u model.User) []any {
		return []any{
			u.Username, u.PasswordHash, u.Email, u.Department, string(u.Role), formatTime(u.JoinDate), u.Points, u.Level,
		}
	},
	scan: func(s scanner) (model.User, error) {
		var (
			u            model.User
			role, joined string
		)
		if err := s.Scan(&u.Username, &u.PasswordHash, &u.Email, &u.Department, &role, &joined, &u.Points, &u.Level); err != nil {
			return u, err
		}
		u.Role = model.Role(role)
		var err error
		u.JoinDate, err = parseTime(joined)
		return u, err
	},
}

var commentTable = tableDef[model.Comment]{
	name:     database.TableComments,
	columns:  []string{"id", "idea_id", "username", "text", "date", "likes"},
	orderBy:  "id",
	key:      func(c model.Comment) string { return strconv.FormatInt(c.ID, 10) },
	validate: model.Comment.Validate,
	values: func(c model.Comment) []any {
		return []any{c.ID, c.IdeaID, c.Username, c.Text, formatTime(c.Date), c.Likes}
	},
	scan: func(s scanner) (model.Comment, error) {
		var (
			c    model.Comment
			date string
		)
		if err := s.Scan(&c.ID, &c.IdeaID, &c.Username, &c.Text, &date, &c.Likes); err != nil {
			return c, err
		}
		var err error
		c.Date, err = parseTime(date)
		return c, err
	},
}
