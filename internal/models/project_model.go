package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response models
type ProjectResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    *string          `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	CompletedTasks int              `json:"completedTasks"`
	StartDate      *time.Time       `json:"startDate,omitempty"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
	ManagerID      string           `json:"managerId"`
	Manager        *UserSummary     `json:"manager,omitempty"`
	Team           []string         `json:"team"`
	Archived       bool             `json:"archived"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type ProjectListResponse struct {
	Archived bool              `json:"archived"`
	Managed  []ProjectResponse `json:"managed"`
	Member   []ProjectResponse `json:"member"`
}

type ProjectDetailResponse struct {
	Project ProjectResponse `json:"project"`
	Role    string          `json:"role"`
	Team    []UserSummary   `json:"teamMembers"`
}

type ProjectEditResponse struct {
	Project    ProjectResponse `json:"project"`
	Role       string          `json:"role"`
	Fields     []string        `json:"fields"`
	Candidates []UserSummary   `json:"candidates,omitempty"`
}

type ProjectFormResponse struct {
	Candidates []UserSummary `json:"candidates"`
}
