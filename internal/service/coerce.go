package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Marga-Ghale/ora-projects/internal/models"
	"github.com/Marga-Ghale/ora-projects/internal/repository"
	"github.com/Marga-Ghale/ora-projects/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Bounds of the projects columns: price NUMERIC(12, 2), completed_tasks INTEGER.
const priceScale = 2

var priceLimit = decimal.New(1, 10)

// applyForm coerces the permitted fields of form onto a copy of base. The copy is
// returned only when every permitted field coerced cleanly; base is never touched.
func applyForm(base *repository.Project, form models.ProjectForm, fields []string) (*repository.Project, error) {
	next := *base
	next.Team = append([]string{}, base.Team...)

	for _, field := range fields {
		var err error
		switch field {
		case types.FieldTitle:
			next.Title, err = coerceTitle(form.Title)
		case types.FieldDescription:
			next.Description = coerceText(form.Description)
		case types.FieldPrice:
			next.Price, err = coercePrice(form.Price)
		case types.FieldCompletedTasks:
			next.CompletedTasks, err = coerceCount(form.CompletedTasks)
		case types.FieldStartDate:
			next.StartDate, err = coerceDate(types.FieldStartDate, form.StartDate)
		case types.FieldEndDate:
			next.EndDate, err = coerceDate(types.FieldEndDate, form.EndDate)
		case types.FieldTeam:
			next.Team, err = coerceTeam(form.Team)
		case types.FieldArchived:
			next.Archived = coerceCheckbox(form.Archived)
		}
		if err != nil {
			return nil, err
		}
	}

	return &next, nil
}

func coerceTitle(v models.FieldValue) (string, error) {
	title := strings.TrimSpace(v.Text)
	if title == "" {
		return "", &ValidationError{Field: types.FieldTitle, Reason: "is required"}
	}
	return title, nil
}

func coerceText(v models.FieldValue) *string {
	if v.Text == "" {
		return nil
	}
	s := v.Text
	return &s
}

// coercePrice: empty means unset.
func coercePrice(v models.FieldValue) (decimal.NullDecimal, error) {
	raw := strings.TrimSpace(v.Text)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, &ValidationError{Field: types.FieldPrice, Reason: "must be a number"}
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, &ValidationError{Field: types.FieldPrice, Reason: "must not be negative"}
	}
	if !d.Equal(d.Truncate(priceScale)) {
		return decimal.NullDecimal{}, &ValidationError{Field: types.FieldPrice, Reason: "must have at most 2 decimal places"}
	}
	if d.GreaterThanOrEqual(priceLimit) {
		return decimal.NullDecimal{}, &ValidationError{Field: types.FieldPrice, Reason: "must be less than 10000000000"}
	}
	return decimal.NewNullDecimal(d), nil
}

// coerceCount: empty means zero.
func coerceCount(v models.FieldValue) (int, error) {
	raw := strings.TrimSpace(v.Text)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &ValidationError{Field: types.FieldCompletedTasks, Reason: "is too large"}
	}
	if err != nil {
		return 0, &ValidationError{Field: types.FieldCompletedTasks, Reason: "must be a whole number"}
	}
	if n < 0 {
		return 0, &ValidationError{Field: types.FieldCompletedTasks, Reason: "must not be negative"}
	}
	return int(n), nil
}

func coerceDate(field string, v models.FieldValue) (*time.Time, error) {
	raw := strings.TrimSpace(v.Text)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "must be a date (YYYY-MM-DD)"}
	}
	t = t.UTC()
	return &t, nil
}

func coerceTeam(values models.FieldList) ([]string, error) {
	team := make([]string, 0, len(values))
	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &ValidationError{Field: types.FieldTeam, Reason: "contains an invalid user id"}
		}
		team = append(team, id.String())
	}
	return team, nil
}

// coerceCheckbox follows HTML checkbox semantics: absent is false.
func coerceCheckbox(v models.FieldValue) bool {
	switch strings.ToLower(strings.TrimSpace(v.Text)) {
	case "on", "true", "1":
		return true
	}
	return false
}
