package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrRecordNotFound is returned by writes that matched no row.
var ErrRecordNotFound = errors.New("record not found")

type Project struct {
	ID             string
	Title          string
	Description    *string
	Price          decimal.NullDecimal
	CompletedTasks int
	StartDate      *time.Time
	EndDate        *time.Time
	ManagerID      string
	Team           []string // user IDs; order carries no meaning
	Archived       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasMember reports whether userID is listed in the project's team.
func (p *Project) HasMember(userID string) bool {
	for _, id := range p.Team {
		if id == userID {
			return true
		}
	}
	return false
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	// FindByManager and FindByTeamMember return newest first.
	FindByManager(ctx context.Context, managerID string, archived bool) ([]*Project, error)
	FindByTeamMember(ctx context.Context, userID string, archived bool) ([]*Project, error)
	Update(ctx context.Context, project *Project) error
	UpdateCompletedTasks(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
}

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgProjectRepository{pool: pool}
}

const projectColumns = `id, title, description, price, completed_tasks, start_date, end_date,
		manager_id, team, archived, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	p := &Project{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.CompletedTasks, &p.StartDate, &p.EndDate,
		&p.ManagerID, &p.Team, &p.Archived, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Team == nil {
		p.Team = []string{}
	}
	return p, nil
}

func teamOrEmpty(team []string) []string {
	if team == nil {
		return []string{}
	}
	return team
}

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (title, description, price, completed_tasks, start_date, end_date, manager_id, team, archived)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	project.Team = teamOrEmpty(project.Team)
	return r.pool.QueryRow(ctx, query,
		project.Title, project.Description, project.Price, project.CompletedTasks,
		project.StartDate, project.EndDate, project.ManagerID, project.Team, project.Archived,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgProjectRepository) FindByManager(ctx context.Context, managerID string, archived bool) ([]*Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE manager_id = $1 AND archived = $2
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, managerID, archived)
}

func (r *pgProjectRepository) FindByTeamMember(ctx context.Context, userID string, archived bool) ([]*Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE $1 = ANY(team) AND archived = $2
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, userID, archived)
}

func (r *pgProjectRepository) list(ctx context.Context, query string, args ...any) ([]*Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]*Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET title = $2, description = $3, price = $4, completed_tasks = $5, start_date = $6,
		    end_date = $7, team = $8, archived = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	project.Team = teamOrEmpty(project.Team)
	err := r.pool.QueryRow(ctx, query,
		project.ID, project.Title, project.Description, project.Price, project.CompletedTasks,
		project.StartDate, project.EndDate, project.Team, project.Archived,
	).Scan(&project.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRecordNotFound
	}
	return err
}

func (r *pgProjectRepository) UpdateCompletedTasks(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects SET completed_tasks = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query, project.ID, project.CompletedTasks).Scan(&project.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRecordNotFound
	}
	return err
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}
