package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Marga-Ghale/ora-projects/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByIDs returns the users that exist, in the order of ids.
	FindByIDs(ctx context.Context, ids []string) ([]*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	UpdateLastActive(ctx context.Context, userID string) error
	UpdateStatusForInactive(ctx context.Context, inactiveDuration time.Duration) (int, error)
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID string) error
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int, error)
}

type pgUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepository{pool: pool}
}

const userColumns = `id, email, password, name, status, last_active_at, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.Name,
		&user.Status, &user.LastActiveAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password, name, status, last_active_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	user.LastActiveAt = &now
	if user.Status == "" {
		user.Status = types.UserOnline
	}
	return r.pool.QueryRow(ctx, query,
		user.Email, user.Password, user.Name, user.Status, now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*User, error) {
	if len(ids) == 0 {
		return []*User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::text[]::uuid[])`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*User, len(ids))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		byID[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make([]*User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *pgUserRepository) FindAll(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY name, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *pgUserRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users SET email = $2, name = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Email, user.Name, user.Status)
	return err
}

func (r *pgUserRepository) UpdateLastActive(ctx context.Context, userID string) error {
	query := `UPDATE users SET last_active_at = NOW(), status = 'online' WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func (r *pgUserRepository) UpdateStatusForInactive(ctx context.Context, inactiveDuration time.Duration) (int, error) {
	query := `
		UPDATE users SET status = 'away'
		WHERE status = 'online' AND last_active_at < $1
	`
	threshold := time.Now().Add(-inactiveDuration)
	tag, err := r.pool.Exec(ctx, query, threshold)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *pgUserRepository) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, token.Token, token.UserID, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
}

func (r *pgUserRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	query := `
		SELECT id, token, user_id, expires_at, created_at
		FROM refresh_tokens WHERE token = $1
	`
	rt := &RefreshToken{}
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *pgUserRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	return err
}

func (r *pgUserRepository) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return err
}

func (r *pgUserRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
