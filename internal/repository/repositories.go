package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	UserRepo    UserRepository
	ProjectRepo ProjectRepository
}

// NewRepositories creates PostgreSQL-backed repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:    NewUserRepository(pool),
		ProjectRepo: NewProjectRepository(pool),
	}
}

// NewInMemoryRepositories creates in-memory repositories (for testing/fallback)
func NewInMemoryRepositories() *Repositories {
	return &Repositories{
		UserRepo:    NewInMemoryUserRepository(),
		ProjectRepo: NewInMemoryProjectRepository(),
	}
}
