package service

import (
	"errors"
	"fmt"

	"github.com/Marga-Ghale/ora-projects/internal/config"
	"github.com/Marga-Ghale/ora-projects/internal/db"
	"github.com/Marga-Ghale/ora-projects/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrStoreFailure       = errors.New("store failure")
)

// ValidationError rejects an operation because of missing or malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// StoreError wraps a persistence failure with the operation that hit it.
// errors.Is(err, ErrStoreFailure) matches every StoreError.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreFailure }

func storeFailure(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// Identity is the authenticated caller of a single operation.
type Identity struct {
	UserID string
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != ""
}

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth    AuthService
	User    UserService
	Project ProjectService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config *config.Config
	Repos  *repository.Repositories
	Redis  *db.RedisDB // optional
}

func NewServices(deps *ServiceDeps) *Services {
	userService := NewUserService(deps.Repos.UserRepo, deps.Redis)

	return &Services{
		Auth:    NewAuthService(deps.Config, deps.Repos.UserRepo, userService, deps.Redis),
		User:    userService,
		Project: NewProjectService(deps.Repos.ProjectRepo, userService),
	}
}
