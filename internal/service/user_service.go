package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Marga-Ghale/ora-projects/internal/db"
	"github.com/Marga-Ghale/ora-projects/internal/repository"
)

const (
	directoryCacheKey = "users:directory"
	directoryCacheTTL = 5 * time.Minute
)

// ============================================
// User Service
// ============================================

type UserService interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*repository.User, error)
	Update(ctx context.Context, id string, name *string) (*repository.User, error)
	UpdateLastActive(ctx context.Context, id string) error
	// Candidates lists every user except excludeID, ordered by name.
	Candidates(ctx context.Context, excludeID string) ([]*repository.User, error)
	InvalidateDirectory(ctx context.Context)
}

type userService struct {
	userRepo repository.UserRepository
	cache    *db.RedisDB
}

// NewUserService wires the user service. cache may be nil.
func NewUserService(userRepo repository.UserRepository, cache *db.RedisDB) UserService {
	return &userService{userRepo: userRepo, cache: cache}
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure("find user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetByIDs(ctx context.Context, ids []string) ([]*repository.User, error) {
	if len(ids) == 0 {
		return []*repository.User{}, nil
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeFailure("find users", err)
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, id string, name *string) (*repository.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, &ValidationError{Field: "name", Reason: "is required"}
		}
		user.Name = trimmed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storeFailure("update user", err)
	}
	s.InvalidateDirectory(ctx)
	return user, nil
}

func (s *userService) UpdateLastActive(ctx context.Context, id string) error {
	if err := s.userRepo.UpdateLastActive(ctx, id); err != nil {
		return storeFailure("update last active", err)
	}
	return nil
}

func (s *userService) Candidates(ctx context.Context, excludeID string) ([]*repository.User, error) {
	all, err := s.directory(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*repository.User, 0, len(all))
	for _, u := range all {
		if u.ID != excludeID {
			candidates = append(candidates, u)
		}
	}
	return candidates, nil
}

// directory returns every user, served from Redis when a fresh copy is cached.
func (s *userService) directory(ctx context.Context) ([]*repository.User, error) {
	if s.cache != nil {
		var cached []*repository.User
		err := s.cache.GetCache(ctx, directoryCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !db.IsMiss(err) {
			log.Printf("[Cache] ⚠️ Directory read failed: %v", err)
		}
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, storeFailure("list users", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, directoryCacheKey, users, directoryCacheTTL); err != nil {
			log.Printf("[Cache] ⚠️ Directory write failed: %v", err)
		}
	}
	return users, nil
}

func (s *userService) InvalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx, directoryCacheKey); err != nil {
		log.Printf("[Cache] ⚠️ Directory invalidation failed: %v", err)
	}
}
