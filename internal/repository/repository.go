// internal/repository/repository.go
package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Marga-Ghale/ora-projects/internal/types"
	"github.com/google/uuid"
)

// ============================================
// In-Memory Repository Implementations (Fallback)
// ============================================

// Records are copied on the way in and out so callers never share state with the store.

// In-memory User Repository
type inMemoryUserRepository struct {
	mu            sync.RWMutex
	users         map[string]*User
	refreshTokens map[string]*RefreshToken
}

func NewInMemoryUserRepository() UserRepository {
	return &inMemoryUserRepository{
		users:         make(map[string]*User),
		refreshTokens: make(map[string]*RefreshToken),
	}
}

func cloneUser(u *User) *User {
	c := *u
	if u.LastActiveAt != nil {
		t := *u.LastActiveAt
		c.LastActiveAt = &t
	}
	return &c
}

func (r *inMemoryUserRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastActiveAt = &now
	if user.Status == "" {
		user.Status = types.UserOnline
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *inMemoryUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if user, ok := r.users[id]; ok {
		return cloneUser(user), nil
	}
	return nil, nil
}

func (r *inMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, cloneUser(user))
		}
	}
	return users, nil
}

func (r *inMemoryUserRepository) FindAll(ctx context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *inMemoryUserRepository) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return nil
	}
	user.UpdatedAt = time.Now()
	updated := cloneUser(user)
	updated.Password = existing.Password
	r.users[user.ID] = updated
	return nil
}

func (r *inMemoryUserRepository) UpdateLastActive(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[userID]; ok {
		now := time.Now()
		user.LastActiveAt = &now
		user.Status = types.UserOnline
	}
	return nil
}

func (r *inMemoryUserRepository) UpdateStatusForInactive(ctx context.Context, inactiveDuration time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	threshold := time.Now().Add(-inactiveDuration)
	count := 0
	for _, user := range r.users {
		if user.Status == types.UserOnline && user.LastActiveAt != nil && user.LastActiveAt.Before(threshold) {
			user.Status = types.UserAway
			count++
		}
	}
	return count, nil
}

func (r *inMemoryUserRepository) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token.ID = uuid.New().String()
	token.CreatedAt = time.Now()
	c := *token
	r.refreshTokens[token.Token] = &c
	return nil
}

func (r *inMemoryUserRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rt, ok := r.refreshTokens[token]; ok {
		c := *rt
		return &c, nil
	}
	return nil, nil
}

func (r *inMemoryUserRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.refreshTokens, token)
	return nil
}

func (r *inMemoryUserRepository) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, rt := range r.refreshTokens {
		if rt.UserID == userID {
			delete(r.refreshTokens, token)
		}
	}
	return nil
}

func (r *inMemoryUserRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for token, rt := range r.refreshTokens {
		if rt.ExpiresAt.Before(now) {
			delete(r.refreshTokens, token)
			count++
		}
	}
	return count, nil
}

// Project in-memory
type inMemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*Project
	lastAt   time.Time
}

func NewInMemoryProjectRepository() ProjectRepository {
	return &inMemoryProjectRepository{
		projects: make(map[string]*Project),
	}
}

func cloneProject(p *Project) *Project {
	c := *p
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	if p.StartDate != nil {
		t := *p.StartDate
		c.StartDate = &t
	}
	if p.EndDate != nil {
		t := *p.EndDate
		c.EndDate = &t
	}
	c.Team = append([]string{}, p.Team...)
	return &c
}

// now returns a strictly increasing timestamp so creation order is total.
func (r *inMemoryProjectRepository) now() time.Time {
	t := time.Now()
	if !t.After(r.lastAt) {
		t = r.lastAt.Add(time.Nanosecond)
	}
	r.lastAt = t
	return t
}

func (r *inMemoryProjectRepository) Create(ctx context.Context, project *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	project.ID = uuid.New().String()
	project.CreatedAt = now
	project.UpdatedAt = now
	project.Team = teamOrEmpty(project.Team)
	r.projects[project.ID] = cloneProject(project)
	return nil
}

func (r *inMemoryProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.projects[id]; ok {
		return cloneProject(p), nil
	}
	return nil, nil
}

func (r *inMemoryProjectRepository) FindByManager(ctx context.Context, managerID string, archived bool) ([]*Project, error) {
	return r.filter(func(p *Project) bool {
		return p.ManagerID == managerID && p.Archived == archived
	}), nil
}

func (r *inMemoryProjectRepository) FindByTeamMember(ctx context.Context, userID string, archived bool) ([]*Project, error) {
	return r.filter(func(p *Project) bool {
		return p.HasMember(userID) && p.Archived == archived
	}), nil
}

func (r *inMemoryProjectRepository) filter(match func(*Project) bool) []*Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Project, 0, len(r.projects))
	for _, p := range r.projects {
		if match(p) {
			result = append(result, cloneProject(p))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (r *inMemoryProjectRepository) Update(ctx context.Context, project *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.projects[project.ID]
	if !ok {
		return ErrRecordNotFound
	}
	project.UpdatedAt = r.now()
	updated := cloneProject(project)
	updated.Team = teamOrEmpty(updated.Team)
	updated.ManagerID = existing.ManagerID
	updated.CreatedAt = existing.CreatedAt
	r.projects[project.ID] = updated
	return nil
}

func (r *inMemoryProjectRepository) UpdateCompletedTasks(ctx context.Context, project *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.projects[project.ID]
	if !ok {
		return ErrRecordNotFound
	}
	existing.CompletedTasks = project.CompletedTasks
	existing.UpdatedAt = r.now()
	project.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *inMemoryProjectRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.projects, id)
	return nil
}
