package service

import (
	"context"
	"errors"
	"log"

	"github.com/Marga-Ghale/ora-projects/internal/metrics"
	"github.com/Marga-Ghale/ora-projects/internal/models"
	"github.com/Marga-Ghale/ora-projects/internal/repository"
	"github.com/Marga-Ghale/ora-projects/internal/types"
	"github.com/google/uuid"
)

// ============================================
// Project Service
// ============================================

// MemberProject is a project the caller belongs to, with its manager resolved.
type MemberProject struct {
	Project *repository.Project
	Manager *repository.User // nil when the manager account no longer exists
}

type ProjectList struct {
	Archived bool
	Managed  []*repository.Project
	Member   []MemberProject
}

type ProjectDetail struct {
	Project *repository.Project
	Role    string
	Manager *repository.User
	Team    []*repository.User
}

type ProjectEdit struct {
	Project    *repository.Project
	Permission Permission
	Candidates []*repository.User // managers only
}

type ProjectService interface {
	List(ctx context.Context, identity Identity, archived bool) (*ProjectList, error)
	// NewForm returns the users that may be placed on a new project's team.
	NewForm(ctx context.Context, identity Identity) ([]*repository.User, error)
	Create(ctx context.Context, identity Identity, form models.ProjectForm) (string, error)
	View(ctx context.Context, identity Identity, projectID string) (*ProjectDetail, error)
	EditForm(ctx context.Context, identity Identity, projectID string) (*ProjectEdit, error)
	Update(ctx context.Context, identity Identity, projectID string, form models.ProjectForm) (*repository.Project, error)
	Delete(ctx context.Context, identity Identity, projectID string) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	users       UserService
	metrics     *metrics.Metrics
}

func NewProjectService(projectRepo repository.ProjectRepository, users UserService) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		users:       users,
		metrics:     metrics.Get(),
	}
}

func (s *projectService) List(ctx context.Context, identity Identity, archived bool) (*ProjectList, error) {
	if !identity.IsAuthenticated() {
		return nil, ErrUnauthorized
	}

	managed, err := s.projectRepo.FindByManager(ctx, identity.UserID, archived)
	if err != nil {
		return nil, storeFailure("list managed projects", err)
	}

	joined, err := s.projectRepo.FindByTeamMember(ctx, identity.UserID, archived)
	if err != nil {
		return nil, storeFailure("list member projects", err)
	}

	// A manager listed in their own team already sees the project under managed.
	memberOf := make([]*repository.Project, 0, len(joined))
	managerIDs := make([]string, 0, len(joined))
	seen := make(map[string]bool)
	for _, p := range joined {
		if Classify(identity, p) != types.RoleMember {
			continue
		}
		memberOf = append(memberOf, p)
		if !seen[p.ManagerID] {
			seen[p.ManagerID] = true
			managerIDs = append(managerIDs, p.ManagerID)
		}
	}

	managers, err := s.users.GetByIDs(ctx, managerIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*repository.User, len(managers))
	for _, u := range managers {
		byID[u.ID] = u
	}

	result := &ProjectList{
		Archived: archived,
		Managed:  managed,
		Member:   make([]MemberProject, 0, len(memberOf)),
	}
	for _, p := range memberOf {
		result.Member = append(result.Member, MemberProject{Project: p, Manager: byID[p.ManagerID]})
	}
	return result, nil
}

func (s *projectService) NewForm(ctx context.Context, identity Identity) ([]*repository.User, error) {
	if !identity.IsAuthenticated() {
		return nil, ErrUnauthorized
	}
	return s.users.Candidates(ctx, identity.UserID)
}

func (s *projectService) Create(ctx context.Context, identity Identity, form models.ProjectForm) (string, error) {
	if !identity.IsAuthenticated() {
		return "", ErrUnauthorized
	}

	// The creator becomes the manager of the new project.
	perm := Authorize(types.RoleManager, types.ActionCreate)
	s.metrics.RecordDecision(perm.Action, perm.Role, perm.Allowed)

	project, err := applyForm(&repository.Project{ManagerID: identity.UserID}, form, perm.Fields)
	if err != nil {
		return "", err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return "", storeFailure("create project", err)
	}

	log.Printf("[Project] ✅ Created project %s (manager %s)", project.ID, identity.UserID)
	return project.ID, nil
}

func (s *projectService) View(ctx context.Context, identity Identity, projectID string) (*ProjectDetail, error) {
	project, perm, err := s.authorize(ctx, identity, projectID, types.ActionView)
	if err != nil {
		return nil, err
	}

	ids := append([]string{project.ManagerID}, project.Team...)
	people, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*repository.User, len(people))
	for _, u := range people {
		byID[u.ID] = u
	}

	detail := &ProjectDetail{
		Project: project,
		Role:    perm.Role,
		Manager: byID[project.ManagerID],
		Team:    make([]*repository.User, 0, len(project.Team)),
	}
	for _, id := range project.Team {
		if u, ok := byID[id]; ok {
			detail.Team = append(detail.Team, u)
		}
	}
	return detail, nil
}

func (s *projectService) EditForm(ctx context.Context, identity Identity, projectID string) (*ProjectEdit, error) {
	project, perm, err := s.authorize(ctx, identity, projectID, types.ActionEdit)
	if err != nil {
		return nil, err
	}

	edit := &ProjectEdit{Project: project, Permission: perm}
	if perm.Role == types.RoleManager {
		edit.Candidates, err = s.users.Candidates(ctx, project.ManagerID)
		if err != nil {
			return nil, err
		}
	}
	return edit, nil
}

func (s *projectService) Update(ctx context.Context, identity Identity, projectID string, form models.ProjectForm) (*repository.Project, error) {
	project, perm, err := s.authorize(ctx, identity, projectID, types.ActionUpdate)
	if err != nil {
		return nil, err
	}

	next, err := applyForm(project, form, perm.Fields)
	if err != nil {
		return nil, err
	}

	switch perm.Role {
	case types.RoleManager:
		err = s.projectRepo.Update(ctx, next)
	default:
		err = s.projectRepo.UpdateCompletedTasks(ctx, next)
	}
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeFailure("update project", err)
	}

	log.Printf("[Project] ✅ Updated project %s as %s (user %s)", next.ID, perm.Role, identity.UserID)
	return next, nil
}

func (s *projectService) Delete(ctx context.Context, identity Identity, projectID string) error {
	project, _, err := s.authorize(ctx, identity, projectID, types.ActionDelete)
	if err != nil {
		return err
	}

	err = s.projectRepo.Delete(ctx, project.ID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storeFailure("delete project", err)
	}

	log.Printf("[Project] 🗑️ Deleted project %s (user %s)", project.ID, identity.UserID)
	return nil
}

// authorize loads the project and then checks the caller's role, in that order:
// a missing project is ErrNotFound for everyone.
func (s *projectService) authorize(ctx context.Context, identity Identity, projectID, action string) (*repository.Project, Permission, error) {
	if !identity.IsAuthenticated() {
		return nil, Permission{}, ErrUnauthorized
	}

	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, Permission{}, err
	}

	perm := Authorize(Classify(identity, project), action)
	s.metrics.RecordDecision(action, perm.Role, perm.Allowed)
	if !perm.Allowed {
		log.Printf("[Project] ⚠️ Denied %s on %s for user %s (role %s)", action, project.ID, identity.UserID, perm.Role)
		return nil, perm, ErrForbidden
	}
	return project, perm, nil
}

func (s *projectService) load(ctx context.Context, projectID string) (*repository.Project, error) {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, ErrNotFound
	}

	project, err := s.projectRepo.FindByID(ctx, id.String())
	if err != nil {
		return nil, storeFailure("find project", err)
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}
