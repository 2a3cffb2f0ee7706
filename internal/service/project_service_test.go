package service

import (
	"context"
	"testing"

	"github.com/Marga-Ghale/ora-projects/internal/models"
	"github.com/Marga-Ghale/ora-projects/internal/repository"
	"github.com/Marga-Ghale/ora-projects/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectFixture struct {
	repos *repository.Repositories
	svc   ProjectService
	alice Identity
	bob   Identity
	carol Identity
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewInMemoryRepositories()

	mk := func(name string) Identity {
		u := &repository.User{Name: name, Email: name + "@example.com"}
		require.NoError(t, repos.UserRepo.Create(ctx, u))
		return Identity{UserID: u.ID}
	}

	return &projectFixture{
		repos: repos,
		svc:   NewProjectService(repos.ProjectRepo, NewUserService(repos.UserRepo, nil)),
		alice: mk("alice"),
		bob:   mk("bob"),
		carol: mk("carol"),
	}
}

func (f *projectFixture) create(t *testing.T, owner Identity, form models.ProjectForm) string {
	t.Helper()
	id, err := f.svc.Create(context.Background(), owner, form)
	require.NoError(t, err)
	return id
}

func (f *projectFixture) stored(t *testing.T, id string) *repository.Project {
	t.Helper()
	p, err := f.repos.ProjectRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func titled(title string) models.ProjectForm {
	return models.ProjectForm{Title: models.Value(title)}
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)

	t.Run("defaults", func(t *testing.T) {
		id := f.create(t, f.alice, titled("Website"))

		p := f.stored(t, id)
		assert.Equal(t, f.alice.UserID, p.ManagerID)
		assert.Empty(t, p.Team)
		assert.Equal(t, 0, p.CompletedTasks)
		assert.False(t, p.Price.Valid)
		assert.Nil(t, p.StartDate)
		assert.Nil(t, p.EndDate)
		assert.False(t, p.Archived)
	})

	t.Run("archived flag is not accepted on create", func(t *testing.T) {
		form := titled("Archived on arrival")
		form.Archived = models.Value("on")
		id := f.create(t, f.alice, form)
		assert.False(t, f.stored(t, id).Archived)
	})

	t.Run("missing title persists nothing", func(t *testing.T) {
		for _, form := range []models.ProjectForm{{}, titled("   ")} {
			_, err := f.svc.Create(ctx, f.carol, form)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, types.FieldTitle, verr.Field)
		}

		managed, err := f.repos.ProjectRepo.FindByManager(ctx, f.carol.UserID, false)
		require.NoError(t, err)
		assert.Empty(t, managed)
	})

	t.Run("malformed team persists nothing", func(t *testing.T) {
		form := titled("Bad team")
		form.Team = models.FieldList{f.bob.UserID, "not-a-user"}
		_, err := f.svc.Create(ctx, f.carol, form)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		managed, err := f.repos.ProjectRepo.FindByManager(ctx, f.carol.UserID, false)
		require.NoError(t, err)
		assert.Empty(t, managed)
	})

	t.Run("values outside the column range persist nothing", func(t *testing.T) {
		overflow := titled("Overflow")
		overflow.CompletedTasks = models.Value("3000000000")
		huge := titled("Huge price")
		huge.Price = models.Value("3000000000e10")
		fine := titled("Sub-cent price")
		fine.Price = models.Value("1.239")

		for _, form := range []models.ProjectForm{overflow, huge, fine} {
			_, err := f.svc.Create(ctx, f.carol, form)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr, form.Title.Text)
		}

		managed, err := f.repos.ProjectRepo.FindByManager(ctx, f.carol.UserID, false)
		require.NoError(t, err)
		assert.Empty(t, managed)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := f.svc.Create(ctx, Identity{}, titled("x"))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)

	teamBob := titled("Shared")
	teamBob.Team = models.FieldList{f.bob.UserID}

	older := f.create(t, f.alice, titled("Older"))
	shared := f.create(t, f.alice, teamBob)
	selfListed := titled("Self listed")
	selfListed.Team = models.FieldList{f.alice.UserID, f.bob.UserID}
	self := f.create(t, f.alice, selfListed)

	archived := f.create(t, f.alice, teamBob)
	archiveForm := teamBob
	archiveForm.Archived = models.Value("on")
	_, err := f.svc.Update(ctx, f.alice, archived, archiveForm)
	require.NoError(t, err)

	t.Run("manager active", func(t *testing.T) {
		list, err := f.svc.List(ctx, f.alice, false)
		require.NoError(t, err)
		require.Len(t, list.Managed, 3)
		assert.Equal(t, []string{self, shared, older}, projectIDs(list.Managed))
		assert.Empty(t, list.Member, "projects the caller manages are not repeated as memberships")
		for _, p := range list.Managed {
			assert.False(t, p.Archived)
		}
	})

	t.Run("manager archived", func(t *testing.T) {
		list, err := f.svc.List(ctx, f.alice, true)
		require.NoError(t, err)
		assert.True(t, list.Archived)
		assert.Equal(t, []string{archived}, projectIDs(list.Managed))
	})

	t.Run("member sees manager", func(t *testing.T) {
		list, err := f.svc.List(ctx, f.bob, false)
		require.NoError(t, err)
		assert.Empty(t, list.Managed)
		require.Len(t, list.Member, 2)
		assert.Equal(t, self, list.Member[0].Project.ID)
		assert.Equal(t, shared, list.Member[1].Project.ID)
		require.NotNil(t, list.Member[0].Manager)
		assert.Equal(t, "alice", list.Member[0].Manager.Name)
	})

	t.Run("stranger sees nothing", func(t *testing.T) {
		list, err := f.svc.List(ctx, f.carol, false)
		require.NoError(t, err)
		assert.Empty(t, list.Managed)
		assert.Empty(t, list.Member)
	})
}

func projectIDs(projects []*repository.Project) []string {
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProjectService_NewForm(t *testing.T) {
	f := newProjectFixture(t)

	candidates, err := f.svc.NewForm(context.Background(), f.alice)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "bob", candidates[0].Name)
	assert.Equal(t, "carol", candidates[1].Name)
}

func TestProjectService_ViewAndEditForm(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)

	form := titled("Docs")
	form.Team = models.FieldList{f.bob.UserID, uuid.NewString()}
	id := f.create(t, f.alice, form)

	t.Run("manager", func(t *testing.T) {
		detail, err := f.svc.View(ctx, f.alice, id)
		require.NoError(t, err)
		assert.Equal(t, types.RoleManager, detail.Role)
		require.NotNil(t, detail.Manager)
		assert.Equal(t, "alice", detail.Manager.Name)
		require.Len(t, detail.Team, 1, "unknown team ids are skipped")
		assert.Equal(t, "bob", detail.Team[0].Name)

		edit, err := f.svc.EditForm(ctx, f.alice, id)
		require.NoError(t, err)
		assert.Equal(t, types.ManagerFields, edit.Permission.Fields)
		require.Len(t, edit.Candidates, 2)
		for _, c := range edit.Candidates {
			assert.NotEqual(t, f.alice.UserID, c.ID)
		}
	})

	t.Run("member", func(t *testing.T) {
		detail, err := f.svc.View(ctx, f.bob, id)
		require.NoError(t, err)
		assert.Equal(t, types.RoleMember, detail.Role)

		edit, err := f.svc.EditForm(ctx, f.bob, id)
		require.NoError(t, err)
		assert.Equal(t, types.MemberFields, edit.Permission.Fields)
		assert.Empty(t, edit.Candidates)
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := f.svc.View(ctx, f.carol, id)
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = f.svc.EditForm(ctx, f.carol, id)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestProjectService_NotFoundBeforeRole(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid", ""} {
		for _, who := range []Identity{f.alice, f.carol} {
			_, err := f.svc.View(ctx, who, id)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = f.svc.EditForm(ctx, who, id)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = f.svc.Update(ctx, who, id, titled("x"))
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, f.svc.Delete(ctx, who, id), ErrNotFound)
		}
	}
}

func TestProjectService_ManagerUpdate(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)

	id := f.create(t, f.alice, titled("Launch"))

	form := models.ProjectForm{
		Title:          models.Value("Launch v2"),
		Description:    models.Value("second pass"),
		Price:          models.Value("99.90"),
		CompletedTasks: models.Value("4"),
		StartDate:      models.Value("2024-01-10"),
		EndDate:        models.Value("2024-02-10"),
		Team:           models.FieldList{f.bob.UserID},
		Archived:       models.Value("on"),
	}
	updated, err := f.svc.Update(ctx, f.alice, id, form)
	require.NoError(t, err)
	assert.Equal(t, "Launch v2", updated.Title)

	p := f.stored(t, id)
	assert.Equal(t, "Launch v2", p.Title)
	require.NotNil(t, p.Description)
	assert.Equal(t, "second pass", *p.Description)
	assert.Equal(t, "99.9", p.Price.Decimal.String())
	assert.Equal(t, 4, p.CompletedTasks)
	require.NotNil(t, p.StartDate)
	assert.Equal(t, "2024-01-10", p.StartDate.Format("2006-01-02"))
	assert.Equal(t, []string{f.bob.UserID}, p.Team)
	assert.True(t, p.Archived)

	t.Run("absent archived flag unarchives", func(t *testing.T) {
		form.Archived = models.FieldValue{}
		_, err := f.svc.Update(ctx, f.alice, id, form)
		require.NoError(t, err)
		assert.False(t, f.stored(t, id).Archived)
	})

	t.Run("invalid input changes nothing", func(t *testing.T) {
		before := f.stored(t, id)
		bad := form
		bad.Title = models.Value("Should not stick")
		bad.CompletedTasks = models.Value("-1")
		_, err := f.svc.Update(ctx, f.alice, id, bad)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, before, f.stored(t, id))
	})
}

func TestProjectService_MemberUpdateWhitelist(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)

	form := titled("Original")
	form.Description = models.Value("keep me")
	form.Price = models.Value("10")
	form.StartDate = models.Value("2024-05-01")
	form.Team = models.FieldList{f.bob.UserID}
	id := f.create(t, f.alice, form)
	before := f.stored(t, id)

	hostile := models.ProjectForm{
		Title:          models.Value("Hijacked"),
		Description:    models.Value(""),
		Price:          models.Value("not a number"),
		CompletedTasks: models.Value("3"),
		StartDate:      models.Value("garbage"),
		EndDate:        models.Value("2030-01-01"),
		Team:           models.FieldList{f.carol.UserID},
		Archived:       models.Value("on"),
	}
	_, err := f.svc.Update(ctx, f.bob, id, hostile)
	require.NoError(t, err)

	after := f.stored(t, id)
	assert.Equal(t, 3, after.CompletedTasks)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Description, after.Description)
	assert.Equal(t, before.Price, after.Price)
	assert.Equal(t, before.StartDate, after.StartDate)
	assert.Equal(t, before.EndDate, after.EndDate)
	assert.Equal(t, before.Team, after.Team)
	assert.Equal(t, before.Archived, after.Archived)

	t.Run("empty progress resets to zero", func(t *testing.T) {
		_, err := f.svc.Update(ctx, f.bob, id, models.ProjectForm{})
		require.NoError(t, err)
		assert.Equal(t, 0, f.stored(t, id).CompletedTasks)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		_, err := f.svc.Update(ctx, f.carol, id, models.ProjectForm{CompletedTasks: models.Value("8")})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, 0, f.stored(t, id).CompletedTasks)
	})
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)

	form := titled("Doomed")
	form.Team = models.FieldList{f.bob.UserID}
	id := f.create(t, f.alice, form)
	before := f.stored(t, id)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.bob, id), ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.carol, id), ErrForbidden)
	assert.Equal(t, before, f.stored(t, id))

	require.NoError(t, f.svc.Delete(ctx, f.alice, id))
	_, err := f.svc.View(ctx, f.alice, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectService_ManagerMemberScenario(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t)
	a, b := f.alice, f.bob

	form := titled("P")
	form.Description = models.Value("shared work")
	form.Price = models.Value("500")
	id := f.create(t, a, form)

	form.Team = models.FieldList{b.UserID}
	_, err := f.svc.Update(ctx, a, id, form)
	require.NoError(t, err)
	before := f.stored(t, id)

	_, err = f.svc.Update(ctx, b, id, models.ProjectForm{CompletedTasks: models.Value("5")})
	require.NoError(t, err)

	after := f.stored(t, id)
	assert.Equal(t, 5, after.CompletedTasks)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Description, after.Description)
	assert.Equal(t, before.Price, after.Price)
	assert.Equal(t, before.Team, after.Team)
	assert.Equal(t, before.Archived, after.Archived)
	assert.Equal(t, before.ManagerID, after.ManagerID)

	assert.ErrorIs(t, f.svc.Delete(ctx, b, id), ErrForbidden)
	assert.NotNil(t, f.stored(t, id))
}
