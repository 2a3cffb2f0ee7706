// internal/seed/seed.go
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Marga-Ghale/ora-projects/internal/models"
	"github.com/Marga-Ghale/ora-projects/internal/service"
)

const seedPassword = "password123"

type seedUser struct {
	name  string
	email string
}

var seedUsers = []seedUser{
	{"Marga Ghale", "marga.ghale@oratechnologies.io"},
	{"Bipin Dhimal", "bipin.dhimal@oratechnologies.io"},
	{"Kritim Kafle", "kritim.kafle@oratechnologies.io"},
	{"Prerak Khadka", "prerak.khadka@oratechnologies.io"},
}

// SeedData creates demo users and projects covering manager, member and archived
// combinations. It is a no-op when the first demo user already exists.
func SeedData(ctx context.Context, services *service.Services) error {
	log.Println("[Seed] 🌱 Creating initial data...")

	// ============================================
	// CREATE USERS
	// ============================================
	ids := make([]string, 0, len(seedUsers))
	for i, u := range seedUsers {
		user, _, _, err := services.Auth.Register(ctx, u.name, u.email, seedPassword)
		if errors.Is(err, service.ErrUserExists) && i == 0 {
			log.Println("[Seed] Data already exists, skipping...")
			return nil
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
		ids = append(ids, user.ID)
	}
	marga, bipin, kritim, prerak := ids[0], ids[1], ids[2], ids[3]
	log.Printf("[Seed] ✅ Created %d users (password %q)", len(ids), seedPassword)

	// ============================================
	// CREATE PROJECTS
	// ============================================
	projects := []struct {
		manager string
		form    models.ProjectForm
	}{
		{marga, models.ProjectForm{
			Title:       models.Value("ORA Website Relaunch"),
			Description: models.Value("Marketing site rebuild with the new brand"),
			Price:       models.Value("4500"),
			StartDate:   models.Value("2024-01-15"),
			EndDate:     models.Value("2024-04-30"),
			Team:        models.FieldList{bipin, kritim},
		}},
		{marga, models.ProjectForm{
			Title:          models.Value("Legacy CRM Migration"),
			Description:    models.Value("Finished last quarter"),
			CompletedTasks: models.Value("42"),
			Team:           models.FieldList{prerak},
			Archived:       models.Value("on"),
		}},
		{bipin, models.ProjectForm{
			Title: models.Value("Mobile App MVP"),
			Price: models.Value("12000.00"),
			Team:  models.FieldList{marga, prerak},
		}},
		{kritim, models.ProjectForm{
			Title: models.Value("Internal Tooling"),
		}},
	}

	for _, p := range projects {
		owner := service.Identity{UserID: p.manager}
		id, err := services.Project.Create(ctx, owner, p.form)
		if err != nil {
			return fmt.Errorf("seed project: %w", err)
		}
		// Create never archives; a manager update applies the flag.
		if p.form.Archived.Present {
			if _, err := services.Project.Update(ctx, owner, id, p.form); err != nil {
				return fmt.Errorf("archive seed project: %w", err)
			}
		}
	}

	log.Printf("[Seed] ✅ Created %d projects", len(projects))
	return nil
}
