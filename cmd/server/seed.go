package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/service"
)

// demoPassword is the password given to every seeded user.
const demoPassword = "password123"

// demoUsers are created by --seed.
var demoUsers = []service.Registration{
	{Name: "John Doe", Email: "john@example.com", Password: demoPassword},
	{Name: "Jane Smith", Email: "jane@example.com", Password: demoPassword},
	{Name: "Bob Johnson", Email: "bob@example.com", Password: demoPassword},
}

// seedDemoUsers registers the demo users. Users whose email is already
// registered are left untouched, so seeding can be repeated.
func seedDemoUsers(ctx context.Context, users service.UserService, logger *slog.Logger) error {
	created := 0
	for _, reg := range demoUsers {
		user, err := users.Register(ctx, reg)
		if errors.Is(err, service.ErrEmailTaken) {
			logger.Info("Seed user already exists", "email", reg.Email)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", reg.Email, err)
		}
		created++
		logger.Info("Seed user created", "email", user.Email, "user_id", user.ID)
	}

	logger.Info("Seeding completed", "created", created, "skipped", len(demoUsers)-created)
	return nil
}
