package mcp

import (
	"context"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Any storage.Source
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, date string) (*models.Workout, error)
}

// Compile-time checks.
var (
	_ DataSource = (storage.Source)(nil)
	_ DataSource = (*HTTPClient)(nil)
)
