package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/hogwarts/internal/app/models"
)

// FacultyWriter is the part of the faculty repository the seeder needs.
type FacultyWriter interface {
	FindAll(ctx context.Context) ([]*appModels.Faculty, error)
	Create(ctx context.Context, faculty *appModels.Faculty) (int64, error)
}

// DefaultFaculties are the four houses created on an empty database.
var DefaultFaculties = []appModels.Faculty{
	{Name: "Gryffindor", Color: "red"},
	{Name: "Ravenclaw", Color: "blue"},
	{Name: "Hufflepuff", Color: "yellow"},
	{Name: "Slytherin", Color: "green"},
}

// CreateDefaultData creates the default faculties unless any faculty already exists.
func CreateDefaultData(ctx context.Context, faculties FacultyWriter, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Faculties)...")

	existing, err := faculties.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list faculties: %w", err)
	}
	if len(existing) > 0 {
		lgr.Info().Int("count", len(existing)).Msg("Faculties already present, skipping seed")
		return nil
	}

	var finalErr error // keep going so one failure doesn't hide the rest
	for _, f := range DefaultFaculties {
		faculty := f
		id, err := faculties.Create(ctx, &faculty)
		if err != nil {
			lgr.Error().Err(err).Str("name", faculty.Name).Msg("Error creating faculty")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Int64("id", id).Str("name", faculty.Name).Msg("Default faculty created")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
