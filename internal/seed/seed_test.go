package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/hogwarts/internal/app/models"
)

type memFaculties struct {
	rows      []*appModels.Faculty
	createErr map[string]error
}

func (m *memFaculties) FindAll(context.Context) ([]*appModels.Faculty, error) {
	return m.rows, nil
}

func (m *memFaculties) Create(_ context.Context, f *appModels.Faculty) (int64, error) {
	if err := m.createErr[f.Name]; err != nil {
		return 0, err
	}
	f.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, f)
	return f.ID, nil
}

func TestCreateDefaultData_EmptyDatabase(t *testing.T) {
	store := &memFaculties{}

	require.NoError(t, CreateDefaultData(context.Background(), store, zerolog.Nop()))

	require.Len(t, store.rows, 4)
	assert.Equal(t, "Gryffindor", store.rows[0].Name)
	assert.Equal(t, "green", store.rows[3].Color)
}

func TestCreateDefaultData_SkipsWhenFacultiesExist(t *testing.T) {
	store := &memFaculties{rows: []*appModels.Faculty{{ID: 1, Name: "Durmstrang", Color: "red"}}}

	require.NoError(t, CreateDefaultData(context.Background(), store, zerolog.Nop()))

	assert.Len(t, store.rows, 1)
}

func TestCreateDefaultData_CollectsErrors(t *testing.T) {
	boom := errors.New("boom")
	store := &memFaculties{createErr: map[string]error{"Ravenclaw": boom}}

	err := CreateDefaultData(context.Background(), store, zerolog.Nop())

	assert.ErrorIs(t, err, boom)
	assert.Len(t, store.rows, 3)
}
