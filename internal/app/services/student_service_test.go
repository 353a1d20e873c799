package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hogwarts/internal/app/models/dto"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
)

func createStudent(t *testing.T, f *fixture, name string, age int, facultyID *int64) *dto.StudentResponse {
	t.Helper()
	resp, err := f.student.CreateStudent(context.Background(), &dto.CreateStudentRequest{Name: name, Age: age, FacultyID: facultyID})
	require.NoError(t, err)
	return resp
}

func TestStudentService_CreateWithoutFaculty(t *testing.T) {
	f := newFixture()

	created := createStudent(t, f, "Harry Potter", 11, nil)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Harry Potter", created.Name)
	assert.Equal(t, 11, created.Age)
	assert.Nil(t, created.Faculty)
	assert.Nil(t, created.Avatar)
}

func TestStudentService_CreateWithZeroFaculty(t *testing.T) {
	f := newFixture()
	facultyID := int64(0)

	_, err := f.student.CreateStudent(context.Background(), &dto.CreateStudentRequest{Name: "Nobody", Age: 11, FacultyID: &facultyID})

	assert.EqualError(t, err, "Факультет с id = 0 не найден")
}

func TestStudentService_CreateWithMissingFaculty(t *testing.T) {
	f := newFixture()
	facultyID := int64(15)

	_, err := f.student.CreateStudent(context.Background(), &dto.CreateStudentRequest{Name: "Nobody", Age: 11, FacultyID: &facultyID})

	assert.EqualError(t, err, "Факультет с id = 15 не найден")
	count, err := f.student.CountAllStudentsInTheSchool(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStudentService_CreateWithFacultyNestsIt(t *testing.T) {
	f := newFixture()
	faculty := createFaculty(t, f, "Gryffindor", "red")

	created := createStudent(t, f, "Ron", 11, &faculty.ID)

	require.NotNil(t, created.Faculty)
	assert.Equal(t, faculty, created.Faculty)
}

func TestStudentService_GetMissing(t *testing.T) {
	_, err := newFixture().student.GetStudent(context.Background(), 2)

	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.EqualError(t, err, "Студент с id = 2 не найден")
}

func TestStudentService_UpdateMergesAndReassignsFaculty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	gryffindor := createFaculty(t, f, "Gryffindor", "red")
	ravenclaw := createFaculty(t, f, "Ravenclaw", "blue")
	student := createStudent(t, f, "Luna", 11, &gryffindor.ID)

	age := 12
	updated, err := f.student.UpdateStudent(ctx, student.ID, &dto.UpdateStudentRequest{Age: &age, FacultyID: &ravenclaw.ID})
	require.NoError(t, err)
	assert.Equal(t, "Luna", updated.Name)
	assert.Equal(t, 12, updated.Age)
	require.NotNil(t, updated.Faculty)
	assert.Equal(t, "Ravenclaw", updated.Faculty.Name)

	faculty, err := f.student.GetFacultyForStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, ravenclaw, faculty)
}

func TestStudentService_UpdateWithMissingFaculty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	student := createStudent(t, f, "Neville", 11, nil)

	facultyID := int64(99)
	_, err := f.student.UpdateStudent(ctx, student.ID, &dto.UpdateStudentRequest{FacultyID: &facultyID})
	assert.EqualError(t, err, "Факультет с id = 99 не найден")

	reloaded, err := f.student.GetStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Faculty)
}

func TestStudentService_UpdateMissingStudent(t *testing.T) {
	name := "x"
	_, err := newFixture().student.UpdateStudent(context.Background(), 4, &dto.UpdateStudentRequest{Name: &name})
	assert.EqualError(t, err, "Студент с id = 4 не найден")
}

func TestStudentService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	student := createStudent(t, f, "Cedric", 17, nil)

	deleted, err := f.student.DeleteStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, student, deleted)

	_, err = f.student.GetStudent(ctx, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.student.DeleteStudent(ctx, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestStudentService_FindAllAndAgeFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	createStudent(t, f, "A", 10, nil)
	createStudent(t, f, "B", 12, nil)
	createStudent(t, f, "C", 15, nil)

	all, err := f.student.FindAllStudents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	age := 12
	exact, err := f.student.FindAllStudents(ctx, &age)
	require.NoError(t, err)
	require.Len(t, exact, 1)
	assert.Equal(t, "B", exact[0].Name)

	between, err := f.student.FindByAgeBetween(ctx, 10, 12)
	require.NoError(t, err)
	assert.Len(t, between, 2)

	inverted, err := f.student.FindByAgeBetween(ctx, 20, 10)
	require.NoError(t, err)
	assert.Empty(t, inverted)
}

func TestStudentService_GetFacultyForStudentWithoutFaculty(t *testing.T) {
	f := newFixture()
	student := createStudent(t, f, "Loner", 11, nil)

	_, err := f.student.GetFacultyForStudent(context.Background(), student.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestStudentService_Aggregates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	avg, err := f.student.GetAverageAgeOfStudentsInMemory(ctx)
	require.NoError(t, err)
	assert.Zero(t, avg)

	createStudent(t, f, "A", 10, nil)
	createStudent(t, f, "B", 12, nil)
	createStudent(t, f, "C", 15, nil)

	count, err := f.student.CountAllStudentsInTheSchool(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	avg, err = f.student.GetAverageAgeOfStudents(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 12.333, avg, 0.001)

	avg, err = f.student.GetAverageAgeOfStudentsInMemory(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 12.333, avg, 0.001)
}

func TestStudentService_GetLastStudentsUsesAbsoluteCount(t *testing.T) {
	f := newFixture()
	createStudent(t, f, "First", 11, nil)
	createStudent(t, f, "Second", 11, nil)
	createStudent(t, f, "Third", 11, nil)

	last, err := f.student.GetLastStudents(context.Background(), -2)

	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "Third", last[0].Name)
	assert.Equal(t, "Second", last[1].Name)
}

func TestStudentService_FilterStudentsByNameStartsWith(t *testing.T) {
	f := newFixture()
	for _, name := range []string{"harry", "Ron", "Hermione", "hagrid", "Ёжик", ""} {
		createStudent(t, f, name, 11, nil)
	}
	ctx := context.Background()

	names, err := f.student.FilterStudentsByNameStartsWith(ctx, "H")
	require.NoError(t, err)
	assert.Equal(t, []string{"HERMIONE", "HAGRID", "HARRY"}, names)

	names, err = f.student.FilterStudentsByNameStartsWith(ctx, "ё")
	require.NoError(t, err)
	assert.Equal(t, []string{"ЁЖИК"}, names)

	names, err = f.student.FilterStudentsByNameStartsWith(ctx, "z")
	require.NoError(t, err)
	assert.Empty(t, names)

	// only a single character can match a first letter
	names, err = f.student.FilterStudentsByNameStartsWith(ctx, "Ha")
	require.NoError(t, err)
	assert.Equal(t, []string{}, names)
}

func collect(t *testing.T, ch <-chan string, n int) []string {
	t.Helper()
	out := make([]string, 0, n)
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case name := <-ch:
			out = append(out, name)
		case <-timeout:
			t.Fatalf("only %d of %d names printed", len(out), n)
		}
	}
	return out
}

func TestStudentService_PrintStudentNamesSynchronized(t *testing.T) {
	f := newFixture()
	for _, name := range []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"} {
		createStudent(t, f, name, 11, nil)
	}

	require.NoError(t, f.student.PrintStudentNamesSynchronized(context.Background()))

	// all six are printed before the call returns
	require.Len(t, f.printed, 6)
	printed := collect(t, f.printed, 6)
	assert.Equal(t, []string{"s1", "s2"}, printed[:2])
	sort.Strings(printed)
	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5", "s6"}, printed)
}

func TestStudentService_PrintStudentNamesParallel(t *testing.T) {
	f := newFixture()
	for _, name := range []string{"p1", "p2", "p3", "p4"} {
		createStudent(t, f, name, 11, nil)
	}

	require.NoError(t, f.student.PrintStudentNamesParallel(context.Background()))

	printed := collect(t, f.printed, 4)
	assert.Equal(t, []string{"p1", "p2"}, printed[:2])
	sort.Strings(printed)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, printed)
}

func TestChunk(t *testing.T) {
	names := []string{"a", "b", "c"}
	assert.Equal(t, []string{"a", "b"}, chunk(names, 0, 2))
	assert.Equal(t, []string{"c"}, chunk(names, 2, 4))
	assert.Empty(t, chunk(names, 4, 6))
}
