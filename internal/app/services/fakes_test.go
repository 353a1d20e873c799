package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/yigit/hogwarts/internal/app/mappers"
	"github.com/yigit/hogwarts/internal/app/models"
	"github.com/yigit/hogwarts/internal/app/repositories"
	"github.com/yigit/hogwarts/internal/pkg/lock"
)

// memDB mimics the postgres schema closely enough for service tests,
// including the ON DELETE SET NULL foreign keys.
type memDB struct {
	mu        sync.Mutex
	nextID    int64
	faculties map[int64]models.Faculty
	students  map[int64]models.Student
	avatars   map[int64]models.Avatar
	saveErr   error
}

func newMemDB() *memDB {
	return &memDB{
		faculties: map[int64]models.Faculty{},
		students:  map[int64]models.Student{},
		avatars:   map[int64]models.Avatar{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func sortedKeys[T any](m map[int64]T) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// joined returns a student with its faculty and avatar metadata attached.
func (db *memDB) joined(s models.Student) *models.Student {
	out := s
	if s.FacultyID != nil {
		if f, ok := db.faculties[*s.FacultyID]; ok {
			out.Faculty = &f
		}
	}
	for _, a := range db.avatars {
		if a.StudentID != nil && *a.StudentID == s.ID {
			a.Data = nil
			out.Avatar = &a
		}
	}
	return &out
}

type fakeFacultyStore struct{ db *memDB }

func (f fakeFacultyStore) Create(_ context.Context, faculty *models.Faculty) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id := f.db.id()
	stored := *faculty
	stored.ID = id
	f.db.faculties[id] = stored
	return id, nil
}

func (f fakeFacultyStore) GetByID(_ context.Context, id int64) (*models.Faculty, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	faculty, ok := f.db.faculties[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &faculty, nil
}

func (f fakeFacultyStore) filter(keep func(models.Faculty) bool) []*models.Faculty {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []*models.Faculty{}
	for _, id := range sortedKeys(f.db.faculties) {
		faculty := f.db.faculties[id]
		if keep(faculty) {
			out = append(out, &faculty)
		}
	}
	return out
}

func (f fakeFacultyStore) FindAll(context.Context) ([]*models.Faculty, error) {
	return f.filter(func(models.Faculty) bool { return true }), nil
}

func (f fakeFacultyStore) FindAllByColor(_ context.Context, color string) ([]*models.Faculty, error) {
	return f.filter(func(fa models.Faculty) bool { return fa.Color == color }), nil
}

func (f fakeFacultyStore) FindAllByColorOrNameContains(_ context.Context, text string) ([]*models.Faculty, error) {
	text = strings.ToLower(text)
	return f.filter(func(fa models.Faculty) bool {
		return strings.Contains(strings.ToLower(fa.Color), text) || strings.Contains(strings.ToLower(fa.Name), text)
	}), nil
}

func (f fakeFacultyStore) Update(_ context.Context, faculty *models.Faculty) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.faculties[faculty.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.db.faculties[faculty.ID] = *faculty
	return nil
}

func (f fakeFacultyStore) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.faculties[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.db.faculties, id)
	for sid, s := range f.db.students {
		if s.FacultyID != nil && *s.FacultyID == id {
			s.FacultyID = nil
			f.db.students[sid] = s
		}
	}
	return nil
}

type fakeStudentStore struct{ db *memDB }

func (f fakeStudentStore) Create(_ context.Context, student *models.Student) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	id := f.db.id()
	f.db.students[id] = models.Student{ID: id, Name: student.Name, Age: student.Age, FacultyID: student.FacultyID}
	return id, nil
}

func (f fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return f.db.joined(s), nil
}

func (f fakeStudentStore) filter(keep func(models.Student) bool) []*models.Student {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []*models.Student{}
	for _, id := range sortedKeys(f.db.students) {
		if s := f.db.students[id]; keep(s) {
			out = append(out, f.db.joined(s))
		}
	}
	return out
}

func (f fakeStudentStore) FindAll(context.Context) ([]*models.Student, error) {
	return f.filter(func(models.Student) bool { return true }), nil
}

func (f fakeStudentStore) FindAllByAge(_ context.Context, age int) ([]*models.Student, error) {
	return f.filter(func(s models.Student) bool { return s.Age == age }), nil
}

func (f fakeStudentStore) FindAllByAgeBetween(_ context.Context, from, to int) ([]*models.Student, error) {
	return f.filter(func(s models.Student) bool { return s.Age >= from && s.Age <= to }), nil
}

func (f fakeStudentStore) FindAllByFacultyID(_ context.Context, facultyID int64) ([]*models.Student, error) {
	return f.filter(func(s models.Student) bool { return s.FacultyID != nil && *s.FacultyID == facultyID }), nil
}

func (f fakeStudentStore) LastN(ctx context.Context, n int) ([]*models.Student, error) {
	all, _ := f.FindAll(ctx)
	out := []*models.Student{}
	for i := len(all) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (f fakeStudentStore) CountAll(ctx context.Context) (int64, error) {
	all, _ := f.FindAll(ctx)
	return int64(len(all)), nil
}

func (f fakeStudentStore) AverageAge(ctx context.Context) (float64, error) {
	all, _ := f.FindAll(ctx)
	if len(all) == 0 {
		return 0, nil
	}
	total := 0
	for _, s := range all {
		total += s.Age
	}
	return float64(total) / float64(len(all)), nil
}

func (f fakeStudentStore) Update(_ context.Context, student *models.Student) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.students[student.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.db.students[student.ID] = models.Student{ID: student.ID, Name: student.Name, Age: student.Age, FacultyID: student.FacultyID}
	return nil
}

func (f fakeStudentStore) Delete(_ context.Context, id int64) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.students[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.db.students, id)
	for aid, a := range f.db.avatars {
		if a.StudentID != nil && *a.StudentID == id {
			a.StudentID = nil
			f.db.avatars[aid] = a
		}
	}
	return nil
}

type fakeAvatarStore struct{ db *memDB }

func (f fakeAvatarStore) GetByID(_ context.Context, id int64) (*models.Avatar, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.avatars[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (f fakeAvatarStore) GetByStudentID(_ context.Context, studentID int64) (*models.Avatar, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, a := range f.db.avatars {
		if a.StudentID != nil && *a.StudentID == studentID {
			return &a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f fakeAvatarStore) Save(_ context.Context, avatar *models.Avatar) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.saveErr != nil {
		return f.db.saveErr
	}
	if avatar.StudentID != nil {
		if _, ok := f.db.students[*avatar.StudentID]; !ok {
			return repositories.ErrAvatarOwnerMissing
		}
		for id, a := range f.db.avatars {
			if a.StudentID != nil && *a.StudentID == *avatar.StudentID {
				avatar.ID = id
			}
		}
	}
	if avatar.ID == 0 {
		avatar.ID = f.db.id()
	}
	f.db.avatars[avatar.ID] = *avatar
	return nil
}

func (f fakeAvatarStore) FindPage(_ context.Context, offset, limit int) ([]*models.Avatar, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := []*models.Avatar{}
	for i, id := range sortedKeys(f.db.avatars) {
		if i >= offset && len(out) < limit {
			a := f.db.avatars[id]
			a.Data = nil
			out = append(out, &a)
		}
	}
	return out, nil
}

// fakeStorage keeps files in memory.
type fakeStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	n       int
	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Save(ext string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.n++
	path := fmt.Sprintf("mem/%d", s.n)
	if ext != "" {
		path += "." + ext
	}
	s.files[path] = append([]byte(nil), data...)
	return path, nil
}

func (s *fakeStorage) Read(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (s *fakeStorage) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *fakeStorage) has(path string) bool {
	_, err := s.Read(path)
	return !errors.Is(err, os.ErrNotExist)
}

// fixture wires every service over the in-memory fakes.
type fixture struct {
	db       *memDB
	storage  *fakeStorage
	printed  chan string
	faculty  FacultyService
	student  StudentService
	avatar   AvatarService
	students fakeStudentStore
}

func newFixture() *fixture {
	db := newMemDB()
	storage := newFakeStorage()
	m := mappers.NewMappers("http://localhost:8080")
	printed := make(chan string, 32)

	faculties := fakeFacultyStore{db}
	students := fakeStudentStore{db}
	avatar := NewAvatarService(fakeAvatarStore{db}, storage, lock.NewKeyedMutex(), m.Avatar, 100)

	return &fixture{
		db:       db,
		storage:  storage,
		printed:  printed,
		faculty:  NewFacultyService(faculties, students, m),
		avatar:   avatar,
		students: students,
		student: NewStudentService(students, faculties, avatar, m,
			NewNamePrinter(0, func(name string) { printed <- name })),
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
