package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hogwarts/internal/app/controllers"
	"github.com/yigit/hogwarts/internal/app/models/dto"
	"github.com/yigit/hogwarts/internal/app/services"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/validation"
)

// The stubs embed the service interfaces, so a method a test does not
// override panics when called.

type stubFacultyService struct {
	services.FacultyService
	faculties map[int64]*dto.FacultyResponse
	created   *dto.CreateFacultyRequest
	filter    string
}

func (s *stubFacultyService) GetFaculty(_ context.Context, id int64) (*dto.FacultyResponse, error) {
	if f, ok := s.faculties[id]; ok {
		return f, nil
	}
	return nil, apperrors.NewFacultyNotFound(id)
}

func (s *stubFacultyService) CreateFaculty(_ context.Context, req *dto.CreateFacultyRequest) (*dto.FacultyResponse, error) {
	s.created = req
	return &dto.FacultyResponse{ID: 9, Name: req.Name, Color: req.Color}, nil
}

func (s *stubFacultyService) FindByColorOrName(_ context.Context, text string) ([]*dto.FacultyResponse, error) {
	s.filter = text
	return []*dto.FacultyResponse{}, nil
}

func (s *stubFacultyService) GetTheLongestFacultyName(context.Context) (string, error) {
	return "Gryffindor", nil
}

type stubStudentService struct {
	services.StudentService
	ageFrom, ageTo int
	lastCount      int
	letter         string
	upload         *services.AvatarUpload
	uploadErr      error
	printed        bool
}

func (s *stubStudentService) FindByAgeBetween(_ context.Context, from, to int) ([]*dto.StudentResponse, error) {
	s.ageFrom, s.ageTo = from, to
	return []*dto.StudentResponse{{ID: 1, Name: "Harry", Age: 11}}, nil
}

func (s *stubStudentService) CreateStudent(_ context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if req.FacultyID != nil {
		return nil, apperrors.NewFacultyNotFound(*req.FacultyID)
	}
	return &dto.StudentResponse{ID: 2, Name: req.Name, Age: req.Age}, nil
}

func (s *stubStudentService) FindAllStudents(_ context.Context, age *int) ([]*dto.StudentResponse, error) {
	return []*dto.StudentResponse{}, nil
}

func (s *stubStudentService) GetLastStudents(_ context.Context, count int) ([]*dto.StudentResponse, error) {
	s.lastCount = count
	return []*dto.StudentResponse{}, nil
}

func (s *stubStudentService) FilterStudentsByNameStartsWith(_ context.Context, letter string) ([]string, error) {
	s.letter = letter
	return []string{"HARRY"}, nil
}

func (s *stubStudentService) UploadAvatar(_ context.Context, id int64, upload *services.AvatarUpload) (*dto.StudentResponse, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.upload = upload
	return &dto.StudentResponse{ID: id, Name: "Harry", Avatar: &dto.AvatarResponse{ID: 3}}, nil
}

func (s *stubStudentService) CountAllStudentsInTheSchool(context.Context) (int64, error) {
	return 42, nil
}

func (s *stubStudentService) PrintStudentNamesSynchronized(context.Context) error {
	s.printed = true
	return nil
}

type stubAvatarService struct {
	services.AvatarService
	page, size int
	content    map[int64]*services.AvatarContent
}

func (s *stubAvatarService) GetAllAvatars(_ context.Context, page, size int) ([]*dto.AvatarResponse, error) {
	s.page, s.size = page, size
	return []*dto.AvatarResponse{}, nil
}

func (s *stubAvatarService) GetFromDB(_ context.Context, id int64) (*services.AvatarContent, error) {
	if c, ok := s.content[id]; ok {
		return c, nil
	}
	return nil, apperrors.NewAvatarNotFound(id)
}

func (s *stubAvatarService) Preview(_ context.Context, id int64) (*services.AvatarContent, error) {
	return nil, apperrors.NewProcessingError("render preview", errors.New("not an image"))
}

type stubInfoService struct{}

func (stubInfoService) Port() int { return 8080 }

func (stubInfoService) CompareSums(context.Context) (string, error) {
	return "Sum: 500000500000; Time: 1ms | SumImpr: 500000500000; Time: 0ms", nil
}

type testApp struct {
	router  *gin.Engine
	faculty *stubFacultyService
	student *stubStudentService
	avatar  *stubAvatarService
}

func newTestApp() *testApp {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
	app := &testApp{
		router: gin.New(),
		faculty: &stubFacultyService{faculties: map[int64]*dto.FacultyResponse{
			1: {ID: 1, Name: "Gryffindor", Color: "red"},
		}},
		student: &stubStudentService{},
		avatar: &stubAvatarService{content: map[int64]*services.AvatarContent{
			5: {Data: []byte{0x89, 'P', 'N', 'G'}, MediaType: "image/png"},
		}},
	}
	SetupRouter(app.router,
		controllers.NewFacultyController(app.faculty),
		controllers.NewStudentController(app.student),
		controllers.NewAvatarController(app.avatar),
		controllers.NewInfoController(stubInfoService{}),
	)
	return app
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestFacultyRoutes(t *testing.T) {
	app := newTestApp()

	w := app.get("/faculty/1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Gryffindor","color":"red"}`, w.Body.String())

	w = app.get("/faculty/15")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Факультет с id = 15 не найден", w.Body.String())

	w = app.get("/faculty/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid faculty ID", decodeError(t, w).Error.Message)

	w = app.get("/faculty/longest-name")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Gryffindor", w.Body.String())

	w = app.get("/faculty/filter?colorOrName=RED")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RED", app.faculty.filter)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = app.get("/faculty/filter")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateFaculty(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/faculty", strings.NewReader(`{"name":"Ravenclaw","color":"blue"}`))
	req.Header.Set("Content-Type", "application/json")
	w := app.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":9,"name":"Ravenclaw","color":"blue"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/faculty", strings.NewReader(`{"color":"blue"}`))
	req.Header.Set("Content-Type", "application/json")
	w = app.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Error.Code)

	req = httptest.NewRequest(http.MethodPost, "/faculty", strings.NewReader(`{"name":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	w = app.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name must not be blank")
}

func TestCreateStudent(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodPost, "/student", strings.NewReader(`{"name":"Harry","age":11}`))
	req.Header.Set("Content-Type", "application/json")
	w := app.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":2,"name":"Harry","age":11}`, w.Body.String())

	// an unknown faculty reference, zero included, is a missing faculty
	req = httptest.NewRequest(http.MethodPost, "/student", strings.NewReader(`{"name":"Harry","age":11,"facultyId":0}`))
	req.Header.Set("Content-Type", "application/json")
	w = app.do(req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Факультет с id = 0 не найден", w.Body.String())
}

func TestStudentAgeFilter(t *testing.T) {
	app := newTestApp()

	w := app.get("/student/filter?ageFrom=10&ageTo=12")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, app.student.ageFrom)
	assert.Equal(t, 12, app.student.ageTo)

	w = app.get("/student/filter?ageFrom=10")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.get("/student?age=eleven")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.get("/student")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStudentReports(t *testing.T) {
	app := newTestApp()

	w := app.get("/student/lastStudents")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, app.student.lastCount)

	app.get("/student/lastStudents?count=-3")
	assert.Equal(t, -3, app.student.lastCount)

	w = app.get("/student/lastStudents?count=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.get("/student/allStudentsCount")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())

	w = app.get("/student/name-starts-with-letter?letter=h")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "h", app.student.letter)
	assert.JSONEq(t, `["HARRY"]`, w.Body.String())

	w = app.get("/student/name-starts-with-letter")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.get("/student/sync-threads")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.True(t, app.student.printed)
}

func multipartAvatar(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestUploadAvatar(t *testing.T) {
	app := newTestApp()
	body, contentType := multipartAvatar(t, "avatar", "harry.png", []byte("png-bytes"))

	req := httptest.NewRequest(http.MethodPatch, "/student/4/avatar", body)
	req.Header.Set("Content-Type", contentType)
	w := app.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, app.student.upload)
	assert.Equal(t, "harry.png", app.student.upload.Filename)
	assert.Equal(t, []byte("png-bytes"), app.student.upload.Data)

	var resp dto.StudentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.ID)
	require.NotNil(t, resp.Avatar)
}

func TestUploadAvatar_Failures(t *testing.T) {
	app := newTestApp()

	body, contentType := multipartAvatar(t, "picture", "harry.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPatch, "/student/4/avatar", body)
	req.Header.Set("Content-Type", contentType)
	w := app.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	app.student.uploadErr = apperrors.NewStudentNotFound(4)
	body, contentType = multipartAvatar(t, "avatar", "harry.png", []byte("x"))
	req = httptest.NewRequest(http.MethodPatch, "/student/4/avatar", body)
	req.Header.Set("Content-Type", contentType)
	w = app.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Студент с id = 4 не найден", w.Body.String())

	app.student.uploadErr = apperrors.NewProcessingError("write avatar file", errors.New("disk full"))
	body, contentType = multipartAvatar(t, "avatar", "harry.png", []byte("x"))
	req = httptest.NewRequest(http.MethodPatch, "/student/4/avatar", body)
	req.Header.Set("Content-Type", contentType)
	w = app.do(req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAvatarRoutes(t *testing.T) {
	app := newTestApp()

	w := app.get("/avatar?page=-2&size=0")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, app.avatar.page)
	assert.Equal(t, 3, app.avatar.size)

	w = app.get("/avatar?page=two")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.get("/avatar?page=9223372036854775807&size=3")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Error.Code)

	w = app.get("/avatar/5/avatarFromDb")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, w.Body.Bytes())

	w = app.get("/avatar/6/avatarFromDb")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Аватар с id = 6 не найден", w.Body.String())

	w = app.get("/avatar/5/preview")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestInfoRoutes(t *testing.T) {
	app := newTestApp()

	w := app.get("/getPort")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8080", w.Body.String())

	w = app.get("/health")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = app.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Sum: 500000500000"))
}
