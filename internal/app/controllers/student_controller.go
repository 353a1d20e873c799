package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/models/dto"
	"github.com/yigit/hogwarts/internal/app/services"
	"github.com/yigit/hogwarts/internal/middleware"
	"github.com/yigit/hogwarts/internal/pkg/apperrors"
	"github.com/yigit/hogwarts/internal/pkg/helpers"
)

const (
	avatarFormField     = "avatar"
	defaultLastStudents = 5
)

// StudentController handles student-related operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// GetStudent retrieves a student by ID
// @Summary Get student
// @Tags student
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {string} string "Студент с id = {id} не найден"
// @Router /student/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "student")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Tags student
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {string} string "Факультет с id = {id} не найден"
// @Router /student [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, "Invalid student data", err)
		return
	}

	student, err := c.studentService.CreateStudent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// UpdateStudent updates the supplied fields of a student
// @Summary Update student
// @Tags student
// @Accept json
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {string} string "Student or faculty not found"
// @Router /student/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "student")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, "Invalid student data", err)
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// DeleteStudent deletes a student and returns its last state
// @Summary Delete student
// @Tags student
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {string} string "Студент с id = {id} не найден"
// @Router /student/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "student")
	if !ok {
		return
	}

	student, err := c.studentService.DeleteStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// FindAll lists students, optionally by exact age
// @Summary List students
// @Tags student
// @Produce json
// @Param age query int false "Exact age"
// @Success 200 {array} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid age"
// @Router /student [get]
func (c *StudentController) FindAll(ctx *gin.Context) {
	age, ok := optionalIntQuery(ctx, "age")
	if !ok {
		return
	}

	students, err := c.studentService.FindAllStudents(ctx, age)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

// FindByAgeBetween lists students with ageFrom <= age <= ageTo
// @Summary Students in an age range
// @Tags student
// @Produce json
// @Param ageFrom query int true "Lower bound, inclusive"
// @Param ageTo query int true "Upper bound, inclusive"
// @Success 200 {array} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid bounds"
// @Router /student/filter [get]
func (c *StudentController) FindByAgeBetween(ctx *gin.Context) {
	var query dto.AgeRangeQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.RespondBindingError(ctx, "Invalid age range", err)
		return
	}

	students, err := c.studentService.FindByAgeBetween(ctx, *query.AgeFrom, *query.AgeTo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

// GetFacultyForStudent returns the faculty of a student
// @Summary Faculty of a student
// @Tags student
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Success 200 {object} dto.FacultyResponse
// @Failure 404 {string} string "Студент с id = {id} не найден"
// @Router /student/{id}/faculty [get]
func (c *StudentController) GetFacultyForStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "student")
	if !ok {
		return
	}

	faculty, err := c.studentService.GetFacultyForStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, faculty)
}

// UploadAvatar stores the image sent in the "avatar" form field
// @Summary Upload student avatar
// @Tags student
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Student ID" Format(int64)
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.StudentResponse
// @Failure 400 {object} dto.ErrorResponse "Missing avatar"
// @Failure 404 {string} string "Студент с id = {id} не найден"
// @Failure 500 "Avatar could not be stored"
// @Router /student/{id}/avatar [patch]
func (c *StudentController) UploadAvatar(ctx *gin.Context) {
	id, ok := parseID(ctx, "student")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile(avatarFormField)
	if err != nil {
		middleware.RespondBadRequest(ctx, "Invalid avatar upload", "multipart field \""+avatarFormField+"\" is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewProcessingError("open uploaded avatar", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewProcessingError("read uploaded avatar", err))
		return
	}

	student, err := c.studentService.UploadAvatar(ctx, id, &services.AvatarUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// CountAllStudents returns the number of students
// @Summary Count students
// @Tags student
// @Produce json
// @Success 200 {integer} integer
// @Router /student/allStudentsCount [get]
func (c *StudentController) CountAllStudents(ctx *gin.Context) {
	count, err := c.studentService.CountAllStudentsInTheSchool(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, count)
}

// GetAverageAge returns the average student age computed by the database
// @Summary Average student age
// @Tags student
// @Produce json
// @Success 200 {number} number
// @Router /student/avgStudentsAge [get]
func (c *StudentController) GetAverageAge(ctx *gin.Context) {
	avg, err := c.studentService.GetAverageAgeOfStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, avg)
}

// GetAverageAgeInMemory returns the average student age computed in the service
// @Summary Average student age, in memory
// @Tags student
// @Produce json
// @Success 200 {number} number
// @Router /student/average-age-of-students [get]
func (c *StudentController) GetAverageAgeInMemory(ctx *gin.Context) {
	avg, err := c.studentService.GetAverageAgeOfStudentsInMemory(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, avg)
}

// GetLastStudents returns the most recently created students
// @Summary Last students
// @Tags student
// @Produce json
// @Param count query int false "How many, default 5"
// @Success 200 {array} dto.StudentResponse
// @Router /student/lastStudents [get]
func (c *StudentController) GetLastStudents(ctx *gin.Context) {
	count, err := helpers.QueryInt(ctx, "count", defaultLastStudents)
	if err != nil {
		middleware.RespondBadRequest(ctx, "Invalid query parameter", err.Error())
		return
	}

	students, err := c.studentService.GetLastStudents(ctx, count)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

// FilterByNameStartsWith returns upper-cased names starting with a letter
// @Summary Names starting with a letter
// @Tags student
// @Produce json
// @Param letter query string true "First letter, case-insensitive"
// @Success 200 {array} string
// @Failure 400 {object} dto.ErrorResponse "Missing letter"
// @Router /student/name-starts-with-letter [get]
func (c *StudentController) FilterByNameStartsWith(ctx *gin.Context) {
	letter, ok := requiredQuery(ctx, "letter")
	if !ok {
		return
	}

	names, err := c.studentService.FilterStudentsByNameStartsWith(ctx, letter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, names)
}

// PrintNamesParallel logs student names from unsynchronized goroutines
// @Summary Print names in parallel
// @Tags student
// @Success 200
// @Router /student/threads [get]
func (c *StudentController) PrintNamesParallel(ctx *gin.Context) {
	if err := c.studentService.PrintStudentNamesParallel(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}

// PrintNamesSynchronized logs student names one goroutine at a time
// @Summary Print names synchronized
// @Tags student
// @Success 200
// @Router /student/sync-threads [get]
func (c *StudentController) PrintNamesSynchronized(ctx *gin.Context) {
	if err := c.studentService.PrintStudentNamesSynchronized(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusOK)
}
