package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/models/dto"
	"github.com/yigit/hogwarts/internal/app/services"
	"github.com/yigit/hogwarts/internal/middleware"
)

// FacultyController handles faculty-related operations
type FacultyController struct {
	facultyService services.FacultyService
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(facultyService services.FacultyService) *FacultyController {
	return &FacultyController{
		facultyService: facultyService,
	}
}

// GetFaculty retrieves a faculty by ID
// @Summary Get faculty
// @Tags faculty
// @Produce json
// @Param id path int true "Faculty ID" Format(int64)
// @Success 200 {object} dto.FacultyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid faculty ID"
// @Failure 404 {string} string "Факультет с id = {id} не найден"
// @Router /faculty/{id} [get]
func (c *FacultyController) GetFaculty(ctx *gin.Context) {
	id, ok := parseID(ctx, "faculty")
	if !ok {
		return
	}

	faculty, err := c.facultyService.GetFaculty(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, faculty)
}

// CreateFaculty handles faculty creation
// @Summary Create a new faculty
// @Tags faculty
// @Accept json
// @Produce json
// @Param request body dto.CreateFacultyRequest true "Faculty information"
// @Success 200 {object} dto.FacultyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /faculty [post]
func (c *FacultyController) CreateFaculty(ctx *gin.Context) {
	var req dto.CreateFacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, "Invalid faculty data", err)
		return
	}

	faculty, err := c.facultyService.CreateFaculty(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, faculty)
}

// UpdateFaculty updates the supplied fields of a faculty
// @Summary Update faculty
// @Tags faculty
// @Accept json
// @Produce json
// @Param id path int true "Faculty ID" Format(int64)
// @Param request body dto.UpdateFacultyRequest true "Fields to change"
// @Success 200 {object} dto.FacultyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {string} string "Факультет с id = {id} не найден"
// @Router /faculty/{id} [put]
func (c *FacultyController) UpdateFaculty(ctx *gin.Context) {
	id, ok := parseID(ctx, "faculty")
	if !ok {
		return
	}

	var req dto.UpdateFacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.RespondBindingError(ctx, "Invalid faculty data", err)
		return
	}

	faculty, err := c.facultyService.UpdateFaculty(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, faculty)
}

// DeleteFaculty deletes a faculty and returns its last state
// @Summary Delete faculty
// @Tags faculty
// @Produce json
// @Param id path int true "Faculty ID" Format(int64)
// @Success 200 {object} dto.FacultyResponse
// @Failure 404 {string} string "Факультет с id = {id} не найден"
// @Router /faculty/{id} [delete]
func (c *FacultyController) DeleteFaculty(ctx *gin.Context) {
	id, ok := parseID(ctx, "faculty")
	if !ok {
		return
	}

	faculty, err := c.facultyService.DeleteFaculty(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, faculty)
}

// FindAll lists faculties, optionally by exact color
// @Summary List faculties
// @Tags faculty
// @Produce json
// @Param color query string false "Exact color"
// @Success 200 {array} dto.FacultyResponse
// @Router /faculty [get]
func (c *FacultyController) FindAll(ctx *gin.Context) {
	var color *string
	if v, ok := ctx.GetQuery("color"); ok {
		color = &v
	}

	faculties, err := c.facultyService.FindAllFaculties(ctx, color)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, faculties)
}

// FindByColorOrName lists faculties whose color or name contains the text
// @Summary Search faculties by color or name
// @Tags faculty
// @Produce json
// @Param colorOrName query string true "Case-insensitive substring"
// @Success 200 {array} dto.FacultyResponse
// @Failure 400 {object} dto.ErrorResponse "Missing colorOrName"
// @Router /faculty/filter [get]
func (c *FacultyController) FindByColorOrName(ctx *gin.Context) {
	text, ok := requiredQuery(ctx, "colorOrName")
	if !ok {
		return
	}

	faculties, err := c.facultyService.FindByColorOrName(ctx, text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, faculties)
}

// GetFacultyStudents lists the students of a faculty
// @Summary Students of a faculty
// @Tags faculty
// @Produce json
// @Param id path int true "Faculty ID" Format(int64)
// @Success 200 {array} dto.StudentResponse
// @Router /faculty/{id}/students [get]
func (c *FacultyController) GetFacultyStudents(ctx *gin.Context) {
	id, ok := parseID(ctx, "faculty")
	if !ok {
		return
	}

	students, err := c.facultyService.GetFacultyStudents(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

// GetTheLongestFacultyName returns the longest faculty name as text
// @Summary Longest faculty name
// @Tags faculty
// @Produce plain
// @Success 200 {string} string "Gryffindor"
// @Router /faculty/longest-name [get]
func (c *FacultyController) GetTheLongestFacultyName(ctx *gin.Context) {
	name, err := c.facultyService.GetTheLongestFacultyName(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, name)
}
