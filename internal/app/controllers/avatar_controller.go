package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/services"
	"github.com/yigit/hogwarts/internal/middleware"
	"github.com/yigit/hogwarts/internal/pkg/helpers"
)

// AvatarController serves stored avatar images and their metadata
type AvatarController struct {
	avatarService services.AvatarService
}

// NewAvatarController creates a new AvatarController
func NewAvatarController(avatarService services.AvatarService) *AvatarController {
	return &AvatarController{
		avatarService: avatarService,
	}
}

// GetAllAvatars returns one page of avatar metadata
// @Summary List avatars
// @Description Pages are 1-based; negative values are taken by absolute value
// @Tags avatar
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(3)
// @Success 200 {array} dto.AvatarResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Router /avatar [get]
func (c *AvatarController) GetAllAvatars(ctx *gin.Context) {
	page, size, err := helpers.ParsePaginationParams(ctx)
	if err != nil {
		middleware.RespondBadRequest(ctx, "Invalid pagination parameters", err.Error())
		return
	}

	avatars, err := c.avatarService.GetAllAvatars(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, avatars)
}

// GetFromDB returns the image bytes stored in the database
// @Summary Avatar image from the database
// @Tags avatar
// @Produce octet-stream
// @Param id path int true "Avatar ID" Format(int64)
// @Success 200 {file} binary
// @Failure 404 {string} string "Аватар с id = {id} не найден"
// @Router /avatar/{id}/avatarFromDb [get]
func (c *AvatarController) GetFromDB(ctx *gin.Context) {
	c.serve(ctx, c.avatarService.GetFromDB)
}

// GetFromFile returns the image bytes read from the file store
// @Summary Avatar image from disk
// @Tags avatar
// @Produce octet-stream
// @Param id path int true "Avatar ID" Format(int64)
// @Success 200 {file} binary
// @Failure 404 {string} string "Аватар с id = {id} не найден"
// @Failure 500 "File could not be read"
// @Router /avatar/{id}/avatarFromFile [get]
func (c *AvatarController) GetFromFile(ctx *gin.Context) {
	c.serve(ctx, c.avatarService.GetFromFS)
}

// GetPreview returns a downscaled JPEG of the avatar
// @Summary Avatar preview
// @Tags avatar
// @Produce jpeg
// @Param id path int true "Avatar ID" Format(int64)
// @Success 200 {file} binary
// @Failure 404 {string} string "Аватар с id = {id} не найден"
// @Failure 500 "Stored bytes are not a decodable image"
// @Router /avatar/{id}/preview [get]
func (c *AvatarController) GetPreview(ctx *gin.Context) {
	c.serve(ctx, c.avatarService.Preview)
}

// serve writes the loaded image with its own media type.
func (c *AvatarController) serve(ctx *gin.Context, load func(context.Context, int64) (*services.AvatarContent, error)) {
	id, ok := parseID(ctx, "avatar")
	if !ok {
		return
	}

	content, err := load(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, content.MediaType, content.Data)
}
