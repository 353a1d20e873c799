package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hogwarts/internal/app/models/dto"
	"github.com/yigit/hogwarts/internal/app/services"
	"github.com/yigit/hogwarts/internal/middleware"
)

// InfoController exposes diagnostic endpoints
type InfoController struct {
	infoService services.InfoService
}

// NewInfoController creates a new InfoController
func NewInfoController(infoService services.InfoService) *InfoController {
	return &InfoController{
		infoService: infoService,
	}
}

// GetPort returns the port this instance listens on
// @Summary Server port
// @Tags info
// @Produce json
// @Success 200 {integer} integer
// @Router /getPort [get]
func (c *InfoController) GetPort(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.infoService.Port())
}

// CompareSums times a sequential and a parallel sum of 1..1000000
// @Summary Sum benchmark
// @Tags info
// @Produce plain
// @Success 200 {string} string "Sum: 500000500000; Time: 3ms | SumImpr: 500000500000; Time: 1ms"
// @Router / [get]
func (c *InfoController) CompareSums(ctx *gin.Context) {
	report, err := c.infoService.CompareSums(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, report)
}

// HealthCheck reports liveness
// @Summary Health check
// @Tags info
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *InfoController) HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
