package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/greenspark-api/internal/api/handler/v1/response"
)

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         healthcheck
// @Produce      json
// @Success      200      {object}   response.Healthcheck
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Healthcheck{Status: "ok"})
}
