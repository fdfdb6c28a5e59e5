package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/utils"
	"go.uber.org/zap"
)

type BaseHandler struct {
	logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{logger: logger}
}

func (b *BaseHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", b.GetHealth)
}

// GetHealth godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (b *BaseHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// traceID returns the request trace id, falling back to an empty string
// when the trace middleware is not installed.
func traceID(c *gin.Context) string {
	id, _ := utils.GetTraceID(c)
	return id
}

// respondError writes the canonical error body for err and aborts the chain.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	resp := pkg.ToErrorResponse(logger, traceID(c), err)
	c.AbortWithStatusJSON(resp.Status, resp)
}

// bindJSON binds the request body into req, writing a 400 on failure.
func bindJSON(c *gin.Context, logger *zap.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, logger, pkg.NewInvalidInputError("invalid request body", err))
		return false
	}
	return true
}
