package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factoryfloor/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/planning_data", h.PlanningData)
	authed.GET("/layout_data", h.LayoutData)
}

func (h *Handler) LayoutData(c *gin.Context) {
	view, err := h.service.LayoutView(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) PlanningData(c *gin.Context) {
	rows, err := h.service.PlanningView(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}
