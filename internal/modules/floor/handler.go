package floor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factoryfloor/internal/middleware"
	"factoryfloor/internal/pkg/response"
	"factoryfloor/internal/pkg/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the read route on the logged-in group and the
// mutations on the admin group.
func (h *Handler) RegisterRoutes(authed, admin *gin.RouterGroup) {
	authed.GET("/available_projects", h.AvailableProjects)

	admin.POST("/add_project_to_layout", h.AddProject)
	admin.DELETE("/remove_project_from_layout/:id", h.RemoveProject)
	admin.POST("/move_project_to_layout", h.MoveProject)
	admin.POST("/project/:id/details", h.UpdateDetails)
}

func (h *Handler) AvailableProjects(c *gin.Context) {
	projects, err := h.service.AvailableProjects(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, projects)
}

func (h *Handler) AddProject(c *gin.Context) {
	var req AddProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing data")
		return
	}

	err := h.service.AddProject(c.Request.Context(), middleware.CurrentActor(c), req.ProjectName, *req.X, *req.Y)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"project": req.ProjectName})
}

func (h *Handler) RemoveProject(c *gin.Context) {
	name := utils.BaseName(c.Param("id"))
	if err := h.service.RemoveProject(c.Request.Context(), middleware.CurrentActor(c), name); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": name})
}

func (h *Handler) MoveProject(c *gin.Context) {
	var req MoveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing data")
		return
	}

	name := utils.BaseName(req.ProjectName)
	err := h.service.MoveProject(c.Request.Context(), middleware.CurrentActor(c), name, *req.X, *req.Y)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": name, "x": *req.X, "y": *req.Y})
}

func (h *Handler) UpdateDetails(c *gin.Context) {
	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing 'details'")
		return
	}

	name := utils.BaseName(c.Param("id"))
	if err := h.service.UpdateDetails(c.Request.Context(), middleware.CurrentActor(c), name, *req.Details); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": name, "details": *req.Details})
}
