package project

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/middleware"
	"factoryfloor/internal/pkg/response"
	"factoryfloor/internal/pkg/utils"
)

// multipartSlack covers the form framing around the photo itself.
const multipartSlack = 1 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, authed, admin *gin.RouterGroup) {
	public.GET("/project/:id/detailed_missing_parts", h.DetailedMissingParts)
	public.GET("/project/:id/detailed_arrived_parts", h.DetailedArrivedParts)

	authed.GET("/project/:id/photos", h.Photos)
	authed.GET("/project/:id/extra_details", h.ExtraDetails)
	authed.GET("/project/:id/work_orders", h.WorkOrders)
	authed.GET("/project/:id/missing_parts", h.MissingParts)
	authed.GET("/project/:id/arrived_parts", h.ArrivedParts)
	authed.GET("/project_inventory_status/:id", h.InventoryStatus)

	admin.POST("/project/:id/upload", h.UploadPhoto)
	admin.DELETE("/project/:id/photo/:filename", h.DeletePhoto)
	admin.POST("/project/:id/priority", h.SetPriority)
	admin.POST("/project/:id/pause", h.SetPause)
	admin.POST("/project/:id/notes", h.SaveNotes)
	admin.POST("/project/:id/electrify", h.markReady(domain.TaskElectrification))
	admin.POST("/project/:id/control", h.markReady(domain.TaskControl))
	admin.POST("/project/:id/complete/:task", h.CompleteTask)
	admin.POST("/project/:id/reset_task/:task", h.ResetTask)
	admin.POST("/dni/:wo/status", h.SetDniStatus)
}

func projectID(c *gin.Context) string {
	return utils.BaseName(c.Param("id"))
}

func ok(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"project": projectID(c)})
}

func (h *Handler) SetPriority(c *gin.Context) {
	var req PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := h.service.SetPriority(c.Request.Context(), middleware.CurrentActor(c), projectID(c), req.Priority); err != nil {
		response.FromError(c, err)
		return
	}
	ok(c)
}

func (h *Handler) SetPause(c *gin.Context) {
	var req PauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := h.service.SetPause(c.Request.Context(), middleware.CurrentActor(c), projectID(c), req.Reason); err != nil {
		response.FromError(c, err)
		return
	}
	ok(c)
}

func (h *Handler) SaveNotes(c *gin.Context) {
	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	err := h.service.SaveNotes(c.Request.Context(), middleware.CurrentActor(c), projectID(c), domain.NoteType(req.NoteType), req.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}
	ok(c)
}

func (h *Handler) SetDniStatus(c *gin.Context) {
	var req DniStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	wo := utils.BaseName(c.Param("wo"))
	if err := h.service.SetDniStatus(c.Request.Context(), middleware.CurrentActor(c), wo, req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"work_order_no": wo, "is_completed": req.Completed})
}

func (h *Handler) markReady(task domain.Task) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.MarkReady(c.Request.Context(), middleware.CurrentActor(c), projectID(c), task); err != nil {
			response.FromError(c, err)
			return
		}
		ok(c)
	}
}

func (h *Handler) CompleteTask(c *gin.Context) {
	task := domain.Task(utils.BaseName(c.Param("task")))
	ts, err := h.service.CompleteTask(c.Request.Context(), middleware.CurrentActor(c), projectID(c), task)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"project": projectID(c), "timestamp": ts})
}

func (h *Handler) ResetTask(c *gin.Context) {
	task := domain.Task(utils.BaseName(c.Param("task")))
	if err := h.service.ResetTask(c.Request.Context(), middleware.CurrentActor(c), projectID(c), task); err != nil {
		response.FromError(c, err)
		return
	}
	ok(c)
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	if limit := h.service.cfg.MaxUploadBytes; limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Photo is too large")
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No photo part")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable photo")
		return
	}
	defer f.Close()

	photo, err := h.service.UploadPhoto(c.Request.Context(), middleware.CurrentActor(c), projectID(c), fh.Filename, fh.Size, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"filename":    photo.Filename,
		"url":         utils.PhotoURL(photo.ProjectTaskNo, photo.Filename),
		"uploaded_at": photo.UploadedAt,
	})
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	filename := utils.BaseName(c.Param("filename"))
	if err := h.service.DeletePhoto(c.Request.Context(), middleware.CurrentActor(c), projectID(c), filename); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Photo deleted."})
}

func (h *Handler) ExtraDetails(c *gin.Context) {
	details, err := h.service.ExtraDetails(c.Request.Context(), projectID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) Photos(c *gin.Context) {
	photos, err := h.service.Photos(c.Request.Context(), projectID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, photos)
}

func (h *Handler) WorkOrders(c *gin.Context) {
	wos, err := h.service.WorkOrders(c.Request.Context(), projectID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wos)
}

func (h *Handler) MissingParts(c *gin.Context) {
	parts, err := h.service.MissingParts(c.Request.Context(), projectID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, parts)
}

func (h *Handler) ArrivedParts(c *gin.Context) {
	parts, err := h.service.ArrivedParts(c.Request.Context(), projectID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, parts)
}

func (h *Handler) DetailedMissingParts(c *gin.Context) {
	parts, err := h.service.DetailedMissingParts(c.Request.Context(), projectID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, parts)
}

func (h *Handler) DetailedArrivedParts(c *gin.Context) {
	parts, err := h.service.DetailedArrivedParts(c.Request.Context(), projectID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, parts)
}

func (h *Handler) InventoryStatus(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.InventoryStatus(c.Request.Context(), projectID(c)))
}
