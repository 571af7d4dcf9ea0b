package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"factoryfloor/internal/middleware"
	"factoryfloor/internal/pkg/response"
)

// CookieConfig controls the session cookie written on login.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type Handler struct {
	service *Service
	cookie  CookieConfig
}

func NewHandler(service *Service, cookie CookieConfig) *Handler {
	return &Handler{service: service, cookie: cookie}
}

func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/login", h.Login)
	public.GET("/logout", h.Logout)
	authed.GET("/me", h.Me)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Username and password are required")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.setCookie(c, res.Token, int(h.cookie.TTL.Seconds()))
	response.Success(c, http.StatusOK, UserPublic{Username: res.User.Username, Role: string(res.User.Role)})
}

// Logout clears the session cookie and sends the browser to the login page.
func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Me(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	response.Success(c, http.StatusOK, UserPublic{Username: actor.Username, Role: string(actor.Role)})
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.cookie.Secure, true)
}
