package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/consultafacil/portal-api/internal/middleware"
	"github.com/consultafacil/portal-api/internal/model"
	authService "github.com/consultafacil/portal-api/internal/service/auth"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/httputil"
)

type Handler struct {
	service *authService.Service
}

func NewHandler(service *authService.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the unauthenticated auth endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register/patient", h.RegisterPatient)
	auth.POST("/register/doctor", h.RegisterDoctor)
}

// RegisterProtectedRoutes mounts the endpoints that need a session.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.PUT("/profile", h.UpdateProfile)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation("login and password are required"))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		httputil.RespondWithError(c, errors.NewUnauthorized("no active session", nil))
		return
	}
	if err := h.service.Logout(c.Request.Context(), sess.ID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"logged_out": true})
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}
	if err := h.service.RegisterPatient(c.Request.Context(), &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, gin.H{"registered": true})
}

func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req model.RegisterDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}
	if err := h.service.RegisterDoctor(c.Request.Context(), &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, gin.H{"registered": true})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		httputil.RespondWithError(c, errors.NewUnauthorized("no active session", nil))
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation(err.Error()))
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), sess, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, user)
}
