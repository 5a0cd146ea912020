package board

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/consultafacil/portal-api/internal/middleware"
	"github.com/consultafacil/portal-api/internal/service/board"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/httputil"
)

// Handler is the doctor-facing status board surface.
type Handler struct {
	boards *board.Service
}

func NewHandler(boards *board.Service) *Handler {
	return &Handler{boards: boards}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/board", h.Board)
	rg.POST("/board/refresh", h.Refresh)
	rg.POST("/board/appointments/:id/accept", h.Accept)
	rg.POST("/board/appointments/:id/reject", h.Reject)
	rg.POST("/board/appointments/:id/complete", h.Complete)
}

func (h *Handler) doctorID(c *gin.Context) (string, bool) {
	sess := middleware.SessionFromContext(c)
	if sess == nil || sess.User == nil {
		httputil.RespondWithError(c, errors.NewUnauthorized("no active session", nil))
		return "", false
	}
	return sess.User.ID, true
}

// Board returns the bucketed view, fetching first if the board was never
// loaded. Subsequent freshness comes from the background refresher.
func (h *Handler) Board(c *gin.Context) {
	doctorID, ok := h.doctorID(c)
	if !ok {
		return
	}

	if h.boards.NeedsRefresh(doctorID) {
		if err := h.boards.Refresh(c.Request.Context(), doctorID); err != nil {
			httputil.RespondWithError(c, err)
			return
		}
	}

	httputil.RespondWithSuccess(c, gin.H{
		"buckets":      h.boards.Buckets(doctorID),
		"counts":       h.boards.Counts(doctorID),
		"last_refresh": h.boards.LastRefresh(doctorID),
	})
}

// Refresh is the explicit manual re-fetch trigger.
func (h *Handler) Refresh(c *gin.Context) {
	doctorID, ok := h.doctorID(c)
	if !ok {
		return
	}
	if err := h.boards.Refresh(c.Request.Context(), doctorID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, h.boards.Counts(doctorID))
}

func (h *Handler) Accept(c *gin.Context) {
	h.transition(c, h.boards.Accept)
}

func (h *Handler) Reject(c *gin.Context) {
	h.transition(c, h.boards.Reject)
}

func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, h.boards.Complete)
}

func (h *Handler) transition(c *gin.Context, apply func(ctx context.Context, doctorID, appointmentID string) error) {
	doctorID, ok := h.doctorID(c)
	if !ok {
		return
	}
	if err := apply(c.Request.Context(), doctorID, c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, h.boards.Counts(doctorID))
}
