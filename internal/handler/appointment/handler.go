package appointment

import (
	"github.com/gin-gonic/gin"

	"github.com/consultafacil/portal-api/internal/middleware"
	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/internal/service/booking"
	"github.com/consultafacil/portal-api/internal/service/directory"
	"github.com/consultafacil/portal-api/internal/service/patient"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/httputil"
)

// Handler is the patient-facing appointment surface: booking, the
// upcoming/past view and explicit cancellation.
type Handler struct {
	booking   *booking.Service
	patients  *patient.Service
	directory *directory.Service
}

func NewHandler(bookingSvc *booking.Service, patientSvc *patient.Service, directorySvc *directory.Service) *Handler {
	return &Handler{
		booking:   bookingSvc,
		patients:  patientSvc,
		directory: directorySvc,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointments/slots", h.Slots)
	rg.POST("/appointments", h.Book)
	rg.GET("/appointments", h.List)
	rg.DELETE("/appointments/:id", h.Cancel)
}

// bookRequest deliberately carries no binding constraints: the booking
// service runs the full validation sequence so each failure keeps its own
// message and ordering.
type bookRequest struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Symptoms string `json:"symptoms"`
	Notes    string `json:"notes"`
	Type     string `json:"type"`
}

func (h *Handler) Book(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		httputil.RespondWithError(c, errors.NewUnauthorized("no active session", nil))
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid booking payload"))
		return
	}

	// Resolve the doctor snapshot to denormalize onto the appointment.
	var doctor *model.Doctor
	if req.DoctorID != "" {
		doc, err := h.directory.GetDoctor(c.Request.Context(), req.DoctorID)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		doctor = doc
	}

	result, err := h.booking.Book(c.Request.Context(), &booking.Request{
		Doctor:   doctor,
		Patient:  sess.User,
		Date:     req.Date,
		Time:     req.Time,
		Symptoms: req.Symptoms,
		Notes:    req.Notes,
		Type:     req.Type,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, result)
}

func (h *Handler) List(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		httputil.RespondWithError(c, errors.NewUnauthorized("no active session", nil))
		return
	}

	partition, err := h.patients.List(c.Request.Context(), sess.User.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, partition)
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		httputil.RespondWithError(c, errors.NewValidation("appointment id is required"))
		return
	}
	if err := h.patients.Cancel(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"cancelled": true})
}

func (h *Handler) Slots(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{"slots": booking.Slots()})
}
