package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/internal/service/directory"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/httputil"
)

// Handler is the doctor directory surface feeding the booking flow.
type Handler struct {
	directory *directory.Service
}

func NewHandler(directorySvc *directory.Service) *Handler {
	return &Handler{directory: directorySvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/doctors", h.Search)
	rg.GET("/doctors/:id", h.Get)
	rg.GET("/specialties", h.Specialties)
}

func (h *Handler) Search(c *gin.Context) {
	var filters model.DoctorSearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, errors.NewValidation("invalid search filters"))
		return
	}
	httputil.RespondWithSuccess(c, h.directory.Search(c.Request.Context(), filters))
}

func (h *Handler) Get(c *gin.Context) {
	doc, err := h.directory.GetDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doc)
}

func (h *Handler) Specialties(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.directory.Specialties(c.Request.Context()))
}
