package directory

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/consultafacil/portal-api/internal/apiclient"
	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/pkg/circuitbreaker"
	"github.com/consultafacil/portal-api/pkg/logger"
	"github.com/consultafacil/portal-api/pkg/metrics"
)

// defaultSpecialties keeps the filter control populated when the upstream
// enumeration is unavailable.
var defaultSpecialties = []string{
	"Cardiologista",
	"Dermatologista",
	"Ortopedista",
	"Pediatra",
	"Ginecologista",
	"Oftalmologista",
	"Neurologista",
	"Psiquiatra",
	"Endocrinologista",
	"Gastroenterologista",
	"Urologista",
	"Otorrinolaringologista",
}

// SearchResult is a tagged search outcome: Degraded marks the best-effort
// empty fallback after an upstream failure.
type SearchResult struct {
	Doctors  []model.Doctor `json:"doctors"`
	Degraded bool           `json:"degraded,omitempty"`
}

// SpecialtiesResult is a tagged enumeration outcome: FromFallback marks the
// hardcoded list.
type SpecialtiesResult struct {
	Specialties  []string `json:"specialties"`
	FromFallback bool     `json:"from_fallback,omitempty"`
}

// Service is the best-effort doctor directory. Nothing here is
// critical-path: failures degrade to empty results or the fallback list, a
// short-TTL cache absorbs repeat lookups and a circuit breaker keeps a
// flapping upstream from stalling every page.
type Service struct {
	api     apiclient.DoctorAPI
	cache   *gocache.Cache
	breaker *circuitbreaker.CircuitBreaker
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(api apiclient.DoctorAPI, cacheTTL time.Duration, log *logger.Logger, m *metrics.Metrics) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		api:   api,
		cache: gocache.New(cacheTTL, 10*time.Minute),
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "doctor-directory",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		logger:  log,
		metrics: m,
	}
}

// Search filters doctors by specialty and free-text query, degrading to an
// empty result on any failure.
func (s *Service) Search(ctx context.Context, filters model.DoctorSearchFilters) *SearchResult {
	key := "search:" + filters.Specialty + ":" + strings.ToLower(filters.Query)
	if cached, ok := s.cache.Get(key); ok {
		if s.metrics != nil {
			s.metrics.DirectoryCacheHits.Inc()
		}
		return cached.(*SearchResult)
	}

	var doctors []model.Doctor
	err := s.breaker.Execute(func() error {
		var apiErr error
		doctors, apiErr = s.api.SearchDoctors(ctx, filters)
		return apiErr
	})
	if err != nil {
		s.logger.Warn("doctor search unavailable, returning empty result", "error", err.Error())
		if s.metrics != nil {
			s.metrics.DirectoryFallbacks.Inc()
		}
		return &SearchResult{Doctors: []model.Doctor{}, Degraded: true}
	}

	result := &SearchResult{Doctors: doctors}
	s.cache.SetDefault(key, result)
	return result
}

// GetDoctor fetches one doctor for booking context.
func (s *Service) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	key := "doctor:" + id
	if cached, ok := s.cache.Get(key); ok {
		if s.metrics != nil {
			s.metrics.DirectoryCacheHits.Inc()
		}
		return cached.(*model.Doctor), nil
	}

	doc, err := s.api.GetDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, doc)
	return doc, nil
}

// Specialties enumerates the filter values, falling back to the fixed list
// so the control is never empty.
func (s *Service) Specialties(ctx context.Context) *SpecialtiesResult {
	if cached, ok := s.cache.Get("specialties"); ok {
		if s.metrics != nil {
			s.metrics.DirectoryCacheHits.Inc()
		}
		return cached.(*SpecialtiesResult)
	}

	var specialties []string
	err := s.breaker.Execute(func() error {
		var apiErr error
		specialties, apiErr = s.api.Specialties(ctx)
		return apiErr
	})
	if err != nil || len(specialties) == 0 {
		s.logger.Warn("specialty enumeration unavailable, using fallback list")
		if s.metrics != nil {
			s.metrics.DirectoryFallbacks.Inc()
		}
		return &SpecialtiesResult{Specialties: defaultSpecialties, FromFallback: true}
	}

	result := &SpecialtiesResult{Specialties: specialties}
	s.cache.SetDefault("specialties", result)
	return result
}
