package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/consultafacil/portal-api/internal/handler"
	authHandler "github.com/consultafacil/portal-api/internal/handler/auth"
	"github.com/consultafacil/portal-api/internal/middleware"
	"github.com/consultafacil/portal-api/internal/model"
)

// Handler registers a route set on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *authHandler.Handler
	doctorH      Handler
	appointmentH Handler
	boardH       Handler
	h            *handler.Handler
	config       RouterConfig
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	doctorH Handler,
	appointmentH Handler,
	boardH Handler,
	h *handler.Handler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:       gin.New(),
		auth:         auth,
		authH:        authH,
		doctorH:      doctorH,
		appointmentH: appointmentH,
		boardH:       boardH,
		h:            h,
		config:       config,
		metrics: &routerMetrics{
			requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name: "portal_http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
			}, []string{"method", "path"}),
			requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "portal_http_requests_total",
				Help: "Total number of HTTP requests",
			}, []string{"method", "path", "status"}),
		},
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Setup() {
	limiter := middleware.NewRateLimiter(r.config.RateLimit, r.config.RateBurst)

	r.engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(r.config.CORSConfig),
		limiter.RateLimit(),
		r.instrument(),
	)

	r.engine.GET("/health", r.h.HealthCheck)
	r.engine.GET("/metrics", r.h.MetricsHandler)

	api := r.engine.Group("/api/v1")
	r.authH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.authH.RegisterProtectedRoutes(protected)

	// The directory is readable by both roles.
	r.doctorH.RegisterRoutes(protected)

	patientRoutes := protected.Group("")
	patientRoutes.Use(r.auth.RequireRole(model.RolePatient))
	r.appointmentH.RegisterRoutes(patientRoutes)

	doctorRoutes := protected.Group("")
	doctorRoutes.Use(r.auth.RequireRole(model.RoleDoctor))
	r.boardH.RegisterRoutes(doctorRoutes)
}

func (r *Router) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path,
			strconv.Itoa(c.Writer.Status())).Inc()
	}
}
