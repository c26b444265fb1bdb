package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecoleta/ecoleta-backend/api/controllers"
	"github.com/ecoleta/ecoleta-backend/api/middleware"
	"github.com/ecoleta/ecoleta-backend/internal/address"
	"github.com/ecoleta/ecoleta-backend/internal/auth"
	"github.com/ecoleta/ecoleta-backend/internal/generators"
	"github.com/ecoleta/ecoleta-backend/pkg/config"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
	"github.com/ecoleta/ecoleta-backend/pkg/metrics"
	"github.com/ecoleta/ecoleta-backend/pkg/redis"
)

const uploadsPrefix = "/uploads/perfil/"

// Params carries everything the router wires into handlers. Redis, Metrics
// and Gatherer are optional.
type Params struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              controllers.Pinger
	Redis           *redis.Client
	Metrics         *metrics.Set
	Gatherer        prometheus.Gatherer
	RegisterService generators.RegisterService
	AuthService     auth.Service
	AddressService  address.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if p.Metrics != nil {
		r.Use(middleware.Metrics(p.Metrics.HTTP))
	}
	r.MethodNotAllowed(controllers.MethodNotAllowed(logg))
	r.NotFound(controllers.NotFound(logg))

	// A nil *redis.Client must stay a nil interface so limiting and the
	// readiness check are skipped.
	var (
		limiter     middleware.RateLimitStore
		redisPinger controllers.Pinger
	)
	if p.Redis != nil {
		limiter = p.Redis
		redisPinger = p.Redis
	}

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, redisPinger))
	})

	gatherer := p.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimit(registerPolicy, limiter, logg)).Post("/cadastro_gerador", controllers.GeneratorRegister(p.RegisterService, logg))
		r.Options("/cadastro_gerador", controllers.Preflight())

		r.With(middleware.RateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Options("/login", controllers.Preflight())

		r.Get("/cep/{cep}", controllers.AddressLookup(p.AddressService, logg))
	})

	r.Get(uploadsPrefix+"*", uploadsHandler(cfg.Uploads.Dir, logg))

	return r
}

// uploadsHandler serves stored profile photos without directory listings.
func uploadsHandler(dir string, logg *logger.Logger) http.HandlerFunc {
	files := http.StripPrefix(uploadsPrefix, http.FileServer(http.Dir(dir)))
	notFound := controllers.NotFound(logg)
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, uploadsPrefix)
		if name == "" || strings.Contains(name, "/") {
			notFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}
}
