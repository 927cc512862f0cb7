package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gofinances/internal/apperrors"
	"gofinances/internal/cache"
	"gofinances/internal/core"
	"gofinances/internal/kv"
	"gofinances/internal/log"
	"gofinances/internal/middleware/ratelimit"
	"gofinances/internal/middleware/security"
	"gofinances/internal/middleware/trace"
	"gofinances/internal/services"
	"gofinances/internal/session"
)

// SignInProvider runs the OAuth consent flow of an identity provider.
type SignInProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (core.User, error)
}

// Deps are the collaborators of the server. Google and Ready may be nil.
type Deps struct {
	Transactions *services.TransactionService
	Dashboard    *services.DashboardService
	Resume       *services.ResumeService
	Session      *session.Manager
	Taxonomy     *core.Taxonomy
	Google       SignInProvider
	Ready        kv.Pinger
	Logger       *log.Logger
	RateLimit    ratelimit.Config
	// CIDRs whose forwarding headers are trusted, in addition to private ranges
	TrustedProxies []string
}

type Server struct {
	http.Server

	transactions *services.TransactionService
	dashboard    *services.DashboardService
	resume       *services.ResumeService
	session      *session.Manager
	taxonomy     *core.Taxonomy
	google       SignInProvider
	ready        kv.Pinger

	logger          *log.Logger
	structured      *log.StructuredLogger
	rateLimiter     *ratelimit.Limiter
	detector        *security.Detector
	traceMiddleware *trace.Middleware

	// rendered pie charts by period, purged on every registration
	chartCache *cache.LRUCache[[]byte]
	// chartGen counts registrations; a chart is only cached if none happened
	// while it was rendered
	chartMu  sync.Mutex
	chartGen uint64
	// pending OAuth states
	stateCache   *cache.LRUCache[time.Time]
	cacheManager *cache.Manager

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime            time.Time
	totalTransactions int64
	cacheHits         int64
	cacheMisses       int64
}

const (
	chartCacheSize = 48
	chartCacheTTL  = 10 * time.Minute
	stateCacheSize = 256
	stateTTL       = 10 * time.Minute
)

func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	taxonomy := deps.Taxonomy
	if taxonomy == nil {
		taxonomy = core.DefaultTaxonomy()
	}

	mux := http.NewServeMux()
	detector := security.NewDetector()
	for _, cidr := range deps.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", log.FieldError, err)
		}
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		transactions:    deps.Transactions,
		dashboard:       deps.Dashboard,
		resume:          deps.Resume,
		session:         deps.Session,
		taxonomy:        taxonomy,
		google:          deps.Google,
		ready:           deps.Ready,
		logger:          logger,
		structured:      log.NewStructuredLogger(logger),
		rateLimiter:     ratelimit.NewLimiter(deps.RateLimit),
		detector:        detector,
		traceMiddleware: trace.NewMiddleware(logger, detector.ExtractClientIP),
		chartCache:      cache.NewLRUCache[[]byte](chartCacheSize, chartCacheTTL),
		stateCache:      cache.NewLRUCache[time.Time](stateCacheSize, stateTTL),
		cacheManager:    cache.NewManager(logger.Logger),
		appMetrics:      &appMetrics{uptime: time.Now()},
	}

	s.cacheManager.Register(s.chartCache)
	s.cacheManager.Register(s.stateCache)
	s.cacheManager.StartCleanup(5 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/resume", s.handleResume)
	mux.HandleFunc("GET /api/resume/chart.png", s.handleResumeChart)
	mux.Handle("POST /api/transactions", s.limitWrites(http.HandlerFunc(s.handleCreateTransaction)))
	mux.HandleFunc("/api/transactions", s.handleTransactionsMethodNotAllowed)

	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.Handle("POST /auth/signout", s.limitWrites(http.HandlerFunc(s.handleSignOut)))
	mux.HandleFunc("GET /auth/google/login", s.handleGoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", s.handleGoogleCallback)
	mux.HandleFunc("/", s.handleNotFound)

	var handler http.Handler = mux
	handler = detector.Middleware(logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.RequestIDMiddleware(func(r *http.Request) string { return trace.GetRequestID(r.Context()) })(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = log.Middleware(logger)(handler)
	s.Handler = handler

	return s
}

// limitWrites applies the per-client rate limit.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	return s.rateLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		ErrorResponse(apperrors.ErrRateLimited).Write(w)
	})(next)
}

func (s *Server) chartGeneration() uint64 {
	s.chartMu.Lock()
	defer s.chartMu.Unlock()
	return s.chartGen
}

// storeChart caches png unless the charts were invalidated after gen was read.
func (s *Server) storeChart(key string, png []byte, gen uint64) bool {
	s.chartMu.Lock()
	defer s.chartMu.Unlock()
	if s.chartGen != gen {
		return false
	}
	s.chartCache.Set(key, png)
	return true
}

func (s *Server) invalidateCharts() {
	s.chartMu.Lock()
	s.chartGen++
	s.chartCache.Purge()
	s.chartMu.Unlock()
}

// Shutdown stops background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
