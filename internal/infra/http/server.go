package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"jobly/internal/config"
	"jobly/internal/domain"
	"jobly/internal/infra/auth/rbac"
	"jobly/internal/infra/auth/token"
	"jobly/internal/infra/db"
	"jobly/internal/infra/policyopa"
	"jobly/internal/infra/ratelimit"
	"jobly/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
)

func init() {
	binding.EnableDecoderDisallowUnknownFields = true
}

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine
	log   zerolog.Logger

	companies domain.CompanyRepository
	jobs      domain.JobRepository
	users     domain.UserRepository
	auth      *usecase.AuthService

	verifier    domain.TokenVerifier
	authorizer  domain.Authorizer
	authInitErr error

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool
}

func NewServer(cfg config.Config, store *db.Store, log zerolog.Logger) *Server {
	s := &Server{cfg: cfg, store: store, r: gin.New(), log: log}
	s.initDeps()
	s.routes()
	return s
}

type ServerDeps struct {
	Companies   domain.CompanyRepository
	Jobs        domain.JobRepository
	Users       domain.UserRepository
	Verifier    domain.TokenVerifier
	Signer      domain.TokenSigner
	Authorizer  domain.Authorizer
	RateLimiter domain.RateLimiter
	Logger      *zerolog.Logger
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	s := &Server{
		cfg:        cfg,
		r:          gin.New(),
		log:        zerolog.Nop(),
		companies:  deps.Companies,
		jobs:       deps.Jobs,
		users:      deps.Users,
		verifier:   deps.Verifier,
		authorizer: deps.Authorizer,
	}
	if deps.Logger != nil {
		s.log = *deps.Logger
	}
	if deps.Users != nil && deps.Signer != nil {
		s.auth = usecase.NewAuthService(deps.Users, deps.Signer)
	}
	s.initRateLimit(deps.RateLimiter)
	s.initAuth()
	s.routes()
	return s
}

func (s *Server) initDeps() {
	if s.store != nil && s.store.Pool != nil {
		users := db.NewUserRepo(s.store.Pool, s.cfg.BcryptCost)
		s.companies = db.NewCompanyRepo(s.store.Pool)
		s.jobs = db.NewJobRepo(s.store.Pool)
		s.users = users
	}
	manager, err := token.NewManager(token.Config{
		Secret: []byte(s.cfg.SecretKey),
		TTL:    s.cfg.JWTTTL,
	})
	if err != nil {
		s.authInitErr = err
	} else {
		s.verifier = manager
		if s.users != nil {
			s.auth = usecase.NewAuthService(s.users, manager)
		}
	}
	s.initRateLimit(nil)
	s.initAuth()
}

// initAuth picks the gate evaluator from AUTH_POLICY unless one was
// injected.
func (s *Server) initAuth() {
	if s.authorizer != nil {
		return
	}
	switch s.cfg.AuthPolicy {
	case "", "builtin":
		s.authorizer = rbac.NewAuthorizer()
	case "rego":
		engine, err := policyopa.NewEngine(context.Background())
		if err != nil {
			s.authInitErr = errors.Join(s.authInitErr, err)
			return
		}
		s.log.Info().Str("policy_hash", engine.PolicyHash()).Msg("rego gate policy loaded")
		s.authorizer = engine
	default:
		s.authInitErr = errors.Join(s.authInitErr, errors.New("unsupported auth policy"))
	}
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			limiter, err := ratelimit.NewRedisLimiter(ctx, s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB)
			cancel()
			if err != nil {
				s.log.Warn().Err(err).Msg("redis rate limiter unavailable, using memory limiter")
			} else {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	s.rateLimitWindow = s.cfg.RateLimitWindow()
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

func (s *Server) routes() {
	s.r.Use(gin.Recovery(), s.requestLogger(), s.authenticateJWT())

	s.r.GET("/healthz", s.handleHealth)

	auth := s.r.Group("/auth", s.rateLimit(routeAuth))
	{
		auth.POST("/token", s.handleToken)
		auth.POST("/register", s.handleRegister)
	}

	companies := s.r.Group("/companies")
	{
		companies.POST("", s.requireGate(domain.GateAdmin), s.handleCreateCompany)
		companies.GET("", s.handleListCompanies)
		companies.GET("/:handle", s.handleGetCompany)
		companies.PATCH("/:handle", s.requireGate(domain.GateAdmin), s.handleUpdateCompany)
		companies.DELETE("/:handle", s.requireGate(domain.GateAdmin), s.handleDeleteCompany)
	}

	jobs := s.r.Group("/jobs")
	{
		jobs.POST("", s.requireGate(domain.GateAdmin), s.handleCreateJob)
		jobs.GET("", s.handleListJobs)
		jobs.GET("/:id", s.handleGetJob)
		jobs.PATCH("/:id", s.requireGate(domain.GateAdmin), s.handleUpdateJob)
		jobs.DELETE("/:id", s.requireGate(domain.GateAdmin), s.handleDeleteJob)
	}

	users := s.r.Group("/users")
	{
		users.POST("", s.requireGate(domain.GateAdmin), s.handleCreateUser)
		users.GET("", s.requireGate(domain.GateAdmin), s.handleListUsers)
		users.GET("/:username", s.requireGate(domain.GateAdminOrCorrectUser), s.handleGetUser)
		users.PATCH("/:username", s.requireGate(domain.GateAdminOrCorrectUser), s.handleUpdateUser)
		users.DELETE("/:username", s.requireGate(domain.GateAdminOrCorrectUser), s.handleDeleteUser)
		users.POST("/:username/jobs/:id", s.requireGate(domain.GateAdminOrCorrectUser), s.handleApplyToJob)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	mode := "no-db"
	if s.store != nil && s.store.Pool != nil {
		mode = "db"
		if err := s.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mode": mode})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode})
}

func (s *Server) Handler() http.Handler {
	return s.r
}

func (s *Server) Run() error {
	if s.authInitErr != nil {
		return s.authInitErr
	}
	s.log.Info().Str("addr", s.cfg.HTTPAddr).Str("auth_policy", s.cfg.AuthPolicy).Msg("listening")
	return s.r.Run(s.cfg.HTTPAddr)
}
