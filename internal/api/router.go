package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/b2blink/marketplace-api/docs"
	"github.com/b2blink/marketplace-api/internal/api/handler"
	"github.com/b2blink/marketplace-api/internal/api/middleware"
	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/service"
	"github.com/b2blink/marketplace-api/internal/infrastructure/captcha"
	"github.com/b2blink/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/b2blink/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/b2blink/marketplace-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The mail dispatcher is constructed and started by the caller so its workers
// share the process lifecycle.
func NewRouter(db *mongo.Database, rdb *redis.Client, mail service.MailDispatcher, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Dependencies ---
	identityRepo := mongodb.NewIdentityRepository(db)
	companyRepo := mongodb.NewCompanyRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	requirementRepo := mongodb.NewRequirementRepository(db)
	inquiryRepo := mongodb.NewInquiryRepository(db)

	otpStore := redisdb.NewOTPStore(rdb)
	flowStore := redisdb.NewFlowStore(rdb)

	captchaVerifier := captcha.NewVerifier(cfg.Recaptcha.Secret, cfg.Recaptcha.Endpoint)

	identityService := service.NewIdentityService(
		identityRepo, otpStore, mail,
		cfg.JWTSecret, 0, cfg.OTP.TTL, cfg.OTP.Digits, log,
	)
	companyService := service.NewCompanyService(companyRepo, identityRepo, log)
	productService := service.NewProductService(productRepo, companyRepo, identityRepo, log)
	requirementService := service.NewRequirementService(requirementRepo, identityRepo, log)
	inquiryService := service.NewInquiryService(inquiryRepo, companyRepo, identityRepo, log)

	authHandler := handler.NewAuthHandler(identityService, captchaVerifier)
	flowHandler := handler.NewFlowHandler(identityService, captchaVerifier, flowStore, log)
	meHandler := handler.NewMeHandler(identityService)
	dashboardHandler := handler.NewDashboardHandler(identityService)
	companyHandler := handler.NewCompanyHandler(companyService)
	productHandler := handler.NewProductHandler(productService)
	requirementHandler := handler.NewRequirementHandler(requirementService)
	inquiryHandler := handler.NewInquiryHandler(inquiryService)

	authRequired := middleware.Auth(cfg.JWTSecret)
	verifiedOnly := middleware.RequireVerified()
	memberOnly := middleware.RequireMember()
	buyerOnly := middleware.RequireRoles(string(domain.RoleBuyer))

	// --- Auth routes ---
	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/otp/request", authHandler.RequestOTP)
	auth.POST("/otp/verify", authHandler.VerifyOTP)
	auth.POST("/captcha/verify", authHandler.VerifyCaptcha)

	// --- Registration wizard ---
	flow := e.Group("/v1/auth/flow")
	flow.POST("", flowHandler.Start)
	flow.GET("/:id", flowHandler.Get)
	flow.POST("/:id/role", flowHandler.SelectRole)
	flow.POST("/:id/profile", flowHandler.SubmitProfile)
	flow.POST("/:id/verify", flowHandler.Verify)
	flow.POST("/:id/resend", flowHandler.Resend)
	flow.POST("/:id/back", flowHandler.Back)

	// --- Identity routes ---
	e.GET("/v1/dashboard", dashboardHandler.Resolve, authRequired)
	e.GET("/v1/me", meHandler.Get, authRequired)
	e.PATCH("/v1/me", meHandler.Update, authRequired)

	// --- Directory: public reads ---
	e.GET("/v1/companies", companyHandler.List)
	e.GET("/v1/companies/:id", companyHandler.Get)
	e.GET("/v1/products", productHandler.List)
	e.GET("/v1/products/:id", productHandler.Get)
	e.GET("/v1/requirements", requirementHandler.List)

	// --- Directory: seller-member writes ---
	e.POST("/v1/companies", companyHandler.Create, authRequired, verifiedOnly, memberOnly)
	e.PATCH("/v1/companies/:id", companyHandler.Update, authRequired, verifiedOnly, memberOnly)
	e.POST("/v1/products", productHandler.Create, authRequired, verifiedOnly, memberOnly)
	e.PATCH("/v1/products/:id", productHandler.Update, authRequired, verifiedOnly, memberOnly)
	e.DELETE("/v1/products/:id", productHandler.Delete, authRequired, verifiedOnly, memberOnly)

	// --- Buyer and verified-account routes ---
	e.POST("/v1/requirements", requirementHandler.Post, authRequired, verifiedOnly, buyerOnly)
	e.POST("/v1/inquiries", inquiryHandler.Send, authRequired, verifiedOnly)
	e.GET("/v1/inquiries", inquiryHandler.ListReceived, authRequired, verifiedOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
