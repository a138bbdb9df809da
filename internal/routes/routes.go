package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/swiftcart/authgate/internal/auth"
	"github.com/swiftcart/authgate/internal/captcha"
	"github.com/swiftcart/authgate/internal/catalog"
	"github.com/swiftcart/authgate/internal/config"
	"github.com/swiftcart/authgate/internal/identity"
	"github.com/swiftcart/authgate/internal/middleware"
	"github.com/swiftcart/authgate/internal/notification"
	"github.com/swiftcart/authgate/internal/otp"
	"github.com/swiftcart/authgate/internal/storefront"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// In-memory fallbacks are for development only.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Repositories and backends
	var userRepo identity.Repository
	var storeRepo storefront.Repository
	var products catalog.Catalog
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
		storeRepo = storefront.NewPostgresRepository(d.DB)
		products = catalog.NewPostgresCatalog(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
		storeRepo = storefront.NewMemoryRepository()
		products = catalog.NewInMemory()
	}

	var pending otp.Store
	if d.Cache != nil {
		pending = otp.NewRedisStore(d.Cache)
	} else {
		pending = otp.NewMemoryStore()
	}

	var verifier captcha.Verifier
	if d.Cfg.CaptchaVerifyURL != "" {
		verifier = captcha.NewHTTPVerifier(d.Cfg.CaptchaVerifyURL, d.Cfg.CaptchaSecret)
	} else {
		verifier = captcha.Static{}
	}

	// Services and handlers
	notifier := notification.NewLoggerNotifier(d.Logger)
	ids := identity.NewService(userRepo, d.Cfg.LockThreshold, d.Cfg.LockPeriod)
	authSvc := auth.NewService(d.Cfg, ids, userRepo, pending, verifier, notifier)
	authHandler := auth.NewHandler(ids, authSvc)
	storeSvc := storefront.NewService(storeRepo, products, userRepo, notifier)
	storeHandler := storefront.NewHandler(storeSvc, products, userRepo)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginPerMinute)
	RegisterAuthRoutes(api, authHandler, rateLimiter)
	api.Get("/products", storeHandler.ListProducts)

	// Protected routes
	guard := middleware.BearerAuth(d.Cfg, userRepo)
	protected := api.Group("", guard)
	RegisterStorefrontRoutes(protected, storeHandler, checkoutMiddleware(d))
	protected.Post("/auth/logout", authHandler.Logout)

	// Admin landing data; the client's role-based redirect is convenience only,
	// this group is where the role is actually enforced.
	admin := protected.Group("/admin", middleware.RequireRole(identity.RoleAdmin))
	admin.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return nil
}

func checkoutMiddleware(d Deps) fiber.Handler {
	if d.Cache == nil {
		return nil
	}
	return middleware.CheckoutIdempotency(d.Cache, d.Cfg.CheckoutIdemTTL, d.Logger)
}
