package routes

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/Fazal135/simple-order-app/internal/handlers"
	"github.com/Fazal135/simple-order-app/internal/middleware"
	"github.com/Fazal135/simple-order-app/internal/services"
)

// AppConfig configures the fiber app shell.
type AppConfig struct {
	Name           string
	AllowedOrigins []string
	AccessLog      bool
}

// NewApp builds the fiber app with the JSON error envelope and the shared
// middleware stack.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}

	// Credentialed CORS needs explicit origins; fiber refuses "*" with credentials.
	if len(cfg.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
			AllowCredentials: true,
		}))
	} else {
		app.Use(cors.New())
	}

	return app
}

// Deps are the services the HTTP surface needs.
type Deps struct {
	DB        *gorm.DB
	Auth      *services.AuthService
	Orders    *services.OrderService
	Catalog   services.CatalogProvider
	Sessions  *middleware.SessionManager
	JWTSecret string
	TokenTTL  time.Duration
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Sessions, deps.JWTSecret, deps.TokenTTL)
	orderHandler := handlers.NewOrderHandler(deps.Orders)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Auth routes
	api.Post("/send-otp", authHandler.SendOTP)
	api.Post("/verify-otp", authHandler.VerifyOTP)
	api.Get("/me", authHandler.Me)

	// Catalog routes
	api.Get("/products", catalogHandler.Products)

	// Order routes
	requireCustomer := middleware.RequireCustomer(deps.Sessions, deps.JWTSecret)
	api.Post("/place-order", requireCustomer, orderHandler.PlaceOrder)

	orders := api.Group("/orders", requireCustomer)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
}
