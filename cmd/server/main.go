package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fazal135/simple-order-app/internal/config"
	"github.com/Fazal135/simple-order-app/internal/database"
	"github.com/Fazal135/simple-order-app/internal/middleware"
	"github.com/Fazal135/simple-order-app/internal/routes"
	"github.com/Fazal135/simple-order-app/internal/services"
	"github.com/Fazal135/simple-order-app/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseLogLevel)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	store := storage.NewGormStore(db)

	var challenges storage.ChallengeStore = storage.NewMemoryChallengeStore()
	if cfg.OTPStore == "database" {
		challenges = store
	}
	otp := services.NewOTPService(challenges,
		services.WithOTPTTL(cfg.OTPTTL),
		services.WithOTPHashCost(cfg.OTPHashCost),
	)

	janitor := services.NewJanitor(cfg.OTPSweepInterval)
	janitor.Add("otp challenges", otp.SweepExpired)

	sessionCfg := middleware.SessionConfig{
		TTL:    cfg.SessionTTL,
		Secure: cfg.IsProduction(),
	}
	if cfg.SessionStore == "database" {
		sessionStorage := storage.NewSessionStorage(db)
		sessionCfg.Storage = sessionStorage
		janitor.Add("sessions", func(context.Context) (int64, error) {
			return sessionStorage.DeleteExpired(time.Now())
		})
	}

	mailer := services.NewMailer(services.MailerConfig{
		From:           cfg.MailFrom,
		Timeout:        cfg.MailSendTimeout,
		SendGridAPIKey: cfg.SendGridAPIKey,
		SMTPHost:       cfg.SMTPHost,
		SMTPPort:       cfg.SMTPPort,
		SMTPUser:       cfg.SMTPUser,
		SMTPPass:       cfg.SMTPPass,
	})
	if cfg.ShopOwnerEmail == "" {
		log.Println("[Config] SHOP_OWNER_EMAIL not set, owner order emails are disabled")
	}

	var alerters []services.OrderAlerter
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	if telegram.Enabled() {
		alerters = append(alerters, telegram)
	}

	app := routes.NewApp(routes.AppConfig{
		Name:           cfg.AppName,
		AllowedOrigins: cfg.AllowedOrigins,
		AccessLog:      true,
	})
	routes.Register(app, routes.Deps{
		DB:        db,
		Auth:      services.NewAuthService(otp, store, mailer),
		Orders:    services.NewOrderService(store, mailer, cfg.ShopOwnerEmail, alerters...),
		Catalog:   services.DefaultCatalog(),
		Sessions:  middleware.NewSessionManager(sessionCfg),
		JWTSecret: cfg.SessionSecret,
		TokenTTL:  cfg.SessionTTL,
	})

	ctx, stop := context.WithCancel(context.Background())
	janitor.Start(ctx)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Println("Shutting down...")
		stop()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}

	janitor.Wait()
	if err := database.Close(db); err != nil {
		log.Printf("close database: %v", err)
	}
}
