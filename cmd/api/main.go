package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/optica-suite/internal/application/auth"
	"github.com/jhoicas/optica-suite/internal/application/registro"
	"github.com/jhoicas/optica-suite/internal/application/usecase"
	"github.com/jhoicas/optica-suite/internal/application/venta"
	"github.com/jhoicas/optica-suite/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/optica-suite/internal/interfaces/http"
	"github.com/jhoicas/optica-suite/pkg/config"
	"github.com/jhoicas/optica-suite/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.ConnectWithRetry(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.SyncSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("sincronización de esquema")
	}
	if err := postgres.Bootstrap(ctx, pool, cfg.Bootstrap); err != nil {
		log.Fatal().Err(err).Msg("datos semilla")
	}

	opticRepo := postgres.NewOpticRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	requestRepo := postgres.NewRegistrationRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, opticRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	registrationUC := registro.NewRegistrationUseCase(txRunner, requestRepo, userRepo)
	clientUC := usecase.NewClientUseCase(clientRepo, txRunner)
	productUC := usecase.NewProductUseCase(productRepo, txRunner)
	opticUC := usecase.NewOpticUseCase(opticRepo)
	saleUC := venta.NewSaleUseCase(txRunner, clientRepo, saleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Optica Suite API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		RegistrationUC: registrationUC,
		ClientUC:       clientUC,
		ProductUC:      productUC,
		OpticUC:        opticUC,
		SaleUC:         saleUC,
		JWTSecret:      cfg.JWT.Secret,
		Env:            cfg.App.Env,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
