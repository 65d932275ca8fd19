package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/optica-suite/internal/application/auth"
	"github.com/jhoicas/optica-suite/internal/application/registro"
	"github.com/jhoicas/optica-suite/internal/application/usecase"
	"github.com/jhoicas/optica-suite/internal/application/venta"
	"github.com/jhoicas/optica-suite/internal/domain"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	RegistrationUC *registro.RegistrationUseCase
	ClientUC       *usecase.ClientUseCase
	ProductUC      *usecase.ProductUseCase
	OpticUC        *usecase.OpticUseCase
	SaleUC         *venta.SaleUseCase
	JWTSecret      string
	Env            string // development expone el detalle de errores internos
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	exposeInternalErrors = deps.Env == "development"

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	registrationHandler := NewRegistrationHandler(deps.RegistrationUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", registrationHandler.Register)
	authGroup.Post("/password-reset", authHandler.RequestPasswordReset)
	authGroup.Post("/password-reset/confirm", authHandler.ResetPassword)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/search", clientHandler.Search)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Sales (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Delete("/:id", saleHandler.Delete)

	// Optics (protegido; List es solo admin, lo decide el caso de uso)
	optics := protected.Group("/optics")
	opticHandler := NewOpticHandler(deps.OpticUC)
	optics.Get("/", opticHandler.List)
	optics.Get("/:id", opticHandler.GetByID)
	optics.Put("/:id", opticHandler.Update)
	optics.Get("/:id/stats", opticHandler.Stats)

	// Registration requests (solo admin)
	requests := protected.Group("/registration-requests", RequireRole(domain.RoleAdmin))
	requests.Get("/", registrationHandler.List)
	requests.Post("/:id/approve", registrationHandler.Approve)
	requests.Post("/:id/reject", registrationHandler.Reject)
}
