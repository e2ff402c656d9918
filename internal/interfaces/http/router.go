package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/Ganaderia-api/internal/application/administration"
	"github.com/jhoicas/Ganaderia-api/internal/application/compliance"
	"github.com/jhoicas/Ganaderia-api/internal/application/inventory"
	"github.com/jhoicas/Ganaderia-api/internal/application/usecase"
	pkgjwt "github.com/jhoicas/Ganaderia-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	FarmUC           *usecase.FarmUseCase
	AnimalUC         *usecase.AnimalUseCase
	DrugUC           *usecase.DrugUseCase
	BatchUC          *inventory.BatchUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	AdministrationUC *administration.UseCase
	ComplianceUC     *compliance.UseCase
	JWTSecret        string
	Metrics          nethttp.Handler // nil → sin /metrics
}

const (
	admin       = pkgjwt.RoleAdmin
	veterinario = pkgjwt.RoleVeterinario
	ganadero    = pkgjwt.RoleGanadero
	inspector   = pkgjwt.RoleInspector
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Todo /api requiere Bearer Token con rol (y finca para ganadero / veterinario)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireFarmScope())

	// Catálogo de fármacos
	drugs := protected.Group("/drugs")
	drugHandler := NewDrugHandler(deps.DrugUC)
	drugs.Get("/", drugHandler.List)
	drugs.Get("/:id", drugHandler.GetByID)
	drugs.Post("/", RequireRole(admin, veterinario), drugHandler.Create)
	drugs.Put("/:id", RequireRole(admin, veterinario), drugHandler.Update)

	// Fincas
	farms := protected.Group("/farms")
	farmHandler := NewFarmHandler(deps.FarmUC, deps.AnimalUC, deps.BatchUC, deps.AdministrationUC)
	complianceHandler := NewComplianceHandler(deps.ComplianceUC)
	farms.Post("/", RequireRole(admin), farmHandler.Create)
	farms.Get("/", RequireRole(admin, inspector), farmHandler.List)

	access := RequireFarmAccess("id")
	farms.Get("/:id", access, farmHandler.GetByID)
	farms.Put("/:id", RequireRole(admin, ganadero), access, farmHandler.Update)
	farms.Post("/:id/violations", RequireRole(admin, inspector), access, farmHandler.RecordViolation)
	farms.Get("/:id/animals", access, farmHandler.ListAnimals)
	farms.Get("/:id/batches", access, farmHandler.ListBatches)
	farms.Get("/:id/restricted-animals", access, farmHandler.RestrictedAnimals)
	farms.Get("/:id/compliance", access, complianceHandler.Get)
	farms.Get("/:id/compliance/export", access, complianceHandler.Export)

	// Animales y periodos de retiro
	animals := protected.Group("/animals")
	animalHandler := NewAnimalHandler(deps.AnimalUC, deps.AdministrationUC)
	animals.Post("/", RequireRole(admin, ganadero, veterinario), animalHandler.Create)
	animals.Get("/:id", animalHandler.GetByID)
	animals.Get("/:id/withdrawals", animalHandler.Withdrawals)
	animals.Get("/:id/administrations", animalHandler.History)
	animals.Post("/:id/administrations", RequireRole(admin, veterinario), animalHandler.RecordAdministration)

	// Botiquín: lotes y movimientos
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC, deps.RegisterMovement)
	batches.Post("/", RequireRole(admin, ganadero, veterinario), batchHandler.Intake)
	batches.Get("/:id/status", batchHandler.Status)
	batches.Get("/:id/movements", batchHandler.ListMovements)
	batches.Post("/:id/movements", RequireRole(admin, ganadero, veterinario), batchHandler.RegisterMovement)
}
