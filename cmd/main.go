package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/store-it/rental-service/internal/app"
	"github.com/store-it/rental-service/internal/config"
	"github.com/store-it/rental-service/internal/constants"
	"github.com/store-it/rental-service/internal/controllers"
	"github.com/store-it/rental-service/internal/repositories"
	"github.com/store-it/rental-service/internal/routes"
	"github.com/store-it/rental-service/internal/services"
	"github.com/store-it/rental-service/internal/utils"
)

const sweepJobTimeout = 5 * time.Minute

func main() {
	utils.InitLogger("rental-service")
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize rental-service:", err)
	}
	defer application.Close()

	// Repositories
	warehouseRepo := repositories.NewWarehouseRepository(application.DB)
	spaceRepo := repositories.NewSpaceRepository(application.DB)
	productRepo := repositories.NewProductRepository(application.DB)
	movementRepo := repositories.NewMovementRepository(application.DB)
	contractRepo := repositories.NewContractRepository(application.DB)
	clientRepo := repositories.NewClientRepository(application.DB)
	agentRepo := repositories.NewAgentRepository(application.DB)
	staffRepo := repositories.NewStaffRepository(application.DB)

	// Collaborators
	notifier := services.NewSendgridNotifier(cfg)
	renderer, err := services.NewTextRenderer()
	if err != nil {
		utils.Logger.Fatal("Failed to initialize document renderer:", err)
	}

	// Services
	ledgerService := services.NewLedgerService(warehouseRepo, spaceRepo, productRepo)
	facilityService := services.NewFacilityService(warehouseRepo, spaceRepo, productRepo)
	allocatorService := services.NewAllocatorService(ledgerService, spaceRepo, productRepo, movementRepo, contractRepo, clientRepo, staffRepo, notifier)
	contractService := services.NewContractService(contractRepo, spaceRepo, warehouseRepo, productRepo, clientRepo, agentRepo, ledgerService, renderer, notifier)
	sweeperService := services.NewSweeperService(contractRepo, ledgerService, clientRepo, agentRepo, notifier)

	// Controllers
	healthController := controllers.NewHealthController()
	facilityController := controllers.NewFacilityController(facilityService, ledgerService)
	productController := controllers.NewProductController(allocatorService)
	contractController := controllers.NewContractController(contractService)

	// Router setup
	router := mux.NewRouter()

	router.HandleFunc(routes.Health, healthController.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.Warehouses, facilityController.CreateWarehouseHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Warehouses, facilityController.ListWarehousesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Warehouse, facilityController.GetWarehouseHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Warehouse, facilityController.EditWarehouseHandler).Methods(http.MethodPatch)
	router.HandleFunc(routes.WarehouseUsage, facilityController.WarehouseUsageHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.WarehouseSpaces, facilityController.CreateSpaceHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.WarehouseSpaces, facilityController.ListSpacesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.WarehouseFreeSpaces, facilityController.ListFreeSpacesHandler).Methods(http.MethodGet)

	router.HandleFunc(routes.Space, facilityController.GetSpaceHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Space, facilityController.EditSpaceHandler).Methods(http.MethodPatch)
	router.HandleFunc(routes.SpaceUsage, facilityController.SpaceUsageHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.SpaceProducts, productController.ListSpaceProductsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.SpaceMovements, productController.ListSpaceMovementsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.SpaceCheckIn, productController.CheckInHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.SpaceCheckOut, productController.CheckOutHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.Contracts, contractController.CreateContractHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.Contract, contractController.GetContractHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Contract, contractController.EditContractHandler).Methods(http.MethodPatch)
	router.HandleFunc(routes.ContractClientSign, contractController.ClientSignHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ContractAgentSign, contractController.AgentSignHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ContractCancel, contractController.CancelContractHandler).Methods(http.MethodPost)

	router.HandleFunc(routes.ClientContracts, contractController.ListClientContractsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ClientProducts, productController.ListClientProductsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ClientSpaces, contractController.ListClientSpacesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AgentContracts, contractController.ListAgentContractsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.ProductMovements, productController.ListProductMovementsHandler).Methods(http.MethodGet)

	// Cron job setup
	c := cron.New(cron.WithLocation(time.UTC))

	sweepSpec := constants.ExpirySweepSchedule
	if cfg.SweepSchedule != "" {
		sweepSpec = cfg.SweepSchedule
	}
	_, err = c.AddFunc(sweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepJobTimeout)
		defer cancel()
		utils.Logger.Info("Starting contract expiry sweep...")
		if _, err := sweeperService.SweepOnce(ctx, time.Now()); err != nil {
			utils.Logger.WithError(err).Error("Contract expiry sweep failed")
		}
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule contract expiry sweep")
	}

	c.Start()
	defer c.Stop()
	utils.Logger.Infof("Scheduled contract expiry sweep: %q", sweepSpec)

	allowedOrigins := []string{"*"}
	if cfg.AppUrl != "" {
		allowedOrigins = []string{cfg.AppUrl}
	}
	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("rental-service failed to start:", err)
	}
}
