package controllers

import (
	"net/http"

	"github.com/store-it/rental-service/internal/dtos"
	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/services"
	"github.com/store-it/rental-service/internal/utils"
)

type FacilityController struct {
	facilityService *services.FacilityService
	ledgerService   *services.LedgerService
}

func NewFacilityController(facilityService *services.FacilityService, ledgerService *services.LedgerService) *FacilityController {
	return &FacilityController{
		facilityService: facilityService,
		ledgerService:   ledgerService,
	}
}

// POST /api/v1/warehouses
func (c *FacilityController) CreateWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateWarehouseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	warehouse, err := c.facilityService.CreateWarehouse(r.Context(), services.CreateWarehouseParams{
		Address:   req.Address,
		Phone:     req.Phone,
		TotalArea: models.SquareMeters(req.TotalArea),
		Height:    req.Height,
	})
	if err != nil {
		respondServiceError(w, err, "Could not create warehouse")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, warehouse)
}

// GET /api/v1/warehouses
func (c *FacilityController) ListWarehousesHandler(w http.ResponseWriter, r *http.Request) {
	warehouses, err := c.facilityService.ListWarehouses(r.Context())
	if err != nil {
		respondServiceError(w, err, "Could not list warehouses")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, warehouses)
}

// GET /api/v1/warehouses/{warehouseID}
func (c *FacilityController) GetWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathUUID(w, r, "warehouseID")
	if !ok {
		return
	}
	warehouse, err := c.facilityService.GetWarehouse(r.Context(), warehouseID)
	if err != nil {
		respondServiceError(w, err, "Could not fetch warehouse")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, warehouse)
}

// PATCH /api/v1/warehouses/{warehouseID}
func (c *FacilityController) EditWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathUUID(w, r, "warehouseID")
	if !ok {
		return
	}
	var req dtos.EditWarehouseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := services.EditWarehouseParams{
		Address: req.Address,
		Phone:   req.Phone,
		Height:  req.Height,
	}
	if req.Status != nil {
		status := models.WarehouseStatus(*req.Status)
		params.Status = &status
	}

	warehouse, err := c.facilityService.EditWarehouse(r.Context(), warehouseID, params)
	if err != nil {
		respondServiceError(w, err, "Could not edit warehouse")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, warehouse)
}

// GET /api/v1/warehouses/{warehouseID}/usage
func (c *FacilityController) WarehouseUsageHandler(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathUUID(w, r, "warehouseID")
	if !ok {
		return
	}
	usage, err := c.ledgerService.WarehouseUsage(r.Context(), warehouseID)
	if err != nil {
		respondServiceError(w, err, "Could not compute warehouse usage")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, usage)
}

// POST /api/v1/warehouses/{warehouseID}/spaces
func (c *FacilityController) CreateSpaceHandler(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathUUID(w, r, "warehouseID")
	if !ok {
		return
	}
	var req dtos.CreateSpaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	space, err := c.facilityService.CreateSpace(r.Context(), services.CreateSpaceParams{
		WarehouseID:   warehouseID,
		TotalArea:     models.SquareMeters(req.TotalArea),
		AvailableArea: models.SquareMeters(req.AvailableArea),
		Height:        req.Height,
	})
	if err != nil {
		respondServiceError(w, err, "Could not create space")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, space)
}

// GET /api/v1/warehouses/{warehouseID}/spaces
func (c *FacilityController) ListSpacesHandler(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathUUID(w, r, "warehouseID")
	if !ok {
		return
	}
	spaces, err := c.facilityService.ListSpaces(r.Context(), warehouseID)
	if err != nil {
		respondServiceError(w, err, "Could not list spaces")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, spaces)
}

// GET /api/v1/warehouses/{warehouseID}/spaces/free
func (c *FacilityController) ListFreeSpacesHandler(w http.ResponseWriter, r *http.Request) {
	warehouseID, ok := pathUUID(w, r, "warehouseID")
	if !ok {
		return
	}
	spaces, err := c.facilityService.ListFreeSpaces(r.Context(), warehouseID)
	if err != nil {
		respondServiceError(w, err, "Could not list free spaces")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, spaces)
}

// GET /api/v1/spaces/{spaceID}
func (c *FacilityController) GetSpaceHandler(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(w, r, "spaceID")
	if !ok {
		return
	}
	space, err := c.facilityService.GetSpace(r.Context(), spaceID)
	if err != nil {
		respondServiceError(w, err, "Could not fetch space")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, space)
}

// PATCH /api/v1/spaces/{spaceID}
func (c *FacilityController) EditSpaceHandler(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(w, r, "spaceID")
	if !ok {
		return
	}
	var req dtos.EditSpaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	params := services.EditSpaceParams{Height: req.Height}
	if req.AvailableArea != nil {
		area := models.SquareMeters(*req.AvailableArea)
		params.AvailableArea = &area
	}

	space, err := c.facilityService.EditSpace(r.Context(), spaceID, params)
	if err != nil {
		respondServiceError(w, err, "Could not edit space")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, space)
}

// GET /api/v1/spaces/{spaceID}/usage
func (c *FacilityController) SpaceUsageHandler(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(w, r, "spaceID")
	if !ok {
		return
	}
	usage, err := c.ledgerService.SpaceUsage(r.Context(), spaceID)
	if err != nil {
		respondServiceError(w, err, "Could not compute space usage")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, usage)
}
