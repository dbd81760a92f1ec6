package controllers

import (
	"net/http"

	"github.com/store-it/rental-service/internal/dtos"
	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/services"
	"github.com/store-it/rental-service/internal/utils"
)

type ProductController struct {
	allocatorService *services.AllocatorService
}

func NewProductController(allocatorService *services.AllocatorService) *ProductController {
	return &ProductController{allocatorService: allocatorService}
}

// POST /api/v1/spaces/{spaceID}/check-in
func (c *ProductController) CheckInHandler(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(w, r, "spaceID")
	if !ok {
		return
	}
	var req dtos.CheckInRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := c.allocatorService.CheckIn(r.Context(), services.CheckInParams{
		SpaceID:     spaceID,
		ClientID:    req.ClientID,
		StaffID:     req.StaffID,
		Name:        req.Name,
		Description: req.Description,
		Footprint:   models.SquareMeters(req.Footprint),
		Height:      req.Height,
		Fragile:     req.Fragile,
		Note:        req.Note,
	})
	if err != nil {
		respondServiceError(w, err, "Could not check product in")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// POST /api/v1/spaces/{spaceID}/check-out
func (c *ProductController) CheckOutHandler(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(w, r, "spaceID")
	if !ok {
		return
	}
	var req dtos.CheckOutRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := c.allocatorService.CheckOut(r.Context(), req.ProductID, spaceID, req.StaffID, req.Note)
	if err != nil {
		respondServiceError(w, err, "Could not check product out")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// GET /api/v1/spaces/{spaceID}/products
func (c *ProductController) ListSpaceProductsHandler(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(w, r, "spaceID")
	if !ok {
		return
	}
	products, err := c.allocatorService.ListBySpace(r.Context(), spaceID)
	if err != nil {
		respondServiceError(w, err, "Could not list products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GET /api/v1/clients/{clientID}/products
func (c *ProductController) ListClientProductsHandler(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathUUID(w, r, "clientID")
	if !ok {
		return
	}
	products, err := c.allocatorService.ListByClient(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err, "Could not list products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GET /api/v1/spaces/{spaceID}/movements
func (c *ProductController) ListSpaceMovementsHandler(w http.ResponseWriter, r *http.Request) {
	spaceID, ok := pathUUID(w, r, "spaceID")
	if !ok {
		return
	}
	movements, err := c.allocatorService.MovementsBySpace(r.Context(), spaceID)
	if err != nil {
		respondServiceError(w, err, "Could not list movements")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, movements)
}

// GET /api/v1/products/{productID}/movements
func (c *ProductController) ListProductMovementsHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathUUID(w, r, "productID")
	if !ok {
		return
	}
	movements, err := c.allocatorService.MovementsByProduct(r.Context(), productID)
	if err != nil {
		respondServiceError(w, err, "Could not list movements")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, movements)
}
