package controllers

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/store-it/rental-service/internal/dtos"
	"github.com/store-it/rental-service/internal/models"
	"github.com/store-it/rental-service/internal/repositories"
	"github.com/store-it/rental-service/internal/services"
	"github.com/store-it/rental-service/internal/utils"
)

type ContractController struct {
	contractService *services.ContractService
}

func NewContractController(contractService *services.ContractService) *ContractController {
	return &ContractController{contractService: contractService}
}

// POST /api/v1/contracts
func (c *ContractController) CreateContractHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateContractRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contract, err := c.contractService.Create(r.Context(), services.CreateContractParams{
		ClientID:       req.ClientID,
		AgentID:        req.AgentID,
		SpaceID:        req.SpaceID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Value:          req.Value,
		Description:    req.Description,
		BillingDetails: billingDetails(req.BillingDetails),
	})
	if err != nil {
		respondServiceError(w, err, "Could not create contract")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, contract)
}

// GET /api/v1/contracts/{contractID}
func (c *ContractController) GetContractHandler(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathUUID(w, r, "contractID")
	if !ok {
		return
	}
	contract, err := c.contractService.Get(r.Context(), contractID)
	if err != nil {
		respondServiceError(w, err, "Could not fetch contract")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contract)
}

// PATCH /api/v1/contracts/{contractID}
func (c *ContractController) EditContractHandler(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathUUID(w, r, "contractID")
	if !ok {
		return
	}
	var req dtos.EditContractRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contract, err := c.contractService.Edit(r.Context(), contractID, services.EditContractParams{
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Value:          req.Value,
		Description:    req.Description,
		BillingDetails: billingDetails(req.BillingDetails),
	})
	if err != nil {
		respondServiceError(w, err, "Could not edit contract")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contract)
}

// POST /api/v1/contracts/{contractID}/client-signature
func (c *ContractController) ClientSignHandler(w http.ResponseWriter, r *http.Request) {
	c.signHandler(w, r, c.contractService.ClientSign)
}

// POST /api/v1/contracts/{contractID}/agent-signature
func (c *ContractController) AgentSignHandler(w http.ResponseWriter, r *http.Request) {
	c.signHandler(w, r, c.contractService.AgentSign)
}

func (c *ContractController) signHandler(
	w http.ResponseWriter,
	r *http.Request,
	sign func(ctx context.Context, id uuid.UUID, signature []byte) (*models.Contract, error),
) {
	contractID, ok := pathUUID(w, r, "contractID")
	if !ok {
		return
	}
	var req dtos.SignContractRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Signature is not valid base64", nil, err)
		return
	}

	contract, err := sign(r.Context(), contractID, signature)
	if err != nil {
		respondServiceError(w, err, "Could not sign contract")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contract)
}

// POST /api/v1/contracts/{contractID}/cancel
func (c *ContractController) CancelContractHandler(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathUUID(w, r, "contractID")
	if !ok {
		return
	}
	contract, err := c.contractService.Cancel(r.Context(), contractID)
	if err != nil {
		respondServiceError(w, err, "Could not cancel contract")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contract)
}

// GET /api/v1/clients/{clientID}/contracts
func (c *ContractController) ListClientContractsHandler(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathUUID(w, r, "clientID")
	if !ok {
		return
	}
	filter, ok := contractFilter(w, r)
	if !ok {
		return
	}
	contracts, err := c.contractService.ListByClient(r.Context(), clientID, filter)
	if err != nil {
		respondServiceError(w, err, "Could not list contracts")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contracts)
}

// GET /api/v1/clients/{clientID}/spaces
func (c *ContractController) ListClientSpacesHandler(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathUUID(w, r, "clientID")
	if !ok {
		return
	}
	spaces, err := c.contractService.ListSpacesByClient(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err, "Could not list spaces")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, spaces)
}

// GET /api/v1/agents/{agentID}/contracts
func (c *ContractController) ListAgentContractsHandler(w http.ResponseWriter, r *http.Request) {
	agentID, ok := pathUUID(w, r, "agentID")
	if !ok {
		return
	}
	filter, ok := contractFilter(w, r)
	if !ok {
		return
	}
	contracts, err := c.contractService.ListByAgent(r.Context(), agentID, filter)
	if err != nil {
		respondServiceError(w, err, "Could not list contracts")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contracts)
}

// contractFilter reads the optional ?start_date=YYYY-MM-DD, ?state=,
// ?limit= and ?offset= query parameters.
func contractFilter(w http.ResponseWriter, r *http.Request) (repositories.ContractFilter, bool) {
	var f repositories.ContractFilter
	q := r.URL.Query()

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid start_date, expect YYYY-MM-DD", nil, err)
			return f, false
		}
		f.StartDate = &t
	}
	if raw := q.Get("state"); raw != "" {
		state := models.ContractState(raw)
		f.State = &state
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid limit", nil, err)
			return f, false
		}
		f.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid offset", nil, err)
			return f, false
		}
		f.Offset = n
	}
	return f, true
}

func billingDetails(in []dtos.BillingDetailDTO) []models.BillingDetail {
	if in == nil {
		return nil
	}
	out := make([]models.BillingDetail, 0, len(in))
	for _, d := range in {
		out = append(out, models.BillingDetail{Description: d.Description, Amount: d.Amount})
	}
	return out
}
