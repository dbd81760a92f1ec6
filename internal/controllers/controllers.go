package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/store-it/rental-service/internal/utils"
)

var validate = validator.New()

// decodeAndValidate unmarshals the request body into dst and runs the
// struct validation tags. It writes the error response itself and
// reports whether the caller may proceed.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Request failed validation", err.Error())
		return false
	}
	return true
}

// pathUUID parses a uuid path variable, responding 400 on garbage.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid "+name, nil, err)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps the domain sentinels onto HTTP statuses.
// Business-rule rejections are 409s so clients can distinguish them
// from malformed requests.
func respondServiceError(w http.ResponseWriter, err error, publicMessage string) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, publicMessage, nil, err)
	case errors.Is(err, utils.ErrInsufficientArea):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeInsufficientArea, publicMessage, nil, err)
	case errors.Is(err, utils.ErrInvalidTransition):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeInvalidTransition, publicMessage, nil, err)
	case errors.Is(err, utils.ErrRowVersionConflict),
		errors.Is(err, utils.ErrStateConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict, publicMessage, nil, err)
	case errors.Is(err, utils.ErrSpaceNotFree),
		errors.Is(err, utils.ErrSpaceNotLeased),
		errors.Is(err, utils.ErrSpaceInUse),
		errors.Is(err, utils.ErrWarehouseNotActive),
		errors.Is(err, utils.ErrAccountNotActive),
		errors.Is(err, utils.ErrClientNotBound),
		errors.Is(err, utils.ErrProductNotInSpace),
		errors.Is(err, utils.ErrAreaBelowOccupied),
		errors.Is(err, utils.ErrAreaExceedsWarehouse),
		errors.Is(err, utils.ErrHeightExceedsLimit):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodePreconditionFailed, publicMessage, err.Error())
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, publicMessage, nil, err)
	}
}
