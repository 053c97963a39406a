package handler

import (
	"net/http"
	"strings"

	"agritrace/internal/domain"
	"agritrace/internal/hscode"
	pkgerrors "agritrace/pkg/errors"
	"agritrace/pkg/logger"
	"agritrace/pkg/validator"

	"github.com/gorilla/mux"
)

type HSCodeHandler struct {
	service *hscode.Service
	logger  logger.Logger
}

func NewHSCodeHandler(service *hscode.Service, log logger.Logger) *HSCodeHandler {
	return &HSCodeHandler{
		service: service,
		logger:  log,
	}
}

// GetByCode handles GET /hscodes/{code}
func (h *HSCodeHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if !validator.IsHSCode(code) {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid HS code format")
		return
	}

	hsCode, err := h.service.GetByCode(r.Context(), code)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.ErrHSCodeNotFound) {
			respondError(w, h.logger, http.StatusNotFound, "HS code not found")
			return
		}
		h.logger.Error("hs code lookup failed", map[string]interface{}{
			"code":  code,
			"error": err.Error(),
		})
		respondError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, hsCode)
}

// ListByRegulation handles GET /hscodes?regulation_type=EUDR
func (h *HSCodeHandler) ListByRegulation(w http.ResponseWriter, r *http.Request) {
	regulationType := domain.RegulationType(strings.ToUpper(r.URL.Query().Get("regulation_type")))
	if !regulationType.IsSupported() {
		respondError(w, h.logger, http.StatusBadRequest, "Missing or unsupported regulation_type")
		return
	}

	codes, err := h.service.ListByRegulation(r.Context(), regulationType)
	if err != nil {
		h.logger.Error("hs code list failed", map[string]interface{}{
			"regulation_type": string(regulationType),
			"error":           err.Error(),
		})
		respondError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"regulation_type": regulationType,
		"hs_codes":        codes,
	})
}
