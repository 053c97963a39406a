package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"agritrace/internal/compliance"
	pkgerrors "agritrace/pkg/errors"
	"agritrace/pkg/logger"
	"agritrace/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ComplianceHandler struct {
	service  *compliance.Service
	validate *validator.Validator
	logger   logger.Logger
}

func NewComplianceHandler(service *compliance.Service, log logger.Logger) *ComplianceHandler {
	return &ComplianceHandler{
		service:  service,
		validate: validator.New(),
		logger:   log,
	}
}

// GenerateReport handles POST /compliance/reports
func (h *ComplianceHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req compliance.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := h.validate.ValidateStructured(&req); errs != nil {
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": errs,
		})
		return
	}

	resp, err := h.service.GenerateReport(r.Context(), &req)
	if err != nil {
		h.respondComplianceError(w, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, resp)
}

// DownloadReport handles GET /compliance/reports/{id}/download
func (h *ComplianceHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid report id")
		return
	}

	report, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.ErrReportNotFound) {
			respondError(w, h.logger, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Error("report download failed", map[string]interface{}{
			"report_id": id.String(),
			"error":     err.Error(),
		})
		respondError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+string(report.RegulationType)+"-"+report.ID.String()+".txt")
	w.Header().Set("Content-Length", strconv.Itoa(report.FileSize))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.ReportData); err != nil {
		h.logger.Error("report write failed", map[string]interface{}{
			"report_id": id.String(),
			"error":     err.Error(),
		})
	}
}

// ListReports handles GET /compliance/reports?company_id=...
func (h *ComplianceHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.URL.Query().Get("company_id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Missing or invalid company_id")
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	reports, err := h.service.ListReports(r.Context(), companyID, limit, offset)
	if err != nil {
		h.logger.Error("report list failed", map[string]interface{}{
			"company_id": companyID.String(),
			"error":      err.Error(),
		})
		respondError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"limit":   limit,
		"offset":  offset,
	})
}

// respondComplianceError maps the engine's error taxonomy onto HTTP status
// codes: not-found and validation kinds are client failures, everything
// else is a server failure with the detail kept out of the response.
func (h *ComplianceHandler) respondComplianceError(w http.ResponseWriter, err error) {
	kind := compliance.KindOf(err)
	if compliance.IsClientError(err) {
		status := http.StatusUnprocessableEntity
		switch kind {
		case compliance.KindPurchaseOrderNotFound, compliance.KindCompanyNotFound,
			compliance.KindProductNotFound, compliance.KindTemplateNotFound:
			status = http.StatusNotFound
		case compliance.KindValidation:
			status = http.StatusBadRequest
		}
		respondJSON(w, h.logger, status, map[string]string{
			"error": err.Error(),
			"kind":  string(kind),
		})
		return
	}

	respondJSON(w, h.logger, http.StatusInternalServerError, map[string]string{
		"error": "Report generation failed",
		"kind":  string(kind),
	})
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal >= 0 {
			return intVal
		}
	}
	return defaultValue
}

