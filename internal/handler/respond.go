package handler

import (
	"encoding/json"
	"net/http"

	"agritrace/pkg/logger"
)

func respondJSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("json encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func respondError(w http.ResponseWriter, log logger.Logger, status int, message string) {
	respondJSON(w, log, status, map[string]string{"error": message})
}
