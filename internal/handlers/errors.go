package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"diet-backend/internal/middleware"
	"diet-backend/internal/services"
	"diet-backend/internal/workflow"
	"diet-backend/pkg/utils"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	switch workflow.KindOf(err) {
	case workflow.KindNotFound:
		return http.StatusNotFound
	case workflow.KindInvalidTransition, workflow.KindConflict:
		return http.StatusConflict
	case workflow.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", r.Method, r.URL.Path, err)
		utils.Error(w, status, "Internal server error")
		return
	}
	utils.Error(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func actorOf(w http.ResponseWriter, r *http.Request) (workflow.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
	}
	return actor, ok
}
