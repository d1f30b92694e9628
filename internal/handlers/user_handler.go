package handlers

import (
	"net/http"

	"diet-backend/internal/models"
	"diet-backend/internal/services"
	"diet-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// UserHandler serves the staff directory managers use to resolve assignees.
type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(s *services.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

// ListUsers handles GET /api/users?role=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context(), models.Role(r.URL.Query().Get("role")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	utils.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
