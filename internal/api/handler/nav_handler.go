package handler

import (
	"encoding/json"
	"net/http"

	"codecampus/internal/api/middleware"
	"codecampus/internal/app/nav"
	"codecampus/internal/app/service"
	"codecampus/internal/common"

	"github.com/go-chi/chi/v5"
)

type NavHandler struct {
	navService *service.NavigationService
}

func NewNavHandler(ns *service.NavigationService) *NavHandler {
	return &NavHandler{navService: ns}
}

func (h *NavHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.state)
	r.Post("/navigate", h.navigate)
	r.Post("/back", h.back)
}

func (h *NavHandler) session(r *http.Request) (email, role string, ok bool) {
	email, ok = middleware.GetEmailFromContext(r.Context())
	if !ok {
		return "", "", false
	}
	role, ok = middleware.GetUserRoleFromContext(r.Context())
	return email, role, ok
}

func (h *NavHandler) state(w http.ResponseWriter, r *http.Request) {
	email, role, ok := h.session(r)
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, h.navService.State(email, role))
}

type navigateRequest struct {
	Target      nav.View `json:"target"`
	Course      string   `json:"course,omitempty"`
	ChallengeID int      `json:"challenge_id,omitempty"`
}

func (h *NavHandler) navigate(w http.ResponseWriter, r *http.Request) {
	email, role, ok := h.session(r)
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	state, err := h.navService.Navigate(email, role, req.Target, nav.Context{
		Course:      req.Course,
		ChallengeID: req.ChallengeID,
	})
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, state)
}

func (h *NavHandler) back(w http.ResponseWriter, r *http.Request) {
	email, role, ok := h.session(r)
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	state, err := h.navService.Back(email, role)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, state)
}
