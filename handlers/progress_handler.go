package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	middleware "goaltracker/middlewares"
	"goaltracker/models"
	repository "goaltracker/repositories"
	service "goaltracker/services"
	"goaltracker/utils"
)

type ProgressHandler struct {
	service service.ProgressService
}

func NewProgressHandler(service service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		service: service,
	}
}

func (h *ProgressHandler) CreateProgress(w http.ResponseWriter, r *http.Request) {
	goalNum, err := strconv.Atoi(r.PathValue("goalNum"))
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid goal number", http.StatusBadRequest)
		return
	}

	var progress models.Progress
	if err := utils.DecodeAndValidate(w, r, &progress); err != nil {
		return
	}

	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := h.service.CreateProgress(ctx, username, goalNum, &progress)
	if errors.Is(err, repository.ErrNotFound) {
		utils.HandleMessageResponse(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Progress created successfully", created, http.StatusCreated)
}

func (h *ProgressHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	goalNum, err := strconv.Atoi(r.PathValue("goalNum"))
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid goal number", http.StatusBadRequest)
		return
	}

	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := h.service.ListProgress(ctx, username, goalNum)
	if errors.Is(err, repository.ErrNotFound) {
		utils.HandleMessageResponse(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Progress retrieved successfully", records, http.StatusOK)
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	goalNum, progressNum, ok := h.pathNumbers(w, r)
	if !ok {
		return
	}

	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	progress, err := h.service.GetProgressByNumber(ctx, username, goalNum, progressNum)
	if errors.Is(err, repository.ErrNotFound) {
		utils.HandleMessageResponse(w, "Progress not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	detail := models.ProgressDetail{
		Progress:           *progress,
		PercentageComplete: progress.PercentageComplete(),
	}
	utils.HandleDataResponse(w, "Progress retrieved successfully", detail, http.StatusOK)
}

func (h *ProgressHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	goalNum, progressNum, ok := h.pathNumbers(w, r)
	if !ok {
		return
	}

	var patch struct {
		LoggedHours *models.Duration `json:"logged_hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	progress, err := h.service.UpdateLoggedHours(ctx, username, goalNum, progressNum, patch.LoggedHours)
	if errors.Is(err, repository.ErrNotFound) {
		utils.HandleMessageResponse(w, "Progress not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Progress updated successfully", progress, http.StatusOK)
}

// ListAllProgress is the public cross-user listing of progress texts
// with their goal names.
func (h *ProgressHandler) ListAllProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	overviews, err := h.service.ListOverviews(ctx)
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Progress retrieved successfully", overviews, http.StatusOK)
}

func (h *ProgressHandler) pathNumbers(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	goalNum, err := strconv.Atoi(r.PathValue("goalNum"))
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid goal number", http.StatusBadRequest)
		return 0, 0, false
	}
	progressNum, err := strconv.Atoi(r.PathValue("progressNum"))
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid progress number", http.StatusBadRequest)
		return 0, 0, false
	}
	return goalNum, progressNum, true
}
