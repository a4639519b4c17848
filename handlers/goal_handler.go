package handlers

import (
	"context"
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

type GoalHandler struct {
	service service.GoalService
}

func NewGoalHandler(service service.GoalService) *GoalHandler {
	return &GoalHandler{
		service: service,
	}
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal models.Goal
	if err := utils.DecodeAndValidate(w, r, &goal); err != nil {
		return
	}

	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := h.service.CreateGoal(ctx, username, &goal)
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Goal created successfully", created, http.StatusCreated)
}

func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsernameFromContext(r.Context())

	filter := repository.GoalFilter{
		Category: r.URL.Query().Get("category"),
	}
	if raw := r.URL.Query().Get("is_complete"); raw != "" {
		complete, err := strconv.ParseBool(raw)
		if err != nil {
			utils.HandleMessageResponse(w, "Invalid is_complete filter", http.StatusBadRequest)
			return
		}
		filter.IsComplete = &complete
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	goals, err := h.service.ListGoals(ctx, username, filter, page, pageSize)
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Goals retrieved successfully", goals, http.StatusOK)
}

func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goalNum, err := strconv.Atoi(r.PathValue("goalNum"))
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid goal number", http.StatusBadRequest)
		return
	}

	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	goal, err := h.service.GetGoalByNumber(ctx, username, goalNum)
	if errors.Is(err, repository.ErrNotFound) {
		utils.HandleMessageResponse(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Goal retrieved successfully", goal, http.StatusOK)
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	goalNum, err := strconv.Atoi(r.PathValue("goalNum"))
	if err != nil {
		utils.HandleMessageResponse(w, "Invalid goal number", http.StatusBadRequest)
		return
	}

	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = h.service.DeleteGoalByNumber(ctx, username, goalNum)
	if errors.Is(err, repository.ErrNotFound) {
		utils.HandleMessageResponse(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleMessageResponse(w, "Goal deleted successfully", http.StatusOK)
}
