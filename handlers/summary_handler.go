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

type SummaryHandler struct {
	service service.SummaryService
}

func NewSummaryHandler(service service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		service: service,
	}
}

func (h *SummaryHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	h.summary(w, r, models.PeriodWeekly)
}

func (h *SummaryHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	h.summary(w, r, models.PeriodMonthly)
}

func (h *SummaryHandler) summary(w http.ResponseWriter, r *http.Request, period models.SummaryPeriod) {
	var goalNum *int
	if raw := r.PathValue("goalNum"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.HandleMessageResponse(w, "Invalid goal number", http.StatusBadRequest)
			return
		}
		goalNum = &n
	}

	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	payload, err := h.service.Summary(ctx, username, period, goalNum)
	if errors.Is(err, service.ErrInvalidSelector) {
		utils.HandleMessageResponse(w, "Invalid goal number", http.StatusBadRequest)
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		utils.HandleMessageResponse(w, "Goal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleRawResponse(w, payload, http.StatusOK)
}
