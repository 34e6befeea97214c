package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"aqalert/internal/alerts/service"
	apperrors "aqalert/pkg/errors"
	"aqalert/pkg/httputil"
	"aqalert/pkg/logger"
	"aqalert/pkg/middleware"
	"aqalert/pkg/model"
)

type SetupAlertHandler struct {
	service service.SetupAlertService
	log     *logger.Logger
}

func NewSetupAlertHandler(service service.SetupAlertService, log *logger.Logger) *SetupAlertHandler {
	return &SetupAlertHandler{
		service: service,
		log:     log,
	}
}

func (h *SetupAlertHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/setup-alert", h.SetupAlert)
}

func (h *SetupAlertHandler) SetupAlert(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SetupAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode setup-alert body",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, apperrors.InvalidInput("Invalid JSON body"))
		return
	}

	result, err := h.service.SetupAlert(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, result); err != nil {
		h.log.Error("failed to write JSON response",
			"handler", "SetupAlert",
			"error", err,
		)
	}
}
