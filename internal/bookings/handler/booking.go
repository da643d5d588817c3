package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"medbook/internal/bookings/service"
	apperrors "medbook/pkg/errors"
	httputil "medbook/pkg/http"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AddBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, "Add", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	booking, err := h.service.AddBooking(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Add", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Add", "error", err)
	}
}

// Cancel reads the booking id from the DELETE body; the booking record
// survives with cancelled set.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, "Cancel", http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.CancelBooking(r.Context(), &req); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) GetPatientNext(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	raw := ps.ByName("patient_id")
	patientID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.writeError(w, "GetPatientNext", apperrors.InvalidInput(fmt.Sprintf("invalid patient id: %s", raw)))
		return
	}

	booking, err := h.service.GetPatientNextBooking(r.Context(), patientID)
	if err != nil {
		h.writeError(w, "GetPatientNext", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking.NextView()); err != nil {
		h.log.Error("failed to write success response", "handler", "GetPatientNext", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Add)
	router.DELETE("/api/v1/bookings", h.Cancel)
	router.GET("/api/v1/bookings/patient/:patient_id/next", h.GetPatientNext)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}
