package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"quickdrop/internal/dispatch-service/core/domain/dto"
	"quickdrop/internal/dispatch-service/core/myerrors"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/mylogger"
)

type CourierHandler struct {
	courierService  ports.ICourierService
	dispatchService ports.IDispatchService
	log             mylogger.Logger
}

func NewCourierHandler(cs ports.ICourierService, ds ports.IDispatchService, log mylogger.Logger) *CourierHandler {
	return &CourierHandler{
		courierService:  cs,
		dispatchService: ds,
		log:             log,
	}
}

// UpdateLocation handles POST /couriers/{courier_id}/location, the REST
// fallback for couriers whose websocket is down.
func (ch *CourierHandler) UpdateLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courierID := r.PathValue("courier_id")

		req := dto.LocationPingDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		courier, err := ch.courierService.UpdateLocation(r.Context(), courierID, req.Latitude, req.Longitude)
		if err != nil {
			ch.writeCourierError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.LocationPingResponseDto{
			CourierID: courier.CourierID,
			UpdatedAt: courier.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
}

// Shift handles POST /couriers/{courier_id}/shift.
func (ch *CourierHandler) Shift() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courierID := r.PathValue("courier_id")

		req := dto.ShiftRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		if err := ch.courierService.SetShift(r.Context(), courierID, req.Active); err != nil {
			ch.writeCourierError(w, err)
			return
		}

		status := "offline"
		message := "You are now off shift"
		if req.Active {
			status = "available"
			message = "You are now on shift and ready for orders"
		}
		jsonResponse(w, http.StatusOK, dto.ShiftResponseDto{
			CourierID: courierID,
			Status:    status,
			Message:   message,
		})
	}
}

// Complete handles POST /couriers/{courier_id}/complete.
func (ch *CourierHandler) Complete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courierID := r.PathValue("courier_id")

		req := dto.CompleteRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.OrderID == "" {
			JsonError(w, http.StatusBadRequest, errors.New("order_id is required"))
			return
		}

		if err := ch.dispatchService.CompleteDelivery(r.Context(), courierID, req.OrderID); err != nil {
			ch.writeCourierError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.CompleteResponseDto{
			CourierID: courierID,
			OrderID:   req.OrderID,
			Status:    "available",
			Message:   "Delivery completed successfully",
		})
	}
}

func (ch *CourierHandler) writeCourierError(w http.ResponseWriter, err error) {
	if errors.Is(err, myerrors.ErrCourierNotFound) {
		JsonError(w, http.StatusNotFound, err)
		return
	}
	ch.log.Action("courier").Error("courier request failed", err)
	JsonError(w, http.StatusInternalServerError, err)
}
