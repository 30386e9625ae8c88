package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"quickdrop/internal/dispatch-service/core/domain/dto"
	"quickdrop/internal/dispatch-service/core/myerrors"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/mylogger"
)

type DispatchHandler struct {
	dispatchService ports.IDispatchService
	log             mylogger.Logger
}

func NewDispatchHandler(ds ports.IDispatchService, log mylogger.Logger) *DispatchHandler {
	return &DispatchHandler{
		dispatchService: ds,
		log:             log,
	}
}

// AssignCourier handles POST /dispatch/orders/{order_id}/assign.
// "No courier available" is a successful response with a null courier,
// not an HTTP error: the caller is expected to queue the order.
func (dh *DispatchHandler) AssignCourier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := r.PathValue("order_id")
		if orderID == "" {
			JsonError(w, http.StatusBadRequest, errors.New("missing order_id"))
			return
		}

		req := dto.AssignRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if req.StoreID == "" || req.DeliveryAddress == "" {
			JsonError(w, http.StatusBadRequest, errors.New("store_id and delivery_address are required"))
			return
		}

		result, err := dh.dispatchService.AssignCourier(r.Context(), req.StoreID, orderID, req.DeliveryAddress)
		if err != nil {
			dh.writeDispatchError(w, err)
			return
		}

		res := dto.AssignResponseDto{
			OrderID:          orderID,
			AssignmentID:     result.AssignmentID,
			DistanceKm:       result.DistanceKm,
			EstimatedMinutes: result.EstimatedMinutes,
			MaxMinutes:       result.MaxMinutes,
		}
		if result.Courier != nil {
			res.Courier = &dto.AssignedCourierDto{
				CourierID: result.Courier.CourierID,
				Latitude:  result.Courier.Latitude,
				Longitude: result.Courier.Longitude,
			}
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

// Estimate handles GET /dispatch/estimate?store_id=...&address=...
// Availability is not consulted; this serves pre-order ETA display.
func (dh *DispatchHandler) Estimate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := r.URL.Query().Get("store_id")
		address := r.URL.Query().Get("address")
		if storeID == "" || address == "" {
			JsonError(w, http.StatusBadRequest, errors.New("store_id and address are required"))
			return
		}

		distance, estimate, err := dh.dispatchService.EstimateDeliveryTime(r.Context(), storeID, address)
		if err != nil {
			dh.writeDispatchError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.EstimateResponseDto{
			StoreID:          storeID,
			DistanceKm:       distance,
			EstimatedMinutes: estimate.Minutes,
			MaxMinutes:       estimate.MaxMinutes,
		})
	}
}

func (dh *DispatchHandler) writeDispatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, myerrors.ErrStoreNotFound):
		JsonError(w, http.StatusNotFound, err)
	case errors.Is(err, myerrors.ErrGeocodeFailed):
		JsonError(w, http.StatusUnprocessableEntity, err)
	default:
		dh.log.Action("dispatch").Error("dispatch request failed", err)
		JsonError(w, http.StatusInternalServerError, err)
	}
}
