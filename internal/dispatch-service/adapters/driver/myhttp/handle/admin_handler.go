package handle

import (
	"net/http"

	"quickdrop/internal/dispatch-service/core/domain/dto"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/mylogger"
)

type AdminHandler struct {
	adminService ports.IAdminService
	log          mylogger.Logger
}

func NewAdminHandler(as ports.IAdminService, log mylogger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: as,
		log:          log,
	}
}

// Overview handles GET /admin/overview.
func (ah *AdminHandler) Overview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := ah.adminService.Overview(r.Context())
		if err != nil {
			ah.log.Action("overview").Error("cannot build fleet overview", err)
			JsonError(w, http.StatusInternalServerError, err)
			return
		}

		jsonResponse(w, http.StatusOK, dto.FleetOverviewDto{
			ActiveCouriers:    overview.ActiveCouriers,
			AvailableCouriers: overview.AvailableCouriers,
			BusyCouriers:      overview.BusyCouriers,
			OfflineCouriers:   overview.OfflineCouriers,
			Stores:            overview.Stores,
		})
	}
}
