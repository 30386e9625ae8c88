package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"quickdrop/internal/config"
	"quickdrop/internal/dispatch-service/adapters/driven/bm"
	"quickdrop/internal/dispatch-service/adapters/driven/db"
	"quickdrop/internal/dispatch-service/adapters/driven/geocode"
	"quickdrop/internal/dispatch-service/adapters/driver/myhttp/handle"
	"quickdrop/internal/dispatch-service/adapters/driver/myhttp/middleware"
	"quickdrop/internal/dispatch-service/adapters/driver/myhttp/ws"
	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/dispatch-service/core/services"
	"quickdrop/internal/mylogger"
)

const WaitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DataBase
	mb     ports.IDispatchBroker
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	database, err := db.ConnectDB(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	mylog.Info("Successful database connection")

	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	if err := s.Configure(); err != nil {
		return fmt.Errorf("failed to configure server: %w", err)
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.DispatchServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.DispatchServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, services, handlers and routes.
func (s *Server) Configure() error {
	// Repositories
	repo := db.New(s.db)

	geocoder := s.buildGeocoder()

	// services
	service := services.New(s.appCtx, s.mylog, repo.CourierRepo, repo.StoreRepo, geocoder, s.mb, *s.cfg.Dispatch)

	// realtime fan-out, fed by the broker consumer
	hub := ws.NewHub(s.mylog)
	consumer := bm.NewConsumer(s.appCtx, s.mb, hub, s.mylog)
	if err := consumer.SubscribeForMessages(); err != nil {
		return fmt.Errorf("failed to subscribe for broker messages: %w", err)
	}

	// handlers
	dispatchHandler := handle.NewDispatchHandler(service.DispatchService, s.mylog)
	courierHandler := handle.NewCourierHandler(service.CourierService, service.DispatchService, s.mylog)
	adminHandler := handle.NewAdminHandler(service.AdminService, s.mylog)
	eventHandler := ws.NewEventHandler(s.cfg.App.JwtSecret)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.JwtSecret)

	// Register routes
	s.mux.Handle("POST /dispatch/orders/{order_id}/assign", authMiddleware.Wrap(dispatchHandler.AssignCourier()))
	s.mux.Handle("GET /dispatch/estimate", dispatchHandler.Estimate())

	s.mux.Handle("POST /couriers/{courier_id}/location", authMiddleware.Wrap(courierHandler.UpdateLocation()))
	s.mux.Handle("POST /couriers/{courier_id}/shift", authMiddleware.Wrap(courierHandler.Shift()))
	s.mux.Handle("POST /couriers/{courier_id}/complete", authMiddleware.Wrap(courierHandler.Complete()))

	s.mux.Handle("GET /admin/overview", authMiddleware.WrapRole("ADMIN", adminHandler.Overview()))

	// websocket routes
	s.mux.Handle("/ws/couriers/{courier_id}", hub.CourierHandler(eventHandler, service.CourierService))
	s.mux.Handle("/ws/orders/{order_id}", hub.OrderHandler(eventHandler))
	s.mux.Handle("/ws/admin", hub.AdminHandler(eventHandler))

	return nil
}

func (s *Server) buildGeocoder() ports.IGeocoder {
	if s.cfg.Geocode.Provider == "nominatim" {
		return geocode.NewHTTPGeocoder(s.cfg.Geocode.BaseURL, s.mylog)
	}
	return geocode.NewStaticGeocoder(defaultGeocodeEntries)
}

// defaultGeocodeEntries backs the static provider used in development and
// in the demo environment.
var defaultGeocodeEntries = map[string]model.GeoPoint{
	"10 main street":    {Latitude: 51.5074, Longitude: -0.1278},
	"22 baker street":   {Latitude: 51.5237, Longitude: -0.1585},
	"5 riverside walk":  {Latitude: 51.5055, Longitude: -0.0754},
	"31 market square":  {Latitude: 51.5128, Longitude: -0.0918},
	"14 orchard lane":   {Latitude: 51.4975, Longitude: -0.1357},
	"78 station road":   {Latitude: 51.5302, Longitude: -0.1232},
	"3 willow crescent": {Latitude: 51.4899, Longitude: -0.1044},
}
