package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/vanzari-imobiliare/api/internal/auth"
	"github.com/vanzari-imobiliare/api/internal/client"
	"github.com/vanzari-imobiliare/api/internal/complex"
	"github.com/vanzari-imobiliare/api/internal/config"
	"github.com/vanzari-imobiliare/api/internal/logging"
	"github.com/vanzari-imobiliare/api/internal/middleware"
	"github.com/vanzari-imobiliare/api/internal/property"
	"github.com/vanzari-imobiliare/api/internal/spreadsheet"
	"github.com/vanzari-imobiliare/api/internal/storage"
	"github.com/vanzari-imobiliare/api/internal/utils/db"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.ConnectDataBase(ctx, cfg.DB)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(
		&auth.User{},
		&auth.RefreshToken{},
		&complex.Complex{},
		&property.Property{},
		&client.Client{},
	); err != nil {
		return err
	}

	var plans storage.PlanStore
	s3Store, err := storage.NewS3Store(ctx, cfg.Storage)
	switch {
	case err == nil:
		plans = s3Store
	case errors.Is(err, storage.ErrDisabled):
		logger.Warn("S3_BUCKET not set, plan uploads disabled")
	default:
		return err
	}

	router, err := newRouter(cfg, database, plans)
	if err != nil {
		return err
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(middleware.RequestLogger(logger)(router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(cfg config.Config, database *gorm.DB, plans storage.PlanStore) (*mux.Router, error) {
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)

	authHandler := auth.NewHandler(database, tokens, cfg.Auth.CookieSecure)
	if err := authHandler.EnsureAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return nil, err
	}

	clients := client.NewRepository(database)
	complexes := complex.NewRepository(database)
	propertyService := property.NewService(property.NewRepository(database), complexes, clients, plans)

	complexHandler := complex.NewHandler(database)
	clientHandler := client.NewHandler(database)
	propertyHandler := property.NewHandler(propertyService, cfg.HTTP.MaxImageBytes)
	sheetHandler := spreadsheet.NewHandler(spreadsheet.NewService(propertyService), cfg.HTTP.MaxSheetBytes)

	loginLimit, err := middleware.RateLimit(cfg.Auth.LoginRate)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Authentication
	r.Handle("/auth/login", loginLimit(http.HandlerFunc(authHandler.Login))).Methods("POST")
	r.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(auth.Authenticate(tokens))

	user := func(h http.HandlerFunc) http.Handler { return auth.RequireRole(auth.RoleUser)(h) }
	manager := func(h http.HandlerFunc) http.Handler { return auth.RequireRole(auth.RoleManager)(h) }
	admin := func(h http.HandlerFunc) http.Handler { return auth.RequireRole(auth.RoleAdmin)(h) }

	api.Handle("/me", user(authHandler.Me)).Methods("GET")
	api.Handle("/users", admin(authHandler.CreateUser)).Methods("POST")

	// Complexes
	api.Handle("/complexes", user(complexHandler.List)).Methods("GET")
	api.Handle("/complexes", admin(complexHandler.Create)).Methods("POST")
	api.Handle("/complexes/{id}", user(complexHandler.Get)).Methods("GET")
	api.Handle("/complexes/{id}", admin(complexHandler.Update)).Methods("PUT")
	api.Handle("/complexes/{id}", admin(complexHandler.Delete)).Methods("DELETE")
	api.Handle("/complexes/{id}/commission-policy", admin(complexHandler.SetCommissionPolicy)).Methods("PUT")
	api.Handle("/complexes/{id}/columns", admin(complexHandler.SetColumns)).Methods("PUT")

	// Properties of a complex
	api.Handle("/complexes/{id}/properties", user(propertyHandler.List)).Methods("GET")
	api.Handle("/complexes/{id}/properties", manager(propertyHandler.Create)).Methods("POST")
	api.Handle("/complexes/{id}/filter-options", user(propertyHandler.FilterOptions)).Methods("GET")
	api.Handle("/complexes/{id}/properties/bulk/commission", manager(propertyHandler.BulkCommission)).Methods("POST")
	api.Handle("/complexes/{id}/properties/bulk/plan", manager(propertyHandler.BulkPlan)).Methods("POST")
	api.Handle("/complexes/{id}/import", manager(sheetHandler.Import)).Methods("POST")
	api.Handle("/complexes/{id}/export", user(sheetHandler.Export)).Methods("GET")

	// Single properties
	api.Handle("/properties/{id}", user(propertyHandler.Get)).Methods("GET")
	api.Handle("/properties/{id}", manager(propertyHandler.Update)).Methods("PUT")
	api.Handle("/properties/{id}", manager(propertyHandler.Delete)).Methods("DELETE")
	api.Handle("/properties/{id}/status", manager(propertyHandler.SetStatus)).Methods("PATCH")
	api.Handle("/properties/{id}/client", manager(propertyHandler.AssignClient)).Methods("PATCH")
	api.Handle("/properties/{id}/commission", manager(propertyHandler.SetCommission)).Methods("PATCH")
	api.Handle("/properties/{id}/plan", manager(propertyHandler.UploadPlan)).Methods("POST")
	api.Handle("/properties/{id}/plan", manager(propertyHandler.DeletePlan)).Methods("DELETE")

	// Clients
	api.Handle("/clients", user(clientHandler.List)).Methods("GET")
	api.Handle("/clients", manager(clientHandler.Create)).Methods("POST")
	api.Handle("/clients/import-vcf", manager(clientHandler.ImportVCF)).Methods("POST")
	api.Handle("/clients/{id}", user(clientHandler.Get)).Methods("GET")
	api.Handle("/clients/{id}", manager(clientHandler.Update)).Methods("PUT")
	api.Handle("/clients/{id}", manager(clientHandler.Delete)).Methods("DELETE")

	return r, nil
}
