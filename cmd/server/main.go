package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-booking/internal/auth"
	"github.com/ukydev/fleet-booking/internal/config"
	"github.com/ukydev/fleet-booking/internal/db"
	"github.com/ukydev/fleet-booking/internal/events"
	"github.com/ukydev/fleet-booking/internal/handlers"
	"github.com/ukydev/fleet-booking/internal/logger"
	"github.com/ukydev/fleet-booking/internal/models"
	"github.com/ukydev/fleet-booking/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	client, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return err
	}

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}

	publisher := newPublisher(cfg)
	defer publisher.Close()

	router, accounts := buildRouter(cfg, database, authService, publisher)
	if cfg.SeedAdminEmail != "" {
		if err := accounts.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRouter wires the collections and services into the HTTP handler.
func buildRouter(cfg *config.Config, database *mongo.Database, authService *auth.Service, publisher events.Publisher) (http.Handler, *service.AccountService) {
	bookings := &db.MongoBookingCollection{Collection: database.Collection(db.BookingsCollection)}
	driverPayments := &db.MongoDriverPaymentCollection{Collection: database.Collection(db.DriverPaymentsCollection)}
	users := &db.MongoUserCollection{Collection: database.Collection(db.UsersCollection)}
	drivers := &db.MongoDirectory[models.Driver]{Collection: database.Collection(db.DriversCollection), Name: "driver"}
	customers := &db.MongoDirectory[models.Customer]{Collection: database.Collection(db.CustomersCollection), Name: "customer"}
	vehicles := &db.MongoDirectory[models.Vehicle]{Collection: database.Collection(db.VehiclesCollection), Name: "vehicle"}
	companies := &db.MongoDirectory[models.Company]{Collection: database.Collection(db.CompaniesCollection), Name: "company"}

	linker := &auth.Linker{Drivers: drivers, Customers: customers, Users: users}
	accounts := service.NewAccountService(users, authService, linker)
	accounts.AllowAdminSignup(cfg.AllowAdminSignup)

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:      authService,
		Accounts:  accounts,
		Bookings:  service.NewBookingService(bookings, driverPayments, publisher),
		Drivers:   drivers,
		Customers: customers,
		Vehicles:  vehicles,
		Companies: companies,
		DB: handlers.PingFunc(func(ctx context.Context) error {
			return database.Client().Ping(ctx, nil)
		}),
		UploadDir:       cfg.UploadDir,
		AllowedOrigins:  cfg.AllowedOrigins(),
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
	})
	return router, accounts
}

// newPublisher connects to the MQTT broker when one is configured. A broker that
// cannot be reached does not stop the server; status events are then dropped.
func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.MQTTBroker == "" {
		return events.Nop{}
	}
	p, err := events.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
	if err != nil {
		log.WithError(err).WithField("broker", cfg.MQTTBroker).Warn("MQTT unavailable, status events disabled")
		return events.Nop{}
	}
	log.WithField("broker", cfg.MQTTBroker).Info("Publishing status events over MQTT")
	return p
}
