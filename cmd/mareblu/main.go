package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mareblu/internal/app/commands"
	availabilityapp "mareblu/internal/app/handlers/availability"
	cleaningapp "mareblu/internal/app/handlers/cleaning"
	pricesapp "mareblu/internal/app/handlers/prices"
	quoteapp "mareblu/internal/app/handlers/quote"
	reservationsapp "mareblu/internal/app/handlers/reservations"
	visitsapp "mareblu/internal/app/handlers/visits"
	appoutbox "mareblu/internal/app/outbox"
	"mareblu/internal/app/policies"
	"mareblu/internal/app/queries"
	"mareblu/internal/app/services/adminauth"
	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/pricing"
	"mareblu/internal/domain/reservation"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/infra/broker/kafka"
	"mareblu/internal/infra/config"
	mongodb "mareblu/internal/infra/db/mongo"
	"mareblu/internal/infra/geoip"
	ginserver "mareblu/internal/infra/http/gin"
	"mareblu/internal/infra/mail"
	"mareblu/internal/infra/obs"
	infraoutbox "mareblu/internal/infra/outbox"
	"mareblu/internal/infra/security"
	"mareblu/internal/infra/storage/memory"
	"mareblu/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger := obs.NewLogger("dev")
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.healthChecks,
	}, app.handlers)

	fixturesPath := cfg.CatalogFixtures
	if fixturesPath == "" {
		fixturesPath = defaultCatalogFixturesPath()
	}
	if err := app.loadCatalogFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("catalog fixtures load failed", "error", err, "path", fixturesPath)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		app.close(logger)
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers     ginserver.Handlers
	healthChecks map[string]func() error
	catalogRepo  catalog.Repository
	producer     *kafka.Producer
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		catalogRepo     catalog.Repository
		priceStore      pricing.Store
		reservationRepo reservation.Repository
		visitLog        policies.VisitLog
		eventOutbox     appoutbox.Outbox
		producer        *kafka.Producer
		healthChecks    = map[string]func() error{}
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		healthChecks["mongo"] = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		// The catalog is a handful of fixed units; it stays in memory even
		// when everything else lives in Mongo.
		catalogRepo = memory.NewCatalogRepository()
		priceStore = mongodb.NewPriceStore(client.DB)
		reservationRepo = mongodb.NewReservationRepository(client.DB)
		visitLog = mongodb.NewVisitLog(client.DB)

		store := infraoutbox.NewStore(client.DB)
		eventOutbox = store
		if len(cfg.KafkaBrokers) > 0 {
			p, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, fmt.Errorf("kafka connect: %w", err)
			}
			producer = p
			worker := &infraoutbox.Worker{
				Store:       store,
				Producer:    p,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
				Logger:      logger,
			}
			go func() {
				if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("outbox worker stopped", "error", err)
				}
			}()
		} else {
			logger.Warn("no kafka brokers configured, outbox events will accumulate")
		}
	case "memory":
		catalogRepo = memory.NewCatalogRepository()
		priceStore = memory.NewPriceStore()
		reservationRepo = memory.NewReservationRepository()
		visitLog = memory.NewVisitLog()
		eventOutbox = memory.NewOutbox()
	default:
		return application{}, fmt.Errorf("unknown storage mode %q", cfg.StorageMode)
	}

	var mailer policies.Mailer
	if cfg.MailEndpoint != "" {
		mailer = &mail.Client{
			Endpoint: cfg.MailEndpoint,
			HTTP:     &http.Client{Timeout: 10 * time.Second},
			Logger:   logger,
		}
	} else {
		logger.Warn("mail endpoint not configured, quote emails disabled")
	}

	geoResolver := &geoip.Client{
		Endpoint: cfg.GeoIPEndpoint,
		HTTP:     &http.Client{Timeout: 5 * time.Second},
		Logger:   logger,
	}

	var uploader s3.Uploader = s3.NoopUploader{}
	if s3Client, err := s3.NewClient(s3.Config{
		Endpoint:      cfg.S3Endpoint,
		UseSSL:        cfg.S3UseSSL,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicEndpoint,
	}, logger); err != nil {
		logger.Warn("s3 uploader unavailable", "error", err)
	} else {
		uploader = s3Client
	}

	authService := &adminauth.Service{
		Username:     cfg.AdminUser,
		PasswordHash: cfg.AdminPasswordHash,
		Passwords:    security.BcryptHasher{},
		Tokens:       security.RandomTokenGenerator{},
		SessionTTL:   cfg.AdminSessionTTL,
		Logger:       logger,
	}
	if cfg.AdminPasswordHash == "" {
		logger.Warn("admin password hash not configured, back-office login disabled")
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, quoteapp.ComputeQuoteCommand{}.Key(), &quoteapp.ComputeQuoteHandler{
		Catalog:      catalogRepo,
		Prices:       priceStore,
		Reservations: reservationRepo,
		Mailer:       mailer,
		Logger:       logger,
	})
	commands.RegisterHandler(commandBus, reservationsapp.CreateReservationCommand{}.Key(), &reservationsapp.CreateReservationHandler{
		Catalog:      catalogRepo,
		Reservations: reservationRepo,
		Outbox:       eventOutbox,
		Encoder:      encoder,
	})
	commands.RegisterHandler(commandBus, reservationsapp.ChangeStatusCommand{}.Key(), &reservationsapp.ChangeStatusHandler{
		Reservations: reservationRepo,
		Outbox:       eventOutbox,
		Encoder:      encoder,
	})
	commands.RegisterHandler(commandBus, pricesapp.SetWeeklyPricesCommand{}.Key(), &pricesapp.SetWeeklyPricesHandler{
		Catalog: catalogRepo,
		Prices:  priceStore,
	})
	commands.RegisterHandler(commandBus, visitsapp.LogVisitCommand{}.Key(), &visitsapp.LogVisitHandler{
		Geo:      geoResolver,
		VisitLog: visitLog,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{
		Catalog:      catalogRepo,
		Reservations: reservationRepo,
	})
	queries.RegisterHandler(queryBus, pricesapp.ListWeeklyPricesQuery{}.Key(), &pricesapp.ListWeeklyPricesHandler{
		Prices: priceStore,
	})
	queries.RegisterHandler(queryBus, reservationsapp.ListReservationsQuery{}.Key(), &reservationsapp.ListReservationsHandler{
		Reservations: reservationRepo,
	})
	queries.RegisterHandler(queryBus, cleaningapp.ListTasksQuery{}.Key(), &cleaningapp.ListTasksHandler{
		Reservations: reservationRepo,
	})

	handlers := ginserver.Handlers{
		Quote:          ginserver.QuoteHandler{Commands: commandBus},
		Availability:   ginserver.AvailabilityHandler{Queries: queryBus},
		Catalog:        ginserver.CatalogHandler{Catalog: catalogRepo},
		Visit:          ginserver.VisitHandler{Commands: commandBus},
		Prices:         ginserver.PricesHandler{Commands: commandBus, Queries: queryBus},
		Reservations:   ginserver.ReservationsHandler{Commands: commandBus, Queries: queryBus},
		Cleaning:       ginserver.CleaningHandler{Queries: queryBus},
		Gallery:        ginserver.GalleryHandler{Uploader: s3.GalleryUploader{Uploader: uploader}},
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		AdminOnly:      ginserver.RequireAdmin,
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}

	return application{
		handlers:     handlers,
		healthChecks: healthChecks,
		catalogRepo:  catalogRepo,
		producer:     producer,
	}, nil
}

func (a application) close(logger *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Error("kafka producer close failed", "error", err)
		}
	}
}

func (a application) loadCatalogFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("catalog fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures []apartmentFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for _, fx := range fixtures {
		params := catalog.CreateApartmentParams{
			ID:       catalog.ApartmentID(fx.ID),
			Name:     fx.Name,
			Beds:     fx.Beds,
			Bedrooms: fx.Bedrooms,
			Floor:    fx.Floor,
			Capacity: fx.Capacity,
			Amenities: catalog.Amenities{
				AirConditioning: fx.AirConditioning,
				Terrace:         fx.Terrace,
				Veranda:         fx.Veranda,
				SeaView:         fx.SeaView,
			},
		}
		if fx.CleaningFee != nil {
			fee := money.EUR(*fx.CleaningFee)
			params.CleaningFee = &fee
		}
		apt, err := catalog.NewApartment(params)
		if err != nil {
			logger.Error("fixture invalid", "apartment_id", fx.ID, "error", err)
			continue
		}
		if err := a.catalogRepo.Save(ctx, apt); err != nil {
			logger.Error("cannot store fixture apartment", "apartment_id", fx.ID, "error", err)
			continue
		}
		logger.Info("apartment fixture imported", "apartment_id", apt.ID)
	}
	return nil
}

type apartmentFixture struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Beds            int    `json:"beds"`
	Bedrooms        int    `json:"bedrooms"`
	Floor           int    `json:"floor"`
	Capacity        int    `json:"capacity"`
	AirConditioning bool   `json:"air_conditioning"`
	Terrace         bool   `json:"terrace"`
	Veranda         bool   `json:"veranda"`
	SeaView         bool   `json:"sea_view"`
	CleaningFee     *int64 `json:"cleaning_fee"`
}

func defaultCatalogFixturesPath() string {
	return filepath.Join("cmd", "mareblu", "fixtures", "apartments.json")
}
