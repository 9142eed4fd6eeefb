package container

import (
	"context"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/vena/internal/config"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/joshua-takyi/vena/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger          *slog.Logger
	Validator       helpers.TokenValidator
	UserService     *services.UserService
	BookingService  *services.BookingService
	StudioService   *services.StudioService
	LeadService     *services.LeadService
	FeedbackService *services.FeedbackService
	Notifications   *services.Dispatcher
}

// Clients are the connected backends handed over from main.
type Clients struct {
	Supabase   *supabase.Client
	Service    *supabase.Client
	MongoDB    *mongo.Client
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
}

// NewContainer wires repositories into services.
func NewContainer(cfg *config.Config, logger *slog.Logger, clients Clients, validator helpers.TokenValidator) *Container {
	supa := models.SupabaseNewRepo(clients.Supabase, clients.Service, cfg.SupabaseURL, cfg.SupabaseAnonKey)
	mongoRepo := models.MongodbNewRepo(clients.MongoDB, cfg.MongoDBDatabase)

	stores := services.BookingStores{
		Packages:     supa,
		PromoCodes:   supa,
		Clients:      supa,
		Projects:     supa,
		Leads:        supa,
		Transactions: supa,
		Profiles:     supa,
	}
	return Build(cfg, logger, stores, supa, supa, mongoRepo, clients, validator)
}

// Build assembles the services from any repository implementations.
func Build(
	cfg *config.Config,
	logger *slog.Logger,
	stores services.BookingStores,
	users models.UserRepo,
	feedback models.FeedbackRepo,
	notifications models.NotificationRepo,
	clients Clients,
	validator helpers.TokenValidator,
) *Container {
	var ledger models.BookingLedger
	if clients.Redis != nil {
		ledger = models.NewRedisBookingLedger(clients.Redis, cfg.BookingIdempotencyTTL)
	} else {
		ledger = models.NewMemoryBookingLedger(cfg.BookingIdempotencyTTL)
	}

	var uploader helpers.ImageUploader
	if clients.Cloudinary != nil {
		uploader = helpers.NewCloudinaryUploader(clients.Cloudinary)
	}

	dispatcher := services.NewDispatcher(notifications, services.LogMailer{Logger: logger}, cfg.NotificationQueueSize, logger)

	return &Container{
		Logger:          logger,
		Validator:       validator,
		UserService:     services.NewUserService(users, stores.Profiles, logger),
		BookingService:  services.NewBookingService(stores, ledger, dispatcher, logger),
		StudioService:   services.NewStudioService(stores, uploader, logger),
		LeadService:     services.NewLeadService(stores.Leads, stores.Profiles, dispatcher, logger),
		FeedbackService: services.NewFeedbackService(feedback),
		Notifications:   dispatcher,
	}
}

// Start launches background workers.
func (c *Container) Start(ctx context.Context) {
	c.Notifications.Start(ctx)
}

// Stop drains background workers.
func (c *Container) Stop() {
	c.Notifications.Stop()
}
