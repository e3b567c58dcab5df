package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"profile-service/internal/config"
	"profile-service/internal/database/mongo"
	"profile-service/internal/database/redis"
	"profile-service/internal/event"
	"profile-service/internal/handlers"
	"profile-service/internal/reporsitory"
	"profile-service/internal/service"
	"profile-service/pkg/discovery"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

func setupLogging(logDir string) (*os.File, error) {
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	cfg := config.Load()

	logFile, err := setupLogging(cfg.Server.LogDir)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	mongoClient, err := mongo.Connect(context.Background(), cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	redisClient := redis.Connect(context.Background(), cfg.Redis)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))

	// Initialize repositories
	profileRepo := reporsitory.NewProfileRepository(mongoClient.Database())
	accountRepo := reporsitory.NewAccountRepository(mongoClient.Database())
	postRepo := reporsitory.NewPostRepository(mongoClient.Database())
	profileCache := reporsitory.NewProfileCache(redisClient, cfg.Redis.CacheTTL)

	// Create database indexes
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := profileRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create database indexes: %v", err)
	} else {
		log.Println("Database indexes created successfully")
	}
	cancel()

	// Keep the interface nil on dial failure: a typed-nil *EventPublisher
	// would slip past nil checks downstream.
	var eventPublisher event.Publisher
	if pub, err := event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange); err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
	} else {
		eventPublisher = pub
	}

	eventConsumer, err := event.NewEventConsumer(cfg.RabbitMQ.URI, accountRepo)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else {
		if err := eventConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start event consumer: %v", err)
			eventConsumer.Close()
		} else {
			log.Println("Successfully started event consumer")
			defer eventConsumer.Close()
		}
	}

	// Initialize services
	profileService := service.NewProfileService(profileRepo, accountRepo, postRepo, profileCache, eventPublisher)

	// Initialize and register handlers
	profileHandler := handlers.NewProfileHandler(profileService)
	profileHandler.RegisterRoutes(app)

	registry, err := discovery.NewServiceRegistry(cfg)
	if err != nil {
		log.Printf("Warning: Failed to create service registry: %v", err)
	} else if err := registry.Register(); err != nil {
		log.Printf("Warning: Failed to register with Consul: %v", err)
	}

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if eventPublisher != nil {
		if err := eventPublisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	mongoClient.Disconnect(context.Background())

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
