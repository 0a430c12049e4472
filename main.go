package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fruitbasket/internal/handlers"
	"fruitbasket/internal/models"
	"fruitbasket/internal/repositories"
	"fruitbasket/internal/services"
	"fruitbasket/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":3000")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "fruitbasket.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	dbDriver := viper.GetString("DB_DRIVER")
	dbDSN := viper.GetString("DB_DSN")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Connect to the store ---
	// A store connection failure at startup is fatal.
	var dialector gorm.Dialector
	switch dbDriver {
	case "postgres":
		dialector = postgres.Open(dbDSN)
	case "sqlite":
		dialector = sqlite.Open(dbDSN)
	default:
		log.Fatalf("Unknown DB_DRIVER %q (want sqlite or postgres)", dbDriver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	if err := db.AutoMigrate(&models.Fruit{}, &models.User{}, &models.Favorite{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Successfully connected to the database")

	// --- Initialize RabbitMQ client (optional) ---
	// Eventing is best effort: a missing broker degrades to no events,
	// while the store connection above stays mandatory.
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, continuing without events: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
		}
	}

	// --- Initialize Repositories ---
	fruitRepo := repositories.NewGORMFruitRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Initialize Services ---
	allocator, err := services.NewUserIDAllocator(userRepo)
	if err != nil {
		log.Fatalf("Failed to seed userID allocator: %v", err)
	}
	catalogService := services.NewCatalogService(fruitRepo, mqClient)
	userService := services.NewUserService(userRepo, allocator, mqClient)
	favoriteService := services.NewFavoriteService(userRepo, fruitRepo, mqClient)

	// Seed the catalog with sample data when it is empty.
	if err := catalogService.SeedIfEmpty(sampleFruits()); err != nil {
		log.Fatalf("Failed to seed fruits: %v", err)
	}

	// --- Initialize Handlers ---
	fruitHandler := handlers.NewFruitHandler(catalogService)
	userHandler := handlers.NewUserHandler(userService, favoriteService)

	// --- Initialize Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	fruitHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start catalog event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for catalog events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received %s event (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeCatalogEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// sampleFruits is the seed catalog used when the store is empty.
func sampleFruits() []models.Fruit {
	return []models.Fruit{
		{
			Name:        "Apple",
			Taste:       "Sweet and crisp",
			Description: "A classic orchard fruit with a firm bite",
			Calories:    95,
			Macros:      models.Macros{Carbs: 25, Protein: 0.5, Fat: 0.3, Fiber: 4.4},
		},
		{
			Name:        "Banana",
			Taste:       "Sweet and creamy",
			Description: "A soft tropical fruit rich in potassium",
			Calories:    105,
			Macros:      models.Macros{Carbs: 27, Protein: 1.3, Fat: 0.4, Fiber: 3.1},
		},
		{
			Name:        "Lemon",
			Taste:       "Sour and tangy",
			Description: "A citrus fruit used for juice and zest",
			Calories:    17,
			Macros:      models.Macros{Carbs: 5.4, Protein: 0.6, Fat: 0.2, Fiber: 1.6},
		},
		{
			Name:        "Mango",
			Taste:       "Sweet and tropical",
			Description: "A juicy stone fruit with fragrant flesh",
			Calories:    202,
			Macros:      models.Macros{Carbs: 50, Protein: 2.8, Fat: 1.3, Fiber: 5.4},
		},
	}
}
