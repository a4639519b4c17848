package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"goaltracker/cache"
	"goaltracker/config"
	"goaltracker/database"
	"goaltracker/handlers"
	repository "goaltracker/repositories"
	routes "goaltracker/routes"
	services "goaltracker/services"
	"goaltracker/tasks"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Create a new client and connect to the server
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)
	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal("Failed to disconnect from MongoDB:", err)
		}
	}()

	// Set a timeout for the ping operation
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ping the primary to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}

	fmt.Println("Successfully connected to MongoDB!")

	// Cascade deletes run in a transaction, which needs a replica set.
	checkIfReplicaSet(client)

	// Redis backs the summary cache and the throttle counters.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	store := cache.NewRedisStore(redisClient)

	db := client.Database(cfg.MongoDatabase)

	fmt.Println("Creating database indexes...")
	if err := database.CreateIndexes(db); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	// Initialize repositories, services, and handlers
	goalRepo := repository.NewGoalRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	userRepo := repository.NewUserRepository(db)

	goalService := services.NewGoalService(goalRepo, progressRepo)
	progressService := services.NewProgressService(goalService, goalRepo, progressRepo)
	summaryService := services.NewSummaryService(goalRepo, progressRepo, store, cfg.Summary)
	userService := services.NewUserService(userRepo, cfg.JWTSecret)

	h := routes.Handlers{
		Goals:    handlers.NewGoalHandler(goalService),
		Progress: handlers.NewProgressHandler(progressService),
		Summary:  handlers.NewSummaryHandler(summaryService),
		Users:    handlers.NewUserHandler(userService),
	}

	// Inactivity reminder job, enabled only with an SMTP endpoint.
	if cfg.Reminder.SMTPAddr != "" {
		mailer := tasks.NewSMTPMailer(cfg.Reminder)
		job := tasks.NewReminderJob(goalRepo, userRepo, mailer, cfg.Reminder.InactiveAfter)

		scheduler := cron.New()
		if _, err := scheduler.AddJob(cfg.Reminder.Schedule, job); err != nil {
			log.Fatal("Invalid reminder schedule: ", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		fmt.Printf("Reminder job scheduled: %s\n", cfg.Reminder.Schedule)
	}

	mux := routes.SetupRoutes(h, cfg.JWTSecret, store, userService, cfg.Throttle)

	fmt.Printf("Server starting on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, mux))
}

func checkIfReplicaSet(client *mongo.Client) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result bson.M
	// Use the newer "hello" command instead of deprecated "isMaster"
	err := client.Database("admin").RunCommand(ctx, bson.M{"hello": 1}).Decode(&result)

	if err != nil {
		fmt.Printf("Error checking replica set: %v\n", err)
		return false
	}

	// Check if this is a replica set
	if setName, exists := result["setName"]; exists {
		fmt.Printf("Part of replica set: %v\n", setName)
		return true
	}

	fmt.Println("Not part of a replica set; cascade deletes will fail without one")
	return false
}
