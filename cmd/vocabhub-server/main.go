package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/solidhub/vocabhub/pkg/vocabhub/auth"
	"github.com/solidhub/vocabhub/pkg/vocabhub/database"
	"github.com/solidhub/vocabhub/pkg/vocabhub/models"
	"github.com/solidhub/vocabhub/pkg/vocabhub/oidc"
	"github.com/solidhub/vocabhub/pkg/vocabhub/ontology"
	"github.com/solidhub/vocabhub/pkg/vocabhub/seed"
	"github.com/solidhub/vocabhub/pkg/vocabhub/vocabs"
)

func main() {
	// Get database path from environment or use default
	dbPath := os.Getenv("VOCABHUB_DB_PATH")
	if dbPath == "" {
		dbPath = "vocabhub.db"
	}

	// Connect to database
	if err := database.Connect(dbPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Optionally load the demo dataset
	if os.Getenv("VOCABHUB_SEED") == "1" {
		if err := seed.Run(database.GetDB()); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Database seeded")
	}

	// Get base URL from environment or use default
	baseURL := os.Getenv("VOCABHUB_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "vocabhub",
			})
		})

		// Local-account auth routes
		authHandler := auth.NewHandler(database.GetDB(), baseURL)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Solid OIDC login routes
		oidcHandler := oidc.NewHandler(database.GetDB(), baseURL, oidc.Config{
			Issuer:       os.Getenv("SOLID_ISSUER"),
			ClientID:     os.Getenv("SOLID_CLIENT_ID"),
			ClientSecret: os.Getenv("SOLID_CLIENT_SECRET"),
		})
		oidcHandler.RegisterRoutes(api.Group("/oidc"))

		// Vocabulary routes; reads are public, mutations need a session
		service := vocabs.NewService(database.GetDB(), ontology.NewExtractor())
		vocabsHandler := vocabs.NewHandler(service)
		vocabsHandler.RegisterRoutes(api, auth.Middleware(database.GetDB()))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting vocabhub server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
