package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Aashish23092/form16-tax-advisor/client"
	"github.com/Aashish23092/form16-tax-advisor/config"
	"github.com/Aashish23092/form16-tax-advisor/handler"
	"github.com/Aashish23092/form16-tax-advisor/repository"
	"github.com/Aashish23092/form16-tax-advisor/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := config.LoadConfig()

	// VERY IMPORTANT: Tesseract v5 needs the correct tessdata prefix
	os.Setenv("TESSDATA_PREFIX", cfg.TesseractDataPath)
	log.Println("TESSDATA_PREFIX set to:", cfg.TesseractDataPath)

	// Persistence is optional; without DATABASE_URL analyses are computed but
	// not stored.
	var repo *repository.Repository
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		repo = repository.New(db)
		if err := repo.AutoMigrate(); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	} else {
		log.Println("DATABASE_URL not set, persistence disabled")
	}

	// Initialize OCR client and the process-wide concurrency limiter
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()
	ocrLimiter := service.NewOCRLimiter(cfg.OCRConcurrency)

	// Initialize service layer
	pdfProcessor := service.NewPDFProcessor()
	documentService := service.NewDocumentService(pdfProcessor, tesseractClient, ocrLimiter, cfg)

	// Initialize handler layer
	form16Handler := handler.NewForm16Handler(documentService, repo)
	taxHandler := handler.NewTaxHandler()

	// Setup Gin router
	router := gin.Default()
	router.MaxMultipartMemory = 32 << 20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Form 16 Tax Advisor",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		form16 := api.Group("/form16")
		{
			form16.POST("/analyze", form16Handler.Analyze)
			form16.GET("", form16Handler.List)
			form16.GET("/:id", form16Handler.Get)
		}
		tax := api.Group("/tax")
		{
			tax.POST("/calculate", taxHandler.Calculate)
			tax.POST("/compare", taxHandler.Compare)
			tax.POST("/suggestions", taxHandler.Suggest)
		}
	}

	// Start server
	log.Printf("Starting Form 16 Tax Advisor on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
