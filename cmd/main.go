package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"ai-tutor-backend/internal/ai"
	"ai-tutor-backend/internal/cache"
	"ai-tutor-backend/internal/config"
	"ai-tutor-backend/internal/logger"
	"ai-tutor-backend/internal/queue"
	"ai-tutor-backend/internal/telemetry"
	"ai-tutor-backend/internal/vectorindex"
	"ai-tutor-backend/middleware"
	"ai-tutor-backend/routes"
	"ai-tutor-backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing and metrics are best effort; the tutor works without a
	// collector.
	shutdownTracer, err := telemetry.InitTracer("ai-tutor-backend")
	if err != nil {
		log.Printf("⚠️ Tracing disabled: %v", err)
	} else {
		defer shutdownTracer()
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("⚠️ Metrics disabled: %v", err)
		metrics = nil
	}

	// Document store: local disk by default, MongoDB when configured.
	var store services.DocStore
	switch cfg.StoreBackend {
	case "mongo":
		mongoClient, err := config.ConnectMongoDB(cfg)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			mongoClient.Disconnect(ctx)
		}()
		store = services.NewMongoDocStore(mongoClient, cfg.DBName)
	default:
		diskStore, err := services.NewDiskDocStore(cfg.DocsDir)
		if err != nil {
			log.Fatal("Failed to open document store:", err)
		}
		store = diskStore
	}

	// Redis backs the response cache, rate limiting and the async
	// queue. All three degrade gracefully when it is unreachable.
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, running without queue and rate limiting: %v", err)
		rdb = nil
	}

	// Semantic index over the ingested deck
	embedder, err := ai.NewEmbedder(cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedder:", err)
	}
	vecStore, err := vectorindex.NewStore(cfg.VectorStoreDir)
	if err != nil {
		log.Fatal("Failed to open vector store:", err)
	}
	defer vecStore.Close()
	index := vectorindex.NewIndex(embedder, vecStore)

	// Generation backends
	geminiClient := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiTier)
	defer geminiClient.Close()
	if metrics != nil {
		geminiClient.SetMetrics(metrics)
	}
	ollamaClient := ai.NewOllamaClient(cfg.OllamaURL)
	generator := ai.NewGenerator(cfg, geminiClient, ollamaClient)

	var responseCache cache.Cache
	if cfg.CacheBackend == "redis" && rdb != nil {
		responseCache = cache.NewRedisCache(rdb, time.Duration(cfg.CacheTTL)*time.Second)
	} else {
		responseCache = cache.NewLRU(cfg.CacheSize)
	}

	// Extraction pipeline and services
	pdfBackend := services.NewPDFBackend(cfg)
	ocrClient := services.NewOCRClient(cfg)
	captionClient := services.NewCaptionClient(cfg)
	extractor := services.NewPageExtractor(cfg, pdfBackend, ocrClient, captionClient)

	ingestion := services.NewIngestionService(extractor, index, store)
	tutor := services.NewTutorService(generator, responseCache)
	if metrics != nil {
		ingestion.SetMetrics(metrics)
		tutor.SetMetrics(metrics)
	}
	retriever := services.NewRetriever(index)

	// Background maintenance
	janitor := services.NewJanitor(cfg, store)
	if err := janitor.Start(); err != nil {
		log.Printf("⚠️ Janitor failed to start: %v", err)
	} else {
		defer janitor.Stop()
	}

	// Async ingestion for large decks
	var queueClient *asynq.Client
	if rdb != nil {
		redisOpt, err := queue.RedisOptFromConfig(cfg)
		if err != nil {
			log.Printf("⚠️ Invalid Redis settings for queue: %v", err)
		} else {
			queueClient = asynq.NewClient(redisOpt)
			defer queueClient.Close()
		}
	}

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}
	if rdb != nil {
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	docs := router.Group("/docs")
	{
		docs.POST("/ingest", middleware.RequestSizeLimit(cfg.MaxFileSize), routes.HandleDocumentUpload(cfg, store, ingestion, queueClient))
		docs.GET("", routes.HandleListDocuments(store))
		docs.GET("/:docID", routes.HandleGetDocument(store))
		docs.DELETE("/:docID", routes.HandleDeleteDocument(store))
		docs.GET("/:docID/pages", routes.HandleListPages(store))
		docs.GET("/:docID/pages/:pageID", routes.HandleGetPage(store))

		docs.POST("/:docID/qa", routes.HandleQA(cfg, store, retriever, tutor, ingestion, index))
		docs.POST("/:docID/explain", routes.HandleExplain(store, tutor))
		docs.POST("/:docID/flashcards", routes.HandleFlashcards(store, tutor))
		docs.POST("/:docID/quiz", routes.HandleQuiz(store, tutor))
		docs.POST("/:docID/cheatsheet", routes.HandleCheatsheet(store, tutor))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s (mode=%s)", cfg.Port, cfg.AppMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
