package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"ai-tutor-backend/internal/ai"
	"ai-tutor-backend/internal/config"
	"ai-tutor-backend/internal/logger"
	"ai-tutor-backend/internal/queue"
	"ai-tutor-backend/internal/vectorindex"
	"ai-tutor-backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Document store, shared with the API server
	var store services.DocStore
	switch cfg.StoreBackend {
	case "mongo":
		mongoClient, err := config.ConnectMongoDB(cfg)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(context.Background())
		store = services.NewMongoDocStore(mongoClient, cfg.DBName)
	default:
		diskStore, err := services.NewDiskDocStore(cfg.DocsDir)
		if err != nil {
			log.Fatal("Failed to open document store:", err)
		}
		store = diskStore
	}

	// Same index the API queries; both processes point at the one
	// SQLite file.
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

	// Extraction pipeline
	pdfBackend := services.NewPDFBackend(cfg)
	ocrClient := services.NewOCRClient(cfg)
	captionClient := services.NewCaptionClient(cfg)
	extractor := services.NewPageExtractor(cfg, pdfBackend, ocrClient, captionClient)

	ingestion := services.NewIngestionService(extractor, index, store)

	redisOpt, err := queue.RedisOptFromConfig(cfg)
	if err != nil {
		log.Fatal("Invalid Redis settings:", err)
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			// OCR and captioning are slow; a handful of concurrent
			// decks saturates the sidecar services.
			Concurrency: 4,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			StrictPriority: true,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("Task failed: %s, error: %v", task.Type(), err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(ingestion, store)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskIngestDoc, processor.IngestDoc)

	log.Println("🚀 Starting ingestion worker...")
	log.Printf("   Queues: critical(6), default(3), low(1)")
	log.Printf("   Redis: %s", redisOpt.Addr)

	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
