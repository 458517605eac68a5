package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	inbound_httpapi "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/inbound/httpapi"
	inbound_messaging "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/inbound/messaging"
	inbound_polling "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/inbound/polling"
	outbound_extractor "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/outbound/extractor"
	outbound_moderation "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/outbound/moderation"
	outbound_notification "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/outbound/notification"
	outbound_progress "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/outbound/progress"
	outbound_repository "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/outbound/repository"
	outbound_storage "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/outbound/storage"
	outbound_transcriber "github.com/DonaldKnut/jevahapp-backend-sub012/internal/adapters/outbound/transcriber"
	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"
	core_services "github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	fmt.Println("🚀 Content Verification Service starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Verify dependencies
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			log.Fatalf("❌ Error: %s not found in system", bin)
		}
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		log.Fatal("❌ Error: OPENAI_API_KEY is required")
	}

	// Database initialization
	dbPool, err := initDatabase(ctx)
	if err != nil {
		log.Fatal("❌ Error initializing database: ", err)
	}
	defer dbPool.Close()

	// Outbound adapters
	mediaRepo := outbound_repository.NewPostgresMediaRepository(dbPool)
	userRepo := outbound_repository.NewPostgresUserRepository(dbPool)
	notifier := outbound_notification.NewLogNotifier()
	store := initStorage()

	audioFrames := outbound_extractor.NewFFmpegExtractor(getEnv("TEMP_DIR", "/app/temp"))
	documents := outbound_extractor.NewDocumentExtractor(outbound_extractor.ZipArchiveOpener{})
	transcriber := outbound_transcriber.NewOpenAITranscriber(openAIKey)
	moderator := outbound_moderation.NewOpenAIModerationClient(openAIKey, getEnv("MODERATION_MODEL", ""))

	// Progress streaming over NATS; degrade to no-op when unreachable.
	natsURL := getEnv("NATS_URL", "nats://nats1:4222")
	var progressPublisher ports.ProgressPublisher
	natsPublisher, err := outbound_progress.NewNatsProgressPublisher(natsURL)
	if err != nil {
		log.Printf("⚠️ Error connecting to NATS: %v. Progress streaming disabled.", err)
		progressPublisher = outbound_progress.NoopProgressPublisher{}
	} else {
		defer natsPublisher.Close()
		progressPublisher = natsPublisher
	}

	// Core services
	sessions := core_services.NewSessionRegistry()
	timeout := time.Duration(getEnvInt("VERIFY_TIMEOUT_SECONDS", 300)) * time.Second
	verifier := core_services.NewVerificationService(
		sessions, progressPublisher, audioFrames, audioFrames, transcriber, documents, moderator, timeout)
	uploads := core_services.NewUploadService(verifier, store, mediaRepo, userRepo, notifier)

	// Inbound adapters

	// 1. Review decision consumer (NATS JetStream)
	consumer, err := inbound_messaging.NewNatsReviewConsumer(natsURL, uploads)
	if err != nil {
		log.Printf("⚠️ Error connecting review consumer to NATS: %v. Review decisions via messaging disabled.", err)
	} else {
		go func() {
			if err := consumer.Listen(ctx); err != nil {
				log.Printf("⚠️ Review consumer stopped: %v", err)
			}
		}()
	}

	// 2. Stale review reminder
	reminder := inbound_polling.NewReviewReminder(
		mediaRepo, notifier,
		getEnv("MODERATION_TEAM_EMAIL", "moderation@jevahapp.local"),
		10*time.Minute,
		getEnvInt("REVIEW_STALE_MINUTES", 60),
	)
	go reminder.Start(ctx)

	// 3. HTTP upload gate + metrics
	router := gin.Default()
	inbound_httpapi.NewUploadHandler(uploads).Register(router)

	apiServer := &http.Server{Addr: ":" + getEnv("HTTP_PORT", "8080"), Handler: router}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: ":" + getEnv("METRICS_PORT", "9090"), Handler: metricsMux}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("✅ Upload gate listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		log.Printf("📊 Metrics server listening on %s", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Println("👋 Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		apiServer.Shutdown(shutdownCtx)
		metricsServer.Shutdown(shutdownCtx)
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Fatal("❌ Server error: ", err)
	}
	log.Println("🛑 Service stopped.")
}

func initDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbHost := getEnv("DB_HOST", "db")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)

	var pool *pgxpool.Pool
	var err error
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.New(ctx, connStr)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
		}
		log.Printf("⏳ Waiting for database... (%d/10)", i+1)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return nil, err
}

func initStorage() ports.Storage {
	if getEnv("STORAGE_BACKEND", "fs") == "s3" {
		return outbound_storage.NewS3Storage(outbound_storage.S3Config{
			HostEndpointUrl: os.Getenv("S3_ENDPOINT"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "jevah-media"),
			Username:        os.Getenv("S3_ACCESS_KEY"),
			Password:        os.Getenv("S3_SECRET_KEY"),
		})
	}
	return outbound_storage.NewFSStorage(
		getEnv("MEDIA_DIR", "/app/media"),
		getEnv("THUMBNAIL_DIR", "/app/thumbnails"),
	)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
