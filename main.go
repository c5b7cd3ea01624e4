package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/metrics"
	"learnhub/models/platform"
	"learnhub/routers"
	"learnhub/services/assistant"
	"learnhub/services/events"
	"learnhub/services/video"
	"learnhub/services/webhook"
	"learnhub/utils"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	config.LoadConfig()
	database.ConnectDb()
	metrics.Register()
	utils.InitMailer()

	cfg := config.AppConfig
	db := database.Database.Db

	webhook.Default = webhook.NewDispatcher(db, cfg.WebhookTimeout, cfg.WebhookMaxAttempts, cfg.WebhookRetryDelay)

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
		if err != nil {
			log.Printf("[EVENTS] Kafka unavailable, events will be dropped: %v", err)
		} else {
			events.Default = publisher
			log.Printf("[EVENTS] Publishing to topic %s", cfg.KafkaEventsTopic)
		}
	}

	runner := video.NewRunner(db, video.NewPipeline(cfg.VideoCDNBaseURL, cfg.VideoStepDelay), cfg.VideoWorkers)
	runner.OnFinish = func(job platform.VideoJob) {
		event := events.VideoProcessed
		if job.Status == platform.VideoJobFailed {
			event = events.VideoFailed
		}
		utils.Broadcast(event, "video_job", job.ID, job)
	}
	video.Default = runner

	assistant.Default = assistant.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.AIRequestsPerMinute)
	if !assistant.Default.Enabled() {
		log.Println("[ASSISTANT] OPENAI_API_KEY not set, AI endpoints will answer 503")
	}

	if cfg.SchedulerEnabled {
		scheduler := utils.InitializeScheduler()
		defer scheduler.Stop()
	}

	app := routers.New(routers.Options{RequestLog: true})
	metricsApp := routers.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server is running on port %s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		log.Printf("Metrics are served on port %s", cfg.MetricsPort)
		return metricsApp.Listen(":" + cfg.MetricsPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		errs := []error{
			app.ShutdownWithContext(shutdownCtx),
			metricsApp.ShutdownWithContext(shutdownCtx),
			runner.Shutdown(shutdownCtx),
			events.Default.Close(),
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("Server stopped")
}
