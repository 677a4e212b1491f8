package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/app"
	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/handlers"
	"alfredoptarigan/ai-interviewer/internal/logger"
	"alfredoptarigan/ai-interviewer/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	if err := a.Storage.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}

	var worker services.Worker
	if cfg.Worker.AutoEvaluate {
		worker = services.NewWorker(a.Interviews, a.Interview, cfg.Worker.Concurrency, cfg.Worker.PollInterval, zlog)
		a.Interview.SetEvaluationQueue(worker)
		worker.Start(ctx)
	}

	h := &handlers.Handlers{
		AI:          handlers.NewAIHandler(a.Questions, a.Interview, a.AI),
		Voice:       handlers.NewVoiceHandler(a.Vapi, a.Interview, cfg.Vapi.PublicKey),
		Webhook:     handlers.NewWebhookHandler(a.Interview, zlog),
		Jobs:        handlers.NewJobHandler(a.Jobs),
		Candidates:  handlers.NewCandidateHandler(a.Candidates, a.Applications, a.Resume),
		Application: handlers.NewApplicationHandler(a.Applications, a.Candidates, a.Jobs),
		Interviews:  handlers.NewInterviewHandler(a.Interview, a.Index),
		Feedback:    handlers.NewFeedbackHandler(a.Feedback, a.Interview),
		Dashboard:   handlers.NewDashboardHandler(a.Dashboard),
	}

	server := fiber.New(fiber.Config{
		AppName:      "AI Interviewer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.NewErrorHandler(zlog),
	})

	server.Use(recover.New())
	server.Use(requestid.New())
	server.Use(logger.RequestLogger(zlog))
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	server.Static("/uploads", cfg.Storage.UploadPath)
	h.Register(server.Group("/api"))

	server.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interviewer API",
			"version": "1.0.0",
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		if worker != nil {
			worker.Stop()
		}
		cancel()
		if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := server.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
