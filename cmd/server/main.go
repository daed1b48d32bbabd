package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/cuneytcagriyilmaz/postdesk/configs"
	"github.com/cuneytcagriyilmaz/postdesk/internal/api/handlers"
	job "github.com/cuneytcagriyilmaz/postdesk/internal/jobs"
	"github.com/cuneytcagriyilmaz/postdesk/internal/queue"
	"github.com/cuneytcagriyilmaz/postdesk/internal/repository"
	"github.com/cuneytcagriyilmaz/postdesk/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	deadlineRepo := repository.NewDeadlineRepository(db)
	archiveRepo := repository.NewDeadlineArchiveRepository(db)

	clock := service.NewSystemClock()
	directory := service.NewCustomerDirectory(*cfg)
	directoryFallback := service.NewCustomerDirectoryWithFallback(directory)
	sink := service.NewWebhookSink(*cfg)

	deadlineService := service.NewDeadlineService(service.NewTxRunner(db), deadlineRepo, archiveRepo, directory, clock)
	folderService := service.NewCustomerFolderService(*cfg, directory)

	// cron jobs
	notificationJob := job.NewDeadlineNotificationJob(*cfg, deadlineRepo, queue.NewNotifier(client), clock)

	c := cron.New()
	c.AddFunc(cfg.DueNotificationCron, func() { notificationJob.NotifyDueDeadlines() })
	c.AddFunc(cfg.OverdueCheckCron, func() { notificationJob.NotifyOverdue() })
	c.AddFunc(cfg.ArchiveCandidateCron, func() { notificationJob.ReportArchiveCandidates() })
	c.Start()

	// queue worker
	queueW := queue.NewQueue(sink, directoryFallback)

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeDeadlineNotification, queueW.HandleDeadlineNotificationTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Get("/health", func(fc *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return fc.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return fc.JSON(fiber.Map{"status": "up"})
	})

	api := app.Group("/api")

	deadline := handlers.NewDeadlineHandler(deadlineService)
	api.Post("/deadlines", deadline.Create)
	api.Get("/deadlines/:id", deadline.Get)
	api.Patch("/deadlines/:id", deadline.Update)
	api.Post("/deadlines/:id/cancel", deadline.Cancel)
	api.Post("/deadlines/:id/archive", deadline.Archive)
	api.Post("/deadlines/archives/:archiveId/restore", deadline.Restore)
	api.Get("/customers/:customerId/deadlines", deadline.ListByCustomer)

	folder := handlers.NewCustomerFolderHandler(folderService)
	api.Post("/customers/:customerId/folders", folder.ProvisionFolders)
	api.Post("/customers/:customerId/soft-delete", folder.SoftDelete)
	api.Post("/customers/:customerId/restore", folder.Restore)
	api.Delete("/customers/:customerId/folder", folder.HardDeleteFolder)
	api.Post("/customers/:customerId/media", folder.UploadMedia)

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
