package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "todo-api.com/todo-api/internal/configs"
	httpapi "todo-api.com/todo-api/internal/http"
	repository "todo-api.com/todo-api/internal/repositories"
	"todo-api.com/todo-api/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the to-do list HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {

		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		database := config.NewDatabaseClient(cfg)

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		if redisClient != nil {
			defer redisClient.Close()
		}

		taskRepo := repository.NewTaskRepository(database)
		taskService := services.NewTaskService(taskRepo, cfg.Production())
		healthService := services.NewHealthService(database, redisClient, taskRepo, cfg.Production())

		e := echo.New()
		handler := httpapi.NewHandler(taskService)
		healthHandler := httpapi.NewHealthHandler(healthService)
		httpapi.Register(e, handler, healthHandler, redisClient, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)

		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
