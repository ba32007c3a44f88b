package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anoixa/postboard/api/core"
	"github.com/anoixa/postboard/config"
	"github.com/anoixa/postboard/internal/app"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	container := app.NewContainer(cfg)
	if err := container.Init(); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// 自动DDL + 角色初始化
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := container.Migrate(migrateCtx); err != nil {
		cancelMigrate()
		log.Fatalf("Failed to migrate database: %v", err)
	}
	cancelMigrate()
	log.Println("Database initialized successfully")

	server, cleanup := core.StartServer(&core.RouterDependencies{
		DB:           container.DB(),
		Storage:      container.Storage(),
		JWTService:   container.JWTService,
		AuthService:  container.AuthService,
		PostsService: container.PostsService,
		Config:       cfg,
	})

	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if cleanup != nil {
		cleanup()
	}

	if err := container.Close(); err != nil {
		log.Printf("Error closing container: %v", err)
	}

	log.Println("Server exited successfully")
}
