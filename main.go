package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"watchsync/config"
	"watchsync/metrics"
	"watchsync/middleware"
	"watchsync/routes"
	"watchsync/services/lobby"
	"watchsync/services/registry"
	"watchsync/services/signaling"
	"watchsync/services/ws"
	"watchsync/utils"
)

func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	cfg := config.Load()
	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	clock := utils.SystemClock()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	reg := registry.New()
	store := lobby.New(clock, rng, cfg.MaxChatHistory)
	relay := signaling.New(store)
	m := metrics.New()
	server := ws.NewServer(reg, store, relay, m)

	r := gin.Default()
	middleware.SetUpMiddleware(r, cfg.AllowedOrigins)
	routes.SetupRoutes(r, server, store, reg, m)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server started on port %s", cfg.Port)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
