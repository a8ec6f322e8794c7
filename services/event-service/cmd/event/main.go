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
	"github.com/joho/godotenv"

	"github.com/you/travel-marketplace/pkg/config"
	"github.com/you/travel-marketplace/pkg/db"
	"github.com/you/travel-marketplace/pkg/mq"
	"github.com/you/travel-marketplace/services/event-service/internal/repository"
	"github.com/you/travel-marketplace/services/event-service/internal/service"
	thttp "github.com/you/travel-marketplace/services/event-service/internal/transport/http"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()
	cfg := must(config.Load())

	gdb := db.Open(cfg.PGDSN)
	store := repository.NewStore(gdb)
	if err := store.Migrate(); err != nil {
		log.Fatalf("[event] migrate: %v", err)
	}

	bus := mq.New(cfg.RabbitURL, cfg.Exchange)
	if err := bus.Connect(); err != nil {
		log.Fatalf("[event] broker unreachable: %v", err)
	}
	defer bus.Close()

	svc := service.New(store, bus)
	r := gin.Default()
	thttp.NewHandler(svc).Register(r)

	srv := &http.Server{Addr: cfg.EventHTTPAddr, Handler: r}
	go func() {
		log.Printf("[event] http listening on %s", cfg.EventHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[event] serve: %v", err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	log.Println("[event] stopped")
}
