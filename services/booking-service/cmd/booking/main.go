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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/you/travel-marketplace/pkg/config"
	"github.com/you/travel-marketplace/pkg/db"
	"github.com/you/travel-marketplace/pkg/mq"
	"github.com/you/travel-marketplace/services/booking-service/internal/outbox"
	"github.com/you/travel-marketplace/services/booking-service/internal/payment"
	"github.com/you/travel-marketplace/services/booking-service/internal/repository"
	"github.com/you/travel-marketplace/services/booking-service/internal/service"
	thttp "github.com/you/travel-marketplace/services/booking-service/internal/transport/http"
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
		log.Fatalf("[booking] migrate: %v", err)
	}

	var proc payment.Processor
	if cfg.PaymentGateway == "omise" {
		proc = must(payment.NewOmiseGateway(cfg.OmisePublicKey, cfg.OmiseSecretKey, ""))
	} else {
		proc = payment.NewSimulated()
	}

	bus := mq.New(cfg.RabbitURL, cfg.Exchange)
	if err := bus.Connect(); err != nil {
		log.Fatalf("[booking] broker unreachable: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := must(pgxpool.New(ctx, cfg.PGDSN))
	defer pool.Close()
	go outbox.NewDispatcher(pool, bus).Start(ctx)

	svc := service.New(store, proc)
	r := gin.Default()
	thttp.NewHandler(svc).Register(r)

	srv := &http.Server{Addr: cfg.BookingHTTPAddr, Handler: r}
	go func() {
		log.Printf("[booking] http listening on %s", cfg.BookingHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[booking] serve: %v", err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	log.Println("[booking] stopped")
}
