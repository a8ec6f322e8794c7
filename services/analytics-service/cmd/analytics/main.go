package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/you/travel-marketplace/pkg/config"
	"github.com/you/travel-marketplace/pkg/db"
	"github.com/you/travel-marketplace/pkg/mq"
	"github.com/you/travel-marketplace/services/analytics-service/internal/consumer"
	"github.com/you/travel-marketplace/services/analytics-service/internal/repository"
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

	mcli := db.OpenMongo(cfg.MongoURI)
	sink := repository.NewSink(mcli, cfg.MongoDB)

	bus := mq.New(cfg.RabbitURL, cfg.Exchange)
	if err := bus.Connect(); err != nil {
		log.Fatalf("[analytics] broker unreachable: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := consumer.NewWorker(bus, sink).Start(ctx); err != nil {
		log.Fatalf("[analytics] start worker: %v", err)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	_ = mcli.Disconnect(context.Background())
	log.Println("[analytics] stopped")
}
