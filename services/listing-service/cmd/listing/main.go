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
	"github.com/you/travel-marketplace/services/listing-service/internal/consumer"
	"github.com/you/travel-marketplace/services/listing-service/internal/repository"
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
	rel := repository.NewStore(gdb)

	mcli := db.OpenMongo(cfg.MongoURI)
	docs := repository.NewDocs(mcli, cfg.MongoDB)

	bus := mq.New(cfg.RabbitURL, cfg.Exchange)
	if err := bus.Connect(); err != nil {
		log.Fatalf("[listing] broker unreachable: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := consumer.NewIngest(bus, docs, rel).Start(ctx); err != nil {
		log.Fatalf("[listing] start ingest: %v", err)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	_ = mcli.Disconnect(context.Background())
	log.Println("[listing] stopped")
}
