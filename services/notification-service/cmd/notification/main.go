package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/you/travel-marketplace/pkg/config"
	"github.com/you/travel-marketplace/pkg/mq"
	"github.com/you/travel-marketplace/services/notification-service/internal/consumer"
	"github.com/you/travel-marketplace/services/notification-service/internal/notifier"
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

	bus := mq.New(cfg.RabbitURL, cfg.Exchange)
	if err := bus.Connect(); err != nil {
		log.Fatalf("[notification] broker unreachable: %v", err)
	}
	defer bus.Close()

	notify := &notifier.WithFallback{
		Primary:  notifier.NewWhatsApp(),
		Fallback: notifier.NewSMS(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := consumer.NewWorker(bus, notify).Start(ctx); err != nil {
		log.Fatalf("[notification] start worker: %v", err)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	log.Println("[notification] stopped")
}
