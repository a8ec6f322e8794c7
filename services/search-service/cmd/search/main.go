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
	"github.com/redis/go-redis/v9"

	"github.com/you/travel-marketplace/pkg/config"
	"github.com/you/travel-marketplace/pkg/db"
	"github.com/you/travel-marketplace/pkg/mq"
	"github.com/you/travel-marketplace/services/search-service/internal/cache"
	"github.com/you/travel-marketplace/services/search-service/internal/consumer"
	"github.com/you/travel-marketplace/services/search-service/internal/repository"
	"github.com/you/travel-marketplace/services/search-service/internal/service"
	thttp "github.com/you/travel-marketplace/services/search-service/internal/transport/http"
	"github.com/you/travel-marketplace/services/search-service/internal/vector"
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

	embed := must(vector.FromConfig(cfg.EmbeddingProvider, cfg.GeminiAPIKey, cfg.OllamaBaseURL))
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	embed = cache.Wrap(embed, rdb, cfg.EmbeddingProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	qd := vector.NewClient(cfg.QdrantURL)
	for _, col := range []string{service.CollectionListings, service.CollectionEvents} {
		if err := qd.CreateCollection(ctx, col, embed.Dimension()); err != nil {
			log.Fatalf("[search] ensure collection %s: %v", col, err)
		}
	}

	gdb := db.Open(cfg.PGDSN)
	store := repository.NewStore(gdb)
	coord := service.New(embed, qd, store)

	bus := mq.New(cfg.RabbitURL, cfg.Exchange)
	if err := bus.Connect(); err != nil {
		log.Fatalf("[search] broker unreachable: %v", err)
	}
	defer bus.Close()
	if err := consumer.NewIndexer(bus, embed, qd).Start(ctx); err != nil {
		log.Fatalf("[search] start indexer: %v", err)
	}

	r := gin.Default()
	thttp.NewHandler(coord, bus).Register(r)

	srv := &http.Server{Addr: cfg.SearchHTTPAddr, Handler: r}
	go func() {
		log.Printf("[search] http listening on %s", cfg.SearchHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[search] serve: %v", err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	log.Println("[search] stopped")
}
