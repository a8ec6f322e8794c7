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
	"github.com/you/travel-marketplace/pkg/obs"
	"github.com/you/travel-marketplace/services/api-gateway/internal/proxy"
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

	shutdownTracer := obs.InitTracer("api-gateway")
	defer shutdownTracer(context.Background())

	gw := must(proxy.New([]proxy.Route{
		{Prefix: "/api/bookings", Upstream: cfg.BookingURL, RequireAuth: true},
		{Prefix: "/api/interactions", Upstream: cfg.SearchURL, RequireAuth: true},
		{Prefix: "/api/search", Upstream: cfg.SearchURL},
		{Prefix: "/api/vendors", Upstream: cfg.VendorURL},
		{Prefix: "/api/packages", Upstream: cfg.VendorURL},
		{Prefix: "/api/events", Upstream: cfg.EventURL},
	}))

	r := gin.Default()
	gw.Register(r)

	srv := &http.Server{Addr: cfg.GatewayHTTPAddr, Handler: r}
	go func() {
		log.Printf("[gateway] http listening on %s", cfg.GatewayHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[gateway] serve: %v", err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	log.Println("[gateway] stopped")
}
