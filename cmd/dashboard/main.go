package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordenes-dashboard/internal/config"
	"github.com/MikeMC777/ordenes-dashboard/internal/httpx"
	ord "github.com/MikeMC777/ordenes-dashboard/internal/order"
	"github.com/MikeMC777/ordenes-dashboard/internal/tracing"
)

func newRouter(store *ord.Store) *gin.Engine {
	guard := newUpdateGuard()

	r := gin.New()
	httpx.Standard(r, "dashboard")

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", httpx.MetricsHandler())

	d := r.Group("/dashboard")
	{
		d.GET("/orders", listOrdersHandler(store))
		d.POST("/orders/reload", reloadOrdersHandler(store))
		d.PUT("/filter", setFilterHandler(store))
		d.GET("/orders/:id", getOrderHandler(store, guard))
		d.PUT("/orders/:id/status", updateStatusHandler(store, guard))
	}
	return r
}

func logTransitions(st ord.State) {
	log.Printf("[orders] status=%s orders=%d filter=%s", st.RequestStatus, len(st.Orders), st.Filter)
}

func main() {
	cfg := config.Load()

	shutdownTracing, err := tracing.Init(context.Background(), tracing.Config{
		ServiceName: "order-dashboard",
		ExporterURL: cfg.TracingExporterURL,
		SampleRate:  cfg.TracingSampleRate,
	})
	if err != nil {
		log.Fatalf("[dashboard] tracing: %v", err)
	}

	client := ord.NewClient(cfg.OrderAPIBaseURL, cfg.OrderAPITimeout)
	store := ord.NewStore(client)
	unsubscribe := store.Subscribe(logTransitions)
	defer unsubscribe()

	srv := &http.Server{Addr: cfg.DashboardAddr, Handler: newRouter(store)}
	go func() {
		log.Printf("dashboard listening on %s (order API %s)", cfg.DashboardAddr, cfg.OrderAPIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[dashboard] server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[dashboard] forced shutdown: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("[dashboard] tracing shutdown: %v", err)
	}
}
