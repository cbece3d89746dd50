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
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/ordenes-dashboard/docs"
	"github.com/MikeMC777/ordenes-dashboard/internal/config"
	"github.com/MikeMC777/ordenes-dashboard/internal/httpx"
	ord "github.com/MikeMC777/ordenes-dashboard/internal/order"
)

func newRouter(repo ord.Repository) *gin.Engine {
	r := gin.New()
	httpx.Standard(r, "order-api")

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", httpx.MetricsHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/orders", listOrdersHandler(repo))
	r.GET("/orders/:id", getOrderHandler(repo))
	r.PUT("/orders/:id", replaceOrderHandler(repo))
	return r
}

func openRepo(ctx context.Context, cfg config.Config) (ord.Repository, func(), error) {
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := ord.NewPGRepo(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Printf("[order-api] using postgres")
		return repo, pool.Close, nil
	}

	seed, err := ord.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, err
		}
		log.Printf("[order-api] seed file %s not found, starting empty", cfg.SeedFile)
	}
	log.Printf("[order-api] using in-memory store with %d orders", len(seed))
	return ord.NewMemRepo(seed), func() {}, nil
}

// @title        Order API
// @version      1.0
// @description  Order API consumed by the order dashboard.
// @host         localhost:3001
// @BasePath     /
func main() {
	cfg := config.Load()

	repo, closeRepo, err := openRepo(context.Background(), cfg)
	if err != nil {
		log.Fatalf("[order-api] repository: %v", err)
	}
	defer closeRepo()

	srv := &http.Server{Addr: cfg.OrderAPIAddr, Handler: newRouter(repo)}
	go func() {
		log.Printf("order-api listening on %s", cfg.OrderAPIAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[order-api] server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[order-api] forced shutdown: %v", err)
	}
}
