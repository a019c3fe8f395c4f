package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/MarcsHandy/AfriFresh/internal/adapter/handler"
	"github.com/MarcsHandy/AfriFresh/internal/adapter/storage"
	"github.com/MarcsHandy/AfriFresh/internal/clock"
	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
	"github.com/MarcsHandy/AfriFresh/internal/core/service"
)

const (
	httpPort    = ":8080"
	mysqlDSN    = "root:root@tcp(localhost:3306)/afrifresh?parseTime=true"
	redisAddr   = "localhost:6379"
	gracePeriod = 3 * time.Second
	settleDelay = 1 * time.Second
)

// The launch catalog: local produce from partner farmers.
var seedProducts = []domain.Product{
	{ID: "matoke", Name: "Matoke (Bananas)", Description: "Fresh green bananas from local farms.", Category: domain.CategoryFruit, Price: 2500, FarmerName: "Farmer John", InStock: true},
	{ID: "tomatoes", Name: "Tomatoes", Description: "Juicy organic tomatoes.", Category: domain.CategoryVegetable, Price: 1800, FarmerName: "Farmer Mary", InStock: true},
	{ID: "pineapple", Name: "Pineapple", Description: "Sweet tropical pineapple.", Category: domain.CategoryFruit, Price: 3000, FarmerName: "Farmer Joseph", InStock: true},
	{ID: "cassava", Name: "Cassava", Description: "Fresh root cassava.", Category: domain.CategoryOther, Price: 2200, FarmerName: "Farmer Grace", InStock: true},
	{ID: "sweet-potatoes", Name: "Sweet Potatoes", Description: "Organic sweet potatoes.", Category: domain.CategoryOther, Price: 2500, FarmerName: "Farmer Alice", InStock: true},
	{ID: "avocados", Name: "Avocados", Description: "Ripe avocados, perfect for smoothies.", Category: domain.CategoryFruit, Price: 2000, FarmerName: "Farmer Sam", InStock: false},
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	// Initialize adapters
	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)
	history := storage.NewMemoryOrderHistory()
	sink := storage.NewHistorySink(mysqlAdapter, history)

	// Seed the catalog
	if err := mysqlAdapter.SeedProducts(ctx, seedProducts); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	if err := redisAdapter.Seed(ctx, seedProducts); err != nil {
		log.Fatalf("failed to warm catalog cache: %v", err)
	}
	log.Printf("seeded catalog with %d products", len(seedProducts))

	// Initialize services
	clk := clock.NewSystem()
	carts := service.NewCartManager(sink, clk,
		service.WithGracePeriod(gracePeriod),
		service.WithSettleDelay(settleDelay),
	)
	catalog := service.NewCatalogService(mysqlAdapter, redisAdapter)
	payments := service.NewPaymentService()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(carts, catalog, history, payments)
	router := mux.NewRouter()
	httpHandler.Register(router)

	httpServer := &http.Server{
		Addr:    httpPort,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpPort)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	rdb.Close()
	db.Close()
	log.Println("connections closed")
}
