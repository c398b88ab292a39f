package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"go-resupply-order/internal/config"
	"go-resupply-order/internal/model"
	"go-resupply-order/internal/storage"
	"go-resupply-order/pkg/docstore"
	applogger "go-resupply-order/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "products.json", "JSON array of products to append")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.StoreDriver == config.DriverMemory {
		log.Fatalf("STORE_DRIVER=memory keeps nothing after exit, choose postgres or mongo")
	}

	zlog, err := applogger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	// 2. Read products
	products, err := readProducts(*file)
	if err != nil {
		zlog.Fatal("failed to read products", zap.String("file", *file), zap.Error(err))
	}

	// 3. Setup Document Store
	store, closeStore, err := storage.Open(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open document store", zap.Error(err))
	}
	defer closeStore()

	// 4. Append
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := seed(ctx, store, products)
	if err != nil {
		zlog.Error("seeding stopped", zap.Int("appended", n), zap.Error(err))
		return
	}
	zlog.Info("catalog seeded", zap.Int("products", n), zap.String("driver", cfg.StoreDriver))
}

func readProducts(path string) ([]model.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []model.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// seed appends products in file order, which is the order the catalog
// loader later sees them in.
func seed(ctx context.Context, store docstore.Store, products []model.Product) (int, error) {
	for i, p := range products {
		if _, err := store.Append(ctx, docstore.CollectionProducts, p.Document()); err != nil {
			return i, err
		}
	}
	return len(products), nil
}
