package main

import (
	"fmt"
	"net/http"

	"github.com/fatali-fataliyev/smartsave/api"
	"github.com/fatali-fataliyev/smartsave/internal/budget"
	"github.com/fatali-fataliyev/smartsave/internal/config"
	"github.com/fatali-fataliyev/smartsave/internal/storage"
	"github.com/fatali-fataliyev/smartsave/logging"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		return
	}

	if err := logging.Init(cfg.LogLevel, cfg.AppEnv, cfg.LogDir); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		return
	}

	logging.Logger.Info("application starting...")

	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	var store budget.Storage
	switch cfg.Storage {
	case config.StorageMemory:
		logging.Logger.Warn("using in-memory storage, data is lost on restart")
		store = storage.NewInMemoryStorage()
	default:
		db, err := storage.Init(cfg.DB)
		if err != nil {
			logging.Logger.Errorf("failed to initialize database: %v", err)
			return
		}
		defer db.Close()
		store = storage.NewMySQLStorage(db)
	}

	bt := budget.NewBudgetTracker(store)
	server := api.NewRouter(api.NewApi(&bt))

	corsConf := cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	logging.Logger.Infof("Starting server on port %s with %s storage", cfg.Port, bt.StorageType)
	handlerWithCors := corsConf.Handler(server)
	if err := http.ListenAndServe(":"+cfg.Port, handlerWithCors); err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
		return
	}
}
