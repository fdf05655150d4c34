// Команда app поднимает API витрины: каталог, корзину, избранное, сравнение и поиск.
package main

import (
	"os"

	"github.com/DRSN-tech/storefront/internal/app"
	config "github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.New()
	if s, ok := log.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		return 1
	}

	log.Infof("storefront: storage=%s kafka=%t admin=%s", cfg.Storage.Driver, cfg.Kafka.Enabled, cfg.Storefront.AdminEmail)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		return 1
	}

	if err := application.Run(); err != nil {
		return 1
	}

	return 0
}
