package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/storefront/internal/cfg"
	v1Http "github.com/DRSN-tech/storefront/internal/delivery/v1/http"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/infrastructure/encoder"
	"github.com/DRSN-tech/storefront/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/storefront/internal/infrastructure/minio"
	"github.com/DRSN-tech/storefront/internal/repository/memory"
	s3Repo "github.com/DRSN-tech/storefront/internal/repository/minio"
	"github.com/DRSN-tech/storefront/internal/repository/redis"
	"github.com/DRSN-tech/storefront/internal/state"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/closer"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/pubsub"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout = 10 * time.Second
	forcedTimeout   = 2 * time.Second
	pingTimeout     = 5 * time.Second
)

// App собирает зависимости витрины и управляет их жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server

	// bgCtx живёт до начала остановки; фоновые задачи (relay, очистка MinIO) привязаны к нему
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())

	a := &App{
		cfg:      cfg,
		logger:   log,
		closer:   closer.NewCloser(forcedTimeout),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}

	if err := a.init(); err != nil {
		bgCancel()
		_ = a.closer.Close(context.Background())
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	storage, err := a.initStorage()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := loadCatalog(a.cfg.Storefront.SeedFile)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.logger.Infof("catalog seeded with %d products", catalog.Len())

	store := state.NewStore(state.State{Catalog: catalog}, pubsub.NewBus[state.Change]())
	keys := pubsub.NewBus[string]()
	navigation := pubsub.NewBus[domain.NavigationRequest]()

	enc := encoder.NewEncoder(a.cfg.Storefront.MaxPhotoSize, a.logger)

	imagesInfra, err := a.initImages()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := a.initRelay(store); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	sessionUC := usecase.NewSessionUC(storage, enc, keys, navigation, a.cfg.Storefront, a.logger)
	sessionUC.OnNavigate(func(req domain.NavigationRequest) {
		a.logger.Debugf("navigation to %s requested: %s", req.Path, req.Reason)
	})

	// типизированный nil в интерфейсе не равен nil
	var images usecase.ImagesInfra
	if imagesInfra != nil {
		images = imagesInfra
	}

	storefrontUC := usecase.NewStorefrontUC(
		store,
		sessionUC,
		enc,
		images,
		domain.NewIDGenerator(nil),
		a.cfg.Storefront,
		a.logger,
	)
	searchUC := usecase.NewSearchUC(store, storage, keys, a.cfg.Storefront.RecentSearchLimit, a.logger)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.cfg.Storefront, a.logger)
	router.Init(storefrontUC, sessionUC, searchUC)

	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// initStorage выбирает хранилище сессии по STORAGE_DRIVER.
func (a *App) initStorage() (usecase.Storage, error) {
	if a.cfg.Storage.Driver != config.StorageDriverRedis {
		a.logger.Infof("session storage: in-memory")
		return memory.NewStorageRepo(), nil
	}

	hash := clients.NewSessionHashClient(a.cfg.Redis, a.cfg.Storage)
	a.closer.Add("redis", hash.Close)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := hash.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return nil, err
	}

	a.logger.Infof("session storage: redis %s, hash %q", hash.Addr(), hash.HashKey())
	return redis.NewStorageRepo(hash, a.logger), nil
}

// initImages подключает архив исходных фото в MinIO, если он настроен.
func (a *App) initImages() (*minioInfra.MinioInfrastructure, error) {
	if !a.cfg.Minio.Enabled {
		a.logger.Infof("photo archive disabled")
		return nil, nil
	}

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*pingTimeout)
	defer cancel()
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, err
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	infra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, a.bgCtx)
	a.closer.Add("minio cleanup", infra.WaitForCleanup)

	return infra, nil
}

// initRelay пересылает уведомления хранилища в Kafka, если брокеры заданы.
func (a *App) initRelay(store *state.Store) error {
	if !a.cfg.Kafka.Enabled {
		a.logger.Infof("change relay disabled")
		return nil
	}

	producer, err := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize kafka producer")
		return err
	}
	a.closer.Add("kafka producer", func(context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(2 * pingTimeout); err != nil {
		a.logger.Warnf("failed to ensure topic %s: %v", a.cfg.Kafka.Topic, err)
	}

	relay := kafka.NewRelayWorker(producer, a.logger, a.cfg.Kafka.BufferSize)
	relay.Start(a.bgCtx)
	a.closer.Add("change relay", relay.Stop)

	unsubscribe := store.Subscribe(state.SliceAll, relay.Enqueue)
	a.closer.Add("store subscription", func(context.Context) error {
		unsubscribe()
		return nil
	})

	return nil
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server listening on %s", a.httpSrv.Addr())
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.closer.Close(shutdownCtx)
	a.bgCancel()
	if err != nil {
		a.logger.Errorf(err, "shutdown error")
	}

	a.logger.Infof("Application shutdown complete")
	return errors.Join(appErr, err)
}
