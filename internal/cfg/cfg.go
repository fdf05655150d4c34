package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

// Драйверы хранилища сессии.
const (
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

type Config struct {
	Minio      *MinIOCfg
	Http       *HTTPConfig
	Redis      *RedisCfg
	Kafka      *KafkaCfg
	Storage    *StorageCfg
	Storefront *StorefrontCfg
}

type KafkaCfg struct {
	Enabled           bool // false, если KAFKA_BROKERS не задан
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	BufferSize        int // размер очереди уведомлений перед отправкой
}

type MinIOCfg struct {
	Enabled           bool   // false, если MINIO_ENDPOINT не задан
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool   // Подключение по TLS
	UploadImagesLimit int    // Лимит на макс кол-во одновременно загружаемых в S3 фото
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

type StorageCfg struct {
	Driver  string // redis | memory
	HashKey string // ключ хэша Redis, в котором лежит состояние сессии
}

type StorefrontCfg struct {
	AdminEmail        string
	LoginPath         string
	RecentSearchLimit int
	EncodeTimeout     time.Duration
	MaxPhotoSize      int64
	SeedFile          string // JSON-файл с начальным каталогом, может быть пустым
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Перед чтением окружения подхватывается .env, если он есть.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf(".env not loaded: %v", err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	storage, err := loadStorageCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	storefront, err := loadStorefrontCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:      minio,
		Http:       http,
		Redis:      redis,
		Kafka:      kafka,
		Storage:    storage,
		Storefront: storefront,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultTopic             = "storefront.changes"
		defaultBufferSize        = 256
	)

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return &KafkaCfg{Enabled: false}, nil
	}
	brokers := strings.Split(brokerStr, ",")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	bufferSize, err := parseIntEnv("KAFKA_BUFFER_SIZE", defaultBufferSize)
	if err != nil {
		return nil, e.Wrap("KAFKA_BUFFER_SIZE", err)
	}

	return &KafkaCfg{
		Enabled:           true,
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		BufferSize:        bufferSize,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL            = false
		defaultBucket            = "product-photos"
		defaultUploadImagesLimit = 4
	)

	endpoint := getEnv("MINIO_ENDPOINT")
	if endpoint == "" {
		return &MinIOCfg{Enabled: false}, nil
	}

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	limit, err := parseIntEnv("UPLOAD_IMAGES_LIMIT", defaultUploadImagesLimit)
	if err != nil {
		log.Errorf(err, "invalid UPLOAD_IMAGES_LIMIT")
		return nil, err
	}

	return &MinIOCfg{
		Enabled:           true,
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		UploadImagesLimit: limit,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadStorageCfg(log logger.Logger) (*StorageCfg, error) {
	const (
		defaultDriver  = StorageDriverMemory
		defaultHashKey = "storefront:session"
	)

	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", defaultDriver))
	if driver != StorageDriverRedis && driver != StorageDriverMemory {
		err := fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q: %w",
			StorageDriverRedis, StorageDriverMemory, driver, e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid STORAGE_DRIVER")
		return nil, err
	}

	return &StorageCfg{
		Driver:  driver,
		HashKey: getEnvOrDefault("STORAGE_HASH_KEY", defaultHashKey),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
	)

	addr := getEnvOrDefault("REDIS_ADDR", defaultAddr)
	password := getEnv("REDIS_PASSWORD")
	user := getEnv("REDIS_USER")

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    password,
		User:        user,
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
	}, nil
}

func loadStorefrontCfg(log logger.Logger) (*StorefrontCfg, error) {
	const (
		defaultAdminEmail        = "test1278@gmail.com"
		defaultLoginPath         = "/login"
		defaultRecentSearchLimit = 5
		defaultEncodeTimeout     = 10 * time.Second
		defaultMaxPhotoSize      = 5 << 20
	)

	limit, err := parseIntEnv("RECENT_SEARCH_LIMIT", defaultRecentSearchLimit)
	if err != nil || limit < 1 {
		err = fmt.Errorf("RECENT_SEARCH_LIMIT must be a positive integer: %w", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid RECENT_SEARCH_LIMIT")
		return nil, err
	}

	encodeTimeout, err := parseDurationEnv("ENCODE_TIMEOUT", defaultEncodeTimeout)
	if err != nil {
		log.Errorf(err, "invalid ENCODE_TIMEOUT")
		return nil, err
	}

	maxPhotoSize, err := parseIntEnv("MAX_PHOTO_SIZE", defaultMaxPhotoSize)
	if err != nil {
		log.Errorf(err, "invalid MAX_PHOTO_SIZE")
		return nil, err
	}

	return &StorefrontCfg{
		AdminEmail:        strings.ToLower(getEnvOrDefault("ADMIN_EMAIL", defaultAdminEmail)),
		LoginPath:         getEnvOrDefault("LOGIN_PATH", defaultLoginPath),
		RecentSearchLimit: limit,
		EncodeTimeout:     encodeTimeout,
		MaxPhotoSize:      int64(maxPhotoSize),
		SeedFile:          getEnv("CATALOG_SEED_FILE"),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
