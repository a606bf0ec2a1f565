package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"

	DownloadStream   = "stream"
	DownloadProxy    = "proxy"
	DownloadRedirect = "redirect"
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		PublicURL string
	}
	Session struct {
		Secret       string
		TTL          time.Duration
		SecureCookie bool
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	Storage struct {
		Backend      string
		LocalDir     string
		DownloadMode string
		SignedURLTTL time.Duration
	}
	S3 struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		Endpoint        string
		UsePathStyle    bool
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App     APP
		Session Session
		DB      DB
		Storage Storage
		S3      S3
		MQ      MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// plain seconds are accepted too: SIGNED_URL_TTL=300
		if n, nErr := strconv.Atoi(v); nErr == nil {
			return time.Duration(n) * time.Second
		}
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}

func Load() Config {
	app := APP{
		Name: getEnv("SERVICE_NAME", "file-uploader"),
		Host: getEnv("SERVICE_HOST", ""),
		Port: getEnv("SERVICE_PORT", "3000"),
		Env:  getEnv("SERVICE_ENV", ""),
	}
	app.PublicURL = strings.TrimRight(getEnv("SERVICE_PUBLIC_URL", "http://localhost:"+app.Port), "/")

	session := Session{
		Secret:       getEnv("SESSION_SECRET", ""),
		TTL:          getDuration("SESSION_TTL", 24*time.Hour),
		SecureCookie: getBool("SESSION_SECURE_COOKIE", false),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", "5432"),
	}
	storage := Storage{
		Backend:      strings.ToLower(getEnv("STORAGE_BACKEND", BackendLocal)),
		LocalDir:     getEnv("STORAGE_LOCAL_DIR", "./uploads"),
		DownloadMode: strings.ToLower(getEnv("DOWNLOAD_MODE", DownloadStream)),
		SignedURLTTL: getDuration("SIGNED_URL_TTL", 300*time.Second),
	}
	s3 := S3{
		Region:          getEnv("S3_REGION", "us-east-1"),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		UsePathStyle:    getBool("S3_USE_PATH_STYLE", false),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "file-uploader.activity"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "file-uploader.activity.audit"),
	}

	return Config{
		App:     app,
		Session: session,
		DB:      db,
		Storage: storage,
		S3:      s3,
		MQ:      mq,
	}
}

// Validate reports settings the app cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.LocalDir == "" {
			errs = append(errs, errors.New("STORAGE_LOCAL_DIR is required for the local backend"))
		}
	case BackendS3:
		if c.S3.BucketUploads == "" {
			errs = append(errs, errors.New("S3_BUCKET_UPLOADS is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}

	switch c.Storage.DownloadMode {
	case DownloadStream, DownloadProxy, DownloadRedirect:
	default:
		errs = append(errs, fmt.Errorf("unknown DOWNLOAD_MODE %q", c.Storage.DownloadMode))
	}
	if c.Storage.SignedURLTTL <= 0 {
		errs = append(errs, errors.New("SIGNED_URL_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

// MQEnabled reports whether activity events should be published.
func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
