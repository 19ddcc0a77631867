// Package config загружает конфигурацию handlekit: YAML файл (опционально)
// и переменные окружения HK_*. Переменные окружения имеют приоритет над файлом.
//
// Структура Config - внешнее представление. Неизменяемые конфигурации
// handle-ов (logging.Config, sqlpool.Config и др.) строятся из неё в пакете di.
package config

import (
	"time"
)

// Config - корневая конфигурация приложения.
type Config struct {
	// App - параметры приложения.
	App AppConfig `yaml:"app"`
	// Logging - параметры logging handle.
	Logging LoggingConfig `yaml:"logging"`
	// Database - параметры пула соединений.
	Database DatabaseConfig `yaml:"database"`
	// Metrics - параметры metrics handle.
	Metrics MetricsConfig `yaml:"metrics"`
	// Tracing - параметры tracing handle.
	Tracing TracingConfig `yaml:"tracing"`
}

// AppConfig содержит параметры приложения.
type AppConfig struct {
	// Name - имя приложения в логах и метриках.
	Name string `yaml:"name" env:"HK_APP_NAME" env-default:"handlekit"`
	// Environment - окружение (production, staging, development).
	Environment string `yaml:"environment" env:"HK_ENVIRONMENT" env-default:"production"`
}

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	// Level - минимальный уровень: debug, info, warn, error, silent.
	Level string `yaml:"level" env:"HK_LOG_LEVEL" env-default:"debug"`

	// File - путь к файлу логов. Если задан, к Sinks добавляется file sink.
	File string `yaml:"file" env:"HK_LOG_FILE"`

	// Sinks - описания sink-ов. Отсутствие ключа означает terminal sink
	// по умолчанию; пустой список - логирование без sink-ов.
	Sinks []SinkConfig `yaml:"sinks"`
}

// SinkConfig - описание одного sink-а в YAML.
// Пустые значения заменяются значениями по умолчанию пакета logging.
type SinkConfig struct {
	Kind       string            `yaml:"kind"`
	Format     string            `yaml:"format"`
	Path       string            `yaml:"path"`
	MaxSize    int               `yaml:"maxSize"`
	MaxBackups *int              `yaml:"maxBackups"`
	MaxAge     *int              `yaml:"maxAge"`
	Compress   *bool             `yaml:"compress"`
	Encoding   string            `yaml:"encoding"`
	Stream     string            `yaml:"stream"`
	NoColor    bool              `yaml:"noColor"`
	URL        string            `yaml:"url"`
	Labels     map[string]string `yaml:"labels"`
}

// DatabaseConfig содержит настройки пула соединений.
//
// Endpoint задаётся строкой DSN либо полями Server/Port/User/Password/Database.
// Если не задано ни то, ни другое, используется constants.DefaultDSN.
type DatabaseConfig struct {
	// Driver - имя драйвера database/sql (для схем sqlserver:// не обязателен).
	Driver string `yaml:"driver" env:"HK_DB_DRIVER"`
	// DSN - строка подключения.
	DSN string `yaml:"dsn" env:"HK_DB_DSN"`

	Server   string `yaml:"server" env:"HK_DB_SERVER"`
	Port     int    `yaml:"port" env:"HK_DB_PORT"`
	User     string `yaml:"user" env:"HK_DB_USER"`
	Password string `yaml:"password" env:"HK_DB_PASSWORD"`
	Database string `yaml:"database" env:"HK_DB_NAME"`
	// Insecure - отключить TLS шифрование соединения.
	Insecure bool `yaml:"insecure" env:"HK_DB_INSECURE"`

	MaxOpenConns    int           `yaml:"maxOpenConns" env:"HK_DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"maxIdleConns" env:"HK_DB_MAX_IDLE_CONNS" env-default:"2"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" env:"HK_DB_CONN_MAX_LIFETIME"`
	ConnectTimeout  time.Duration `yaml:"connectTimeout" env:"HK_DB_CONNECT_TIMEOUT" env-default:"30s"`
	AcquireTimeout  time.Duration `yaml:"acquireTimeout" env:"HK_DB_ACQUIRE_TIMEOUT"`
}

// MetricsConfig содержит настройки Prometheus метрик.
type MetricsConfig struct {
	// Enabled - включены ли метрики (по умолчанию false).
	Enabled bool `yaml:"enabled" env:"HK_METRICS_ENABLED"`
	// PushgatewayURL - URL Prometheus Pushgateway, например "http://pushgateway:9091".
	PushgatewayURL string `yaml:"pushgatewayUrl" env:"HK_METRICS_PUSHGATEWAY_URL"`
	// JobName - имя job для группировки метрик.
	JobName string `yaml:"jobName" env:"HK_METRICS_JOB_NAME" env-default:"handlekit"`
	// Timeout - таймаут HTTP запросов к Pushgateway.
	Timeout time.Duration `yaml:"timeout" env:"HK_METRICS_TIMEOUT" env-default:"10s"`
	// InstanceLabel - переопределение instance label (по умолчанию hostname).
	InstanceLabel string `yaml:"instanceLabel" env:"HK_METRICS_INSTANCE"`
}

// TracingConfig содержит настройки OpenTelemetry трейсинга.
type TracingConfig struct {
	// Enabled включает отправку трейсов в OTLP бэкенд.
	Enabled bool `yaml:"enabled" env:"HK_TRACING_ENABLED"`
	// Endpoint - URL OTLP HTTP endpoint (например, http://jaeger:4318).
	Endpoint string `yaml:"endpoint" env:"HK_TRACING_ENDPOINT"`
	// ServiceName - имя сервиса для resource attributes.
	ServiceName string `yaml:"serviceName" env:"HK_TRACING_SERVICE_NAME" env-default:"handlekit"`
	// Insecure - использовать HTTP вместо HTTPS для OTLP endpoint.
	Insecure bool `yaml:"insecure" env:"HK_TRACING_INSECURE"`
	// Timeout - таймаут экспорта трейсов.
	Timeout time.Duration `yaml:"timeout" env:"HK_TRACING_TIMEOUT" env-default:"5s"`
	// SamplingRate - доля сэмплируемых трейсов (0.0 - ни один, 1.0 - все).
	SamplingRate float64 `yaml:"samplingRate" env:"HK_TRACING_SAMPLING_RATE" env-default:"1.0"`
}
