package tracing

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Ошибки валидации конфигурации трейсинга.
var (
	ErrEndpointRequired    = errors.New("tracing: endpoint обязателен при включённом трейсинге")
	ErrEndpointInvalid     = errors.New("tracing: endpoint должен быть URL со схемой http(s) и host, например http://jaeger:4318")
	ErrServiceNameRequired = errors.New("tracing: service name обязателен")
	ErrTimeoutInvalid      = errors.New("tracing: timeout должен быть положительным")
	ErrSamplingRateInvalid = errors.New("tracing: sampling rate должен быть от 0.0 до 1.0")
)

// DefaultServiceName - service.name по умолчанию.
const DefaultServiceName = "handlekit"

// Значения Config по умолчанию.
const (
	DefaultEnvironment  = "production"
	DefaultTimeout      = 5 * time.Second
	DefaultSamplingRate = 1.0
)

// Config - неизменяемое описание tracing handle.
// При Enabled=false остальные поля не проверяются и не используются.
type Config struct {
	Enabled bool

	// Endpoint - OTLP HTTP endpoint коллектора. Путь /v1/traces добавляет экспортёр.
	Endpoint string

	// ServiceName, Version, Environment попадают в resource span-ов.
	ServiceName string
	Version     string
	Environment string

	// Insecure - отправлять span-ы по HTTP без TLS.
	Insecure bool

	// Timeout ограничивает экспорт батча и завершение provider-а.
	Timeout time.Duration

	// SamplingRate - доля сэмплируемых корневых трейсов.
	SamplingRate float64
}

// Validate возвращает все найденные нарушения, объединённые errors.Join.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	var errs []error
	switch u, err := url.Parse(c.Endpoint); {
	case c.Endpoint == "":
		errs = append(errs, ErrEndpointRequired)
	case err != nil, u.Host == "", u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, ErrEndpointInvalid)
	}
	if c.ServiceName == "" {
		errs = append(errs, ErrServiceNameRequired)
	}
	if c.Timeout <= 0 {
		errs = append(errs, ErrTimeoutInvalid)
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("%w, получено: %g", ErrSamplingRateInvalid, c.SamplingRate))
	}
	return errors.Join(errs...)
}

// DefaultConfig возвращает конфигурацию с выключенным трейсингом.
func DefaultConfig() Config {
	return Config{
		ServiceName:  DefaultServiceName,
		Environment:  DefaultEnvironment,
		Timeout:      DefaultTimeout,
		SamplingRate: DefaultSamplingRate,
	}
}
