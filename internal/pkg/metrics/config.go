package metrics

import (
	"errors"
	"net/url"
	"time"
)

// Значения Config по умолчанию.
const (
	DefaultJobName = "handlekit"
	DefaultTimeout = 10 * time.Second
)

// Ошибки валидации конфигурации метрик.
var (
	ErrPushgatewayURLRequired = errors.New("metrics: pushgateway URL обязателен при включённых метриках")
	ErrPushgatewayURLInvalid  = errors.New("metrics: pushgateway URL должен содержать схему и host")
	ErrJobNameRequired        = errors.New("metrics: job name обязателен")
	ErrInvalidTimeout         = errors.New("metrics: timeout должен быть положительным")
)

// Config - неизменяемое описание metrics handle.
type Config struct {
	Enabled bool

	// PushgatewayURL, например "http://pushgateway:9091".
	PushgatewayURL string

	// JobName - группирующая метка job в Pushgateway.
	JobName string

	// Timeout ограничивает один push.
	Timeout time.Duration

	// InstanceLabel переопределяет метку instance. Пусто - hostname.
	InstanceLabel string
}

// Validate возвращает все нарушения, объединённые errors.Join.
// Выключенные метрики всегда валидны.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	var errs []error
	if c.PushgatewayURL == "" {
		errs = append(errs, ErrPushgatewayURLRequired)
	} else if u, err := url.Parse(c.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ErrPushgatewayURLInvalid)
	}
	if c.JobName == "" {
		errs = append(errs, ErrJobNameRequired)
	}
	if c.Timeout <= 0 {
		errs = append(errs, ErrInvalidTimeout)
	}
	return errors.Join(errs...)
}

// DefaultConfig возвращает конфигурацию с выключенными метриками.
func DefaultConfig() Config {
	return Config{
		JobName: DefaultJobName,
		Timeout: DefaultTimeout,
	}
}
