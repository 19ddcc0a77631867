package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Kargones/handlekit/internal/constants"
	"github.com/Kargones/handlekit/internal/pkg/apperrors"
)

// Load читает конфигурацию. Если path не пуст, YAML файл сначала проверяется
// по JSON Schema, затем разбирается; поверх применяются переменные окружения HK_*.
// Без файла конфигурация строится из переменных окружения и значений по умолчанию.
//
// Ошибки - AppError с кодами CONFIG.LOAD_FAILED, CONFIG.VALIDATION_FAILED,
// CONFIG.PARSE_FAILED.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigParse,
				"не удалось прочитать переменные окружения", err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			msg := "не удалось прочитать файл конфигурации"
			if errors.Is(err, fs.ErrNotExist) {
				msg = "файл конфигурации не найден"
			}
			return nil, apperrors.NewAppError(apperrors.ErrConfigLoad, msg, err)
		}
		if err := ValidateDocument(data); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigValidate,
				"файл конфигурации не соответствует схеме", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigParse,
				"не удалось разобрать файл конфигурации", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate,
			"некорректная конфигурация", err)
	}
	return &cfg, nil
}

// LoadFromEnv читает конфигурацию из файла, указанного в HK_CONFIG (если задан).
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(constants.EnvConfigPath))
}

// Validate проверяет значения, которые могли прийти из переменных окружения
// в обход JSON Schema.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "silent":
	default:
		errs = append(errs, fmt.Errorf("logging.level: неизвестный уровень %q", c.Logging.Level))
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port: %d вне диапазона 1-65535", c.Database.Port))
	}
	if c.Database.DSN != "" && c.Database.Server != "" {
		errs = append(errs, errors.New("database: dsn и server взаимоисключающие"))
	}
	if c.Metrics.Enabled && c.Metrics.PushgatewayURL == "" {
		errs = append(errs, errors.New("metrics: pushgatewayUrl обязателен при enabled=true"))
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("tracing: endpoint обязателен при enabled=true"))
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("tracing.samplingRate: %g вне диапазона [0, 1]", c.Tracing.SamplingRate))
	}

	return errors.Join(errs...)
}
