package di

import (
	"fmt"

	"github.com/Kargones/handlekit/internal/adapter/sqlpool"
	"github.com/Kargones/handlekit/internal/app"
	"github.com/Kargones/handlekit/internal/config"
	"github.com/Kargones/handlekit/internal/constants"
	"github.com/Kargones/handlekit/internal/pkg/apperrors"
	"github.com/Kargones/handlekit/internal/pkg/logging"
	"github.com/Kargones/handlekit/internal/pkg/metrics"
	"github.com/Kargones/handlekit/internal/pkg/tracing"
)

// ProvideLoggingConfig строит logging.Config.
//
// Правила слияния:
//   - отсутствие logging.sinks (nil) - один terminal sink по умолчанию;
//   - пустой список - handle без sink-ов;
//   - logging.file (HK_LOG_FILE) добавляет file sink в конец списка;
//   - пустые поля sink-а заменяются значениями logging.DefaultXxx.
//
// Некорректное описание sink-а - AppError LOGGING.SINK_CONFIG_INVALID.
func ProvideLoggingConfig(cfg *config.Config) (logging.Config, error) {
	logCfg := logging.DefaultConfig()
	if cfg == nil {
		return logCfg, nil
	}

	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	if cfg.Logging.Sinks != nil {
		logCfg.Sinks = make([]logging.SinkConfig, 0, len(cfg.Logging.Sinks)+1)
		for _, s := range cfg.Logging.Sinks {
			logCfg.Sinks = append(logCfg.Sinks, sinkConfig(s))
		}
	}
	if cfg.Logging.File != "" {
		logCfg.Sinks = append(logCfg.Sinks, logging.FileSink(cfg.Logging.File))
	}

	for i, s := range logCfg.Sinks {
		if err := s.Validate(); err != nil {
			return logging.Config{}, apperrors.NewAppError(apperrors.ErrLoggingSinkConfig,
				fmt.Sprintf("некорректное описание sink #%d", i), err)
		}
	}
	return logCfg, nil
}

func sinkConfig(s config.SinkConfig) logging.SinkConfig {
	out := logging.SinkConfig{
		Kind:     logging.SinkKind(s.Kind),
		Format:   s.Format,
		Path:     s.Path,
		Encoding: s.Encoding,
		Stream:   s.Stream,
		NoColor:  s.NoColor,
		URL:      s.URL,
		Labels:   s.Labels,
	}

	switch out.Kind {
	case logging.SinkFile:
		out.MaxSize = logging.DefaultMaxSize
		if s.MaxSize > 0 {
			out.MaxSize = s.MaxSize
		}
		out.MaxBackups = logging.DefaultMaxBackups
		if s.MaxBackups != nil {
			out.MaxBackups = *s.MaxBackups
		}
		out.MaxAge = logging.DefaultMaxAge
		if s.MaxAge != nil {
			out.MaxAge = *s.MaxAge
		}
		out.Compress = logging.DefaultCompress
		if s.Compress != nil {
			out.Compress = *s.Compress
		}
	case logging.SinkTerminal:
		if out.Stream == "" {
			out.Stream = logging.DefaultStream
		}
	case logging.SinkRemote:
		if out.Format == "" {
			out.Format = logging.FormatJSON
		}
	}
	if out.Format == "" {
		out.Format = logging.DefaultFormat
	}
	return out
}

// ProvideDatabaseConfig строит sqlpool.Config.
// Без DSN и server используется constants.DefaultDSN.
func ProvideDatabaseConfig(cfg *config.Config) sqlpool.Config {
	poolCfg := sqlpool.DefaultConfig()
	if cfg == nil {
		poolCfg.DSN = constants.DefaultDSN
		return poolCfg
	}

	db := cfg.Database
	poolCfg.Driver = db.Driver
	poolCfg.DSN = db.DSN
	poolCfg.Server = db.Server
	poolCfg.User = db.User
	poolCfg.Password = db.Password
	poolCfg.Encrypt = !db.Insecure
	if db.Port > 0 {
		poolCfg.Port = db.Port
	}
	if db.Database != "" {
		poolCfg.Database = db.Database
	}
	if db.MaxOpenConns > 0 {
		poolCfg.MaxOpenConns = db.MaxOpenConns
	}
	if db.MaxIdleConns > 0 {
		poolCfg.MaxIdleConns = db.MaxIdleConns
	}
	if db.ConnectTimeout > 0 {
		poolCfg.ConnectTimeout = db.ConnectTimeout
	}
	poolCfg.ConnMaxLifetime = db.ConnMaxLifetime
	poolCfg.AcquireTimeout = db.AcquireTimeout

	if poolCfg.DSN == "" && poolCfg.Server == "" {
		poolCfg.DSN = constants.DefaultDSN
	}
	return poolCfg
}

// ProvideMetricsConfig строит metrics.Config.
func ProvideMetricsConfig(cfg *config.Config) metrics.Config {
	metricsCfg := metrics.DefaultConfig()
	if cfg == nil {
		return metricsCfg
	}

	metricsCfg.Enabled = cfg.Metrics.Enabled
	metricsCfg.PushgatewayURL = cfg.Metrics.PushgatewayURL
	metricsCfg.InstanceLabel = cfg.Metrics.InstanceLabel
	if cfg.Metrics.JobName != "" {
		metricsCfg.JobName = cfg.Metrics.JobName
	}
	if cfg.Metrics.Timeout > 0 {
		metricsCfg.Timeout = cfg.Metrics.Timeout
	}
	return metricsCfg
}

// ProvideTracingConfig строит tracing.Config. Версия сервиса берётся из сборки.
func ProvideTracingConfig(cfg *config.Config) tracing.Config {
	tracingCfg := tracing.DefaultConfig()
	tracingCfg.Version = constants.Version
	if cfg == nil {
		return tracingCfg
	}

	tracingCfg.Enabled = cfg.Tracing.Enabled
	tracingCfg.Endpoint = cfg.Tracing.Endpoint
	tracingCfg.Insecure = cfg.Tracing.Insecure
	tracingCfg.SamplingRate = cfg.Tracing.SamplingRate
	if cfg.Tracing.ServiceName != "" {
		tracingCfg.ServiceName = cfg.Tracing.ServiceName
	}
	if cfg.App.Environment != "" {
		tracingCfg.Environment = cfg.App.Environment
	}
	if cfg.Tracing.Timeout > 0 {
		tracingCfg.Timeout = cfg.Tracing.Timeout
	}
	return tracingCfg
}

// ProvideAppConfig строит app.Config. Endpoint совпадает с endpoint-ом пула.
func ProvideAppConfig(cfg *config.Config) app.Config {
	appCfg := app.Config{Name: constants.AppName, Version: constants.Version}
	if cfg != nil && cfg.App.Name != "" {
		appCfg.Name = cfg.App.Name
	}

	db := ProvideDatabaseConfig(cfg)
	if db.DSN != "" {
		appCfg.Endpoint = db.DSN
	} else {
		appCfg.Endpoint = fmt.Sprintf("sqlserver://%s:%d?database=%s", db.Server, db.Port, db.Database)
	}
	return appCfg
}
