// Package di строит неизменяемые конфигурации handle-ов из загруженного
// config.Config. Граф провайдеров описан в wire.go и генерируется Wire.
//
// Сами handle-ы здесь не создаются: их время жизни задаётся вложенными
// WithHandle в cmd/handlekit, а не контейнером.
package di

import (
	"github.com/Kargones/handlekit/internal/adapter/sqlpool"
	"github.com/Kargones/handlekit/internal/app"
	"github.com/Kargones/handlekit/internal/pkg/logging"
	"github.com/Kargones/handlekit/internal/pkg/metrics"
	"github.com/Kargones/handlekit/internal/pkg/tracing"
)

// Configs содержит конфигурации всех handle-ов приложения.
// Создаётся через Wire DI в InitializeConfigs().
//
// При добавлении нового handle:
// 1. Добавить поле в Configs
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type Configs struct {
	App      app.Config
	Logging  logging.Config
	Database sqlpool.Config
	Metrics  metrics.Config
	Tracing  tracing.Config
}
