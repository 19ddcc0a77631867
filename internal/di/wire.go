//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Kargones/handlekit/internal/config"
)

//go:generate go run -mod=mod github.com/google/wire/cmd/wire

// ProviderSet объединяет провайдеры конфигураций handle-ов.
var ProviderSet = wire.NewSet(
	ProvideLoggingConfig,
	ProvideDatabaseConfig,
	ProvideMetricsConfig,
	ProvideTracingConfig,
	ProvideAppConfig,
	wire.Struct(new(Configs), "*"),
)

// InitializeConfigs строит Configs из загруженного Config.
// Wire генерирует реализацию этой функции в wire_gen.go.
func InitializeConfigs(cfg *config.Config) (*Configs, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
