package tracing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = "http://jaeger:4318"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr []error
	}{
		{name: "валидная конфигурация", mutate: func(*Config) {}},
		{name: "выключен без endpoint", mutate: func(c *Config) { c.Enabled = false; c.Endpoint = "" }},
		{name: "https endpoint", mutate: func(c *Config) { c.Endpoint = "https://otel.example.com" }},
		{name: "без endpoint", mutate: func(c *Config) { c.Endpoint = "" }, wantErr: []error{ErrEndpointRequired}},
		{name: "endpoint без схемы", mutate: func(c *Config) { c.Endpoint = "jaeger:4318" }, wantErr: []error{ErrEndpointInvalid}},
		{name: "endpoint grpc схема", mutate: func(c *Config) { c.Endpoint = "grpc://jaeger:4317" }, wantErr: []error{ErrEndpointInvalid}},
		{name: "без service name", mutate: func(c *Config) { c.ServiceName = "" }, wantErr: []error{ErrServiceNameRequired}},
		{name: "нулевой timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: []error{ErrTimeoutInvalid}},
		{name: "sampling rate больше 1", mutate: func(c *Config) { c.SamplingRate = 1.5 }, wantErr: []error{ErrSamplingRateInvalid}},
		{name: "отрицательный sampling rate", mutate: func(c *Config) { c.SamplingRate = -0.1 }, wantErr: []error{ErrSamplingRateInvalid}},
		{name: "граница 0.0", mutate: func(c *Config) { c.SamplingRate = 0 }},
		{
			name: "все нарушения сразу",
			mutate: func(c *Config) {
				c.Endpoint = ""
				c.ServiceName = ""
				c.Timeout = -time.Second
				c.SamplingRate = 2
			},
			wantErr: []error{ErrEndpointRequired, ErrServiceNameRequired, ErrTimeoutInvalid, ErrSamplingRateInvalid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestConfig_Validate_SamplingRateInMessage(t *testing.T) {
	cfg := validConfig()
	cfg.SamplingRate = 1.5

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "получено: 1.5")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.InDelta(t, 1.0, cfg.SamplingRate, 1e-9)
	assert.NoError(t, cfg.Validate())
}
