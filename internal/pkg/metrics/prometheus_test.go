package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/handlekit/internal/pkg/logging"
)

func enabledConfig(url string) Config {
	return Config{
		Enabled:        true,
		PushgatewayURL: url,
		JobName:        "test-job",
		Timeout:        10 * time.Second,
		InstanceLabel:  "test-host",
	}
}

func TestPrometheusCollector_RecordOperation(t *testing.T) {
	collector, err := NewPrometheusCollector(enabledConfig("http://localhost:9091"), logging.Discard)
	require.NoError(t, err)

	collector.RecordOperation("create_user", 15*time.Millisecond, true)
	collector.RecordOperation("create_user", 20*time.Millisecond, true)
	collector.RecordOperation("create_user", time.Second, false)

	assert.Equal(t, 2.0, promtest.ToFloat64(collector.operationTotal.WithLabelValues("create_user", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(collector.operationTotal.WithLabelValues("create_user", "error")))
	assert.Equal(t, 2, promtest.CollectAndCount(collector.operationDuration))
}

func TestPrometheusCollector_RecordDroppedRecords(t *testing.T) {
	collector, err := NewPrometheusCollector(enabledConfig("http://localhost:9091"), logging.Discard)
	require.NoError(t, err)

	collector.RecordDroppedRecords(3)
	collector.RecordDroppedRecords(2)

	assert.Equal(t, 5.0, promtest.ToFloat64(collector.droppedRecords))
}

func TestPrometheusCollector_RegisterPool(t *testing.T) {
	collector, err := NewPrometheusCollector(enabledConfig("http://localhost:9091"), logging.Discard)
	require.NoError(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	collector.RegisterPool("users", db)
	// повторная регистрация не паникует
	collector.RegisterPool("users", db)

	n, err := promtest.GatherAndCount(collector.Registry(), "go_sql_max_open_connections")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrometheusCollector_Push(t *testing.T) {
	var receivedMethod, receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	collector, err := NewPrometheusCollector(enabledConfig(server.URL), logging.Discard)
	require.NoError(t, err)
	collector.RecordOperation("create_user", time.Millisecond, true)

	require.NoError(t, collector.Push(context.Background()))
	assert.Equal(t, http.MethodPut, receivedMethod)
	assert.True(t, strings.Contains(receivedPath, "/job/test-job"), "path: %s", receivedPath)
	assert.True(t, strings.Contains(receivedPath, "/instance/test-host"), "path: %s", receivedPath)
}

func TestPrometheusCollector_PushError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	collector, err := NewPrometheusCollector(enabledConfig(server.URL), logging.Discard)
	require.NoError(t, err)

	assert.NoError(t, collector.Push(context.Background()), "Push должен возвращать nil даже при ошибке")
}

func TestPrometheusCollector_PushCancelledContext(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	collector, err := NewPrometheusCollector(enabledConfig(server.URL), logging.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, collector.Push(ctx))
	assert.Equal(t, int32(0), requests.Load())
}

func TestMetricsConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "выключено - валидно", config: Config{}},
		{name: "валидная конфигурация", config: enabledConfig("http://pushgateway:9091")},
		{
			name:    "нет URL",
			config:  Config{Enabled: true, JobName: "j", Timeout: time.Second},
			wantErr: ErrPushgatewayURLRequired,
		},
		{
			name:    "URL без схемы",
			config:  Config{Enabled: true, PushgatewayURL: "pushgateway:9091", JobName: "j", Timeout: time.Second},
			wantErr: ErrPushgatewayURLInvalid,
		},
		{
			name:    "нет job",
			config:  Config{Enabled: true, PushgatewayURL: "http://pg:9091", Timeout: time.Second},
			wantErr: ErrJobNameRequired,
		},
		{
			name:    "нулевой таймаут",
			config:  Config{Enabled: true, PushgatewayURL: "http://pg:9091", JobName: "j"},
			wantErr: ErrInvalidTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMetricsConfig_Validate_JoinsViolations(t *testing.T) {
	cfg := Config{Enabled: true}

	err := cfg.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPushgatewayURLRequired)
	assert.ErrorIs(t, err, ErrJobNameRequired)
	assert.ErrorIs(t, err, ErrInvalidTimeout)
}

func TestNewCollector_Factory(t *testing.T) {
	t.Run("выключено - no-op", func(t *testing.T) {
		collector, err := NewCollector(DefaultConfig(), logging.Discard)
		require.NoError(t, err)
		_, isNop := collector.(nopCollector)
		assert.True(t, isNop)

		collector.RecordOperation("op", time.Second, true)
		collector.RecordDroppedRecords(1)
		collector.RegisterPool("p", nil)
		assert.NoError(t, collector.Push(context.Background()))
	})

	t.Run("включено - PrometheusCollector", func(t *testing.T) {
		collector, err := NewCollector(enabledConfig("http://localhost:9091"), logging.Discard)
		require.NoError(t, err)
		_, isProm := collector.(*PrometheusCollector)
		assert.True(t, isProm)
	})

	t.Run("невалидная конфигурация", func(t *testing.T) {
		_, err := NewCollector(Config{Enabled: true}, logging.Discard)
		assert.Error(t, err)
	})
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "create_user", sanitizeLabel("create_user"))
	assert.Equal(t, "a_b", sanitizeLabel("a\nb"))
	assert.Len(t, []rune(sanitizeLabel(strings.Repeat("я", 200))), maxLabelLength)
}
