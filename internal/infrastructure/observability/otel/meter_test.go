package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-server/internal/infrastructure/config"
)

func TestInitMeter_Disabled(t *testing.T) {
	cfg := &config.OpenTelemetryConfig{
		Enabled: false,
	}

	shutdown, err := InitMeter(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, shutdown)

	// シャットダウン関数がエラーを返さないことを確認
	err = shutdown(context.Background())
	assert.NoError(t, err)
}

func TestInitMeter_Stdout(t *testing.T) {
	cfg := &config.OpenTelemetryConfig{
		Enabled:         true,
		MetricsExporter: "stdout",
	}

	shutdown, err := InitMeter(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, shutdown)
}

func TestInitMeter_UnsupportedExporter(t *testing.T) {
	cfg := &config.OpenTelemetryConfig{
		Enabled:         true,
		MetricsExporter: "prometheus",
	}

	_, err := InitMeter(cfg)
	assert.Error(t, err)
}
