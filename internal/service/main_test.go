package service

import (
	"os"
	"testing"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

func TestMain(m *testing.M) {
	telemetry.Logger = zap.NewNop()
	telemetry.Tracer = otel.Tracer("test")
	os.Exit(m.Run())
}
