package gateway_test

import (
	"testing"

	"workspace/config"
	"workspace/internal/domains/payment/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	cfg := &config.Config{}
	registry := gateway.NewRegistry(gateway.NewVNPay(cfg), gateway.NewPayOS(cfg), gateway.NewStripe(cfg))

	assert.Equal(t, []string{"payos", "stripe", "vnpay"}, registry.Names())

	adapter, err := registry.Get("VNPay")
	require.NoError(t, err)
	assert.Equal(t, "vnpay", adapter.Name())

	_, err = registry.Get("momo")
	assert.Error(t, err)
}
