package gateway

import (
	"net/http"
	"time"

	"workspace/config"
)

func NewPayOSWithClient(cfg *config.Config, client *http.Client, apiURL string) Adapter {
	return newPayOS(cfg, client, apiURL)
}

func NewVNPayAt(cfg *config.Config, now time.Time) Adapter {
	adapter, _ := NewVNPay(cfg).(*vnpay)
	adapter.now = func() time.Time { return now }

	return adapter
}

var VNPayHashData = vnpHashData

var PayOSCanonicalData = payosCanonicalData
