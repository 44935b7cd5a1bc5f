package di

import (
	"workspace/config"
	"workspace/internal/domains/payment/gateway"
)

// provideGateways registers every gateway the engine settles with.
func provideGateways(cfg *config.Config) gateway.Registry {
	return gateway.NewRegistry(
		gateway.NewVNPay(cfg),
		gateway.NewPayOS(cfg),
		gateway.NewStripe(cfg),
	)
}
