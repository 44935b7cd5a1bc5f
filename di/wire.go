//go:build wireinject
// +build wireinject

package di

import (
	"workspace/config"
	"workspace/infras/jwt"
	"workspace/infras/kafka"
	"workspace/infras/otel"
	"workspace/infras/postgres"
	"workspace/infras/queue"
	"workspace/infras/redis"
	"workspace/infras/s3"
	"workspace/internal/events"
	"workspace/internal/worker"
	"workspace/permissions"
	"workspace/shared/cache"
	"workspace/transport/http"
	"workspace/transport/http/middleware"
	"workspace/transport/http/router"

	availabilityRepository "workspace/internal/domains/availability/repository"
	blockedSlotRepository "workspace/internal/domains/blockedslot/repository"
	blockedSlotService "workspace/internal/domains/blockedslot/service"
	bookingRepository "workspace/internal/domains/booking/repository"
	bookingService "workspace/internal/domains/booking/service"
	paymentAudit "workspace/internal/domains/payment/audit"
	paymentService "workspace/internal/domains/payment/service"
	pricingService "workspace/internal/domains/pricing/service"
	refundRepository "workspace/internal/domains/refund/repository"
	refundService "workspace/internal/domains/refund/service"
	roomRepository "workspace/internal/domains/room/repository"

	blockedSlotHandler "workspace/internal/handlers/blockedslot"
	bookingHandler "workspace/internal/handlers/booking"
	paymentHandler "workspace/internal/handlers/payment"
	refundHandler "workspace/internal/handlers/refund"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	queue.NewClient,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.New,
	worker.NewScheduler,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	availabilityRepository.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	pricingService.New,
	bookingService.New,
)

var blockedSlotDomain = wire.NewSet(
	blockedSlotRepository.New,
	blockedSlotService.New,
)

var paymentDomain = wire.NewSet(
	provideGateways,
	paymentAudit.New,
	paymentService.New,
)

var refundDomain = wire.NewSet(
	refundRepository.New,
	refundService.New,
)

var domains = wire.NewSet(
	roomDomain,
	bookingDomain,
	blockedSlotDomain,
	paymentDomain,
	refundDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	paymentHandler.New,
	refundHandler.New,
	blockedSlotHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *worker.Handler {
	wire.Build(
		config.Get,
		postgres.New,
		postgres.NewTransactor,
		otel.New,
		redis.New,
		kafka.New,
		queue.NewClient,
		sharedHelpers,
		roomDomain,
		bookingDomain,
		blockedSlotDomain,
		provideGateways,
		wire.Bind(new(worker.Expirer), new(bookingService.Booking)),
		worker.NewHandler,
	)

	return &worker.Handler{}
}
