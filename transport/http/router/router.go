package router

import (
	"workspace/internal/handlers/blockedslot"
	"workspace/internal/handlers/booking"
	"workspace/internal/handlers/payment"
	"workspace/internal/handlers/refund"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Booking     booking.Handler
	Payment     payment.Handler
	Refund      refund.Handler
	BlockedSlot blockedslot.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Refund.Router(routerGroup)
		r.DomainHandlers.BlockedSlot.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
