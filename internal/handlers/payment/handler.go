package payment

import (
	"io"
	"net/http"

	"workspace/infras/otel"
	"workspace/internal/domains/payment/gateway"
	"workspace/internal/domains/payment/service"
	"workspace/shared/constant"
	"workspace/shared/failure"
	"workspace/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	reconciler service.Reconciler
	gateways   gateway.Registry
	otel       otel.Otel
}

func New(reconciler service.Reconciler, gateways gateway.Registry, otel otel.Otel) Handler {
	return Handler{
		reconciler: reconciler,
		gateways:   gateways,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Get("/{gateway}/callback", handler.Callback)
		routerGroup.Post("/{gateway}/callback", handler.Callback)
	})
}

// Callback receives IPN and webhook calls from the payment gateways.
// The body of the reply follows whatever the calling gateway expects.
// @Summary Payment gateway callback
// @Tags Payment
// @Accept json
// @Produce json
// @Param gateway path string true "Gateway name" Enums(vnpay, payos, stripe)
// @Success 200 {object} model.Result
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/payments/{gateway}/callback [post]
func (handler *Handler) Callback(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PaymentCallback")
	defer scope.End()

	gatewayName := chi.URLParam(request, constant.RequestParamGateway)

	adapter, err := handler.gateways.Get(gatewayName)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, constant.RequestMaxBodySize))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("gateway", gatewayName).Msg("failed to read callback body")

		response.WithError(writer, failure.BadRequestFromString("callback body too large or unreadable"))

		return
	}

	raw := gateway.RawCallback{
		Query:      request.URL.Query(),
		Header:     request.Header.Clone(),
		Body:       body,
		RemoteAddr: request.RemoteAddr,
	}

	result, err := handler.reconciler.Reconcile(ctx, adapter.Name(), raw)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("gateway", gatewayName).Msg("failed to reconcile callback")
	} else {
		scope.SetAttributes(map[string]any{
			"payment.gateway": result.Gateway,
			"payment.outcome": string(result.Outcome),
		})
	}

	adapter.WriteResponse(writer, result, err)
}
