package refund

import (
	"net/http"

	"workspace/infras/otel"
	"workspace/internal/domains/refund/model/dto"
	"workspace/internal/domains/refund/service"
	"workspace/shared/constant"
	"workspace/shared/validator"
	"workspace/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Refund
	otel    otel.Otel
}

func New(service service.Refund, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/refund-requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.File)
		routerGroup.Get("/{id}", handler.Get)
		routerGroup.Put("/{id}/decision", handler.Decide)
		routerGroup.Put("/{id}/processed", handler.MarkProcessed)
	})
}

// File opens a refund request on a paid booking.
// @Summary File a refund request
// @Tags Refund
// @Accept json
// @Produce json
// @Param request body dto.FileRefundRequest true "Refund Request"
// @Success 201 {object} response.Data[dto.RefundResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/refund-requests [post]
// @Security BearerAuth
func (handler *Handler) File(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".FileRefund")
	defer scope.End()

	staffID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	req := dto.FileRefundRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	refund, err := handler.service.FileRequest(ctx, staffID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", req.BookingID).Msg("failed to file refund request")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, refund)
}

// Get returns a refund request.
// @Summary Get a refund request
// @Tags Refund
// @Produce json
// @Param id path string true "Refund request ID"
// @Success 200 {object} response.Data[dto.RefundResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/refund-requests/{id} [get]
// @Security BearerAuth
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRefund")
	defer scope.End()

	refund, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get refund request")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, refund)
}

// Decide records the room owner's approval or rejection.
// @Summary Decide on a refund request
// @Tags Refund
// @Accept json
// @Produce json
// @Param id path string true "Refund request ID"
// @Param request body dto.DecisionRequest true "Decision"
// @Success 200 {object} response.Data[dto.RefundResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/refund-requests/{id}/decision [put]
// @Security BearerAuth
func (handler *Handler) Decide(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DecideRefund")
	defer scope.End()

	ownerID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	req := dto.DecisionRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	refund, err := handler.service.OwnerDecide(ctx, chi.URLParam(request, constant.RequestParamID), ownerID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decide refund request")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, refund)
}

// MarkProcessed records the refund transaction sent back to the customer.
// @Summary Mark a refund as processed
// @Tags Refund
// @Accept json
// @Produce json
// @Param id path string true "Refund request ID"
// @Param request body dto.ProcessedRequest true "Refund transaction"
// @Success 200 {object} response.Data[dto.RefundResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/refund-requests/{id}/processed [put]
// @Security BearerAuth
func (handler *Handler) MarkProcessed(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkRefundProcessed")
	defer scope.End()

	staffID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	req := dto.ProcessedRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	refund, err := handler.service.MarkProcessed(ctx, chi.URLParam(request, constant.RequestParamID), staffID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark refund processed")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, refund)
}
