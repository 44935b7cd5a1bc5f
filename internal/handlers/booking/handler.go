package booking

import (
	"net"
	"net/http"

	"workspace/infras/otel"
	"workspace/internal/domains/booking/model/dto"
	"workspace/internal/domains/booking/service"
	"workspace/shared/constant"
	gDto "workspace/shared/dto"
	"workspace/shared/failure"
	"workspace/shared/validator"
	"workspace/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Admit)
		routerGroup.Get("/", handler.GetMine)
		routerGroup.Post("/quote", handler.Quote)
		routerGroup.Get("/{bookingCode}", handler.Get)
		routerGroup.Post("/{bookingCode}/checkout", handler.Checkout)
		routerGroup.Put("/{bookingCode}/check-in", handler.CheckIn)
		routerGroup.Put("/{bookingCode}/check-out", handler.CheckOut)
		routerGroup.Put("/{bookingCode}/cancel", handler.Cancel)
	})
}

// Admit reserves a room interval for the calling customer.
// @Summary Admit a booking
// @Description Prices the interval and reserves it as a pending booking. Overlapping requests get 409.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.AdmitRequest true "Admit Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) Admit(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Admit")
	defer scope.End()

	customerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || customerID == "" {
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.AdmitRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Admit(ctx, customerID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to admit booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking admitted " + booking.BookingCode)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// Quote prices an interval without reserving it.
// @Summary Quote a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote Request"
// @Success 200 {object} response.Data[dto.QuoteResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/quote [post]
// @Security BearerAuth
func (handler *Handler) Quote(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Quote")
	defer scope.End()

	req := dto.QuoteRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	quote, err := handler.service.Quote(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to quote booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, quote)
}

// GetMine lists the calling customer's bookings.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param room_id query string false "Filter by room ID"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetMine(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMine")
	defer scope.End()

	customerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || customerID == "" {
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filter := dto.ListFilter{
		Status: request.URL.Query().Get("status"),
		RoomID: request.URL.Query().Get("room_id"),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		response.WithError(writer, err)

		return
	}

	bookings, err := handler.service.GetMine(ctx, customerID, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// Get returns one booking by its code.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param bookingCode path string true "Booking code"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{bookingCode} [get]
// @Security BearerAuth
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Get")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamBookingCode))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// Checkout creates a hosted payment page for a pending booking.
// @Summary Checkout a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param bookingCode path string true "Booking code"
// @Param request body dto.CheckoutRequest true "Checkout Request"
// @Success 200 {object} response.Data[dto.CheckoutResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{bookingCode}/checkout [post]
// @Security BearerAuth
func (handler *Handler) Checkout(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Checkout")
	defer scope.End()

	customerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || customerID == "" {
		response.WithError(writer, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.CheckoutRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	bookingCode := chi.URLParam(request, constant.RequestParamBookingCode)

	checkout, err := handler.service.Checkout(ctx, customerID, bookingCode, clientIP(request), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_code", bookingCode).Msg("failed to checkout booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, checkout)
}

// CheckIn starts a confirmed booking.
// @Summary Check in
// @Tags Booking
// @Produce json
// @Param bookingCode path string true "Booking code"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{bookingCode}/check-in [put]
// @Security BearerAuth
func (handler *Handler) CheckIn(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	staffID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := handler.service.CheckIn(ctx, chi.URLParam(request, constant.RequestParamBookingCode), staffID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check in booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// CheckOut completes an in-progress booking.
// @Summary Check out
// @Tags Booking
// @Produce json
// @Param bookingCode path string true "Booking code"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{bookingCode}/check-out [put]
// @Security BearerAuth
func (handler *Handler) CheckOut(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckOut")
	defer scope.End()

	staffID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := handler.service.CheckOut(ctx, chi.URLParam(request, constant.RequestParamBookingCode), staffID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check out booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// Cancel cancels a pending or confirmed booking and frees its slot.
// @Summary Cancel a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param bookingCode path string true "Booking code"
// @Param request body dto.CancelRequest false "Cancel Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{bookingCode}/cancel [put]
// @Security BearerAuth
func (handler *Handler) Cancel(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Cancel")
	defer scope.End()

	actorID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	req := dto.CancelRequest{}

	if request.ContentLength > 0 {
		if err := validator.Validate(request.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(writer, err)

			return
		}
	}

	booking, err := handler.service.Cancel(ctx, chi.URLParam(request, constant.RequestParamBookingCode), actorID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// clientIP relies on chi's RealIP having rewritten RemoteAddr.
func clientIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}

	return host
}
