package blockedslot

import (
	"net/http"
	"time"

	"workspace/infras/otel"
	"workspace/internal/domains/blockedslot/model/dto"
	"workspace/internal/domains/blockedslot/service"
	"workspace/shared/constant"
	"workspace/shared/failure"
	"workspace/shared/validator"
	"workspace/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.BlockedSlot
	otel    otel.Otel
}

func New(service service.BlockedSlot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms/{roomId}/blocked-slots", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.List)
		routerGroup.Post("/", handler.Create)
		routerGroup.Delete("/{id}", handler.Delete)
	})
}

// List returns the blocks of a room, optionally bounded by from and to.
// @Summary List blocked slots
// @Tags BlockedSlot
// @Produce json
// @Param roomId path string true "Room ID"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Success 200 {object} response.Data[[]dto.BlockedSlotResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{roomId}/blocked-slots [get]
// @Security BearerAuth
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListBlockedSlots")
	defer scope.End()

	from, err := parseBound(request, constant.RequestParamFrom)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	to, err := parseBound(request, constant.RequestParamTo)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	slots, err := handler.service.ListByRoom(ctx, chi.URLParam(request, constant.RequestParamRoomID), from, to)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list blocked slots")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, slots)
}

// Create blocks a room interval for maintenance or owner use.
// @Summary Block a slot
// @Tags BlockedSlot
// @Accept json
// @Produce json
// @Param roomId path string true "Room ID"
// @Param request body dto.CreateBlockedSlotRequest true "Blocked slot"
// @Success 201 {object} response.Data[dto.BlockedSlotResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rooms/{roomId}/blocked-slots [post]
// @Security BearerAuth
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBlockedSlot")
	defer scope.End()

	ownerID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	req := dto.CreateBlockedSlotRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	slot, err := handler.service.Create(ctx, ownerID, chi.URLParam(request, constant.RequestParamRoomID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create blocked slot")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, slot)
}

// Delete removes a manual block. Blocks owned by a booking cannot be deleted here.
// @Summary Delete a blocked slot
// @Tags BlockedSlot
// @Produce json
// @Param roomId path string true "Room ID"
// @Param id path string true "Blocked slot ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/rooms/{roomId}/blocked-slots/{id} [delete]
// @Security BearerAuth
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBlockedSlot")
	defer scope.End()

	ownerID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.Delete(ctx, ownerID, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete blocked slot")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Blocked slot deleted successfully")
}

func parseBound(request *http.Request, param string) (time.Time, error) {
	raw := request.URL.Query().Get(param)
	if raw == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(constant.DateFormat, raw)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString(param + " must be an RFC3339 timestamp") // nolint:wrapcheck
	}

	return parsed, nil
}
