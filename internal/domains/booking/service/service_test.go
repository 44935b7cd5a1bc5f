package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workspace/config"
	"workspace/infras/otel/mocks"
	pgMocks "workspace/infras/postgres/mocks"
	availabilityMocks "workspace/internal/domains/availability/mocks"
	blockedSlotMocks "workspace/internal/domains/blockedslot/mocks"
	bookingMocks "workspace/internal/domains/booking/mocks"
	"workspace/internal/domains/booking/model"
	"workspace/internal/domains/booking/model/dto"
	"workspace/internal/domains/booking/service"
	"workspace/internal/domains/payment/gateway"
	paymentMocks "workspace/internal/domains/payment/mocks"
	pricingModel "workspace/internal/domains/pricing/model"
	pricingService "workspace/internal/domains/pricing/service"
	roomMocks "workspace/internal/domains/room/mocks"
	roomModel "workspace/internal/domains/room/model"
	"workspace/internal/events"
	eventMocks "workspace/internal/events/mocks"
	workerMocks "workspace/internal/worker/mocks"
	cacheMocks "workspace/shared/cache/mocks"
	"workspace/shared/constant"
	"workspace/shared/failure"
	gModel "workspace/shared/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const roomID = "0b8f6f9e-1c1e-4b9a-9a43-5b1b8c6f2a10"

var windowStart = time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC)

func testRoom() roomModel.Room {
	return roomModel.Room{
		ID:         roomID,
		OwnerID:    "owner-1",
		HourlyRate: decimal.NewFromInt(100000),
		Currency:   "VND",
		Capacity:   10,
		IsActive:   true,
	}
}

func testPricing() pricingService.Pricing {
	return pricingService.NewWithPolicy(pricingModel.Policy{
		TaxPercent:        decimal.NewFromInt(10),
		ServiceFeePercent: decimal.NewFromInt(5),
		DefaultCurrency:   "VND",
	})
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.PendingTTLMinutes = 15

	return cfg
}

type fixture struct {
	repo        *bookingMocks.MockBooking
	rooms       *roomMocks.MockRoom
	index       *availabilityMocks.MockIndex
	blockedSlot *blockedSlotMocks.MockBlockedSlotService
	gateways    *paymentMocks.MockRegistry
	scheduler   *workerMocks.MockScheduler
	events      *eventMocks.MockPublisher
	cache       *cacheMocks.MockRedisCache
	svc         service.Booking
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        bookingMocks.NewMockBooking(ctrl),
		rooms:       roomMocks.NewMockRoom(ctrl),
		index:       availabilityMocks.NewMockIndex(ctrl),
		blockedSlot: blockedSlotMocks.NewMockBlockedSlotService(ctrl),
		gateways:    paymentMocks.NewMockRegistry(ctrl),
		scheduler:   workerMocks.NewMockScheduler(ctrl),
		events:      eventMocks.NewMockPublisher(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.rooms, f.index, testPricing(), f.blockedSlot, f.gateways,
		pgMocks.NewTransactor(), f.scheduler, f.events, testConfig(), f.cache, mocks.NewOtel())

	return f
}

// expectPublish runs published events inline and hands them to capture.
func (f fixture) expectPublish(capture func(events.BookingEvent)) {
	f.events.EXPECT().Go(gomock.Any(), gomock.Any()).
		Do(func(ctx context.Context, publish func(context.Context) error) {
			_ = publish(ctx)
		}).AnyTimes()
	f.events.EXPECT().PublishBooking(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event events.BookingEvent) error {
			capture(event)

			return nil
		}).AnyTimes()
}

func admitRequest(start, end time.Time, participants int) dto.AdmitRequest {
	return dto.AdmitRequest{RoomID: roomID, StartTime: start, EndTime: end, Participants: participants}
}

func TestBooking_Admit(t *testing.T) {
	inactive := testRoom()
	inactive.IsActive = false

	exclusion := &pq.Error{Code: constant.PqErrorCodeExclusionViolation}

	tests := []struct {
		name      string
		req       dto.AdmitRequest
		setupMock func(f fixture)
		wantKind  failure.Kind
		wantCode  int
		wantErr   bool
	}{
		{
			name: "admits a free window as pending",
			req:  admitRequest(windowStart, windowStart.Add(3*time.Hour), 4),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)
				f.index.EXPECT().LockRoom(gomock.Any(), gomock.Any(), roomID).Return(nil)
				f.index.EXPECT().Overlaps(gomock.Any(), gomock.Any(), roomID, windowStart, windowStart.Add(3*time.Hour), "").Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.scheduler.EXPECT().ScheduleExpiry(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.expectPublish(func(events.BookingEvent) {})
			},
		},
		{
			name:     "start after end",
			req:      admitRequest(windowStart, windowStart.Add(-time.Hour), 1),
			wantKind: failure.KindValidation,
			wantErr:  true,
		},
		{
			name:     "start equal to end",
			req:      admitRequest(windowStart, windowStart, 1),
			wantKind: failure.KindValidation,
			wantErr:  true,
		},
		{
			name: "start in the past",
			req:  admitRequest(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour), 1),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)
			},
			wantKind: failure.KindValidation,
			wantErr:  true,
		},
		{
			name: "room not found",
			req:  admitRequest(windowStart, windowStart.Add(time.Hour), 1),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(roomModel.Room{}, nil)
			},
			wantCode: 404,
			wantErr:  true,
		},
		{
			name: "room inactive",
			req:  admitRequest(windowStart, windowStart.Add(time.Hour), 1),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(inactive, nil)
			},
			wantKind: failure.KindValidation,
			wantErr:  true,
		},
		{
			name: "participants exceed capacity",
			req:  admitRequest(windowStart, windowStart.Add(time.Hour), 11),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)
			},
			wantKind: failure.KindValidation,
			wantErr:  true,
		},
		{
			name: "overlapping window",
			req:  admitRequest(windowStart, windowStart.Add(time.Hour), 1),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)
				f.index.EXPECT().LockRoom(gomock.Any(), gomock.Any(), roomID).Return(nil)
				f.index.EXPECT().Overlaps(gomock.Any(), gomock.Any(), roomID, gomock.Any(), gomock.Any(), "").Return(true, nil)
			},
			wantKind: failure.KindSlotUnavailable,
			wantErr:  true,
		},
		{
			name: "retries once after a constraint violation",
			req:  admitRequest(windowStart, windowStart.Add(time.Hour), 1),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)
				f.index.EXPECT().LockRoom(gomock.Any(), gomock.Any(), roomID).Return(nil).Times(2)
				f.index.EXPECT().Overlaps(gomock.Any(), gomock.Any(), roomID, gomock.Any(), gomock.Any(), "").Return(false, nil).Times(2)
				gomock.InOrder(
					f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(exclusion),
					f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
				)
				f.scheduler.EXPECT().ScheduleExpiry(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.expectPublish(func(events.BookingEvent) {})
			},
		},
		{
			name: "second constraint violation reports the slot as taken",
			req:  admitRequest(windowStart, windowStart.Add(time.Hour), 1),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)
				f.index.EXPECT().LockRoom(gomock.Any(), gomock.Any(), roomID).Return(nil).Times(2)
				f.index.EXPECT().Overlaps(gomock.Any(), gomock.Any(), roomID, gomock.Any(), gomock.Any(), "").Return(false, nil).Times(2)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(exclusion).Times(2)
			},
			wantKind: failure.KindSlotUnavailable,
			wantErr:  true,
		},
		{
			name: "storage failure",
			req:  admitRequest(windowStart, windowStart.Add(time.Hour), 1),
			setupMock: func(f fixture) {
				f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)
				f.index.EXPECT().LockRoom(gomock.Any(), gomock.Any(), roomID).Return(errors.New("connection reset"))
			},
			wantCode: 500,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.Admit(context.Background(), "customer-1", tt.req)

			if tt.wantErr {
				require.Error(t, err)

				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, "customer-1", res.CustomerID)
			assert.Regexp(t, `^BK-\d{8}-[2-9A-HJ-NP-Z]{6}$`, res.BookingCode)
			assert.NotZero(t, res.OrderCode)
		})
	}
}

func TestBooking_Admit_PricesAndPublishes(t *testing.T) {
	f := newFixture(t)

	var inserted model.Booking

	var published []events.BookingEvent

	f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)
	f.index.EXPECT().LockRoom(gomock.Any(), gomock.Any(), roomID).Return(nil)
	f.index.EXPECT().Overlaps(gomock.Any(), gomock.Any(), roomID, gomock.Any(), gomock.Any(), "").Return(false, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
			inserted = b

			return nil
		})
	f.scheduler.EXPECT().ScheduleExpiry(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, bookingID string, at time.Time) error {
			assert.Equal(t, inserted.ID, bookingID)
			assert.Equal(t, inserted.CreatedAt.Add(15*time.Minute), at)

			return nil
		})
	f.expectPublish(func(e events.BookingEvent) { published = append(published, e) })

	_, err := f.svc.Admit(context.Background(), "customer-1", admitRequest(windowStart, windowStart.Add(2*time.Hour+30*time.Minute), 2))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(300000).Equal(inserted.TotalPrice))
	assert.True(t, decimal.NewFromInt(30000).Equal(inserted.TaxAmount))
	assert.True(t, decimal.NewFromInt(15000).Equal(inserted.ServiceFee))
	assert.True(t, decimal.NewFromInt(345000).Equal(inserted.FinalAmount))
	assert.Equal(t, "VND", inserted.Currency)

	require.Len(t, published, 1)
	assert.Equal(t, events.TypeBookingCreated, published[0].Type)
	assert.Equal(t, inserted.BookingCode, published[0].BookingCode)
}

func TestBooking_Admit_StartBoundary(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		wantErr bool
	}{
		{name: "start equal to now is admitted", start: windowStart},
		{name: "start one second ago is rejected", start: windowStart.Add(-time.Second), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := service.WithClock(f.svc, windowStart)

			f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)

			if !tt.wantErr {
				f.index.EXPECT().LockRoom(gomock.Any(), gomock.Any(), roomID).Return(nil)
				f.index.EXPECT().Overlaps(gomock.Any(), gomock.Any(), roomID, gomock.Any(), gomock.Any(), "").Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.scheduler.EXPECT().ScheduleExpiry(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.expectPublish(func(events.BookingEvent) {})
			}

			res, err := svc.Admit(context.Background(), "customer-1", admitRequest(tt.start, windowStart.Add(time.Hour), 1))

			if tt.wantErr {
				assert.True(t, failure.IsKind(err, failure.KindValidation))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
		})
	}
}

func TestBooking_Admit_ScheduleFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)

	f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)
	f.index.EXPECT().LockRoom(gomock.Any(), gomock.Any(), roomID).Return(nil)
	f.index.EXPECT().Overlaps(gomock.Any(), gomock.Any(), roomID, gomock.Any(), gomock.Any(), "").Return(false, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.scheduler.EXPECT().ScheduleExpiry(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	f.expectPublish(func(events.BookingEvent) {})

	res, err := f.svc.Admit(context.Background(), "customer-1", admitRequest(windowStart, windowStart.Add(time.Hour), 1))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Status)
}

func TestBooking_Quote(t *testing.T) {
	f := newFixture(t)

	f.rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil)

	res, err := f.svc.Quote(context.Background(), admitRequest(windowStart, windowStart.Add(2*time.Hour+time.Second), 1))
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.BilledHours)
	assert.True(t, decimal.NewFromInt(345000).Equal(res.FinalAmount))
}

func pendingBooking() model.Booking {
	return model.Booking{
		ID:          "booking-1",
		BookingCode: "BK-20300304-ABCDEF",
		OrderCode:   1893456000000123,
		RoomID:      roomID,
		CustomerID:  "customer-1",
		StartTime:   windowStart,
		EndTime:     windowStart.Add(time.Hour),
		FinalAmount: decimal.NewFromInt(115000),
		Currency:    "VND",
		Status:      model.StatusPending,
		Metadata:    gModel.NewMetadata(time.Date(2030, 3, 1, 8, 0, 0, 0, time.UTC), "customer-1"),
	}
}

func withRole(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestBooking_Get(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		found    model.Booking
		wantCode int
	}{
		{name: "owner sees own booking", ctx: withRole("customer-1", constant.RoleCustomer), found: pendingBooking()},
		{name: "staff sees any booking", ctx: withRole("staff-1", constant.RoleStaff), found: pendingBooking()},
		{name: "other customer gets not found", ctx: withRole("customer-2", constant.RoleCustomer), found: pendingBooking(), wantCode: 404},
		{name: "missing booking", ctx: withRole("customer-1", constant.RoleCustomer), wantCode: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.found, nil)

			res, err := f.svc.Get(tt.ctx, "BK-20300304-ABCDEF")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "BK-20300304-ABCDEF", res.BookingCode)
		})
	}
}

func TestBooking_Checkout(t *testing.T) {
	confirmed := pendingBooking()
	confirmed.Status = model.StatusConfirmed

	tests := []struct {
		name      string
		customer  string
		setupMock func(f fixture, adapter *paymentMocks.MockAdapter)
		wantURL   string
		wantCode  int
	}{
		{
			name:     "returns hosted checkout url",
			customer: "customer-1",
			setupMock: func(f fixture, adapter *paymentMocks.MockAdapter) {
				f.gateways.EXPECT().Get("vnpay").Return(adapter, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
				adapter.EXPECT().Name().Return("vnpay").AnyTimes()
				adapter.EXPECT().CheckoutURL(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req gateway.CheckoutRequest) (string, error) {
						assert.Equal(t, "BK-20300304-ABCDEF", req.BookingCode)
						assert.True(t, decimal.NewFromInt(115000).Equal(req.Amount))
						assert.Equal(t, time.Date(2030, 3, 1, 8, 15, 0, 0, time.UTC), req.ExpiresAt)
						assert.Equal(t, "10.0.0.1", req.ClientIP)

						return "https://pay.example/checkout", nil
					})
			},
			wantURL: "https://pay.example/checkout",
		},
		{
			name:     "unknown gateway",
			customer: "customer-1",
			setupMock: func(f fixture, _ *paymentMocks.MockAdapter) {
				f.gateways.EXPECT().Get("vnpay").Return(nil, failure.NotFound("unsupported payment gateway vnpay"))
			},
			wantCode: 404,
		},
		{
			name:     "booking of someone else",
			customer: "customer-2",
			setupMock: func(f fixture, adapter *paymentMocks.MockAdapter) {
				f.gateways.EXPECT().Get("vnpay").Return(adapter, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
			},
			wantCode: 404,
		},
		{
			name:     "booking already paid",
			customer: "customer-1",
			setupMock: func(f fixture, adapter *paymentMocks.MockAdapter) {
				f.gateways.EXPECT().Get("vnpay").Return(adapter, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
			},
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			adapter := paymentMocks.NewMockAdapter(gomock.NewController(t))
			tt.setupMock(f, adapter)

			res, err := f.svc.Checkout(context.Background(), tt.customer, "BK-20300304-ABCDEF", "10.0.0.1", dto.CheckoutRequest{Gateway: "vnpay"})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, res.CheckoutURL)
			assert.Equal(t, "vnpay", res.Gateway)
		})
	}
}

func TestBooking_Transitions(t *testing.T) {
	confirmed := pendingBooking()
	confirmed.Status = model.StatusConfirmed

	inProgress := pendingBooking()
	inProgress.Status = model.StatusInProgress

	t.Run("check in a confirmed booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmed, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusInProgress, fields[model.FieldStatus])
				assert.Contains(t, fields, model.FieldCheckedInAt)

				return nil
			})

		res, err := f.svc.CheckIn(context.Background(), confirmed.BookingCode, "staff-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, res.Status)
		assert.NotNil(t, res.CheckedInAt)
	})

	t.Run("check in a pending booking is illegal", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)

		_, err := f.svc.CheckIn(context.Background(), "BK-20300304-ABCDEF", "staff-1")
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindIllegalTransition))
	})

	t.Run("check out an in-progress booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(inProgress, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.CheckOut(context.Background(), inProgress.BookingCode, "staff-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, res.Status)
	})

	t.Run("cancel a confirmed booking releases its slot", func(t *testing.T) {
		f := newFixture(t)

		var published []events.BookingEvent

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmed, nil)
		f.blockedSlot.EXPECT().ReleaseForBooking(gomock.Any(), gomock.Any(), confirmed.ID).Return(nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.expectPublish(func(e events.BookingEvent) { published = append(published, e) })

		res, err := f.svc.Cancel(withRole("customer-1", constant.RoleCustomer), confirmed.BookingCode, "customer-1", dto.CancelRequest{})
		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, res.Status)
		require.NotNil(t, res.CancellationReason)
		assert.Equal(t, "cancelled by customer", *res.CancellationReason)

		require.Len(t, published, 1)
		assert.Equal(t, events.TypeBookingCancelled, published[0].Type)
	})

	t.Run("customer cannot cancel someone else's booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmed, nil)

		_, err := f.svc.Cancel(withRole("customer-2", constant.RoleCustomer), confirmed.BookingCode, "customer-2", dto.CancelRequest{})
		require.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("cancel an in-progress booking is illegal", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(inProgress, nil)
		f.blockedSlot.EXPECT().ReleaseForBooking(gomock.Any(), gomock.Any(), inProgress.ID).Return(nil)

		_, err := f.svc.Cancel(withRole("staff-1", constant.RoleStaff), inProgress.BookingCode, "staff-1", dto.CancelRequest{Reason: "no show"})
		require.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindIllegalTransition))
	})
}

func TestBooking_ExpirePending(t *testing.T) {
	confirmed := pendingBooking()
	confirmed.Status = model.StatusConfirmed

	t.Run("cancels a booking still pending", func(t *testing.T) {
		f := newFixture(t)

		var published []events.BookingEvent

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
				assert.Equal(t, "payment window expired", fields[model.FieldCancellationReason])

				return nil
			})
		f.expectPublish(func(e events.BookingEvent) { published = append(published, e) })

		require.NoError(t, f.svc.ExpirePending(context.Background(), "booking-1"))
		require.Len(t, published, 1)
		assert.Equal(t, "payment window expired", published[0].Reason)
	})

	t.Run("leaves a paid booking alone", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(confirmed, nil)

		require.NoError(t, f.svc.ExpirePending(context.Background(), "booking-1"))
	})

	t.Run("ignores a missing booking", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		require.NoError(t, f.svc.ExpirePending(context.Background(), "booking-1"))
	})

	t.Run("storage failure is returned for retry", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, errors.New("connection reset"))

		require.Error(t, f.svc.ExpirePending(context.Background(), "booking-1"))
	})
}

// memoryStore stands in for the bookings table. The room lock is modelled by serializing transactions.
type memoryStore struct {
	mu       sync.Mutex
	bookings []model.Booking
}

type memoryTransactor struct {
	lock sync.Mutex
}

func (m *memoryTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	return fn(ctx, nil)
}

type memoryIndex struct {
	store *memoryStore
}

func (m *memoryIndex) LockRoom(context.Context, *sqlx.Tx, string) error { return nil }

func (m *memoryIndex) Overlaps(_ context.Context, _ *sqlx.Tx, roomID string, start, end time.Time, excludeBookingID string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, b := range m.store.bookings {
		if b.RoomID != roomID || b.ID == excludeBookingID || !b.Status.IsActive() {
			continue
		}

		if b.StartTime.Before(end) && b.EndTime.After(start) {
			return true, nil
		}
	}

	return false, nil
}

func (m *memoryIndex) insert(b model.Booking) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	m.store.bookings = append(m.store.bookings, b)
}

func newMemoryService(t *testing.T) (service.Booking, *memoryStore) {
	ctrl := gomock.NewController(t)

	store := &memoryStore{}
	index := &memoryIndex{store: store}

	rooms := roomMocks.NewMockRoom(ctrl)
	rooms.EXPECT().GetByID(gomock.Any(), roomID).Return(testRoom(), nil).AnyTimes()

	repo := bookingMocks.NewMockBooking(ctrl)
	repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
			index.insert(b)

			return nil
		}).AnyTimes()

	scheduler := workerMocks.NewMockScheduler(ctrl)
	scheduler.EXPECT().ScheduleExpiry(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	publisher := eventMocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Go(gomock.Any(), gomock.Any()).AnyTimes()

	cache := cacheMocks.NewMockRedisCache(ctrl)
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(repo, rooms, index, testPricing(), blockedSlotMocks.NewMockBlockedSlotService(ctrl),
		paymentMocks.NewMockRegistry(ctrl), &memoryTransactor{}, scheduler, publisher, testConfig(), cache, mocks.NewOtel())

	return svc, store
}

func TestBooking_Admit_ConcurrentSameWindow(t *testing.T) {
	svc, store := newMemoryService(t)

	const callers = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		taken     int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Admit(context.Background(), "customer-1", admitRequest(windowStart, windowStart.Add(2*time.Hour), 1))

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				succeeded++
			case failure.IsKind(err, failure.KindSlotUnavailable):
				taken++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, callers-1, taken)
	assert.Len(t, store.bookings, 1)
}

func TestBooking_Admit_TouchingWindows(t *testing.T) {
	svc, store := newMemoryService(t)

	_, err := svc.Admit(context.Background(), "customer-1", admitRequest(windowStart, windowStart.Add(2*time.Hour), 1))
	require.NoError(t, err)

	_, err = svc.Admit(context.Background(), "customer-2", admitRequest(windowStart.Add(2*time.Hour), windowStart.Add(4*time.Hour), 1))
	require.NoError(t, err)

	_, err = svc.Admit(context.Background(), "customer-3", admitRequest(windowStart.Add(time.Hour), windowStart.Add(3*time.Hour), 1))
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindSlotUnavailable))

	assert.Len(t, store.bookings, 2)
}
