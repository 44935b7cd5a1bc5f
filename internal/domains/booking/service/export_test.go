package service

import "time"

func WithClock(b Booking, now time.Time) Booking {
	svc, _ := b.(*serviceImpl)
	svc.now = func() time.Time { return now }

	return svc
}
