//go:build unit

package fake

import (
	"context"
	"sync"
	"time"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/domain/payment"
	"facility-booking/internal/domain/points"
	"facility-booking/internal/infra"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store is the in-memory backing state shared by the fake repositories.
// Tests inspect it directly after commands run.
type Store struct {
	Bookings      map[uuid.UUID]*booking.Booking
	Payments      map[uuid.UUID]*payment.Payment
	PointsEntries []*points.Entry
	UserBalances  map[uuid.UUID]int64
}

func NewStore() *Store {
	return &Store{
		Bookings:     make(map[uuid.UUID]*booking.Booking),
		Payments:     make(map[uuid.UUID]*payment.Payment),
		UserBalances: make(map[uuid.UUID]int64),
	}
}

func (s *Store) snapshot() *Store {
	cp := NewStore()
	for id, b := range s.Bookings {
		c := *b
		cp.Bookings[id] = &c
	}
	for id, p := range s.Payments {
		c := *p
		cp.Payments[id] = &c
	}
	cp.PointsEntries = append(cp.PointsEntries, s.PointsEntries...)
	for id, bal := range s.UserBalances {
		cp.UserBalances[id] = bal
	}
	return cp
}

func (s *Store) restore(snap *Store) {
	s.Bookings = snap.Bookings
	s.Payments = snap.Payments
	s.PointsEntries = snap.PointsEntries
	s.UserBalances = snap.UserBalances
}

// LedgerSum returns the sum of all entry deltas for one user.
func (s *Store) LedgerSum(userID uuid.UUID) int64 {
	var sum int64
	for _, e := range s.PointsEntries {
		if e.UserID() == userID {
			sum += e.Delta()
		}
	}
	return sum
}

// UnitOfWork serializes Within calls with a mutex, standing in for the
// row-lock serialization the real implementation gets from the database.
// A returned error rolls the store back to its pre-transaction state.
type UnitOfWork struct {
	mu    sync.Mutex
	Store *Store
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{Store: NewStore()}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	snap := u.Store.snapshot()
	tx := &fakeTx{store: u.Store}
	if err := fn(ctx, tx); err != nil {
		u.Store.restore(snap)
		return err
	}
	return nil
}

type fakeTx struct {
	store *Store
}

func (t *fakeTx) Bookings() shared.BookingRepository { return &bookingRepo{store: t.store} }
func (t *fakeTx) Payments() shared.PaymentRepository { return &paymentRepo{store: t.store} }
func (t *fakeTx) Points() shared.PointsRepository    { return &pointsRepo{store: t.store} }
func (t *fakeTx) Users() shared.UserRepository       { return &userRepo{store: t.store} }

type bookingRepo struct {
	store *Store
}

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	c := *b
	r.store.Bookings[b.ID()] = &c
	return nil
}

func (r *bookingRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.store.Bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	c := *b
	return &c, nil
}

func (r *bookingRepo) LockOverlapping(
	_ context.Context,
	kind booking.Kind,
	resourceID uuid.UUID,
	slot booking.TimeSlot,
	excludeID *uuid.UUID,
) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, b := range r.store.Bookings {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if b.Kind() != kind || b.ResourceID() != resourceID {
			continue
		}
		if !b.Status().IsActive() {
			continue
		}
		if b.Slot().Overlaps(slot) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *bookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if _, ok := r.store.Bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	c := *b
	r.store.Bookings[b.ID()] = &c
	return nil
}

func (r *bookingRepo) ExpirePendingBefore(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, b := range r.store.Bookings {
		if b.HoldExpired(now) {
			if err := b.Cancel(now); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func (r *bookingRepo) CompleteElapsedBefore(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, b := range r.store.Bookings {
		if b.Status() == booking.StatusConfirmed && b.Elapsed(now) {
			if err := b.Complete(now); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

type paymentRepo struct {
	store *Store
}

func (r *paymentRepo) Create(_ context.Context, p *payment.Payment) error {
	c := *p
	r.store.Payments[p.ID()] = &c
	return nil
}

func (r *paymentRepo) FindForUpdate(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, ok := r.store.Payments[id]
	if !ok {
		return nil, infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	c := *p
	return &c, nil
}

func (r *paymentRepo) Update(_ context.Context, p *payment.Payment) error {
	if _, ok := r.store.Payments[p.ID()]; !ok {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	c := *p
	r.store.Payments[p.ID()] = &c
	return nil
}

type pointsRepo struct {
	store *Store
}

func (r *pointsRepo) Insert(_ context.Context, e *points.Entry) error {
	c := *e
	r.store.PointsEntries = append(r.store.PointsEntries, &c)
	return nil
}

type userRepo struct {
	store *Store
}

func (r *userRepo) LockBalance(_ context.Context, userID uuid.UUID) (int64, error) {
	bal, ok := r.store.UserBalances[userID]
	if !ok {
		return 0, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return bal, nil
}

func (r *userRepo) AddToBalance(_ context.Context, userID uuid.UUID, delta int64, _ time.Time) (int64, error) {
	if _, ok := r.store.UserBalances[userID]; !ok {
		return 0, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	r.store.UserBalances[userID] += delta
	return r.store.UserBalances[userID], nil
}
