package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/queue"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
)

// memDB is an in-memory store that enforces the same unique and foreign
// key constraints as the MySQL schema.
type memDB struct {
	mu           sync.Mutex
	seq          uint64
	members      map[uint64]model.Member
	themes       map[uint64]model.Theme
	times        map[uint64]model.TimeSlot
	reservations map[uint64]model.Reservation
	failWith     error
}

func newMemDB() *memDB {
	return &memDB{
		members:      map[uint64]model.Member{},
		themes:       map[uint64]model.Theme{},
		times:        map[uint64]model.TimeSlot{},
		reservations: map[uint64]model.Reservation{},
	}
}

func (db *memDB) next() uint64 { db.seq++; return db.seq }

type memberFake struct{ *memDB }
type themeFake struct{ *memDB }
type timeFake struct{ *memDB }
type reservationFake struct{ *memDB }

func (f memberFake) Create(_ context.Context, m model.Member) (model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.members {
		if o.Email == m.Email {
			return model.Member{}, repository.ErrDuplicate
		}
	}
	m.ID = f.next()
	f.members[m.ID] = m
	return m, nil
}

func (f memberFake) GetByID(_ context.Context, id uint64) (model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return model.Member{}, repository.ErrNotFound
	}
	return m, nil
}

func (f memberFake) GetByEmail(_ context.Context, email string) (model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.Email == email {
			return m, nil
		}
	}
	return model.Member{}, repository.ErrNotFound
}

func (f memberFake) List(context.Context) ([]model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f themeFake) Create(_ context.Context, t model.Theme) (model.Theme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = f.next()
	f.themes[t.ID] = t
	return t, nil
}

func (f themeFake) GetByID(_ context.Context, id uint64) (model.Theme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.themes[id]
	if !ok {
		return model.Theme{}, repository.ErrNotFound
	}
	return t, nil
}

func (f themeFake) List(context.Context) ([]model.Theme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Theme, 0, len(f.themes))
	for _, t := range f.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f themeFake) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.themes[id]; !ok {
		return repository.ErrNotFound
	}
	for _, r := range f.reservations {
		if r.Theme.ID == id {
			return repository.ErrReferenced
		}
	}
	delete(f.themes, id)
	return nil
}

func (f timeFake) Create(_ context.Context, s model.TimeSlot) (model.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.times {
		if o.StartAt == s.StartAt {
			return model.TimeSlot{}, repository.ErrDuplicate
		}
	}
	s.ID = f.next()
	f.times[s.ID] = s
	return s, nil
}

func (f timeFake) GetByID(_ context.Context, id uint64) (model.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.times[id]
	if !ok {
		return model.TimeSlot{}, repository.ErrNotFound
	}
	return s, nil
}

func (f timeFake) List(context.Context) ([]model.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.TimeSlot, 0, len(f.times))
	for _, s := range f.times {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt < out[j].StartAt })
	return out, nil
}

func (f timeFake) ExistsByStartAt(_ context.Context, startAt model.TimeOfDay) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.times {
		if s.StartAt == startAt {
			return true, nil
		}
	}
	return false, nil
}

func (f timeFake) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.times[id]; !ok {
		return repository.ErrNotFound
	}
	for _, r := range f.reservations {
		if r.Time.ID == id {
			return repository.ErrReferenced
		}
	}
	delete(f.times, id)
	return nil
}

func (f reservationFake) Create(_ context.Context, r model.Reservation) (model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return model.Reservation{}, f.failWith
	}
	for _, o := range f.reservations {
		if o.Date.Equal(r.Date) && o.Time.ID == r.Time.ID && o.Theme.ID == r.Theme.ID {
			return model.Reservation{}, repository.ErrDuplicate
		}
	}
	r.ID = f.next()
	f.reservations[r.ID] = r
	return r, nil
}

func (f reservationFake) GetByID(_ context.Context, id uint64) (model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return r, nil
}

func (f reservationFake) filter(keep func(model.Reservation) bool) []model.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range f.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time.StartAt < out[j].Time.StartAt
	})
	return out
}

func (f reservationFake) List(context.Context) ([]model.Reservation, error) {
	return f.filter(func(model.Reservation) bool { return true }), nil
}

func (f reservationFake) ListByMember(_ context.Context, memberID uint64) ([]model.Reservation, error) {
	return f.filter(func(r model.Reservation) bool { return r.Member.ID == memberID }), nil
}

func (f reservationFake) ExistsBySlot(_ context.Context, date model.Date, timeID, themeID uint64) (bool, error) {
	return len(f.filter(func(r model.Reservation) bool {
		return r.Date.Equal(date) && r.Time.ID == timeID && r.Theme.ID == themeID
	})) > 0, nil
}

func (f reservationFake) ExistsByTheme(_ context.Context, themeID uint64) (bool, error) {
	return len(f.filter(func(r model.Reservation) bool { return r.Theme.ID == themeID })) > 0, nil
}

func (f reservationFake) ExistsByTime(_ context.Context, timeID uint64) (bool, error) {
	return len(f.filter(func(r model.Reservation) bool { return r.Time.ID == timeID })) > 0, nil
}

func (f reservationFake) BookedTimeIDs(_ context.Context, date model.Date, themeID uint64) (map[uint64]bool, error) {
	booked := map[uint64]bool{}
	for _, r := range f.filter(func(r model.Reservation) bool {
		return r.Date.Equal(date) && r.Theme.ID == themeID
	}) {
		booked[r.Time.ID] = true
	}
	return booked, nil
}

func (f reservationFake) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reservations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.reservations, id)
	return nil
}

func (f reservationFake) CountByThemeBetween(_ context.Context, from, to model.Date) ([]model.ThemeCount, error) {
	counts := map[uint64]*model.ThemeCount{}
	order := []uint64{}
	for _, r := range f.filter(func(r model.Reservation) bool {
		return !r.Date.Before(from) && !r.Date.After(to)
	}) {
		c, ok := counts[r.Theme.ID]
		if !ok {
			c = &model.ThemeCount{Theme: r.Theme}
			counts[r.Theme.ID] = c
			order = append(order, r.Theme.ID)
		}
		c.Count++
	}
	out := make([]model.ThemeCount, 0, len(order))
	for _, id := range order {
		out = append(out, *counts[id])
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

var errStoreDown = errors.New("store down")

func errDuplicateFromStore() error { return repository.ErrDuplicate }
