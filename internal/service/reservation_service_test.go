package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-escape-reservation/internal/errs"
	"github.com/iliyamo/room-escape-reservation/internal/model"
	"github.com/iliyamo/room-escape-reservation/internal/queue"
)

func TestReservationService_BookThenConflictThenGuardedDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref := time.Date(2024, 4, 30, 12, 0, 0, 0, kst)

	slot := f.slot(t, "10:00")
	theme := f.theme(t, "Escape Room")
	brown := f.member(t, "brown")
	green := f.member(t, "green")

	in := CreateReservation{Date: date(t, "2099-04-30"), TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID}
	res, err := f.reservations.Create(ctx, in, ref)
	require.NoError(t, err)
	require.NotZero(t, res.ID)
	require.Equal(t, "brown", res.Member.Name)
	require.Equal(t, "10:00", res.Time.StartAt.String())
	require.Equal(t, "Escape Room", res.Theme.Name)

	in.MemberID = green.ID
	_, err = f.reservations.Create(ctx, in, ref)
	require.ErrorIs(t, err, errs.ErrConflict)

	require.ErrorIs(t, f.themes.Delete(ctx, theme.ID), errs.ErrConflict)
	require.ErrorIs(t, f.times.Delete(ctx, slot.ID), errs.ErrConflict)

	require.NoError(t, f.reservations.Cancel(ctx, res.ID, Actor{MemberID: brown.ID, Role: model.RoleUser}, ref))
	require.NoError(t, f.themes.Delete(ctx, theme.ID))
	require.NoError(t, f.times.Delete(ctx, slot.ID))

	require.Equal(t, []string{queue.EventReservationCreated, queue.EventReservationCancelled}, f.pub.types())
}

func TestReservationService_CreateGateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref := time.Date(2024, 4, 30, 12, 0, 0, 0, kst)

	slot := f.slot(t, "10:00")
	theme := f.theme(t, "Haunted")
	brown := f.member(t, "brown")
	past := date(t, "2024-04-01")

	_, err := f.reservations.Create(ctx, CreateReservation{Date: date(t, "2024-05-01"), TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID}, ref)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   CreateReservation
		want error
	}{
		{
			name: "missing member wins over past date",
			in:   CreateReservation{Date: past, TimeID: slot.ID, ThemeID: theme.ID, MemberID: 999},
			want: errs.ErrNotFound,
		},
		{
			name: "missing time slot",
			in:   CreateReservation{Date: past, TimeID: 999, ThemeID: theme.ID, MemberID: brown.ID},
			want: errs.ErrNotFound,
		},
		{
			name: "missing theme",
			in:   CreateReservation{Date: past, TimeID: slot.ID, ThemeID: 999, MemberID: brown.ID},
			want: errs.ErrNotFound,
		},
		{
			name: "past date",
			in:   CreateReservation{Date: past, TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID},
			want: errs.ErrInvalidTiming,
		},
		{
			name: "taken triple",
			in:   CreateReservation{Date: date(t, "2024-05-01"), TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID},
			want: errs.ErrConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reservations.Create(ctx, tt.in, ref)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReservationService_CreateTiming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.slot(t, "10:00")
	theme := f.theme(t, "Haunted")
	brown := f.member(t, "brown")
	today := date(t, "2024-04-30")

	tests := []struct {
		name string
		date model.Date
		ref  time.Time
		want error
	}{
		{name: "today before start", date: today, ref: time.Date(2024, 4, 30, 9, 59, 0, 0, kst)},
		{name: "today at start", date: today, ref: time.Date(2024, 4, 30, 10, 0, 0, 0, kst), want: errs.ErrInvalidTiming},
		{name: "today at start plus seconds", date: today, ref: time.Date(2024, 4, 30, 10, 0, 45, 0, kst), want: errs.ErrInvalidTiming},
		{name: "today after start", date: today, ref: time.Date(2024, 4, 30, 23, 0, 0, 0, kst), want: errs.ErrInvalidTiming},
		{name: "yesterday", date: today.AddDays(-1), ref: time.Date(2024, 4, 30, 0, 1, 0, 0, kst), want: errs.ErrInvalidTiming},
		{name: "tomorrow late in the day", date: today.AddDays(1), ref: time.Date(2024, 4, 30, 23, 59, 0, 0, kst)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.reservations.Create(ctx,
				CreateReservation{Date: tt.date, TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID}, tt.ref)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			require.NoError(t, f.reservations.Cancel(ctx, res.ID, Actor{MemberID: brown.ID}, tt.ref))
		})
	}
}

func TestReservationService_CreateUsesReferenceZone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.slot(t, "10:00")
	theme := f.theme(t, "Haunted")
	brown := f.member(t, "brown")

	// 2024-04-30 23:30 UTC is already 2024-05-01 08:30 in Seoul.
	ref := time.Date(2024, 4, 30, 23, 30, 0, 0, time.UTC).In(kst)
	_, err := f.reservations.Create(ctx,
		CreateReservation{Date: date(t, "2024-04-30"), TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID}, ref)
	require.ErrorIs(t, err, errs.ErrInvalidTiming)

	_, err = f.reservations.Create(ctx,
		CreateReservation{Date: date(t, "2024-05-01"), TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID}, ref)
	require.NoError(t, err)
}

func TestReservationService_StoreRaceBecomesConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.slot(t, "10:00")
	theme := f.theme(t, "Haunted")
	brown := f.member(t, "brown")

	// a competing insert that slipped in between the existence check and
	// the write surfaces as a duplicate key from the store
	f.db.failWith = errDuplicateFromStore()
	_, err := f.reservations.Create(ctx,
		CreateReservation{Date: date(t, "2099-01-01"), TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID},
		time.Date(2024, 4, 30, 12, 0, 0, 0, kst))
	require.ErrorIs(t, err, errs.ErrConflict)

	f.db.failWith = errStoreDown
	_, err = f.reservations.Create(ctx,
		CreateReservation{Date: date(t, "2099-01-02"), TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID},
		time.Date(2024, 4, 30, 12, 0, 0, 0, kst))
	require.Equal(t, errs.KindInternal, errs.KindOf(err))
	require.ErrorIs(t, err, errStoreDown)
	require.Empty(t, f.pub.types())
}

func TestReservationService_PublishFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errStoreDown
	slot := f.slot(t, "10:00")
	theme := f.theme(t, "Haunted")
	brown := f.member(t, "brown")

	_, err := f.reservations.Create(context.Background(),
		CreateReservation{Date: date(t, "2099-01-01"), TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID},
		time.Date(2024, 4, 30, 12, 0, 0, 0, kst))
	require.NoError(t, err)
}

func TestReservationService_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref := time.Date(2024, 4, 30, 12, 0, 0, 0, kst)
	slot := f.slot(t, "10:00")
	theme := f.theme(t, "Haunted")
	brown := f.member(t, "brown")
	green := f.member(t, "green")

	res, err := f.reservations.Create(ctx,
		CreateReservation{Date: date(t, "2099-01-01"), TimeID: slot.ID, ThemeID: theme.ID, MemberID: brown.ID}, ref)
	require.NoError(t, err)

	err = f.reservations.Cancel(ctx, res.ID, Actor{MemberID: green.ID, Role: model.RoleUser}, ref)
	require.ErrorIs(t, err, errs.ErrForbidden)

	require.NoError(t, f.reservations.Cancel(ctx, res.ID, Actor{MemberID: 77, Role: model.RoleAdmin}, ref))
	require.ErrorIs(t, f.reservations.Cancel(ctx, res.ID, Actor{MemberID: brown.ID}, ref), errs.ErrNotFound)
}

func TestReservationService_ListByMemberAndAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ref := time.Date(2024, 4, 30, 12, 0, 0, 0, kst)
	ten := f.slot(t, "10:00")
	one := f.slot(t, "13:00")
	theme := f.theme(t, "Haunted")
	brown := f.member(t, "brown")
	green := f.member(t, "green")

	book := func(d string, slot model.TimeSlot, m model.Member) {
		_, err := f.reservations.Create(ctx,
			CreateReservation{Date: date(t, d), TimeID: slot.ID, ThemeID: theme.ID, MemberID: m.ID}, ref)
		require.NoError(t, err)
	}
	book("2099-01-02", ten, brown)
	book("2099-01-01", one, brown)
	book("2099-01-01", ten, brown)
	book("2099-01-03", ten, green)

	mine, err := f.reservations.ListByMember(ctx, brown.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	require.Equal(t, "2099-01-01", mine[0].Date.String())
	require.Equal(t, "10:00", mine[0].Time.StartAt.String())
	require.Equal(t, "13:00", mine[1].Time.StartAt.String())
	require.Equal(t, "2099-01-02", mine[2].Date.String())

	all, err := f.reservations.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	avail, err := f.reservations.Availability(ctx, date(t, "2099-01-02"), theme.ID)
	require.NoError(t, err)
	require.Equal(t, []model.AvailableTime{
		{Slot: ten, AlreadyBooked: true},
		{Slot: one, AlreadyBooked: false},
	}, avail)

	_, err = f.reservations.Availability(ctx, date(t, "2099-01-02"), 999)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
