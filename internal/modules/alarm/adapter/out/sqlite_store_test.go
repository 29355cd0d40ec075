package out

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"shakker/internal/modules/alarm/domain"
	alarmout "shakker/internal/modules/alarm/port/out"
	apperrors "shakker/internal/platform/errors"
)

func newStore(t *testing.T) alarmout.AlarmStore {
	t.Helper()
	store, err := NewSQLiteAlarmStore(filepath.Join(t.TempDir(), "shakker.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleAlarm(fireAt time.Time) domain.Alarm {
	return domain.Alarm{
		ID:        domain.UnassignedID,
		FireAt:    fireAt.UnixMilli(),
		Message:   "Alarm for 07:00 AM",
		Enabled:   true,
		Days:      domain.NewDaySet(time.Monday, time.Wednesday, time.Friday),
		Challenge: domain.KindShake,
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	fireAt := time.Date(2024, time.March, 6, 7, 0, 0, 0, time.Local)
	id, err := store.Create(ctx, sampleAlarm(fireAt))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id %d", id)
	}

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FireAt != fireAt.UnixMilli() {
		t.Fatalf("fire at %d", got.FireAt)
	}
	if got.Days.Encode() != "2,4,6" {
		t.Fatalf("days %q", got.Days.Encode())
	}
	if got.Challenge != domain.KindShake || !got.Enabled {
		t.Fatalf("got %+v", got)
	}
}

func TestListOrdersByFireInstant(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 6, 7, 0, 0, 0, time.Local)
	late := sampleAlarm(base.Add(2 * time.Hour))
	early := sampleAlarm(base)
	if _, err := store.Create(ctx, late); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create(ctx, early); err != nil {
		t.Fatalf("create: %v", err)
	}

	alarms, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(alarms) != 2 {
		t.Fatalf("len %d", len(alarms))
	}
	if alarms[0].FireAt != base.UnixMilli() {
		t.Fatalf("order wrong: %d first", alarms[0].FireAt)
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	fireAt := time.Date(2024, time.March, 6, 7, 0, 0, 0, time.Local)
	id, err := store.Create(ctx, sampleAlarm(fireAt))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	changed, _ := store.GetByID(ctx, id)
	changed.Enabled = false
	changed.Message = "Gym"
	changed.Days = domain.DaySet(0)
	changed.Challenge = domain.KindMath
	if err := store.Update(ctx, changed); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Enabled || got.Message != "Gym" || !got.Days.Empty() || got.Challenge != domain.KindMath {
		t.Fatalf("got %+v", got)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	t.Parallel()
	store := newStore(t)

	missing := sampleAlarm(time.Now())
	missing.ID = 404
	if err := store.Update(context.Background(), missing); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err %v", err)
	}
}

func TestDeleteThenGet(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, sampleAlarm(time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, id); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err %v", err)
	}
	// Deleting an already-deleted record is not an error.
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
