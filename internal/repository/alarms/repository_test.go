package alarms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
)

// TestKVRepository_Empty returns the initial counter for an empty store.
func TestKVRepository_Empty(t *testing.T) {
	t.Parallel()

	repo := NewKVRepository(kv.NewMemoryStore())

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.NextID)
	require.Empty(t, snapshot.Alarms)
}

// TestKVRepository_Roundtrip saves and reloads alarms, resetting runtime-only state.
func TestKVRepository_Roundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewKVRepository(store)

	ringing := domain.New(2, domain.Spec{Hour: 6, Minute: 5, Repeat: domain.Weekdays, Label: "work"}, 7, 2)
	ringing.Status = domain.Snoozed
	ringing.SnoozeCount = 2
	ringing.LastTriggeredAt = 100
	ringing.NextSnoozeAt = 520

	custom := domain.New(5, domain.Spec{
		Hour:      23,
		Minute:    59,
		Repeat:    domain.Custom,
		Weekdays:  domain.MaskOf(time.Tuesday),
		MusicName: "rain.mp3",
	}, 5, 3)
	custom.Status = domain.Disabled

	require.NoError(t, repo.Save(ctx, Snapshot{NextID: 6, Alarms: []domain.Alarm{ringing, custom}}))

	count, ok, err := store.Get(ctx, "count")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", count)

	snapshot, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, snapshot.NextID)
	require.Len(t, snapshot.Alarms, 2)

	want := ringing
	want.Status = domain.Enabled
	want.SnoozeCount = 0
	want.LastTriggeredAt = 0
	want.NextSnoozeAt = 0

	require.Equal(t, want, snapshot.Alarms[0])
	require.Equal(t, custom, snapshot.Alarms[1])
}

// TestKVRepository_SkipsDamagedRecords keeps loading past bad, missing and duplicate records.
func TestKVRepository_SkipsDamagedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := kv.NewMemoryStore()

	require.NoError(t, store.Set(ctx, "next_id", "2"))
	require.NoError(t, store.Set(ctx, "count", "6"))
	require.NoError(t, store.Set(ctx, "alarm_0", `{"id":1,"hour":7,"minute":30,"repeat":1,"weekdays":127,"status":0}`))
	require.NoError(t, store.Set(ctx, "alarm_1", `{not json`))
	require.NoError(t, store.Set(ctx, "alarm_2", `{"id":3,"hour":25,"minute":0}`))
	// alarm_3 is missing.
	require.NoError(t, store.Set(ctx, "alarm_4", `{"id":1,"hour":8,"minute":0}`))
	require.NoError(t, store.Set(ctx, "alarm_5", `{"id":9,"hour":8,"minute":0,"repeat":0,"status":2}`))

	snapshot, err := NewKVRepository(store).Load(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Alarms, 2)
	require.Equal(t, 1, snapshot.Alarms[0].ID)
	require.Equal(t, 9, snapshot.Alarms[1].ID)
	require.Equal(t, domain.Enabled, snapshot.Alarms[1].Status)

	// Missing snooze fields fall back to the defaults.
	require.Equal(t, domain.DefaultSnoozeMinutes, snapshot.Alarms[1].SnoozeMinutes)
	require.Equal(t, domain.DefaultMaxSnoozeCount, snapshot.Alarms[1].MaxSnoozeCount)

	// The counter never points at an existing id.
	require.Equal(t, 10, snapshot.NextID)
}

// TestKVRepository_SaveFailure surfaces store errors.
func TestKVRepository_SaveFailure(t *testing.T) {
	t.Parallel()

	store := kv.NewMemoryStore()
	boom := errors.New("flash worn out")
	store.FailWrites(boom)

	err := NewKVRepository(store).Save(context.Background(), Snapshot{NextID: 1})
	require.ErrorIs(t, err, boom)
}
