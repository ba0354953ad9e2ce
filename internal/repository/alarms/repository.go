package alarms

import (
	"context"
	"fmt"
	"strconv"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
)

// Storage keys.
const (
	nextIDKey      = "next_id"
	countKey       = "count"
	alarmKeyPrefix = "alarm_"
)

// Snapshot is the persisted state: the id counter and the alarms in stored order.
type Snapshot struct {
	// NextID is the id the next added alarm receives.
	NextID int
	// Alarms is the collection in stored order.
	Alarms []domain.Alarm
}

// Repository defines persistence operations for the alarm collection.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

// KVRepository stores the alarm collection in a key/value store.
type KVRepository struct {
	store kv.Store
}

// NewKVRepository creates a repository on top of the store.
func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{
		store: store,
	}
}

// Load reads the id counter and every alarm record. Damaged or duplicate records are
// skipped with a warning; only store failures abort loading.
func (r *KVRepository) Load(ctx context.Context) (Snapshot, error) {
	nextID, err := r.getInt(ctx, nextIDKey, 1)
	if err != nil {
		return Snapshot{}, err
	}

	count, err := r.getInt(ctx, countKey, 0)
	if err != nil {
		return Snapshot{}, err
	}

	var (
		loaded = make([]domain.Alarm, 0, max(count, 0))
		seen   = make(map[int]struct{}, max(count, 0))
	)

	for i := range max(count, 0) {
		key := alarmKey(i)

		data, ok, err := r.store.Get(ctx, key)
		if err != nil {
			return Snapshot{}, fmt.Errorf("load %s: %w", key, err)
		}

		if !ok || data == "" {
			logger.Warnf(ctx, "Alarm record %s is missing, skipping", key)

			continue
		}

		a, err := decodeRecord(data)
		if err != nil {
			logger.Warnf(ctx, "Failed to parse alarm record %s, skipping: %v", key, err)

			continue
		}

		if _, dup := seen[a.ID]; dup {
			logger.Warnf(ctx, "Duplicate alarm id %d in record %s, skipping", a.ID, key)

			continue
		}

		seen[a.ID] = struct{}{}
		loaded = append(loaded, a)

		if a.ID >= nextID {
			nextID = a.ID + 1
		}
	}

	nextID = max(nextID, 1)

	logger.Debugf(ctx, "Loaded %d of %d alarm records, next id is %d", len(loaded), count, nextID)

	return Snapshot{
		NextID: nextID,
		Alarms: loaded,
	}, nil
}

// Save rewrites the id counter and every record. The count is written last so a
// partially failed save never points past the records written so far.
func (r *KVRepository) Save(ctx context.Context, snapshot Snapshot) error {
	if err := r.store.Set(ctx, nextIDKey, strconv.Itoa(snapshot.NextID)); err != nil {
		return fmt.Errorf("save %s: %w", nextIDKey, err)
	}

	for i, a := range snapshot.Alarms {
		data, err := encodeRecord(a)
		if err != nil {
			return err
		}

		key := alarmKey(i)
		if err = r.store.Set(ctx, key, data); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	if err := r.store.Set(ctx, countKey, strconv.Itoa(len(snapshot.Alarms))); err != nil {
		return fmt.Errorf("save %s: %w", countKey, err)
	}

	return nil
}

// getInt reads an integer key, returning fallback when it is absent or unparsable.
func (r *KVRepository) getInt(ctx context.Context, key string, fallback int) (int, error) {
	data, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", key, err)
	}

	if !ok {
		return fallback, nil
	}

	value, err := strconv.Atoi(data)
	if err != nil {
		logger.Warnf(ctx, "Invalid %s value %q, using %d", key, data, fallback)

		return fallback, nil
	}

	return value, nil
}

func alarmKey(index int) string {
	return alarmKeyPrefix + strconv.Itoa(index)
}
