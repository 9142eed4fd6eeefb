package models

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps string values in a map and ignores expirations.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func asString(v interface{}) string {
	switch b := v.(type) {
	case []byte:
		return string(b)
	case string:
		return b
	}
	return ""
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = asString(value)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = asString(value)
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func sampleReceipt(key string) *BookingReceipt {
	return &BookingReceipt{
		Key:         key,
		VendorID:    uuid.New(),
		Project:     &Project{ID: uuid.New(), ProjectName: "Acara Dewi"},
		ClientID:    uuid.New(),
		LeadID:      uuid.New(),
		CompletedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func exerciseLedger(t *testing.T, ledger BookingLedger) {
	t.Helper()
	ctx := context.Background()

	receipt, err := ledger.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, receipt)

	_, err = ledger.Reserve(ctx, "k1")
	assert.ErrorIs(t, err, ErrBookingInProgress)

	want := sampleReceipt("k1")
	require.NoError(t, ledger.Complete(ctx, "k1", want))

	got, err := ledger.Reserve(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Project.ID, got.Project.ID)
	assert.Equal(t, want.ClientID, got.ClientID)

	_, err = ledger.Reserve(ctx, "k2")
	require.NoError(t, err)
	require.NoError(t, ledger.Release(ctx, "k2"))
	receipt, err = ledger.Reserve(ctx, "k2")
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

func TestMemoryBookingLedger(t *testing.T) {
	exerciseLedger(t, NewMemoryBookingLedger(time.Hour))
}

func TestMemoryBookingLedger_Expiry(t *testing.T) {
	ledger := NewMemoryBookingLedger(time.Hour)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := ledger.Reserve(ctx, "stale")
	require.NoError(t, err)

	// an abandoned reservation frees up after the processing window
	now = now.Add(DefaultBookingProcessTTL + time.Second)
	receipt, err := ledger.Reserve(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, receipt)

	require.NoError(t, ledger.Complete(ctx, "stale", sampleReceipt("stale")))
	now = now.Add(2 * time.Hour)
	receipt, err = ledger.Reserve(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, receipt)
}

func TestRedisBookingLedger(t *testing.T) {
	rdb := newFakeRedis()
	exerciseLedger(t, NewRedisBookingLedger(rdb, 6*time.Hour))

	assert.Equal(t, 6*time.Hour, rdb.ttls[BookingLedgerPrefix+"k1"])
	assert.Equal(t, DefaultBookingProcessTTL, rdb.ttls[BookingLedgerPrefix+"k2"])
}

func TestRedisBookingLedger_Unavailable(t *testing.T) {
	rdb := newFakeRedis()
	rdb.err = errors.New("dial tcp: connection refused")
	ledger := NewRedisBookingLedger(rdb, time.Hour)

	_, err := ledger.Reserve(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBookingInProgress)
}
