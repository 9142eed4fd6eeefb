package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	BookingLedgerPrefix      = "booking:idempotency:"
	DefaultBookingLedgerTTL  = 24 * time.Hour
	DefaultBookingProcessTTL = 2 * time.Minute
)

var ErrBookingInProgress = errors.New("booking with this key is already being processed")

type ledgerStatus string

const (
	ledgerProcessing ledgerStatus = "processing"
	ledgerCompleted  ledgerStatus = "completed"
)

type ledgerRecord struct {
	Status    ledgerStatus    `json:"status"`
	Receipt   *BookingReceipt `json:"receipt,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// BookingLedger remembers which booking submissions already produced records.
//
// Reserve returns (nil, nil) when the caller now owns the key, the stored
// receipt when the booking already completed, and ErrBookingInProgress when
// another caller holds the key.
type BookingLedger interface {
	Reserve(ctx context.Context, key string) (*BookingReceipt, error)
	Complete(ctx context.Context, key string, receipt *BookingReceipt) error
	Release(ctx context.Context, key string) error
}

// LedgerRedis is the subset of go-redis the ledger needs.
type LedgerRedis interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisBookingLedger struct {
	rdb           LedgerRedis
	ttl           time.Duration
	processingTTL time.Duration
}

func NewRedisBookingLedger(rdb LedgerRedis, ttl time.Duration) *RedisBookingLedger {
	if ttl <= 0 {
		ttl = DefaultBookingLedgerTTL
	}
	return &RedisBookingLedger{rdb: rdb, ttl: ttl, processingTTL: DefaultBookingProcessTTL}
}

func (l *RedisBookingLedger) read(ctx context.Context, key string) (*ledgerRecord, error) {
	raw, err := l.rdb.Get(ctx, BookingLedgerPrefix+key).Result()
	if err != nil {
		return nil, err
	}
	var rec ledgerRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode ledger record: %v", err)
	}
	return &rec, nil
}

func (l *RedisBookingLedger) Reserve(ctx context.Context, key string) (*BookingReceipt, error) {
	payload, err := json.Marshal(ledgerRecord{Status: ledgerProcessing, CreatedAt: time.Now()})
	if err != nil {
		return nil, err
	}
	ok, err := l.rdb.SetNX(ctx, BookingLedgerPrefix+key, payload, l.processingTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve booking key: %v", err)
	}
	if ok {
		return nil, nil
	}

	rec, err := l.read(ctx, key)
	if errors.Is(err, redis.Nil) {
		// expired between SetNX and Get; treat as held so the caller retries
		return nil, ErrBookingInProgress
	}
	if err != nil {
		return nil, err
	}
	if rec.Status == ledgerCompleted && rec.Receipt != nil {
		return rec.Receipt, nil
	}
	return nil, ErrBookingInProgress
}

func (l *RedisBookingLedger) Complete(ctx context.Context, key string, receipt *BookingReceipt) error {
	payload, err := json.Marshal(ledgerRecord{Status: ledgerCompleted, Receipt: receipt, CreatedAt: time.Now()})
	if err != nil {
		return err
	}
	if err := l.rdb.Set(ctx, BookingLedgerPrefix+key, payload, l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking receipt: %v", err)
	}
	return nil
}

func (l *RedisBookingLedger) Release(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, BookingLedgerPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release booking key: %v", err)
	}
	return nil
}

// MemoryBookingLedger is the single-instance ledger.
type MemoryBookingLedger struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]memoryLedgerEntry
}

type memoryLedgerEntry struct {
	record    ledgerRecord
	expiresAt time.Time
}

func NewMemoryBookingLedger(ttl time.Duration) *MemoryBookingLedger {
	if ttl <= 0 {
		ttl = DefaultBookingLedgerTTL
	}
	return &MemoryBookingLedger{ttl: ttl, now: time.Now, records: make(map[string]memoryLedgerEntry)}
}

func (m *MemoryBookingLedger) Reserve(ctx context.Context, key string) (*BookingReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if entry, ok := m.records[key]; ok && now.Before(entry.expiresAt) {
		if entry.record.Status == ledgerCompleted {
			return entry.record.Receipt, nil
		}
		return nil, ErrBookingInProgress
	}
	m.records[key] = memoryLedgerEntry{
		record:    ledgerRecord{Status: ledgerProcessing, CreatedAt: now},
		expiresAt: now.Add(DefaultBookingProcessTTL),
	}
	return nil, nil
}

func (m *MemoryBookingLedger) Complete(ctx context.Context, key string, receipt *BookingReceipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.records[key] = memoryLedgerEntry{
		record:    ledgerRecord{Status: ledgerCompleted, Receipt: receipt, CreatedAt: now},
		expiresAt: now.Add(m.ttl),
	}
	return nil
}

func (m *MemoryBookingLedger) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}
