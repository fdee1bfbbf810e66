package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps checkout keys in order_idempotency_keys. Rows past
// ports.IdempotencyRetention are ignored and replaced on the next Save.
type IdempotencyStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db, now: time.Now}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if s == nil || s.db == nil {
		return nil, errNotConfigured
	}
	var row idempotencyRow
	err := s.db.WithContext(ctx).
		Where("key = ? AND created_at > ?", key, s.cutoff()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.record(), nil
}

// Save inserts the key. On a duplicate it compares hashes against the live
// row, or replaces the row when it has expired.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if s == nil || s.db == nil {
		return nil, errNotConfigured
	}
	row := s.newRow(record)
	err := s.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return row.record(), nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := s.db.WithContext(ctx).
			Where("key = ? AND created_at <= ?", record.Key, s.cutoff()).
			Delete(&idempotencyRow{}).Error; err != nil {
			return nil, err
		}
		row = s.newRow(record)
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
		return row.record(), nil
	}
	if existing.RequestHash != record.RequestHash {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&idempotencyRow{}).Error
}

// PurgeExpired deletes keys past the retention window and reports how many went.
func (s *IdempotencyStore) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errNotConfigured
	}
	res := s.db.WithContext(ctx).Where("created_at <= ?", s.cutoff()).Delete(&idempotencyRow{})
	return res.RowsAffected, res.Error
}

func (s *IdempotencyStore) newRow(record ports.IdempotencyRecord) idempotencyRow {
	now := s.now()
	return idempotencyRow{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *IdempotencyStore) cutoff() time.Time {
	return s.now().Add(-ports.IdempotencyRetention)
}

var errNotConfigured = errors.New("postgres idempotency store not configured")

type idempotencyRow struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRow) TableName() string { return "order_idempotency_keys" }

func (r idempotencyRow) record() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         r.Key,
		RequestHash: r.RequestHash,
		OrderID:     r.OrderID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
