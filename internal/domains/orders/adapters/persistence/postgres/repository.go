package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their lines in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order repository. Schema is owned by platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID            string            `gorm:"primaryKey;column:id;size:64"`
	CustomerName  string            `gorm:"column:customer_name"`
	CustomerEmail string            `gorm:"column:customer_email;index"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(12,2)"`
	Status        string            `gorm:"column:status;type:varchar(32);index"`
	Items         []orderItemRecord `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt     time.Time         `gorm:"column:created_at;index"`
	UpdatedAt     time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID          string  `gorm:"primaryKey;column:id;size:64"`
	OrderID     string  `gorm:"column:order_id;size:64;index"`
	ProductID   *string `gorm:"column:product_id;size:64;index"`
	Position    int     `gorm:"column:position"`
	ProductName string  `gorm:"column:product_name"`
	Price       string  `gorm:"column:price;size:32"`
	Size        string  `gorm:"column:size;size:16"`
	Quantity    int     `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Save upserts the order row and replaces its lines in one transaction.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("cannot save nil order")
	}
	record := toRecord(order)
	items := record.Items
	record.Items = nil
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"customer_name":  record.CustomerName,
				"customer_email": record.CustomerEmail,
				"total":          record.Total,
				"status":         record.Status,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", record.ID).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items", orderItems).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Preload("Items", orderItems).
		Order("created_at DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Order], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) DetachProducts(ctx context.Context, productIDs []string) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	if len(productIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&orderItemRecord{}).
		Where("product_id IN ?", productIDs).
		Update("product_id", gorm.Expr("NULL"))
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:            order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
		Status:        string(order.Status),
	}
	for i, item := range order.Items {
		var productID *string
		if item.ProductID != nil {
			ref := *item.ProductID
			productID = &ref
		}
		rec.Items = append(rec.Items, orderItemRecord{
			ID:          item.ID,
			OrderID:     order.ID,
			ProductID:   productID,
			Position:    i,
			ProductName: item.ProductName,
			Price:       item.Price,
			Size:        item.Size,
			Quantity:    item.Quantity,
		})
	}
	return rec
}

func (r orderRecord) toProjection() *projection.Projection[*domain.Order] {
	order := &domain.Order{
		ID:            r.ID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Total:         r.Total,
		Status:        domain.Status(r.Status),
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Size:        item.Size,
			Quantity:    item.Quantity,
		})
	}
	return &projection.Projection[*domain.Order]{
		Entity:   order,
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
