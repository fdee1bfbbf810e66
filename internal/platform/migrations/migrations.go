package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&variantRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyRecord{},
		&adminSessionRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID             string          `gorm:"primaryKey;column:id;size:64"`
	Slug           string          `gorm:"column:slug;uniqueIndex"`
	Name           string          `gorm:"column:name;not null"`
	Price          string          `gorm:"column:price;size:32;not null"`
	Discount       int             `gorm:"column:discount;default:0"`
	Image          string          `gorm:"column:image"`
	Images         pq.StringArray  `gorm:"column:images;type:text[]"`
	Description    string          `gorm:"column:description"`
	Details        pq.StringArray  `gorm:"column:details;type:text[]"`
	Composition    string          `gorm:"column:composition"`
	Care           string          `gorm:"column:care"`
	Sizing         string          `gorm:"column:sizing"`
	Sustainability string          `gorm:"column:sustainability"`
	Category       string          `gorm:"column:category;index"`
	IsFeatured     bool            `gorm:"column:is_featured;index:idx_products_visibility"`
	IsHidden       bool            `gorm:"column:is_hidden;index:idx_products_visibility"`
	Variants       []variantRecord `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `gorm:"column:created_at;index"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type variantRecord struct {
	ID        string `gorm:"primaryKey;column:id;size:64"`
	ProductID string `gorm:"column:product_id;size:64;index"`
	Position  int    `gorm:"column:position"`
	Name      string `gorm:"column:name"`
	Slug      string `gorm:"column:slug"`
	Color     string `gorm:"column:color;size:32"`
}

func (variantRecord) TableName() string { return "product_variants" }

// Order schema mirrors the orders Postgres adapter. Items keep no foreign key
// to products; deleting a product only nulls product_id.
type orderRecord struct {
	ID            string            `gorm:"primaryKey;column:id;size:64"`
	CustomerName  string            `gorm:"column:customer_name;not null"`
	CustomerEmail string            `gorm:"column:customer_email;index"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(12,2)"`
	Status        string            `gorm:"column:status;type:varchar(32);index;default:pending"`
	Items         []orderItemRecord `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
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

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Admin session schema mirrors the admin session store.
type adminSessionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:128"`
	Username  string    `gorm:"column:username;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (adminSessionRecord) TableName() string { return "admin_sessions" }
