package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// featuredLockKey serializes featured-cap checks across API replicas.
const featuredLockKey int64 = 0x7465747546656174

// Repository persists products and variants in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Schema is owned by platform/migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID             string          `gorm:"primaryKey;column:id;size:64"`
	Slug           string          `gorm:"column:slug;uniqueIndex"`
	Name           string          `gorm:"column:name"`
	Price          string          `gorm:"column:price;size:32"`
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
	Variants       []variantRecord `gorm:"foreignKey:ProductID;references:ID"`
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

// Save upserts the product row and replaces its variants in one transaction.
func (r *Repository) Save(ctx context.Context, product *domain.Product, featuredLimit int) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(product)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if product.IsFeatured && featuredLimit > 0 {
			if err := checkFeaturedLimit(tx, product.ID, featuredLimit); err != nil {
				return err
			}
		}
		variants := record.Variants
		record.Variants = nil
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"slug":           record.Slug,
				"name":           record.Name,
				"price":          record.Price,
				"discount":       record.Discount,
				"image":          record.Image,
				"images":         record.Images,
				"description":    record.Description,
				"details":        record.Details,
				"composition":    record.Composition,
				"care":           record.Care,
				"sizing":         record.Sizing,
				"sustainability": record.Sustainability,
				"category":       record.Category,
				"is_featured":    record.IsFeatured,
				"is_hidden":      record.IsHidden,
				"updated_at":     gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("product_id = ?", record.ID).Delete(&variantRecord{}).Error; err != nil {
			return err
		}
		if len(variants) > 0 {
			if err := tx.Create(&variants).Error; err != nil {
				return translateError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, product.ID)
}

// checkFeaturedLimit runs under a transaction-scoped advisory lock so concurrent
// admins cannot both take the last slot.
func checkFeaturedLimit(tx *gorm.DB, productID string, limit int) error {
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", featuredLockKey).Error; err != nil {
		return err
	}
	var current productRecord
	err := tx.Select("is_featured", "is_hidden").First(&current, "id = ?", productID).Error
	switch {
	case err == nil && current.IsFeatured && !current.IsHidden:
		return nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	var count int64
	if err := tx.Model(&productRecord{}).
		Where("is_featured = ? AND is_hidden = ? AND id <> ?", true, false, productID).
		Count(&count).Error; err != nil {
		return err
	}
	if count >= int64(limit) {
		return ports.ErrFeaturedLimitReached
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*projection.Projection[*domain.Product], error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).Preload("Variants", orderVariants).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&productRecord{}).Preload("Variants", orderVariants)
	if !filter.IncludeHidden || filter.FeaturedOnly {
		query = query.Where("is_hidden = ?", false)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var records []productRecord
	if err := query.Order("created_at ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Product], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) SetHidden(ctx context.Context, ids []string, hidden bool) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	updates := map[string]any{"is_hidden": hidden, "updated_at": gorm.Expr("NOW()")}
	if hidden {
		updates["is_featured"] = false
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id IN ?", ids).Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) Delete(ctx context.Context, ids []string) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id IN ?", ids).Delete(&variantRecord{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&productRecord{})
		removed = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func orderVariants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrSlugTaken
	}
	return err
}

func toRecord(p *domain.Product) productRecord {
	rec := productRecord{
		ID:             p.ID,
		Slug:           p.Slug,
		Name:           p.Name,
		Price:          p.Price,
		Discount:       p.Discount,
		Image:          p.Image,
		Images:         pq.StringArray(append([]string{}, p.Images...)),
		Description:    p.Description,
		Details:        pq.StringArray(append([]string{}, p.Details...)),
		Composition:    p.Composition,
		Care:           p.Care,
		Sizing:         p.Sizing,
		Sustainability: p.Sustainability,
		Category:       p.Category,
		IsFeatured:     p.IsFeatured,
		IsHidden:       p.IsHidden,
	}
	for i, v := range p.Variants {
		rec.Variants = append(rec.Variants, variantRecord{
			ID:        v.ID,
			ProductID: p.ID,
			Position:  i,
			Name:      v.Name,
			Slug:      v.Slug,
			Color:     v.Color,
		})
	}
	return rec
}

func (r productRecord) toProjection() *projection.Projection[*domain.Product] {
	product := &domain.Product{
		ID:             r.ID,
		Slug:           r.Slug,
		Name:           r.Name,
		Price:          r.Price,
		Discount:       r.Discount,
		Image:          r.Image,
		Images:         append([]string{}, r.Images...),
		Description:    r.Description,
		Details:        append([]string{}, r.Details...),
		Composition:    r.Composition,
		Care:           r.Care,
		Sizing:         r.Sizing,
		Sustainability: r.Sustainability,
		Category:       r.Category,
		IsFeatured:     r.IsFeatured,
		IsHidden:       r.IsHidden,
	}
	for _, v := range r.Variants {
		product.Variants = append(product.Variants, domain.Variant{ID: v.ID, Name: v.Name, Slug: v.Slug, Color: v.Color})
	}
	return &projection.Projection[*domain.Product]{
		Entity:   product,
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
