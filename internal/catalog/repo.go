package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/enums"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/pagination"
)

// Repository exposes the catalog read side used by the cart engine: the
// variant → product → addon group → addon → addon variant graph.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LoadVariantLinkage(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]VariantLinkage, error)
	ListProductAddons(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Addon, *pagination.Cursor, error)
}

// AddonVariantDetail carries what the cart engine needs to build an addon line item.
type AddonVariantDetail struct {
	ID         uuid.UUID
	Title      string
	AddonTitle string
	Thumbnail  *string
	PriceSetID *uuid.UUID
}

// VariantLinkage is the allow-map entry for one product variant: the addon
// variants reachable from the variant's product through its linked groups.
type VariantLinkage struct {
	VariantID uuid.UUID
	ProductID uuid.UUID
	Title     string
	Thumbnail *string
	Allowed   map[uuid.UUID]AddonVariantDetail
}

// Allows reports whether the addon variant is attachable to this base variant.
func (v VariantLinkage) Allows(addonVariantID uuid.UUID) bool {
	_, ok := v.Allowed[addonVariantID]
	return ok
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// LoadVariantLinkage resolves the full addon graph for the given variants in
// two queries and flattens it into per-variant allow-maps. Variants that do
// not exist are simply absent from the result; callers decide whether that is
// an error.
func (r *repositoryImpl) LoadVariantLinkage(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]VariantLinkage, error) {
	linkage := make(map[uuid.UUID]VariantLinkage, len(variantIDs))
	if len(variantIDs) == 0 {
		return linkage, nil
	}

	var variants []models.ProductVariant
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id IN ?", variantIDs).
		Find(&variants).Error; err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return linkage, nil
	}

	productIDs := make([]uuid.UUID, 0, len(variants))
	seen := map[uuid.UUID]struct{}{}
	for _, variant := range variants {
		if _, ok := seen[variant.ProductID]; ok {
			continue
		}
		seen[variant.ProductID] = struct{}{}
		productIDs = append(productIDs, variant.ProductID)
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("AddonGroups.Addons", "status = ?", enums.AddonStatusPublished).
		Preload("AddonGroups.Addons.Variants").
		Where("id IN ?", productIDs).
		Find(&products).Error; err != nil {
		return nil, err
	}

	allowedByProduct := make(map[uuid.UUID]map[uuid.UUID]AddonVariantDetail, len(products))
	for _, product := range products {
		allowed := map[uuid.UUID]AddonVariantDetail{}
		for _, group := range product.AddonGroups {
			for _, addon := range group.Addons {
				for _, addonVariant := range addon.Variants {
					allowed[addonVariant.ID] = AddonVariantDetail{
						ID:         addonVariant.ID,
						Title:      addonVariant.Title,
						AddonTitle: addon.Title,
						Thumbnail:  addon.Thumbnail,
						PriceSetID: addonVariant.PriceSetID,
					}
				}
			}
		}
		allowedByProduct[product.ID] = allowed
	}

	for _, variant := range variants {
		entry := VariantLinkage{
			VariantID: variant.ID,
			ProductID: variant.ProductID,
			Title:     variant.Title,
			Allowed:   allowedByProduct[variant.ProductID],
		}
		if entry.Allowed == nil {
			entry.Allowed = map[uuid.UUID]AddonVariantDetail{}
		}
		if variant.Product != nil {
			entry.Thumbnail = variant.Product.Thumbnail
		}
		linkage[variant.ID] = entry
	}
	return linkage, nil
}

// ListProductAddons returns the published addons reachable from a product,
// cursor-paginated newest first.
func (r *repositoryImpl) ListProductAddons(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Addon, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Addon{}).
		Joins("JOIN addon_group_products agp ON agp.addon_group_id = addons.addon_group_id").
		Where("agp.product_id = ?", productID).
		Where("addons.status = ?", enums.AddonStatusPublished)
	if cursor != nil {
		query = query.Where("(addons.created_at, addons.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var addons []models.Addon
	if err := query.
		Preload("Variants").
		Order("addons.created_at DESC, addons.id DESC").
		Limit(limit).
		Find(&addons).Error; err != nil {
		return nil, nil, err
	}

	if len(addons) > normalized {
		next := addons[normalized]
		addons = addons[:normalized]
		return addons, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return addons, nil, nil
}
