package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/infrastructure/persistence/models"
)

// GormOrderGateway implements OrderGateway against the host order system's
// tables. Only the wms_status column and order notes are written; order rows
// themselves belong to the host.
type GormOrderGateway struct {
	db           *gorm.DB
	autoComplete bool
}

// NewGormOrderGateway creates a new GormOrderGateway. autoComplete carries
// the service-wide toggle that allows completing fully shipped orders.
func NewGormOrderGateway(db *gorm.DB, autoComplete bool) *GormOrderGateway {
	return &GormOrderGateway{db: db, autoComplete: autoComplete}
}

// GetOrder loads a local order with its line items.
func (g *GormOrderGateway) GetOrder(ctx context.Context, orderID int64) (fulfillment.LocalOrder, error) {
	var model models.OrderModel
	if err := g.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fulfillment.LocalOrder{}, fmt.Errorf("%w: %d", fulfillment.ErrOrderNotFound, orderID)
		}
		return fulfillment.LocalOrder{}, err
	}
	return model.ToDomain(g.autoComplete), nil
}

// SetFulfillmentStatus writes the fulfillment lifecycle marker.
func (g *GormOrderGateway) SetFulfillmentStatus(ctx context.Context, orderID int64, status fulfillment.FulfillmentStatus) error {
	result := g.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update("wms_status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", fulfillment.ErrOrderNotFound, orderID)
	}
	return nil
}

// AddNote appends an audit note to the order.
func (g *GormOrderGateway) AddNote(ctx context.Context, orderID int64, note string) error {
	return g.db.WithContext(ctx).Create(&models.OrderNoteModel{
		OrderID: orderID,
		Note:    note,
	}).Error
}

// Complete transitions the order to completed and records the note.
func (g *GormOrderGateway) Complete(ctx context.Context, orderID int64, note string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ?", orderID).
			Update("status", "completed")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", fulfillment.ErrOrderNotFound, orderID)
		}
		return tx.Create(&models.OrderNoteModel{OrderID: orderID, Note: note}).Error
	})
}

// ListByFulfillmentStatus returns the IDs of all orders carrying the given
// fulfillment status, trashed ones included.
func (g *GormOrderGateway) ListByFulfillmentStatus(ctx context.Context, status fulfillment.FulfillmentStatus) ([]int64, error) {
	var ids []int64
	if err := g.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("wms_status = ?", string(status)).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormOrderGateway implements OrderGateway
var _ fulfillment.OrderGateway = (*GormOrderGateway)(nil)

// GormCatalog implements the Catalog port against the host product table.
type GormCatalog struct {
	db *gorm.DB
}

// NewGormCatalog creates a new GormCatalog
func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// ProductName resolves a SKU to its display name.
func (c *GormCatalog) ProductName(ctx context.Context, sku string) (string, error) {
	var product models.ProductModel
	if err := c.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("catalog: no product with sku %q", sku)
		}
		return "", err
	}
	return product.Name, nil
}

// Ensure GormCatalog implements Catalog
var _ fulfillment.Catalog = (*GormCatalog)(nil)
