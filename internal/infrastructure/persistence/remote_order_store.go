package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
	"github.com/erp/wms-connect/internal/infrastructure/persistence/models"
)

// GormRemoteOrderStore implements RemoteOrderStore using GORM, one JSONB
// document per local order.
type GormRemoteOrderStore struct {
	db *gorm.DB
}

// NewGormRemoteOrderStore creates a new GormRemoteOrderStore
func NewGormRemoteOrderStore(db *gorm.DB) *GormRemoteOrderStore {
	return &GormRemoteOrderStore{db: db}
}

// Load returns the cached remote orders for a local order. A missing row
// loads as an empty set.
func (r *GormRemoteOrderStore) Load(ctx context.Context, orderID int64) ([]fulfillment.RemoteOrder, error) {
	var model models.OrderSetModel
	if err := r.db.WithContext(ctx).First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save replaces the cached set for a local order. The serialized document is
// deterministic, so an unchanged set skips the write entirely.
func (r *GormRemoteOrderStore) Save(ctx context.Context, orderID int64, orders []fulfillment.RemoteOrder) error {
	var model models.OrderSetModel
	if err := model.FromDomain(orderID, orders); err != nil {
		return err
	}

	var existing models.OrderSetModel
	err := r.db.WithContext(ctx).First(&existing, "order_id = ?", orderID).Error
	if err == nil && existing.Document == model.Document {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(&model).Error
}

// Delete removes the cached set for a local order.
func (r *GormRemoteOrderStore) Delete(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.OrderSetModel{}, "order_id = ?", orderID).Error
}

// Ensure GormRemoteOrderStore implements RemoteOrderStore
var _ fulfillment.RemoteOrderStore = (*GormRemoteOrderStore)(nil)
