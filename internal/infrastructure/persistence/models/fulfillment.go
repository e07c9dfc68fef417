package models

import (
	"time"

	"github.com/erp/wms-connect/internal/domain/fulfillment"
)

// OrderSetModel is the persistence model for one local order's cached set of
// remote warehouse orders. The whole set lives in a single JSONB document so
// reads and writes stay one row.
type OrderSetModel struct {
	OrderID   int64     `gorm:"primaryKey;autoIncrement:false;column:order_id"`
	Document  string    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderSetModel) TableName() string {
	return "wms_order_sets"
}

// ToDomain decodes the persisted document into remote orders.
func (m *OrderSetModel) ToDomain() ([]fulfillment.RemoteOrder, error) {
	return fulfillment.DecodeOrderSet([]byte(m.Document))
}

// FromDomain encodes remote orders into the persistence model.
func (m *OrderSetModel) FromDomain(orderID int64, orders []fulfillment.RemoteOrder) error {
	data, err := fulfillment.EncodeOrderSet(orders)
	if err != nil {
		return err
	}
	m.OrderID = orderID
	m.Document = string(data)
	return nil
}

// OrderModel maps the host order system's orders table. The connector owns
// only the wms_status column; everything else is read-only host state.
type OrderModel struct {
	ID        int64            `gorm:"primaryKey"`
	Status    string           `gorm:"type:varchar(32);not null"`
	WMSStatus string           `gorm:"type:varchar(16);not null;default:'';column:wms_status;index"`
	PaidAt    *time.Time       `gorm:""`
	Trashed   bool             `gorm:"not null;default:false"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel maps one line of a host order.
type OrderItemModel struct {
	ID          int64  `gorm:"primaryKey"`
	OrderID     int64  `gorm:"not null;index"`
	SKU         string `gorm:"type:varchar(100);not null;default:''"`
	Name        string `gorm:"type:varchar(255);not null"`
	Quantity    int    `gorm:"not null"`
	Fulfillable bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderNoteModel maps the host order audit trail.
type OrderNoteModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   int64     `gorm:"not null;index"`
	Note      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderNoteModel) TableName() string {
	return "order_notes"
}

// ProductModel maps the host product catalog, read-only.
type ProductModel struct {
	ID   int64  `gorm:"primaryKey"`
	SKU  string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts an order row and its items to the domain read model.
// autoComplete carries the service-wide completion toggle.
func (m *OrderModel) ToDomain(autoComplete bool) fulfillment.LocalOrder {
	items := make([]fulfillment.LocalOrderItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, fulfillment.LocalOrderItem{
			SKU:         it.SKU,
			Name:        it.Name,
			Quantity:    it.Quantity,
			Fulfillable: it.Fulfillable,
		})
	}
	return fulfillment.LocalOrder{
		ID:           m.ID,
		Status:       m.Status,
		Trashed:      m.Trashed,
		Paid:         m.PaidAt != nil,
		Fulfillment:  fulfillment.FulfillmentStatus(m.WMSStatus),
		Items:        items,
		AutoComplete: autoComplete,
	}
}
