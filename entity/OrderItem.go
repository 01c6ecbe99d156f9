package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	OrderID    uint `gorm:"index;not null" json:"orderId"`
	MenuItemID uint `gorm:"not null" json:"menuItemId"`
	Quantity   int  `gorm:"not null" json:"quantity"`

	// price at order time, independent of later catalog changes
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	// resolved from the catalog on every read
	Name string `gorm:"-" json:"name"`

	CreatedAt time.Time `json:"createdAt"`
}

func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// PlaceholderName is shown for line items whose catalog entry is gone.
func PlaceholderName(menuItemID uint) string {
	return fmt.Sprintf("Product %d", menuItemID)
}
