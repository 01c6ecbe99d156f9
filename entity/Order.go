package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// totals go out as JSON numbers, the way the storefront sends them
	decimal.MarshalJSONWithoutQuotes = true
}

type Order struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `gorm:"index" json:"userId"`

	// joined from users at read time
	UserName  *string `gorm:"-" json:"userName"`
	UserEmail *string `gorm:"-" json:"userEmail"`

	// client-declared, stored as given
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	Status      OrderStatus     `gorm:"size:50;not null;index" json:"status"`

	DeliveryAddress string   `gorm:"not null" json:"deliveryAddress"`
	Latitude        *float64 `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude       *float64 `gorm:"type:decimal(11,8)" json:"longitude"`
	Phone           string   `gorm:"size:50;not null" json:"phone"`
	Notes           *string  `json:"notes"`
	PaymentMethod   string   `gorm:"size:50;not null" json:"paymentMethod"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// ItemsTotal is Σ quantity×price over the line items. It is informational;
// TotalAmount is never checked against it.
func (o *Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

// MenuItemIDs lists the distinct catalog ids referenced by the orders.
func MenuItemIDs(orders []Order) []uint {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0)
	for _, o := range orders {
		for _, it := range o.Items {
			if _, ok := seen[it.MenuItemID]; ok {
				continue
			}
			seen[it.MenuItemID] = struct{}{}
			ids = append(ids, it.MenuItemID)
		}
	}
	return ids
}
