package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	receiptdomain "github.com/ahmedooo1/nfeat/internal/receipt/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Order is a paid order as persisted at checkout time. Totals are stored as
// text exactly as received from the payment flow; the receipt builder is the
// component that decides whether they parse.
type Order struct {
	ID           snowflake.ID   `gorm:"primaryKey"`
	UserID       snowflake.ID   `gorm:"not null;index"`
	TotalExclTax string         `gorm:"type:text;not null"`
	TaxAmount    string         `gorm:"type:text;not null"`
	TotalInclTax string         `gorm:"type:text;not null"`
	Items        datatypes.JSON `gorm:"type:jsonb;not null"`
	PaymentRef   string         `gorm:"type:text;not null"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

type CreateRequest struct {
	UserID       snowflake.ID
	TotalExclTax string
	TaxAmount    string
	TotalInclTax string
	Items        []receiptdomain.LineItem
	PaymentRef   string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Order, error)
	// Get returns the order only when it belongs to the given user.
	Get(ctx context.Context, id, userID snowflake.ID) (Order, error)
	// LineItems decodes the stored item snapshot.
	LineItems(order Order) ([]receiptdomain.LineItem, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrOrderNotFound   = errors.New("order_not_found")
	ErrInvalidOrderID  = errors.New("invalid_order_id")
	ErrMissingItems    = errors.New("missing_items")
	ErrMissingPayment  = errors.New("missing_payment_reference")
	ErrInvalidSnapshot = errors.New("invalid_item_snapshot")
)
