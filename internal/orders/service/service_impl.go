package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/ahmedooo1/nfeat/internal/orders/domain"
	receiptdomain "github.com/ahmedooo1/nfeat/internal/receipt/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("orders"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Order, error) {
	if len(req.Items) == 0 {
		return domain.Order{}, domain.ErrMissingItems
	}
	if strings.TrimSpace(req.PaymentRef) == "" {
		return domain.Order{}, domain.ErrMissingPayment
	}

	snapshot, err := json.Marshal(req.Items)
	if err != nil {
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:           s.genID.Generate(),
		UserID:       req.UserID,
		TotalExclTax: strings.TrimSpace(req.TotalExclTax),
		TaxAmount:    strings.TrimSpace(req.TaxAmount),
		TotalInclTax: strings.TrimSpace(req.TotalInclTax),
		Items:        datatypes.JSON(snapshot),
		PaymentRef:   strings.TrimSpace(req.PaymentRef),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", order.UserID.String()),
	)
	return order, nil
}

func (s *Service) Get(ctx context.Context, id, userID snowflake.ID) (domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).First(&order, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	return order, nil
}

func (s *Service) LineItems(order domain.Order) ([]receiptdomain.LineItem, error) {
	var items []receiptdomain.LineItem
	if err := json.Unmarshal(order.Items, &items); err != nil {
		return nil, domain.ErrInvalidSnapshot
	}
	return items, nil
}
