package server

import (
	"fmt"
	"net/http"

	ordersdomain "github.com/ahmedooo1/nfeat/internal/orders/domain"
	receiptdomain "github.com/ahmedooo1/nfeat/internal/receipt/domain"
	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	TotalExclTax string                   `json:"total_price"`
	TaxAmount    string                   `json:"tva_amount"`
	TotalInclTax string                   `json:"total_price_with_tva"`
	Items        []receiptdomain.LineItem `json:"items"`
	PaymentRef   string                   `json:"payment_ref"`
}

// @Summary      Create Order
// @Description  Persist a paid order with its line-item snapshot
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body createOrderRequest true "Create Order Request"
// @Success      200  {object}  ordersdomain.Order
// @Router       /orders [post]
func (s *Server) CreateOrder(c *gin.Context) {
	userID, err := s.currentUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.orderSvc.Create(c.Request.Context(), ordersdomain.CreateRequest{
		UserID:       userID,
		TotalExclTax: req.TotalExclTax,
		TaxAmount:    req.TaxAmount,
		TotalInclTax: req.TotalInclTax,
		Items:        req.Items,
		PaymentRef:   req.PaymentRef,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// @Summary      Order Receipt
// @Description  Generate the PDF receipt or invoice for an order
// @Tags         orders
// @Produce      application/pdf
// @Param        id       path   string  true   "Order ID"
// @Param        variant  query  string  false  "receipt or invoice"
// @Success      200  {file}  byte
// @Router       /orders/{id}/receipt [get]
func (s *Server) OrderReceipt(c *gin.Context) {
	userID, err := s.currentUserID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !s.receiptLimiter.Allow(userID.String()) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	orderID, err := ordersdomain.ParseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ordersdomain.ErrInvalidOrderID)
		return
	}

	ctx := c.Request.Context()
	order, err := s.orderSvc.Get(ctx, orderID, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	items, err := s.orderSvc.LineItems(order)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	customer := s.receiptSvc.EnrichCustomer(ctx, receiptdomain.Customer{})
	variant := receiptdomain.ParseVariant(c.Query("variant"))

	handle, err := s.receiptSvc.GenerateReceipt(ctx, receiptdomain.BuildRequest{
		Totals: receiptdomain.OrderTotals{
			TotalExclTax: order.TotalExclTax,
			TaxAmount:    order.TaxAmount,
			TotalInclTax: order.TotalInclTax,
		},
		Items:      items,
		Customer:   customer,
		PaymentRef: order.PaymentRef,
		IssuedAt:   s.clock.Now(),
		Variant:    variant,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := handle.Bytes()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := "receipt.pdf"
	if variant == receiptdomain.VariantInvoice {
		filename = "invoice.pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, handle.ContentType(), data)
}
