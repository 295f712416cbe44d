package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"shop-service/internal/models"
	"shop-service/internal/payment"
	"shop-service/internal/repository"
)

type CheckoutHandler struct {
	gateway  payment.Gateway
	products repository.ProductRepository
	orders   repository.OrderRepository
}

func NewCheckoutHandler(gateway payment.Gateway, products repository.ProductRepository, orders repository.OrderRepository) *CheckoutHandler {
	return &CheckoutHandler{gateway: gateway, products: products, orders: orders}
}

func (h *CheckoutHandler) Token(w http.ResponseWriter, r *http.Request) {
	token, err := h.gateway.ClientToken(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_failure", "failed to get payment token: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"clientToken": token,
	})
}

type cartItem struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"gte=0"`
	// Price is accepted for client compatibility but never trusted; the
	// charged amount comes from the catalog.
	Price float64 `json:"price"`
}

type paymentRequest struct {
	Cart  []cartItem `json:"cart" validate:"required,min=1,dive"`
	Nonce string     `json:"nonce" validate:"required"`
}

// Payment runs one checkout attempt: re-price the cart from the
// catalog, submit the sale, and persist an order only when the gateway
// reported success. A failed sale leaves no order behind; the client
// restarts with a fresh nonce.
func (h *CheckoutHandler) Payment(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authorization token required")
		return
	}

	var req paymentRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", validationMessage(err))
		return
	}

	// Line prices come from the catalog, never from the client, so a
	// tampered cart cannot change what is charged.
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Cart))

	for _, line := range req.Cart {
		quantity := line.Quantity
		if quantity == 0 {
			quantity = 1
		}

		product, err := h.products.GetByID(r.Context(), line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "invalid_input", "cart references an unknown product")
				return
			}
			writeRepoError(w, err, "failed to price cart")
			return
		}

		linePrice := decimal.NewFromFloat(product.Price)
		total = total.Add(linePrice.Mul(decimal.NewFromInt(int64(quantity))))

		items = append(items, models.OrderItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		})
	}

	result, err := h.gateway.Sale(r.Context(), total, req.Nonce)
	if err != nil {
		// No order exists for a failed transaction. The gateway's own
		// message rides along so the client can tell a declined card
		// from a processor outage.
		writeError(w, http.StatusPaymentRequired, "payment_failed", "payment was declined: "+err.Error())
		return
	}

	order := models.Order{
		BuyerID:           user.UserID,
		Status:            models.StatusNotProcessed,
		Total:             total.InexactFloat64(),
		TransactionID:     result.TransactionID,
		TransactionStatus: result.Status,
	}

	if err := h.orders.Create(r.Context(), &order, items); err != nil {
		// The charge went through but the order did not persist; this
		// needs operator attention, so keep the transaction id in the log.
		log.Printf("order persist failed after successful transaction %s: %v", result.TransactionID, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "payment succeeded but order could not be saved")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
