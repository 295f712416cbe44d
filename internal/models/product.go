package models

import "time"

const (
	RoleStandard = 0
	RoleAdmin    = 1
)

// Order statuses. Only administrators move an order out of
// StatusNotProcessed.
const (
	StatusNotProcessed = "not-processed"
	StatusProcessing   = "processing"
	StatusShipped      = "shipped"
	StatusDelivered    = "delivered"
	StatusCancelled    = "cancelled"
)

type User struct {
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      int       `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	CategoryID int    `json:"category_id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
}

type Product struct {
	ProductID   int       `json:"product_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  int       `json:"category_id"`
	Quantity    int       `json:"quantity"`
	Shipping    bool      `json:"shipping"`
	Photo       []byte    `json:"-"`
	PhotoType   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Order struct {
	OrderID           int         `json:"order_id"`
	BuyerID           int         `json:"buyer_id"`
	Status            string      `json:"status"`
	Total             float64     `json:"total"`
	TransactionID     string      `json:"transaction_id"`
	TransactionStatus string      `json:"transaction_status"`
	Items             []OrderItem `json:"products"`
	CreatedAt         time.Time   `json:"created_at"`
}

// OrderItem is a snapshot of one cart line at purchase time. Price is
// the catalog price that was charged, not whatever the client sent.
type OrderItem struct {
	OrderItemID int     `json:"order_item_id"`
	OrderID     int     `json:"order_id"`
	ProductID   int     `json:"product_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// ValidStatus reports whether s is one of the enumerated order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotProcessed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
