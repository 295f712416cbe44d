package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop-service/internal/models"
)

type orderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepo{db: db}
}

// Create persists an order together with its line-item snapshot in one
// transaction. It is only called after the payment gateway reported a
// successful sale.
func (r *orderRepo) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if order == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrInvalidInput)
	}
	if order.BuyerID <= 0 {
		return fmt.Errorf("%w: buyer ID must be positive", ErrInvalidInput)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: order must have at least one item", ErrInvalidInput)
	}
	for _, item := range items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: product ID must be positive", ErrInvalidInput)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
		}
	}

	if order.Status == "" {
		order.Status = models.StatusNotProcessed
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `INSERT INTO orders (
		buyer_id,
		status,
		total,
		transaction_id,
		transaction_status,
		created_at
	) VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING order_id
	`

	order.CreatedAt = time.Now()

	err = tx.QueryRow(ctx, insert,
		order.BuyerID,
		order.Status,
		order.Total,
		order.TransactionID,
		order.TransactionStatus,
		order.CreatedAt,
	).Scan(&order.OrderID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: buyer does not exist", ErrNotFound)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	insertItem := `INSERT INTO order_items (order_id, product_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING order_item_id
	`

	for i := range items {
		items[i].OrderID = order.OrderID
		err = tx.QueryRow(ctx, insertItem,
			order.OrderID,
			items[i].ProductID,
			items[i].Name,
			items[i].Price,
			items[i].Quantity,
		).Scan(&items[i].OrderItemID)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.Items = items

	return nil
}

func (r *orderRepo) GetByBuyer(ctx context.Context, buyerID int) ([]models.Order, error) {
	if buyerID <= 0 {
		return nil, fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}

	return r.queryOrders(ctx, `WHERE o.buyer_id = $1`, buyerID)
}

func (r *orderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	return r.queryOrders(ctx, "")
}

func (r *orderRepo) queryOrders(ctx context.Context, where string, args ...any) ([]models.Order, error) {
	sql := `SELECT
	o.order_id,
	o.buyer_id,
	o.status,
	o.total,
	o.transaction_id,
	o.transaction_status,
	o.created_at,
	oi.order_item_id,
	oi.product_id,
	oi.name,
	oi.price,
	oi.quantity
	FROM orders o
	LEFT JOIN order_items oi ON o.order_id = oi.order_id
	` + where + `
	ORDER BY o.created_at DESC, o.order_id DESC, oi.order_item_id
	`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var (
			current     models.Order
			orderItemID pgtype.Int4
			productID   pgtype.Int4
			name        pgtype.Text
			price       pgtype.Float8
			quantity    pgtype.Int4
		)

		err := rows.Scan(
			&current.OrderID,
			&current.BuyerID,
			&current.Status,
			&current.Total,
			&current.TransactionID,
			&current.TransactionStatus,
			&current.CreatedAt,
			&orderItemID,
			&productID,
			&name,
			&price,
			&quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}

		if len(orders) == 0 || orders[len(orders)-1].OrderID != current.OrderID {
			orders = append(orders, current)
		}

		if orderItemID.Valid {
			last := &orders[len(orders)-1]
			last.Items = append(last.Items, models.OrderItem{
				OrderItemID: int(orderItemID.Int32),
				OrderID:     current.OrderID,
				ProductID:   int(productID.Int32),
				Name:        name.String,
				Price:       price.Float64,
				Quantity:    int(quantity.Int32),
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return orders, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int, status string) error {
	if id <= 0 {
		return fmt.Errorf("%w: ID must be positive", ErrInvalidInput)
	}
	if status == "" {
		return fmt.Errorf("%w: status cannot be empty", ErrInvalidInput)
	}
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: invalid status '%s'", ErrInvalidInput, status)
	}

	sql := `UPDATE orders
		SET status = $1
		WHERE order_id = $2
	`

	result, err := r.db.Exec(ctx, sql, status, id)
	if err != nil {
		return fmt.Errorf("failed to update order %d status: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
