package payment

import (
	"context"
	"fmt"

	braintree "github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

// Result is the opaque outcome of a successful sale, persisted with the
// order.
type Result struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
}

// Gateway is the slice of the payment provider the checkout flow needs:
// a one-time client token and a sale submitted for immediate settlement.
// The process holds a single Gateway built once at startup.
type Gateway interface {
	ClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, amount decimal.Decimal, nonce string) (*Result, error)
}

type braintreeGateway struct {
	bt *braintree.Braintree
}

func NewBraintree(env, merchantID, publicKey, privateKey string) Gateway {
	environment := braintree.Sandbox
	if env == "production" {
		environment = braintree.Production
	}

	return &braintreeGateway{
		bt: braintree.New(environment, merchantID, publicKey, privateKey),
	}
}

func (g *braintreeGateway) ClientToken(ctx context.Context) (string, error) {
	token, err := g.bt.ClientToken().Generate(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate client token: %w", err)
	}
	return token, nil
}

func (g *braintreeGateway) Sale(ctx context.Context, amount decimal.Decimal, nonce string) (*Result, error) {
	tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             braintree.NewDecimal(amount.Round(2).Shift(2).IntPart(), 2),
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		TransactionID: tx.Id,
		Status:        string(tx.Status),
		Amount:        amount.StringFixed(2),
	}, nil
}
