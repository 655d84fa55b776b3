package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rentkaro/rentkaro/internal/cart"
	"github.com/rentkaro/rentkaro/internal/catalog"
	"github.com/rentkaro/rentkaro/internal/order"
	"github.com/rentkaro/rentkaro/internal/payment"
)

var (
	ErrKycNotApproved = errors.New("kyc not approved")
	ErrStockDepleted  = errors.New("stock depleted")
)

type CartService interface {
	Get(ctx context.Context, buyerID string) (*cart.Cart, error)
	Clear(ctx context.Context, buyerID string) error
}

type StockReserver interface {
	Reserve(ctx context.Context, orderID string, lines []catalog.Line) (catalog.ReserveResult, error)
	Release(ctx context.Context, lines []catalog.Line) error
}

type KYCVerifier interface {
	Status(ctx context.Context, buyerID string) (string, error)
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
	PublishOrderConfirmed(ctx context.Context, o *order.Order) error
	PublishPaymentFailed(ctx context.Context, o *order.Order, reason string) error
}

// Service runs the checkout workflow: precondition checks, draft assembly,
// stock reservation, payment, order persistence, events, cart clearing.
// The cart is only cleared after the paid order row is committed; every
// failure before that leaves it untouched so the buyer can retry.
type Service struct {
	carts        CartService
	stock        StockReserver
	orders       order.Repository
	gateway      payment.Gateway
	kyc          KYCVerifier
	events       EventPublisher
	shippingFlat float64
	logger       *log.Logger
}

func NewService(carts CartService, stock StockReserver, orders order.Repository,
	gateway payment.Gateway, kyc KYCVerifier, events EventPublisher,
	shippingFlat float64, logger *log.Logger) *Service {
	return &Service{
		carts:        carts,
		stock:        stock,
		orders:       orders,
		gateway:      gateway,
		kyc:          kyc,
		events:       events,
		shippingFlat: shippingFlat,
		logger:       logger,
	}
}

func (s *Service) Checkout(ctx context.Context, buyerID string, contact order.Contact) (*order.Order, error) {
	c, err := s.carts.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	draft, err := order.BuildDraft(c, contact, s.shippingFlat)
	if err != nil {
		return nil, err
	}

	status, err := s.kyc.Status(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("kyc lookup: %w", err)
	}
	if status != "approved" {
		return nil, fmt.Errorf("buyer %s has kyc status %q: %w", buyerID, status, ErrKycNotApproved)
	}

	o := &order.Order{
		ID:             uuid.NewString(),
		BuyerID:        draft.BuyerID,
		Contact:        draft.Contact,
		Items:          draft.Items,
		ItemsTotal:     draft.ItemsTotal,
		ShippingAmount: draft.ShippingAmount,
		TotalAmount:    draft.TotalAmount,
		Status:         order.StatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	lines := reserveLines(draft)
	res, err := s.stock.Reserve(ctx, o.ID, lines)
	if err != nil {
		return nil, fmt.Errorf("reserve stock: %w", err)
	}
	if len(res.Depleted) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrStockDepleted, depletedSummary(res.Depleted))
	}

	if err := s.orders.Create(ctx, o); err != nil {
		s.release(ctx, lines)
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.events.PublishOrderCreated(ctx, o); err != nil {
		// checkout continues; downstream consumers catch up from the order store
		s.logger.Printf("publish order.created for %s: %v", o.ID, err)
	}

	result, err := s.gateway.Charge(ctx, payment.AmountPaise(o.TotalAmount), o.ID)
	if err != nil {
		s.failPayment(ctx, o, lines, "gateway unreachable")
		return nil, fmt.Errorf("charge: %w", err)
	}

	switch result.Outcome {
	case payment.OutcomeConfirmed:
		if err := s.gateway.Verify(ctx, result.Confirmation); err != nil {
			s.failPayment(ctx, o, lines, "signature verification failed")
			return nil, fmt.Errorf("verify payment: %w", err)
		}

		if err := s.orders.MarkPaid(ctx, o.ID, result.Confirmation.PaymentRef); err != nil {
			return nil, fmt.Errorf("mark paid: %w", err)
		}
		o.Status = order.StatusPaid
		o.PaymentRef = result.Confirmation.PaymentRef

		if err := s.events.PublishOrderConfirmed(ctx, o); err != nil {
			s.logger.Printf("publish order.confirmed for %s: %v", o.ID, err)
		}
		if err := s.orders.MarkConfirmed(ctx, o.ID); err != nil {
			s.logger.Printf("mark confirmed for %s: %v", o.ID, err)
		} else {
			o.Status = order.StatusConfirmed
		}

		if err := s.carts.Clear(ctx, buyerID); err != nil {
			s.logger.Printf("clear cart for %s: %v", buyerID, err)
		}
		return o, nil

	case payment.OutcomeCancelled:
		if err := s.orders.MarkCancelled(ctx, o.ID); err != nil {
			s.logger.Printf("mark cancelled for %s: %v", o.ID, err)
		}
		s.release(ctx, lines)
		o.Status = order.StatusCancelled
		return o, payment.ErrPaymentCancelled

	default:
		s.failPayment(ctx, o, lines, result.Reason)
		o.Status = order.StatusPaymentFailed
		o.FailureReason = result.Reason
		return o, fmt.Errorf("%w: %s", payment.ErrPaymentFailed, result.Reason)
	}
}

func (s *Service) failPayment(ctx context.Context, o *order.Order, lines []catalog.Line, reason string) {
	if err := s.orders.MarkPaymentFailed(ctx, o.ID, reason); err != nil {
		s.logger.Printf("mark payment failed for %s: %v", o.ID, err)
	}
	s.release(ctx, lines)
	if err := s.events.PublishPaymentFailed(ctx, o, reason); err != nil {
		s.logger.Printf("publish payment failed for %s: %v", o.ID, err)
	}
}

func (s *Service) release(ctx context.Context, lines []catalog.Line) {
	if err := s.stock.Release(ctx, lines); err != nil {
		s.logger.Printf("release stock: %v", err)
	}
}

func reserveLines(d order.Draft) []catalog.Line {
	lines := make([]catalog.Line, 0, len(d.Items))
	for _, it := range d.Items {
		lines = append(lines, catalog.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}

func depletedSummary(depleted []catalog.DepletedLine) string {
	s := ""
	for i, d := range depleted {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s (requested %d, available %d)", d.ProductID, d.Requested, d.Available)
	}
	return s
}
