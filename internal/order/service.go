package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/agrilink/internal/token"
)

// tokenAttempts is the first insert plus one retry after a token collision.
const tokenAttempts = 2

// MaxQty bounds an item quantity to the INTEGER order_items.qty column.
const MaxQty = math.MaxInt32

type Service struct {
	repo     Repository
	newToken func() string
	now      func() time.Time
}

type Option func(*Service)

// WithTokenSource replaces token.New, mainly for tests.
func WithTokenSource(fn func() string) Option { return func(s *Service) { s.newToken = fn } }

func WithClock(fn func() time.Time) Option { return func(s *Service) { s.now = fn } }

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newToken: token.New, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Validate checks the request without touching storage.
func Validate(req CreateOrderRequest) error {
	verr := &ValidationError{}
	if len(req.Items) == 0 {
		verr.add("items", "must contain at least one item")
	}
	for i, it := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(it.ProductID) == "" {
			verr.add(field+".productId", "is required")
		}
		switch {
		case it.Qty == nil:
			verr.add(field+".qty", "is required")
		case *it.Qty <= 0:
			verr.add(field+".qty", "must be a positive integer, got %d", *it.Qty)
		case *it.Qty > MaxQty:
			verr.add(field+".qty", "must be at most %d, got %d", MaxQty, *it.Qty)
		}
		switch {
		case it.Price == nil:
			verr.add(field+".price", "is required")
		case *it.Price < 0:
			verr.add(field+".price", "must be non-negative, got %d", *it.Price)
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Create validates req, assigns a token and persists the order with its
// items in one unit. On a token collision it draws a new token and tries
// once more before giving up with a StorageError.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	o := &Order{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
		Items:     make([]Item, 0, len(req.Items)),
	}
	if req.PickupPoint != nil && strings.TrimSpace(*req.PickupPoint) != "" {
		pp := strings.TrimSpace(*req.PickupPoint)
		o.PickupPoint = &pp
	}
	for _, it := range req.Items {
		o.Items = append(o.Items, Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: it.ProductID,
			Qty:       *it.Qty,
			Price:     *it.Price,
		})
	}

	var err error
	for attempt := 1; attempt <= tokenAttempts; attempt++ {
		o.Token = s.newToken()
		err = s.repo.Create(ctx, o)
		if err == nil {
			log.WithFields(log.Fields{"order_id": o.ID, "token": o.Token, "items": len(o.Items)}).Info("order created")
			return o, nil
		}
		if !errors.Is(err, ErrTokenTaken) {
			break
		}
		log.WithFields(log.Fields{"order_id": o.ID, "token": o.Token, "attempt": attempt}).Warn("order token collision")
	}
	log.WithError(err).WithField("order_id", o.ID).Error("create order failed")
	return nil, &StorageError{Op: "create order", Err: err}
}

func (s *Service) Get(ctx context.Context, tok string) (*Order, error) {
	o, err := s.repo.GetByToken(ctx, tok)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get order", Err: err}
	}
	return o, nil
}
