package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Bill-Pill/sunglasses-io/errors"
	"github.com/Bill-Pill/sunglasses-io/events"
	"github.com/Bill-Pill/sunglasses-io/logger"
	"github.com/Bill-Pill/sunglasses-io/models"
	awspkg "github.com/Bill-Pill/sunglasses-io/pkg/aws"
	"github.com/Bill-Pill/sunglasses-io/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	MinQuantity = 1
	MaxQuantity = 30

	publishTimeout = 5 * time.Second
)

// CartService manages the cart of the user behind an access token.
type CartService interface {
	GetCart(ctx context.Context, token string) ([]models.CartItem, error)
	AddToCart(ctx context.Context, token string, req models.AddToCartRequest) (models.CartItem, error)
	AddToCartJSON(ctx context.Context, token string, body []byte) (models.CartItem, error)
	RemoveFromCart(ctx context.Context, token string, productID string) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, token string, productID string, quantity string) (models.CartItem, error)
}

type cartServiceImpl struct {
	sessions  SessionService
	carts     repository.CartRepository
	publisher events.Publisher
	metrics   MetricsRecorder
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewCartService(
	sessions SessionService,
	carts repository.CartRepository,
	publisher events.Publisher,
	metrics MetricsRecorder,
	logger *zap.Logger,
) CartService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &cartServiceImpl{
		sessions:  sessions,
		carts:     carts,
		publisher: publisher,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, token string) ([]models.CartItem, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.carts.Get(ctx, session.Username), nil
}

func (s *cartServiceImpl) AddToCart(ctx context.Context, token string, req models.AddToCartRequest) (models.CartItem, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return models.CartItem{}, err
	}
	return s.addToCart(ctx, session, req, req)
}

// AddToCartJSON authenticates the caller before looking at body, so a bad
// token always wins over a bad payload. Undecodable bodies are echoed back
// as InvalidProduct.
func (s *cartServiceImpl) AddToCartJSON(ctx context.Context, token string, body []byte) (models.CartItem, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return models.CartItem{}, err
	}

	echo := echoPayload(body)
	var req models.AddToCartRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return models.CartItem{}, apperrors.ErrInvalidProduct.WithPayload(echo).Wrap(err)
	}
	return s.addToCart(ctx, session, req, echo)
}

func (s *cartServiceImpl) addToCart(ctx context.Context, session models.Session, req models.AddToCartRequest, echo any) (models.CartItem, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return models.CartItem{}, apperrors.ErrInvalidProduct.WithPayload(echo)
	}

	var line models.CartItem
	cart, err := s.carts.Update(ctx, session.Username, func(items []models.CartItem) ([]models.CartItem, error) {
		if i := indexOf(items, req.ID); i >= 0 {
			if items[i].Quantity >= MaxQuantity {
				return nil, apperrors.ErrQuantityTooHigh
			}
			items[i].Quantity++
			line = items[i]
			return items, nil
		}
		line = req.ToCartItem()
		return append(items, line), nil
	})
	if err != nil {
		return models.CartItem{}, err
	}

	s.emit(ctx, models.EventCartItemAdded, session.Username, line.ID, line.Quantity, len(cart))
	return line, nil
}

func (s *cartServiceImpl) RemoveFromCart(ctx context.Context, token string, productID string) ([]models.CartItem, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.Update(ctx, session.Username, func(items []models.CartItem) ([]models.CartItem, error) {
		if indexOf(items, productID) < 0 {
			return nil, apperrors.ErrNotFound
		}
		kept := items[:0]
		for _, item := range items {
			if item.ID != productID {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, models.EventCartItemRemoved, session.Username, productID, 0, len(cart))
	return cart, nil
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, token string, productID string, quantity string) (models.CartItem, error) {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return models.CartItem{}, err
	}

	qty, err := ParseQuantity(quantity)
	if err != nil {
		return models.CartItem{}, err
	}

	var line models.CartItem
	cart, err := s.carts.Update(ctx, session.Username, func(items []models.CartItem) ([]models.CartItem, error) {
		i := indexOf(items, productID)
		if i < 0 {
			return nil, apperrors.ErrNotFound
		}
		items[i].Quantity = qty
		line = items[i]
		return items, nil
	})
	if err != nil {
		return models.CartItem{}, err
	}

	s.emit(ctx, models.EventCartQuantityUpdated, session.Username, productID, qty, len(cart))
	return line, nil
}

// ParseQuantity reads a quantity and checks it against [MinQuantity, MaxQuantity].
// Integral values written in float form ("2.0", "1e20") are treated like
// integers; anything with a fractional part is InvalidQuantity.
func ParseQuantity(raw string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	switch {
	case err != nil && !errors.Is(err, strconv.ErrRange):
		return 0, apperrors.ErrInvalidQuantity
	case err == nil && math.IsInf(f, 0), math.IsNaN(f), f != math.Trunc(f):
		return 0, apperrors.ErrInvalidQuantity
	case f < MinQuantity:
		return 0, apperrors.ErrQuantityTooLow
	case f > MaxQuantity:
		return 0, apperrors.ErrQuantityTooHigh
	}
	return int(f), nil
}

// echoPayload returns body as raw JSON when it is valid JSON, else as text.
func echoPayload(body []byte) any {
	if json.Valid(body) {
		return json.RawMessage(append([]byte(nil), body...))
	}
	return string(body)
}

func indexOf(items []models.CartItem, productID string) int {
	for i, item := range items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// emit publishes a cart event. Failures are logged and never surface to the caller.
func (s *cartServiceImpl) emit(ctx context.Context, name, username, productID string, quantity, cartSize int) {
	event := models.CartEvent{
		Event:     name,
		Username:  username,
		ProductID: productID,
		Quantity:  quantity,
		CartSize:  cartSize,
		Timestamp: time.Now().UTC(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		logger.For(ctx, s.logger).Warn("Failed to publish cart event",
			zap.String("event", name),
			zap.String("username", username),
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
	if err := s.metrics.RecordCount(pubCtx, awspkg.MetricCartMutations, map[string]string{"Event": name}); err != nil {
		s.logger.Warn("Failed to record cart metric", zap.Error(err))
	}
}
