package service

import (
	"context"
	"time"

	"go-resupply-order/internal/model"
	"go-resupply-order/internal/orderform"
	"go-resupply-order/internal/repository"
	"go-resupply-order/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderWriteError carries the store's failure verbatim.
type OrderWriteError struct {
	Err error
}

func (e *OrderWriteError) Error() string {
	return "failed to save order: " + e.Err.Error()
}

func (e *OrderWriteError) Unwrap() error {
	return e.Err
}

// EventPublisher sends an order event to a broker queue.
type EventPublisher interface {
	PublishJSON(ctx context.Context, queue string, v any) error
}

type OrderFormService interface {
	Catalog(sessionID uuid.UUID) ([]model.Product, error)
	Snapshot(sessionID uuid.UUID) (orderform.Snapshot, error)
	Filter(sessionID uuid.UUID, query string) (orderform.Snapshot, error)
	SetQuantity(sessionID uuid.UUID, productID, value string) (orderform.Row, orderform.Totals, error)
	SetStock(sessionID uuid.UUID, productID, value string) (orderform.Row, error)
	Totals(sessionID uuid.UUID) (orderform.Totals, error)
	Submit(ctx context.Context, sessionID uuid.UUID, section string) (*SubmitResult, error)
}

type SubmitResult struct {
	Confirmation model.Confirmation
	Totals       orderform.Totals
}

type orderFormService struct {
	sessions   SessionService
	orderRepo  repository.OrderRepository
	wsHub      *ws.Hub
	publisher  EventPublisher
	orderQueue string
	log        *zap.Logger
	now        func() time.Time
}

// NewOrderFormService wires the submitter. hub and publisher may be nil.
func NewOrderFormService(sessions SessionService, orderRepo repository.OrderRepository, hub *ws.Hub, publisher EventPublisher, orderQueue string, log *zap.Logger) OrderFormService {
	return &orderFormService{
		sessions:   sessions,
		orderRepo:  orderRepo,
		wsHub:      hub,
		publisher:  publisher,
		orderQueue: orderQueue,
		log:        log,
		now:        time.Now,
	}
}

func (s *orderFormService) Catalog(sessionID uuid.UUID) ([]model.Product, error) {
	form, err := s.sessions.Form(sessionID)
	if err != nil {
		return nil, err
	}
	return form.Catalog(), nil
}

func (s *orderFormService) Snapshot(sessionID uuid.UUID) (orderform.Snapshot, error) {
	form, err := s.sessions.Form(sessionID)
	if err != nil {
		return orderform.Snapshot{}, err
	}
	return form.Snapshot(), nil
}

func (s *orderFormService) Filter(sessionID uuid.UUID, query string) (orderform.Snapshot, error) {
	form, err := s.sessions.Form(sessionID)
	if err != nil {
		return orderform.Snapshot{}, err
	}
	return form.Filter(query), nil
}

func (s *orderFormService) SetQuantity(sessionID uuid.UUID, productID, value string) (orderform.Row, orderform.Totals, error) {
	form, err := s.sessions.Form(sessionID)
	if err != nil {
		return orderform.Row{}, orderform.Totals{}, err
	}
	return form.SetQuantity(productID, value)
}

func (s *orderFormService) SetStock(sessionID uuid.UUID, productID, value string) (orderform.Row, error) {
	form, err := s.sessions.Form(sessionID)
	if err != nil {
		return orderform.Row{}, err
	}
	return form.SetStock(productID, value)
}

func (s *orderFormService) Totals(sessionID uuid.UUID) (orderform.Totals, error) {
	form, err := s.sessions.Form(sessionID)
	if err != nil {
		return orderform.Totals{}, err
	}
	return form.Totals(), nil
}

// Submit validates the form, appends one order document and, once the
// write succeeds, clears the quantities and fans the event out. A failed
// write leaves the form as it was.
func (s *orderFormService) Submit(ctx context.Context, sessionID uuid.UUID, section string) (*SubmitResult, error) {
	form, err := s.sessions.Form(sessionID)
	if err != nil {
		return nil, err
	}

	order, err := form.BeginSubmit(section, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		form.FinishSubmit(false)
		s.log.Error("order write failed",
			zap.String("session_id", sessionID.String()),
			zap.String("section", section),
			zap.Error(err))
		return nil, &OrderWriteError{Err: err}
	}
	totals := form.FinishSubmit(true)

	s.log.Info("order submitted",
		zap.String("order_id", order.ID),
		zap.String("section", order.Section),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)))

	event := order.SubmittedEvent()
	s.wsHub.Publish("order_submitted", event)
	if s.publisher != nil {
		if err := s.publisher.PublishJSON(ctx, s.orderQueue, event); err != nil {
			s.log.Warn("order event publish failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	return &SubmitResult{
		Confirmation: order.Confirmation(),
		Totals:       totals,
	}, nil
}
