package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/vantagepay/checkout-gateway/internal/interfaces"
	"github.com/vantagepay/checkout-gateway/internal/models"
	"github.com/vantagepay/checkout-gateway/internal/telemetry"
)

// OrderLedger is the write side of the order record: append-only annotations,
// optional status transitions, and transaction metadata. Every appended note
// is also published as an order event.
type OrderLedger struct {
	orders      interfaces.OrderRepository
	kafkaWriter *kafka.Writer
}

func NewOrderLedger(orders interfaces.OrderRepository, kafkaWriter *kafka.Writer) *OrderLedger {
	return &OrderLedger{
		orders:      orders,
		kafkaWriter: kafkaWriter,
	}
}

// AppendNote appends one annotation to the order. targetStatus is empty for
// notes that carry no status transition. Notes for a single order must be
// appended in dispatch order; later notes depend on the status set by
// earlier ones.
func (l *OrderLedger) AppendNote(ctx context.Context, order *models.Order, noteType models.NoteType, body *models.PaymentResponse, targetStatus models.OrderStatus) error {
	note := &models.OrderNote{
		OrderID:      order.ID,
		NoteType:     noteType,
		TargetStatus: targetStatus,
	}
	if body != nil {
		note.RawStatus = body.Status
		note.TransactionID = body.ID
	}

	if err := l.orders.AppendNote(ctx, note); err != nil {
		return err
	}
	if targetStatus != "" {
		order.Status = targetStatus
	}

	l.publishEvent(ctx, note)

	telemetry.Logger.Info("order annotated",
		zap.String("order_id", order.ID),
		zap.String("note_type", string(noteType)),
		zap.String("target_status", string(targetStatus)),
	)
	return nil
}

// SetTransactionData records the processor transaction identifier from an
// authorization response onto the order.
func (l *OrderLedger) SetTransactionData(ctx context.Context, order *models.Order, body *models.PaymentResponse) error {
	if body == nil || body.ID == "" {
		return nil
	}
	if err := l.orders.SetTransactionID(ctx, order.ID, body.ID); err != nil {
		return err
	}
	order.TransactionID = body.ID
	return nil
}

// SetCaptureData records the settlement transaction identifier.
func (l *OrderLedger) SetCaptureData(ctx context.Context, order *models.Order, body *models.PaymentResponse) error {
	if body == nil || body.ID == "" {
		return nil
	}
	if err := l.orders.SetCaptureTransactionID(ctx, order.ID, body.ID); err != nil {
		return err
	}
	order.CaptureTransactionID = body.ID
	return nil
}

func (l *OrderLedger) publishEvent(ctx context.Context, note *models.OrderNote) {
	if l.kafkaWriter == nil {
		return
	}

	event := models.OrderEvent{
		OrderID:       note.OrderID,
		NoteType:      note.NoteType,
		RawStatus:     note.RawStatus,
		TransactionID: note.TransactionID,
		TargetStatus:  note.TargetStatus,
		Timestamp:     time.Now(),
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		telemetry.Logger.Error("Error encoding order event",
			zap.String("order_id", note.OrderID),
			zap.Error(err),
		)
		return
	}

	if err := l.kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(note.OrderID),
		Value: eventJSON,
	}); err != nil {
		telemetry.Logger.Error("Error publishing order event",
			zap.String("order_id", note.OrderID),
			zap.Error(err),
		)
	}
}
