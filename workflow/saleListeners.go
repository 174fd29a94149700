package workflow

import (
	"context"
	"encoding/json"

	"bitbucket.org/mmdatafocus/udhaar_pos/appctx"
	"bitbucket.org/mmdatafocus/udhaar_pos/config"
	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	"github.com/sirupsen/logrus"
)

const (
	SaleReferenceType = "Sale"
	SaleActionCreate  = "Create"
)

// LogSaleListener writes one info entry per completed sale.
type LogSaleListener struct {
	Logger *logrus.Logger
}

func (l LogSaleListener) OnSaleCompleted(ctx context.Context, sale models.Sale) error {
	logger := l.Logger
	if logger == nil {
		logger = config.GetLogger()
	}
	entry := logger.WithContext(ctx)
	if id, ok := appctx.CorrelationId(ctx); ok {
		entry = entry.WithField("correlation_id", id)
	}
	if terminal, ok := appctx.TerminalId(ctx); ok {
		entry = entry.WithField("terminal_id", terminal)
	}
	entry.WithFields(logrus.Fields{
		"module":       "workflow",
		"sale_id":      sale.ID,
		"customer_id":  sale.CustomerId,
		"payment_mode": sale.PaymentMode,
		"items":        sale.ItemCount(),
		"total":        sale.Total.StringFixed(2),
	}).Info("sale completed")
	return nil
}

// PublishFunc sends a message to a topic and returns the server message id.
type PublishFunc func(ctx context.Context, topic string, msg config.PubSubMessage) (string, error)

// PubSubSalePublisher pushes completed sales to a Pub/Sub topic as JSON.
type PubSubSalePublisher struct {
	Topic   string
	publish PublishFunc
	logger  *logrus.Logger
}

func NewPubSubSalePublisher(topic string) *PubSubSalePublisher {
	return &PubSubSalePublisher{Topic: topic, publish: config.PublishMessage, logger: config.GetLogger()}
}

func (p *PubSubSalePublisher) OnSaleCompleted(ctx context.Context, sale models.Sale) error {
	msg, err := toSaleMessage(ctx, sale)
	if err != nil {
		config.LogError(p.logger, "saleListeners.go", "PubSubSalePublisher", "Marshal sale", sale.ID, err)
		return err
	}
	serverId, err := p.publish(ctx, p.Topic, msg)
	if err != nil {
		config.LogError(p.logger, "saleListeners.go", "PubSubSalePublisher", "Publish sale", sale.ID, err)
		return err
	}
	p.logger.WithFields(logrus.Fields{
		"module":     "workflow",
		"sale_id":    sale.ID,
		"message_id": serverId,
	}).Debug("sale published")
	return nil
}

func toSaleMessage(ctx context.Context, sale models.Sale) (config.PubSubMessage, error) {
	body, err := json.Marshal(sale)
	if err != nil {
		return config.PubSubMessage{}, err
	}
	correlationId, ok := appctx.CorrelationId(ctx)
	if !ok {
		correlationId = sale.ID
	}
	return config.PubSubMessage{
		ID:                  sale.ID,
		TransactionDateTime: sale.CreatedAt,
		ReferenceId:         sale.ID,
		ReferenceType:       SaleReferenceType,
		Action:              SaleActionCreate,
		NewObj:              body,
		CorrelationId:       correlationId,
	}, nil
}
