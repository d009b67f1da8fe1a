package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/totalboostmarketing/reservation-system/internal/domain"
)

// writeBatchTimeout Publish вызывается на пути запроса, ждать полный батч нельзя
const writeBatchTimeout = 10 * time.Millisecond

// Config параметры издателя
type Config struct {
	Brokers string // через запятую
	Topic   string
	BaseURL string // база для ссылки отмены
}

// Publisher публикует события бронирований в Kafka.
// Без брокеров события только пишутся в лог.
type Publisher struct {
	writer  MessageWriter
	topic   string
	baseURL string
	now     func() time.Time
	metrics Metrics
	log     Logger
}

// NewPublisher создает издателя по конфигурации
func NewPublisher(cfg Config, log Logger) *Publisher {
	brokers := SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		log.Warn("notifications: no kafka brokers configured, events will be logged only")
		return NewPublisherWithWriter(nil, cfg.Topic, cfg.BaseURL, log)
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: writeBatchTimeout,
	})

	return NewPublisherWithWriter(writer, cfg.Topic, cfg.BaseURL, log)
}

// NewPublisherWithWriter создает издателя поверх готового writer (nil = только лог)
func NewPublisherWithWriter(writer MessageWriter, topic, baseURL string, log Logger) *Publisher {
	return &Publisher{
		writer:  writer,
		topic:   topic,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
		log:     log,
	}
}

// WithMetrics включает подсчет уведомлений по типу и результату
func (p *Publisher) WithMetrics(m Metrics) *Publisher {
	p.metrics = m
	return p
}

// Publish отправляет событие по бронированию. Ключ сообщения - ID бронирования,
// поэтому события одного бронирования попадают в одну партицию.
func (p *Publisher) Publish(ctx context.Context, eventType EventType, res *domain.Reservation) error {
	event := p.buildEvent(eventType, res)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrInternal, err)
	}

	if p.writer == nil {
		p.log.Info("notifications: %s reservation=%d email=%q (not sent, no broker)",
			eventType, res.ID, res.CustomerEmail)
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(res.ID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	err = p.writer.WriteMessages(ctx, msg)
	if p.metrics != nil {
		p.metrics.IncNotification(string(eventType), err)
	}
	if err != nil {
		p.log.Error("notifications: failed to publish %s for reservation=%d: %v", eventType, res.ID, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.log.Info("notifications: published %s for reservation=%d", eventType, res.ID)
	return nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) buildEvent(eventType EventType, res *domain.Reservation) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReservationID: res.ID,
		StoreID:       res.StoreID,
		MenuID:        res.MenuID,
		StaffID:       res.StaffID,
		Status:        string(res.Status),
		CustomerName:  res.CustomerName,
		CustomerEmail: res.CustomerEmail,
		CustomerPhone: res.CustomerPhone,
		Language:      res.Language,
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		FinalPrice:    res.FinalPrice,
		CancelURL:     p.CancelURL(res),
		OccurredAt:    p.now().UTC(),
	}
}

// CancelURL ссылка на страницу отмены: {base}/{lang}/reservation/{token}
func (p *Publisher) CancelURL(res *domain.Reservation) string {
	if p.baseURL == "" || res.CancelToken == "" {
		return ""
	}
	lang := res.Language
	if lang == "" {
		lang = "ja"
	}
	return fmt.Sprintf("%s/%s/reservation/%s", p.baseURL, lang, res.CancelToken)
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
