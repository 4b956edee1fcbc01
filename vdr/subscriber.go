package vdr

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tr-sdv-sandbox/vdr-light/dds"
	"github.com/tr-sdv-sandbox/vdr-light/telemetry"
)

// subscriptionHistoryDepth bounds how far a slow readout may fall behind on
// any one topic before samples are dropped.
const subscriptionHistoryDepth = 100

// SubscriptionManager owns one reader per enabled telemetry topic and pumps
// each from its own goroutine: wait for data, then drain a batch through the
// registered handler while the loan is held. One goroutine per reader is a
// middleware constraint, not a choice: each reader waits on its private
// waitset and there is no multiplexed multi-reader wait.
type SubscriptionManager struct {
	log       *slog.Logger
	config    SubscriptionConfig
	waitPoll  time.Duration
	takeBatch int

	participant *dds.Participant
	pumps       []pump
	closers     []func()

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type pump interface {
	topic() string
	drain(ctx context.Context)
}

// NewSubscriptionManager references its participant; it never owns it.
func NewSubscriptionManager(
	participant *dds.Participant,
	config SubscriptionConfig,
	waitPoll time.Duration,
	takeBatch int,
	log *slog.Logger,
) *SubscriptionManager {
	return &SubscriptionManager{
		log:         log,
		config:      config,
		waitPoll:    waitPoll,
		takeBatch:   takeBatch,
		participant: participant,
	}
}

// subscribe creates the topic and reader for one telemetry stream and queues
// a pump for it. Disabled streams register nothing.
func subscribe[T any](
	m *SubscriptionManager,
	enabled bool,
	descriptor dds.Descriptor,
	topicName string,
	handler func(*T),
) error {
	if !enabled {
		m.log.Info("subscription disabled", "topic", topicName)
		return nil
	}

	qos, err := dds.ReliableStandard(subscriptionHistoryDepth)
	if err != nil {
		return err
	}
	topic, err := dds.NewTopic[T](m.participant, descriptor, topicName, qos)
	if err != nil {
		return err
	}
	reader, err := dds.NewReader(m.participant, topic, qos)
	if err != nil {
		topic.Close()
		return err
	}

	m.closers = append(m.closers, reader.Close, topic.Close)
	m.pumps = append(m.pumps, &readerPump[T]{
		manager: m,
		name:    topicName,
		reader:  reader,
		handler: handler,
	})
	return nil
}

func (m *SubscriptionManager) OnSignal(handler func(*telemetry.Signal)) error {
	return subscribe(m, m.config.VSSSignals, telemetry.SignalDesc, telemetry.TopicVSSSignals, handler)
}

func (m *SubscriptionManager) OnEvent(handler func(*telemetry.Event)) error {
	return subscribe(m, m.config.Events, telemetry.EventDesc, telemetry.TopicEvents, handler)
}

func (m *SubscriptionManager) OnGauge(handler func(*telemetry.Gauge)) error {
	return subscribe(m, m.config.Gauges, telemetry.GaugeDesc, telemetry.TopicGauges, handler)
}

func (m *SubscriptionManager) OnCounter(handler func(*telemetry.Counter)) error {
	return subscribe(m, m.config.Counters, telemetry.CounterDesc, telemetry.TopicCounters, handler)
}

func (m *SubscriptionManager) OnHistogram(handler func(*telemetry.Histogram)) error {
	return subscribe(m, m.config.Histograms, telemetry.HistogramDesc, telemetry.TopicHistograms, handler)
}

func (m *SubscriptionManager) OnLogEntry(handler func(*telemetry.LogEntry)) error {
	return subscribe(m, m.config.Logs, telemetry.LogEntryDesc, telemetry.TopicLogEntries, handler)
}

func (m *SubscriptionManager) OnScalarMeasurement(handler func(*telemetry.ScalarMeasurement)) error {
	return subscribe(m, m.config.ScalarMeasurements, telemetry.ScalarMeasurementDesc, telemetry.TopicScalarDiags, handler)
}

func (m *SubscriptionManager) OnVectorMeasurement(handler func(*telemetry.VectorMeasurement)) error {
	return subscribe(m, m.config.VectorMeasurements, telemetry.VectorMeasurementDesc, telemetry.TopicVectorDiags, handler)
}

// Start launches one pump goroutine per registered subscription.
func (m *SubscriptionManager) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	for _, p := range m.pumps {
		m.wg.Add(1)
		go func(p pump) {
			defer m.wg.Done()
			m.log.Info("subscription pump started", "topic", p.topic())
			p.drain(ctx)
			m.log.Info("subscription pump stopped", "topic", p.topic())
		}(p)
	}
	m.log.Info("subscription manager started", "subscriptions", len(m.pumps))
}

// Stop cancels the pumps, waits for them to park, then closes the readers
// and topics in reverse creation order.
func (m *SubscriptionManager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	for i := len(m.closers) - 1; i >= 0; i-- {
		m.closers[i]()
	}
	m.closers = nil
	m.log.Info("subscription manager stopped")
}

type readerPump[T any] struct {
	manager *SubscriptionManager
	name    string
	reader  *dds.Reader[T]
	handler func(*T)
}

func (p *readerPump[T]) topic() string { return p.name }

func (p *readerPump[T]) drain(ctx context.Context) {
	for ctx.Err() == nil {
		ready, err := p.reader.Wait(p.manager.waitPoll)
		if err != nil {
			p.manager.log.Error("wait failed", "topic", p.name, "err", err)
			select {
			case <-ctx.Done():
			case <-time.After(p.manager.waitPoll):
			}
			continue
		}
		if !ready {
			continue
		}
		if _, err := p.reader.TakeEach(p.handler, p.manager.takeBatch); err != nil {
			p.manager.log.Error("take failed", "topic", p.name, "err", err)
		}
	}
}
