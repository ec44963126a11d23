// Package processor consumes frame packages from the stream transport and
// runs each through label detection, watch-list evaluation, alerting and
// persistence. One record is processed at a time; a failed record is logged
// and abandoned without stopping the rest of the stream.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"

	"framewatch/internal/dao"
	"framewatch/internal/detect"
	"framewatch/internal/model"
	"framewatch/internal/notify"
	"framewatch/internal/storage"
	"framewatch/internal/watchlist"
	"framewatch/pkg/log"
)

const (
	detectTimeout  = 30 * time.Second
	persistTimeout = 30 * time.Second
)

type Processor struct {
	conf     *Config
	ctx      context.Context
	cancel   context.CancelFunc
	consumer *nsq.Consumer
	wg       sync.WaitGroup
	logger   *logrus.Entry

	detector detect.Detector
	store    storage.ObjectStore
	index    model.FrameIndex
	notifier notify.Notifier
	eval     *watchlist.Evaluator
	loc      *time.Location
	metrics  *Metrics

	processedCount int64
	abandonedCount int64
}

// New wires the processor with its collaborators. All handles are injected
// once here; nothing is constructed per record.
func New(conf *Config, loc *time.Location, detector detect.Detector, store storage.ObjectStore,
	index model.FrameIndex, notifier notify.Notifier, metrics *Metrics) (*Processor, error) {
	ctx, cancel := context.WithCancel(context.Background())

	logger := log.Component(ctx, "processor")

	config := nsq.NewConfig()
	config.MsgTimeout = time.Minute
	config.MaxInFlight = 10
	config.MaxAttempts = 2

	consumer, err := nsq.NewConsumer(conf.NSQ.Topic, conf.NSQ.Channel, config)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create NSQ consumer: %w", err)
	}

	p := &Processor{
		conf:     conf,
		ctx:      ctx,
		cancel:   cancel,
		consumer: consumer,
		logger:   logger,
		detector: detector,
		store:    store,
		index:    index,
		notifier: notifier,
		eval:     watchlist.NewEvaluator(&conf.WatchList),
		loc:      loc,
		metrics:  metrics,
	}

	// A single handler keeps record processing strictly sequential.
	consumer.AddHandler(p)

	return p, nil
}

// HandleMessage runs one stream record through the pipeline. Any failure
// abandons that record only: it is logged, finished and never requeued, so a
// poison record cannot stall the stream. Transport-level redelivery is
// bounded by MaxAttempts, outside this handler.
func (p *Processor) HandleMessage(message *nsq.Message) error {
	message.DisableAutoResponse()

	rec, err := p.process(p.ctx, message.Body)
	if err != nil {
		p.abandonedCount++
		p.logger.WithError(err).Error("abandoning frame record")
	} else {
		p.processedCount++
		p.logger.WithFields(logrus.Fields{
			"frameId":   rec.FrameId,
			"labels":    len(rec.Labels),
			"objectKey": rec.ObjectKey,
		}).Info("processed frame")
	}
	if (p.processedCount+p.abandonedCount)%100 == 0 {
		p.logger.Infof("processed %d records, abandoned %d", p.processedCount, p.abandonedCount)
	}

	message.Finish()
	return nil
}

// process is the per-record state machine:
// decode -> label -> evaluate -> alert -> persist image -> persist metadata.
func (p *Processor) process(ctx context.Context, body []byte) (*model.FrameRecord, error) {
	var pkg dao.FramePackage
	if err := json.Unmarshal(body, &pkg); err != nil {
		return nil, fmt.Errorf("decode frame package: %w", err)
	}
	if len(pkg.ImageBytes) == 0 {
		return nil, fmt.Errorf("decode frame package: empty image")
	}

	start := time.Now()

	detectCtx, cancel := context.WithTimeout(ctx, detectTimeout)
	detection, err := p.detector.DetectLabels(detectCtx, pkg.ImageBytes)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	matched := p.eval.Evaluate(detection.Labels)
	for _, label := range detection.Labels {
		p.logger.Debugf("%s .. conf %%%.2f", label.Name, label.Confidence)
	}

	if len(matched) > 0 && p.notifier.Configured() {
		captureTime := time.UnixMicro(int64(pkg.CaptureTimestamp * 1e6)).In(p.loc)
		message := watchlist.FormatAlert(matched, captureTime)
		p.notifier.Dispatch(ctx, message, matched)
	}

	now := time.Now()
	frameId := uuid.New().String()
	key := storage.FrameKey(p.conf.S3.KeyRoot, now.In(p.loc), frameId)

	// The object write always precedes the index write: an index entry a
	// reader observes must have a stored object behind it. A failure after
	// the object write leaves an orphaned object, an accepted cost.
	putCtx, cancel := context.WithTimeout(ctx, persistTimeout)
	err = p.store.PutFrame(putCtx, key, pkg.ImageBytes)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("store frame image: %w", err)
	}

	rec := &model.FrameRecord{
		FrameId:                frameId,
		ProcessedTimestamp:     model.TimeToTs(now),
		ApproxCaptureTimestamp: pkg.CaptureTimestamp,
		Labels:                 detection.Labels,
		OrientationCorrection:  detection.Orientation,
		ProcessedYearMonth:     model.YearMonth(now, p.loc),
		ObjectBucket:           p.store.Bucket(),
		ObjectKey:              key,
	}
	if err := p.index.Insert(rec); err != nil {
		return nil, fmt.Errorf("index frame record: %w", err)
	}

	p.metrics.RecordFrame(ctx, len(detection.Labels), len(matched), time.Since(start))

	return rec, nil
}

func (p *Processor) Start() error {
	p.logger.Info("starting frame processor...")

	if err := p.consumer.ConnectToNSQDs(p.conf.NSQ.NSQDAddrs); err != nil {
		return fmt.Errorf("failed to connect to NSQs: %w", err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		<-p.ctx.Done()
		p.consumer.Stop()
	}()

	return nil
}

func (p *Processor) Stop() {
	p.cancel()
	p.wg.Wait()
	p.metrics.Close()
}
