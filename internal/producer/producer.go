// Package producer captures frames from a camera, samples them by a
// capture-rate stride, encodes sampled frames to JPEG and publishes them to
// the stream transport. Publishing is fire-and-forget: a dropped or failed
// frame never blocks or stops the capture loop.
package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"framewatch/internal/dao"
	"framewatch/pkg/log"
)

// FramePublisher publishes a serialized frame package. *nsq.Producer
// satisfies it.
type FramePublisher interface {
	Publish(topic string, body []byte) error
}

// ShouldSample reports whether the frame with the given sequence number is
// submitted to the transport. Sampling happens exactly when seq is a
// multiple of rate.
func ShouldSample(seq, rate int64) bool {
	return rate > 0 && seq%rate == 0
}

// BuildPackage assembles the transport unit for one encoded frame.
func BuildPackage(imageBytes []byte, seq int64, sessionId string, now time.Time) dao.FramePackage {
	return dao.FramePackage{
		CaptureTimestamp: float64(now.UTC().UnixMicro()) / 1e6,
		FrameSequence:    seq,
		SessionId:        sessionId,
		ImageBytes:       imageBytes,
	}
}

type encodeTask struct {
	frame gocv.Mat
	seq   int64
}

type Producer struct {
	conf      *Config
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	logger    *logrus.Entry
	publisher FramePublisher
	session   *SessionStore
	sessionId string
	nextSeq   int64
	tasks     chan encodeTask
}

func New(conf *Config, publisher FramePublisher) (*Producer, error) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := log.Component(ctx, "producer")

	session, err := NewSessionStore(conf.DataDir, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sessionId, lastSeq, err := session.Session()
	if err != nil {
		session.Close()
		cancel()
		return nil, fmt.Errorf("load capture session: %w", err)
	}

	return &Producer{
		conf:      conf,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger.WithField("session", sessionId),
		publisher: publisher,
		session:   session,
		sessionId: sessionId,
		nextSeq:   lastSeq + 1,
		tasks:     make(chan encodeTask, conf.EncoderWorkers),
	}, nil
}

func (p *Producer) Start() error {
	video, err := gocv.OpenVideoCapture(p.conf.Camera.Source)
	if err != nil {
		return fmt.Errorf("failed to open capture source %s: %w", p.conf.Camera.Source, err)
	}

	for i := 0; i < p.conf.EncoderWorkers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.encodeWorker()
		}()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.logger.Info("capture started")
		p.captureLoop(video)
		p.logger.Info("capture stopped")
	}()

	return nil
}

func (p *Producer) Stop() {
	p.cancel()
	p.wg.Wait()
	if err := p.session.Close(); err != nil {
		p.logger.WithError(err).Error("close session store")
	}
}

func (p *Producer) captureLoop(video *gocv.VideoCapture) {
	frame := gocv.NewMat()

	defer func() {
		frame.Close()
		video.Close()
		close(p.tasks)
	}()

	rate := int64(p.conf.Camera.CaptureRate)

	for {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		if ok := video.Read(&frame); !ok {
			p.logger.Warn("capture source closed")
			return
		}
		if frame.Empty() {
			continue
		}

		seq := p.nextSeq
		p.nextSeq++
		if !ShouldSample(seq, rate) {
			continue
		}

		// Hand the frame to a bounded encoder pool; drop instead of
		// blocking when every worker is busy.
		clone := frame.Clone()
		select {
		case p.tasks <- encodeTask{frame: clone, seq: seq}:
		default:
			p.logger.Warnf("frame %d dropped, encoder pool is full", seq)
			clone.Close()
		}
	}
}

func (p *Producer) encodeWorker() {
	for task := range p.tasks {
		p.encodeAndPublish(task.frame, task.seq)
		task.frame.Close()
	}
}

// encodeAndPublish converts one sampled frame to a frame package and
// publishes it. Every failure is logged and swallowed.
func (p *Producer) encodeAndPublish(frame gocv.Mat, seq int64) {
	if p.conf.Camera.Rotate != 0 {
		rotated := gocv.NewMat()
		gocv.Rotate(frame, &rotated, rotateFlag(p.conf.Camera.Rotate))
		defer rotated.Close()
		frame = rotated
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		p.logger.WithError(err).Errorf("failed to encode frame %d", seq)
		return
	}
	imageBytes := make([]byte, len(buf.GetBytes()))
	copy(imageBytes, buf.GetBytes())
	buf.Close()

	pkg := BuildPackage(imageBytes, seq, p.sessionId, time.Now())
	data, err := json.Marshal(pkg)
	if err != nil {
		p.logger.WithError(err).Errorf("failed to marshal frame %d", seq)
		return
	}

	if err := p.publisher.Publish(p.conf.NSQ.Topic, data); err != nil {
		p.logger.WithError(err).Errorf("failed to publish frame %d", seq)
		return
	}

	if err := p.session.SaveSequence(seq); err != nil {
		p.logger.WithError(err).Error("failed to save sequence")
	}
	p.logger.Debugf("published frame %d (%d bytes)", seq, len(imageBytes))
}

func rotateFlag(degrees int) gocv.RotateFlag {
	switch degrees {
	case 90:
		return gocv.Rotate90Clockwise
	case 180:
		return gocv.Rotate180Clockwise
	default:
		return gocv.Rotate90CounterClockwise
	}
}
