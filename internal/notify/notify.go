// Package notify sends watch-list alerts to the configured channels: an SMS
// phone number, an NSQ alert topic, both, or neither. Channel failures are
// logged and never propagated; the two channels are independent.
package notify

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"framewatch/internal/config"
	"framewatch/internal/dao"
)

// Notifier is the alert-dispatch surface the processor and server depend on.
type Notifier interface {
	Configured() bool
	Dispatch(ctx context.Context, message string, labels []dao.DetectedLabel)
}

// TopicPublisher publishes a message body to a topic. *nsq.Producer
// satisfies it.
type TopicPublisher interface {
	Publish(topic string, body []byte) error
}

type Dispatcher struct {
	phone     string
	topic     string
	sms       *SMSClient
	publisher TopicPublisher
	logger    *logrus.Entry
}

// NewDispatcher wires the configured channels. A channel with no
// configuration is simply never attempted; a Dispatcher with no channels is
// a valid no-op.
func NewDispatcher(conf *config.WatchListConfig, publisher TopicPublisher, logger *logrus.Entry) *Dispatcher {
	d := &Dispatcher{
		phone:  conf.NotifyPhone,
		topic:  conf.NotifyTopic,
		logger: logger.WithField("component", "notify"),
	}
	if conf.NotifyPhone != "" && conf.SMSEndpoint != "" {
		d.sms = NewSMSClient(conf.SMSEndpoint, conf.SMSToken)
	}
	if conf.NotifyTopic != "" {
		d.publisher = publisher
	}
	return d
}

func (d *Dispatcher) Configured() bool {
	return d.sms != nil || (d.topic != "" && d.publisher != nil)
}

// Dispatch sends the message to every configured channel. Failure on one
// channel does not suppress the attempt on the other; callers never branch
// on dispatch outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, message string, labels []dao.DetectedLabel) {
	if d.sms != nil {
		if err := d.sms.Send(ctx, d.phone, message); err != nil {
			d.logger.WithError(err).Errorf("failed to send alert sms to %s", d.phone)
		} else {
			d.logger.Infof("sent alert sms to %s", d.phone)
		}
	}

	if d.topic != "" && d.publisher != nil {
		payload, err := json.Marshal(dao.AlertPayload{
			Message: message,
			Labels:  labels,
		})
		if err != nil {
			d.logger.WithError(err).Error("failed to marshal alert payload")
			return
		}
		if err := d.publisher.Publish(d.topic, payload); err != nil {
			d.logger.WithError(err).Errorf("failed to publish alert to topic %s", d.topic)
		} else {
			d.logger.Infof("published alert to topic %s", d.topic)
		}
	}
}
