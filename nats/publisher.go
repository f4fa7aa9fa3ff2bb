package nats

import (
	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/Degen-IO/pokerbackend/logging"
)

var natsLogger = logging.GetZeroLogger("nats::publisher", nil)

// Publisher broadcasts engine events to NATS. Each game's channel key
// ("<gameType>:<gameId>") is used verbatim as the subject, so existing
// subscribers keep working unchanged.
type Publisher struct {
	natsConn *natsgo.Conn
}

func NewPublisher(natsURL string) (*Publisher, error) {
	natsConn, err := natsgo.Connect(natsURL)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to NATS at %s", natsURL)
	}
	natsLogger.Info().Msgf("Connected to NATS at %s", natsURL)
	return &Publisher{natsConn: natsConn}, nil
}

// Publish marshals the payload and fires it at the channel. The caller
// treats this as fire-and-forget; a returned error is for logging.
func (p *Publisher) Publish(channelKey string, payload interface{}) error {
	data, err := jsoniter.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "unable to marshal payload")
	}
	if err := p.natsConn.Publish(channelKey, data); err != nil {
		return errors.Wrapf(err, "unable to publish to %s", channelKey)
	}
	return nil
}

func (p *Publisher) Close() {
	p.natsConn.Close()
}
