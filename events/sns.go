package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Bill-Pill/sunglasses-io/models"
	awspkg "github.com/Bill-Pill/sunglasses-io/pkg/aws"
)

// SNSPublisher publishes cart events as JSON messages to one SNS topic.
type SNSPublisher struct {
	client   awspkg.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client awspkg.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) Publish(ctx context.Context, event models.CartEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Event, err)
	}
	return p.client.Publish(ctx, p.topicArn, data)
}

func (p *SNSPublisher) Close() error { return nil }
