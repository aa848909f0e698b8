package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type AWSSNSNotifier struct {
	client   *sns.Client
	topicARN string
}

func NewAWSSNSNotifier(region, topicARN string) (*AWSSNSNotifier, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSNSNotifier{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}, nil
}

func (a *AWSSNSNotifier) NotifyEscalation(ctx context.Context, event *EscalationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal escalation event: %w", err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(a.topicARN),
		Subject:  aws.String(fmt.Sprintf("Review %s escalated (%d reports)", event.ReviewID, event.ReportCount)),
		Message:  aws.String(string(payload)),
	}

	_, err = a.client.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish escalation notification: %w", err)
	}

	return nil
}
