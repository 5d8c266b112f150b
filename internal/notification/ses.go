package notification

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	id "invoicer/pkg/domain"
)

// SESConfig holds the credentials and sender identity for the SES notifier.
type SESConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	Sender    string
}

// sesAPI is the slice of the SES v2 client the notifier uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESNotifier delivers invoice notifications through AWS SES v2.
type SESNotifier struct {
	client sesAPI
	sender string
}

// NewSESNotifier creates an SES v2 client from static credentials.
func NewSESNotifier(ctx context.Context, cfg SESConfig) (*SESNotifier, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESNotifier{
		client: sesv2.NewFromConfig(awsCfg),
		sender: cfg.Sender,
	}, nil
}

func (n *SESNotifier) Send(ctx context.Context, resourceID id.InvoiceID, toEmail, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("sending email for invoice %s: %w", resourceID.String(), err)
	}
	return nil
}
