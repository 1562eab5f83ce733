package sesinfra

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/go-marketing-api/internal/config"
)

// Mailer sends campaign emails through AWS SES.
type Mailer struct {
	client *ses.Client
	from   string
}

func NewMailer(cfg *config.Config) (*Mailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Mailer{client: ses.NewFromConfig(awsCfg), from: cfg.EmailFrom}, nil
}

// SendEmail delivers one HTML email and returns the SES message id.
func (m *Mailer) SendEmail(ctx context.Context, to, subject, html string) (string, error) {
	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(html)},
			},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}
