// internal/notify/email.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	cerrors "loan-risk-advisor/internal/common/errors"
	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/models"
	"loan-risk-advisor/internal/risk/classify"
)

const highRiskSubject = "High risk loan application flagged"

// EmailSender is satisfied by the SES client wrapper.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// Notifier emails a summary when an assessment lands in the high tier.
type Notifier struct {
	sender    EmailSender
	from      string
	recipient string
	logger    logger.Logger
}

func NewNotifier(sender EmailSender, from, recipient string, log logger.Logger) *Notifier {
	return &Notifier{
		sender:    sender,
		from:      from,
		recipient: recipient,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// NotifyHighRisk sends the alert email for one high-tier verdict.
func (n *Notifier) NotifyHighRisk(ctx context.Context, input *models.ApplicationInput, percent float64, feedback []string) error {
	body := fmt.Sprintf(
		"A loan application was scored at %s%% default risk.\n\n"+
			"Loan amount: %.2f\nAnnual income: %.2f\nInterest rate: %.2f%%\nDTI: %.2f%%\n\nRisk factors:\n",
		classify.FormatPercent(percent),
		input.LoanAmount, input.AnnualIncome, input.InterestRate, input.DebtToIncomeRatio,
	)
	for _, item := range feedback {
		body += "- " + item + "\n"
	}

	_, err := n.sender.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.from),
		Destination: &types.Destination{
			ToAddresses: []string{n.recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(highRiskSubject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		n.logger.Error("high risk alert failed", map[string]interface{}{"error": err.Error()})
		return cerrors.NewNotificationSendFailedError(err)
	}

	n.logger.Info("high risk alert sent", map[string]interface{}{"recipient": n.recipient})
	return nil
}
