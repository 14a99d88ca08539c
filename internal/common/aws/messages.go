package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const (
	smsSenderIDAttribute = "AWS.SNS.SMS.SenderID"
	smsTypeAttribute     = "AWS.SNS.SMS.SMSType"
)

// EmailInput builds a UTF-8 SES message with a text part and, when html is
// non-empty, an HTML alternative.
func EmailInput(from, to, subject, text, html string) *ses.SendEmailInput {
	body := &sestypes.Body{
		Text: &sestypes.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
	}
	if html != "" {
		body.Html = &sestypes.Content{Data: aws.String(html), Charset: aws.String("UTF-8")}
	}

	return &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	}
}

// SMSInput builds a transactional SNS SMS publish request.
func SMSInput(phone, message, senderID string) *sns.PublishInput {
	attrs := map[string]snstypes.MessageAttributeValue{
		smsTypeAttribute: {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
	}
	if senderID != "" {
		attrs[smsSenderIDAttribute] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(senderID),
		}
	}

	return &sns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	}
}
