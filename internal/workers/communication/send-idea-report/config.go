package sendideareport

import "time"

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	DefaultSubject = "Your business idea matches"
	// smsIdeaLimit keeps SMS reports to a couple of segments.
	smsIdeaLimit = 3
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	FromEmail    string
	Subject      string
	SMSEnabled   bool
	SenderID     string
}
