package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SmsSender delivers a message to an external channel. Treated as an
// external collaborator; implementations must not retain the message.
type SmsSender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender posts messages to the Twilio REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", t.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}

	log.Printf("[SMS] Message dispatched to %s", to)
	return nil
}

// LogSender writes messages to the process log instead of dispatching
// them. Used when no provider credentials are configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, body string) error {
	log.Printf("[SMS] (log-only) to=%s body=%q", to, body)
	return nil
}

// NewSmsSenderFromConfig picks the Twilio sender when credentials are
// present and the log-only sender otherwise.
func NewSmsSenderFromConfig() SmsSender {
	sid := viper.GetString("sms.account_sid")
	token := viper.GetString("sms.auth_token")
	from := viper.GetString("sms.from_number")
	if sid == "" || token == "" || from == "" {
		log.Println("[SMS] Provider not configured, OTP codes will be logged only")
		return LogSender{}
	}
	return NewTwilioSender(sid, token, from)
}
