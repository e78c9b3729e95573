package messaging

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testAuthToken  = "secret-token"
	testWebhookURL = "https://shop.example.com/webhook/whatsapp"
)

func signedWebhookRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-Twilio-Signature", computeSignature(buildSignaturePayload(testWebhookURL, form), testAuthToken))
	return r
}

func inboundForm() url.Values {
	form := url.Values{}
	form.Set("MessageSid", "SM123")
	form.Set("AccountSid", "AC456")
	form.Set("From", "whatsapp:+5215550001")
	form.Set("To", "whatsapp:+5215559000")
	form.Set("Body", "hola")
	return form
}

func TestValidateTwilioSignature(t *testing.T) {
	r := signedWebhookRequest(t, inboundForm())
	require.True(t, ValidateTwilioSignature(r, testAuthToken, testWebhookURL))
}

func TestValidateTwilioSignatureRejectsTampering(t *testing.T) {
	sig := computeSignature(buildSignaturePayload(testWebhookURL, inboundForm()), testAuthToken)

	tampered := inboundForm()
	tampered.Set("Body", "otro mensaje")
	r := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(tampered.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-Twilio-Signature", sig)

	require.False(t, ValidateTwilioSignature(r, testAuthToken, testWebhookURL))
}

func TestValidateTwilioSignatureRequiresHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(inboundForm().Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.False(t, ValidateTwilioSignature(r, testAuthToken, testWebhookURL))
}

func TestParseWebhook(t *testing.T) {
	r := signedWebhookRequest(t, inboundForm())

	req, err := ParseWebhook(r)
	require.NoError(t, err)
	require.Equal(t, "SM123", req.MessageSid)
	require.Equal(t, "whatsapp:+5215550001", req.From)
	require.Equal(t, "hola", req.Body)
}

func TestStripChannelPrefix(t *testing.T) {
	require.Equal(t, "+5215550001", StripChannelPrefix("whatsapp:+5215550001"))
	require.Equal(t, "+5215550001", StripChannelPrefix("+5215550001"))
}
