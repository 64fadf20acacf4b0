package notify

// sms.go posts the new-order text to an HTTP SMS gateway.
//
// The gateway authenticates with an access key and an HMAC-SHA256 signature
// over "<unix timestamp>\n<body>" keyed with the secret key, sent in the
// X-Access-Key, X-Timestamp and X-Signature headers.

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/catalog/internal/core"
)

// GatewaySettings is the SMS gateway account read from the settings table.
type GatewaySettings struct {
	URL       string
	AccessKey string
	SecretKey string
}

// SMSRequest is the JSON body sent to the gateway.
type SMSRequest struct {
	PhoneNumbers  string            `json:"phone_numbers"`
	SignName      string            `json:"sign_name"`
	TemplateCode  string            `json:"template_code"`
	TemplateParam map[string]string `json:"template_param"`
}

// BuildSMS renders the gateway request for a new order.
func BuildSMS(n core.OrderNotification) SMSRequest {
	return SMSRequest{
		PhoneNumbers: n.Settings.Get(KeyNotifyPhone, ""),
		SignName:     n.Settings.Get(KeySMSSignName, ""),
		TemplateCode: n.Settings.Get(KeySMSTemplateCode, ""),
		TemplateParam: map[string]string{
			"product":  n.Product.Name,
			"quantity": strconv.Itoa(n.Order.Quantity),
			"customer": n.Order.CustomerName,
		},
	}
}

// Sign returns the hex HMAC-SHA256 of timestamp and body.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("\n"))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (d *Dispatcher) sendSMS(ctx context.Context, gw GatewaySettings, req SMSRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode sms request: %w", err)
	}

	ts := strconv.FormatInt(d.now().Unix(), 10)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, gw.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Access-Key", gw.AccessKey)
	httpReq.Header.Set("X-Timestamp", ts)
	httpReq.Header.Set("X-Signature", Sign(gw.SecretKey, ts, body))

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
