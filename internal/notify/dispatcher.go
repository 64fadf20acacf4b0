// Package notify sends new-order notifications by email and SMS.
//
// Channel settings come from the settings snapshot handed over with every
// order, so edits in the admin settings take effect on the next order.
// A channel without credentials is skipped and the message is echoed to
// the log instead, which keeps local setups usable without an SMTP server.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/catalog/internal/config"
	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/logging"
)

// Setting keys read by the dispatcher.
const (
	KeyEnableEmail      = "enable_email"
	KeyEnableSMS        = "enable_sms"
	KeySMTPServer       = "smtp_server"
	KeySMTPPort         = "smtp_port"
	KeySMTPUsername     = "smtp_username"
	KeySMTPPassword     = "smtp_password"
	KeyNotifyEmail      = "notify_email"
	KeySMSGatewayURL    = "sms_gateway_url"
	KeySMSAccessKey     = "sms_access_key"
	KeySMSSecretKey     = "sms_secret_key"
	KeySMSSignName      = "sms_sign_name"
	KeySMSTemplateCode  = "sms_template_code"
	KeyNotifyPhone      = "notify_phone"
	defaultSMTPPort     = 587
	channelEmail        = "email"
	channelSMS          = "sms"
	reasonDisabled      = "disabled"
	reasonNotConfigured = "not configured"
)

// Dispatcher implements core.Notifier.
type Dispatcher struct {
	fallbackTo   string
	fallbackFrom string
	timeout      time.Duration

	send   MailSender
	client *http.Client
	now    func() time.Time
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithMailSender replaces the SMTP sender.
func WithMailSender(m MailSender) Option {
	return func(d *Dispatcher) { d.send = m }
}

// WithHTTPClient sets the client used for the SMS gateway.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

// NewDispatcher builds a dispatcher. cfg supplies the fallback addresses
// used when the settings leave them blank.
func NewDispatcher(cfg config.NotifyConfig, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		fallbackTo:   cfg.FallbackEmail,
		fallbackFrom: cfg.FallbackFrom,
		timeout:      cfg.Timeout,
		send:         SMTPSender{},
		client:       &http.Client{Timeout: cfg.Timeout},
		now:          time.Now,
	}
	if d.timeout <= 0 {
		d.timeout = core.DefaultNotifyTimeout
		d.client.Timeout = d.timeout
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch tries each channel in turn and reports one outcome per channel.
// Every channel gets its own timeout, so a hung SMTP server does not eat
// into the SMS budget.
func (d *Dispatcher) Dispatch(ctx context.Context, n core.OrderNotification) []core.DispatchOutcome {
	return []core.DispatchOutcome{
		d.dispatchEmail(ctx, n),
		d.dispatchSMS(ctx, n),
	}
}

func (d *Dispatcher) dispatchEmail(ctx context.Context, n core.OrderNotification) core.DispatchOutcome {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	log := logging.FromContext(ctx)
	out := core.DispatchOutcome{Channel: channelEmail}

	if !n.Settings.Bool(KeyEnableEmail, true) {
		out.Status, out.Reason = core.DispatchSkipped, reasonDisabled
		return out
	}

	msg := BuildEmail(n, d.fallbackFrom, d.fallbackTo)
	smtp := SMTPSettings{
		Host:     n.Settings.Get(KeySMTPServer, ""),
		Port:     n.Settings.Int(KeySMTPPort, defaultSMTPPort),
		Username: n.Settings.Get(KeySMTPUsername, ""),
		Password: n.Settings.Get(KeySMTPPassword, ""),
	}

	if smtp.Host == "" || smtp.Username == "" || smtp.Password == "" {
		log.Info("email not configured, echoing notification",
			slog.Int64("order_id", n.Order.ID),
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
			slog.String("body", msg.Body),
		)
		out.Status, out.Reason = core.DispatchSkipped, "smtp "+reasonNotConfigured
		return out
	}

	if err := d.send.Send(ctx, smtp, msg); err != nil {
		out.Status, out.Reason = core.DispatchFailed, err.Error()
		return out
	}
	out.Status = core.DispatchSent
	return out
}

func (d *Dispatcher) dispatchSMS(ctx context.Context, n core.OrderNotification) core.DispatchOutcome {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	log := logging.FromContext(ctx)
	out := core.DispatchOutcome{Channel: channelSMS}

	if !n.Settings.Bool(KeyEnableSMS, false) {
		out.Status, out.Reason = core.DispatchSkipped, reasonDisabled
		return out
	}

	req := BuildSMS(n)
	gw := GatewaySettings{
		URL:       n.Settings.Get(KeySMSGatewayURL, ""),
		AccessKey: n.Settings.Get(KeySMSAccessKey, ""),
		SecretKey: n.Settings.Get(KeySMSSecretKey, ""),
	}

	var missing []string
	for _, kv := range [][2]string{
		{KeySMSGatewayURL, gw.URL},
		{KeySMSAccessKey, gw.AccessKey},
		{KeySMSSecretKey, gw.SecretKey},
		{KeyNotifyPhone, req.PhoneNumbers},
		{KeySMSSignName, req.SignName},
		{KeySMSTemplateCode, req.TemplateCode},
	} {
		if kv[1] == "" {
			missing = append(missing, kv[0])
		}
	}
	if len(missing) > 0 {
		log.Info("sms not configured, echoing notification",
			slog.Int64("order_id", n.Order.ID),
			slog.Any("missing", missing),
			slog.Any("params", req.TemplateParam),
		)
		out.Status, out.Reason = core.DispatchSkipped, "sms "+reasonNotConfigured
		return out
	}

	if err := d.sendSMS(ctx, gw, req); err != nil {
		out.Status, out.Reason = core.DispatchFailed, err.Error()
		return out
	}
	out.Status = core.DispatchSent
	return out
}

// EmailMessage is a rendered notification email.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	Body    string
}

// BuildEmail renders the new-order email. The sender is the SMTP username
// and the recipient is notify_email, each falling back to the config.
func BuildEmail(n core.OrderNotification, fallbackFrom, fallbackTo string) EmailMessage {
	o, p := n.Order, n.Product

	notes := o.Notes
	if strings.TrimSpace(notes) == "" {
		notes = "无"
	}

	var b strings.Builder
	b.WriteString("新订单通知\n\n")
	fmt.Fprintf(&b, "订单号: %d\n", o.ID)
	fmt.Fprintf(&b, "产品名称: %s\n", p.Name)
	fmt.Fprintf(&b, "产品编号: %s\n", p.SKU)
	fmt.Fprintf(&b, "订购数量: %d\n", o.Quantity)
	fmt.Fprintf(&b, "单价: ¥%s\n", o.UnitPrice.StringFixed(2))
	fmt.Fprintf(&b, "总金额: ¥%s\n", o.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "客户姓名: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "联系电话: %s\n", o.CustomerPhone)
	fmt.Fprintf(&b, "下单时间: %s\n", o.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "备注: %s\n", notes)

	return EmailMessage{
		From:    n.Settings.Get(KeySMTPUsername, fallbackFrom),
		To:      n.Settings.Get(KeyNotifyEmail, fallbackTo),
		Subject: fmt.Sprintf("新订单通知 - %s x%d", p.Name, o.Quantity),
		Body:    b.String(),
	}
}
