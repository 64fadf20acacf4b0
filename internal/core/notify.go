package core

import (
	"context"
	"fmt"
)

// DispatchStatus is the outcome of one notification channel.
type DispatchStatus string

const (
	DispatchSent    DispatchStatus = "sent"
	DispatchSkipped DispatchStatus = "skipped"
	DispatchFailed  DispatchStatus = "failed"
)

// DispatchOutcome reports what happened on one channel. Reason is empty
// for DispatchSent.
type DispatchOutcome struct {
	Channel string         `json:"channel"`
	Status  DispatchStatus `json:"status"`
	Reason  string         `json:"reason,omitempty"`
}

func (o DispatchOutcome) String() string {
	if o.Reason == "" {
		return fmt.Sprintf("%s: %s", o.Channel, o.Status)
	}
	return fmt.Sprintf("%s: %s (%s)", o.Channel, o.Status, o.Reason)
}

// OrderNotification is what a notifier needs to announce a new order.
// Settings is read from the store right before dispatch.
type OrderNotification struct {
	Order    Order
	Product  Product
	Settings Settings
}

// Notifier announces committed orders. Failures are reported as outcomes;
// Dispatch never fails the order. ctx carries no deadline, so
// implementations bound each channel's network calls themselves.
type Notifier interface {
	Dispatch(ctx context.Context, n OrderNotification) []DispatchOutcome
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n OrderNotification) []DispatchOutcome

func (f NotifierFunc) Dispatch(ctx context.Context, n OrderNotification) []DispatchOutcome {
	return f(ctx, n)
}

type nopNotifier struct{}

func (nopNotifier) Dispatch(context.Context, OrderNotification) []DispatchOutcome {
	return nil
}
