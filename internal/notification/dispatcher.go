package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"rendplus-backend/internal/gateway"
	"rendplus-backend/internal/metrics"
	"rendplus-backend/internal/model"
)

// ErrDelivery means a dispatch reached the gateway but no device accepted the
// message. Distinct from the "no devices registered" case, which is a normal
// zero-attempt outcome.
var ErrDelivery = errors.New("failed to deliver notification to any device")

// TokenLister is the dispatcher's read-only view of the device registry.
type TokenLister interface {
	ListDeviceTokens(ctx context.Context) ([]model.AdminDeviceToken, error)
}

// CredentialSource produces a fresh gateway bearer token.
type CredentialSource interface {
	Exchange(ctx context.Context) (*gateway.AccessToken, error)
}

// Result summarizes one dispatch.
type Result struct {
	Delivered int `json:"delivered"`
	Attempted int `json:"attempted"`
}

// Dispatcher fans one NotificationEvent out to every registered device.
type Dispatcher struct {
	registry TokenLister
	creds    CredentialSource
	sender   gateway.Sender
}

// NewDispatcher creates a dispatcher over the given registry, credential
// source and sender.
func NewDispatcher(registry TokenLister, creds CredentialSource, sender gateway.Sender) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		creds:    creds,
		sender:   sender,
	}
}

// Dispatch reads a snapshot of the registry, obtains a fresh credential, and
// submits one per-device send for every token in the snapshot. Sends run
// concurrently and all settle before Dispatch returns; one device failing
// never blocks another, and a stale token is left in the registry for its
// owner's next registration to replace.
//
// Partial success is success: the result carries the counts. Only a dispatch
// in which every send failed returns ErrDelivery.
func (d *Dispatcher) Dispatch(ctx context.Context, event model.NotificationEvent) (Result, error) {
	tokens, err := d.registry.ListDeviceTokens(ctx)
	if err != nil {
		metrics.DispatchesTotal.WithLabelValues("failed").Inc()
		return Result{}, fmt.Errorf("dispatch %s: %w", event.Kind, err)
	}

	if len(tokens) == 0 {
		// No one to notify. Not an error, and the gateway is never contacted.
		metrics.DispatchesTotal.WithLabelValues("empty").Inc()
		return Result{}, nil
	}

	bearer, err := d.creds.Exchange(ctx)
	if err != nil {
		metrics.DispatchesTotal.WithLabelValues("failed").Inc()
		return Result{}, fmt.Errorf("dispatch %s: %w", event.Kind, err)
	}

	var wg sync.WaitGroup
	outcomes := make(chan error, len(tokens))
	for _, t := range tokens {
		wg.Add(1)
		go func(reg model.AdminDeviceToken) {
			defer wg.Done()
			msg := &gateway.Message{
				Token: reg.Token,
				Title: event.Title,
				Body:  event.Body,
				Link:  event.TargetURL,
				Data:  event.Metadata,
			}
			if err := d.sender.Send(ctx, bearer.Token, msg); err != nil {
				log.Printf("dispatch %s: send to device of %s failed: %v", event.Kind, reg.OwnerID, err)
				outcomes <- err
				return
			}
			outcomes <- nil
		}(t)
	}
	wg.Wait()
	close(outcomes)

	result := Result{Attempted: len(tokens)}
	for err := range outcomes {
		if err == nil {
			result.Delivered++
			metrics.SendsTotal.WithLabelValues("ok").Inc()
		} else {
			metrics.SendsTotal.WithLabelValues("error").Inc()
		}
	}

	if result.Delivered == 0 {
		metrics.DispatchesTotal.WithLabelValues("failed").Inc()
		return result, fmt.Errorf("dispatch %s: %w", event.Kind, ErrDelivery)
	}

	metrics.DispatchesTotal.WithLabelValues("delivered").Inc()
	log.Printf("dispatch %s: delivered to %d of %d devices", event.Kind, result.Delivered, result.Attempted)
	return result, nil
}
