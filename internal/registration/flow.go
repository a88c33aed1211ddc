package registration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"rendplus-backend/internal/model"
)

var (
	// ErrUnsupportedPlatform means the browser lacks the notification or
	// background-worker APIs. Terminal.
	ErrUnsupportedPlatform = errors.New("platform does not support push notifications")

	// ErrPermissionDenied means the user declined the permission prompt (now
	// or in a prior session). Terminal: only a browser-level settings change
	// can clear it, so the flow never re-prompts.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrTokenUnavailable means the push platform returned no device token.
	// The caller may re-run the whole flow.
	ErrTokenUnavailable = errors.New("push platform returned no device token")

	// ErrNotRegistered guards operations that require a completed
	// registration.
	ErrNotRegistered = errors.New("notifications are not enabled")
)

// State is one step of the registration flow.
type State string

const (
	StateUnregistered      State = "unregistered"
	StateWorkerRegistering State = "worker_registering"
	StatePermissionPending State = "permission_pending"
	StatePermissionGranted State = "permission_granted"
	StatePermissionDenied  State = "permission_denied"
	StateTokenPending      State = "token_pending"
	StateRegistered        State = "registered"
	StateTokenFailed       State = "token_failed"
	StateUnsupported       State = "unsupported"
)

// EventRenderer displays a notification locally, without the gateway.
type EventRenderer interface {
	ShowEvent(event model.NotificationEvent)
}

// Flow is one browser session's registration state machine. Every call takes
// the owner's identity from the Flow, which was constructed with an explicit
// ownerID rather than reading ambient session state.
type Flow struct {
	platform Platform
	registry Registry
	renderer EventRenderer
	vapidKey string
	ownerID  string

	mu     sync.Mutex
	state  State
	token  string
	worker Worker
}

// NewFlow creates a registration flow for one authenticated administrator.
func NewFlow(platform Platform, registry Registry, renderer EventRenderer, vapidKey, ownerID string) *Flow {
	return &Flow{
		platform: platform,
		registry: registry,
		renderer: renderer,
		vapidKey: vapidKey,
		ownerID:  ownerID,
		state:    StateUnregistered,
	}
}

// State returns the flow's current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Token returns the device token obtained by the last successful Enable, or
// "" when unregistered.
func (f *Flow) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// Enable walks the full registration sequence: background worker, permission,
// device token, registry persistence.
//
// A registry persistence failure does NOT unwind the flow: the token was
// obtained and works locally for the rest of the session, so the flow ends
// Registered and the wrapped registry error is returned for the caller to
// surface as a warning. All other failures leave the flow in the terminal
// state named by the returned error.
func (f *Flow) Enable(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.platform.SupportsPush() {
		f.state = StateUnsupported
		return ErrUnsupportedPlatform
	}

	f.state = StateWorkerRegistering
	worker, err := f.platform.RegisterWorker(ctx)
	if err != nil {
		f.state = StateUnregistered
		return fmt.Errorf("register background worker: %w", err)
	}
	if err := worker.Ready(ctx); err != nil {
		f.state = StateUnregistered
		return fmt.Errorf("wait for background worker: %w", err)
	}
	f.worker = worker

	f.state = StatePermissionPending
	perm := f.platform.Permission()
	if perm == PermissionDefault {
		perm, err = f.platform.RequestPermission(ctx)
		if err != nil {
			f.state = StateUnregistered
			return fmt.Errorf("request permission: %w", err)
		}
	}
	if perm != PermissionGranted {
		f.state = StatePermissionDenied
		return ErrPermissionDenied
	}
	f.state = StatePermissionGranted

	f.state = StateTokenPending
	token, err := worker.Token(ctx, f.vapidKey)
	if err != nil {
		f.state = StateTokenFailed
		return fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	if token == "" {
		f.state = StateTokenFailed
		return ErrTokenUnavailable
	}

	f.token = token
	f.state = StateRegistered

	if err := f.registry.UpsertDeviceToken(ctx, f.ownerID, token); err != nil {
		// Deliberate asymmetry: the locally obtained token stays usable, so
		// the session remains enabled while the caller is told the backend
		// missed the registration.
		log.Printf("registration: token obtained but not persisted for %s: %v", f.ownerID, err)
		return err
	}
	return nil
}

// Disable removes the registration: registry row, local token, and the
// background worker (best-effort).
func (f *Flow) Disable(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.registry.RemoveDeviceToken(ctx, f.ownerID)

	if f.worker != nil {
		if uerr := f.worker.Unregister(ctx); uerr != nil {
			log.Printf("registration: background worker unregister failed: %v", uerr)
		}
		f.worker = nil
	}

	f.token = ""
	f.state = StateUnregistered
	return err
}

// SendTest renders a test notification locally, proving the session's
// rendering path without exercising the gateway or other devices.
func (f *Flow) SendTest(message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateRegistered {
		return ErrNotRegistered
	}

	f.renderer.ShowEvent(model.NotificationEvent{
		Kind:      model.EventTest,
		Title:     "🧪 Test Notification",
		Body:      message,
		TargetURL: "/",
	})
	return nil
}
