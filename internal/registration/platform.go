package registration

import "context"

// Permission reflects the browser-level notification permission state.
type Permission string

const (
	// PermissionDefault is the neutral "not yet asked" state; prompting is
	// allowed.
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Platform abstracts the browser surface the flow drives: push support
// detection, background worker registration and the permission prompt. A real
// front end implements this over the Notification and ServiceWorker APIs;
// tests supply fakes.
type Platform interface {
	// SupportsPush reports whether the platform has both the notification
	// and background-worker APIs.
	SupportsPush() bool

	// RegisterWorker registers the site-scoped background execution context.
	RegisterWorker(ctx context.Context) (Worker, error)

	// Permission returns the current permission without prompting.
	Permission() Permission

	// RequestPermission prompts the user and suspends until they respond.
	// Only called when Permission is PermissionDefault.
	RequestPermission(ctx context.Context) (Permission, error)
}

// Worker is a registered background execution context.
type Worker interface {
	// Ready suspends until the worker is active. No timeout is imposed here;
	// the caller bounds the wait through ctx.
	Ready(ctx context.Context) error

	// Token requests a device token from the push platform using the
	// published application server key.
	Token(ctx context.Context, vapidKey string) (string, error)

	// Unregister removes the background context. Best-effort.
	Unregister(ctx context.Context) error
}

// Registry is the flow's write access to the device registry.
type Registry interface {
	UpsertDeviceToken(ctx context.Context, ownerID, token string) error
	RemoveDeviceToken(ctx context.Context, ownerID string) error
}
