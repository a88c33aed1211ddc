package api

import (
	"context"

	"rendplus-backend/internal/model"
	"rendplus-backend/internal/notification"
	"rendplus-backend/internal/store"
)

// Dispatcher fans a notification event out to all registered admin devices.
type Dispatcher interface {
	Dispatch(ctx context.Context, event model.NotificationEvent) (notification.Result, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	dispatcher Dispatcher
	vapidKey   string
}

// NewHandler creates a new API handler. dispatcher may be nil when push
// credentials are not configured; notification endpoints then report the
// condition instead of dispatching.
func NewHandler(s store.Store, dispatcher Dispatcher, vapidKey string) *Handler {
	return &Handler{
		store:      s,
		dispatcher: dispatcher,
		vapidKey:   vapidKey,
	}
}
