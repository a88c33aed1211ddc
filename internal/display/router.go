package display

import (
	"context"
	"log"
)

// Notification action identifiers.
const (
	ActionOpen    = "open"
	ActionDismiss = "dismiss"
)

// Client is an open application window.
type Client interface {
	URL() string
	Focus(ctx context.Context) error
}

// ClientList enumerates and opens application windows.
type ClientList interface {
	MatchAll(ctx context.Context) ([]Client, error)
	OpenWindow(ctx context.Context, url string) (Client, error)
}

// ClickEvent describes a tap on a displayed notification.
type ClickEvent struct {
	// Action is empty for a tap on the notification body.
	Action string

	// TargetURL comes from the notification's data; empty means the site
	// root.
	TargetURL string

	// Close dismisses the displayed notification.
	Close func()
}

// Router reacts to notification clicks. Like the renderer it is best-effort:
// a focus or open failure is logged and the click is still consumed.
type Router struct {
	clients ClientList
}

func NewRouter(clients ClientList) *Router {
	return &Router{clients: clients}
}

// HandleClick closes the notification, then either stops (dismiss) or brings
// the app to the foreground, preferring an already-open window whose URL
// matches the target over opening a new one.
func (r *Router) HandleClick(ctx context.Context, ev ClickEvent) {
	if ev.Close != nil {
		ev.Close()
	}

	if ev.Action == ActionDismiss {
		return
	}

	target := ev.TargetURL
	if target == "" {
		target = "/"
	}

	if r.clients == nil {
		log.Printf("display: no client list available for click on %q", target)
		return
	}

	open, err := r.clients.MatchAll(ctx)
	if err != nil {
		log.Printf("display: listing windows: %v", err)
	}
	for _, c := range open {
		if c.URL() == target {
			if err := c.Focus(ctx); err != nil {
				log.Printf("display: focusing %q: %v", target, err)
			}
			return
		}
	}

	if _, err := r.clients.OpenWindow(ctx, target); err != nil {
		log.Printf("display: opening %q: %v", target, err)
	}
}
