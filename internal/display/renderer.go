package display

import (
	"context"
	"encoding/json"
	"log"

	"rendplus-backend/internal/model"
)

// Default notification fields. The shared tag makes a new notification
// replace an unacknowledged earlier one instead of stacking on top of it.
const (
	DefaultIcon = "/favicon.ico"
	DefaultTag  = "rendplus-notification"

	fallbackTitle = "New Quote Submission"
	fallbackBody  = "You have a new quote submission to review"
)

// Action is one button offered on a displayed notification.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Options mirror the platform's show-notification options.
type Options struct {
	Body               string
	Icon               string
	Badge              string
	Tag                string
	RequireInteraction bool
	Data               map[string]string
	Actions            []Action
}

// Surface is the platform's notification display API, normally backed by the
// background execution context's registration.
type Surface interface {
	ShowNotification(title string, opts Options) error
}

// Option overrides one display field before the defaults are applied.
type Option func(*Options)

func WithIcon(icon string) Option { return func(o *Options) { o.Icon = icon } }

func WithBadge(badge string) Option { return func(o *Options) { o.Badge = badge } }

func WithTag(tag string) Option { return func(o *Options) { o.Tag = tag } }

func WithData(data map[string]string) Option { return func(o *Options) { o.Data = data } }

// Renderer displays system notifications with best-effort semantics: display
// is inherently unreliable across browsers and OSes, so a missing surface or
// a display error is logged and never surfaced to the triggering flow.
type Renderer struct {
	surface Surface
}

// NewRenderer creates a renderer over the given surface. A nil surface is
// legal; every Show becomes a logged no-op.
func NewRenderer(surface Surface) *Renderer {
	return &Renderer{surface: surface}
}

// Show displays a notification, with the default fields unless overridden.
func (r *Renderer) Show(title, body string, opts ...Option) {
	o := Options{Body: body}
	for _, opt := range opts {
		opt(&o)
	}
	r.show(title, o)
}

// ShowEvent displays a NotificationEvent, carrying its metadata for the click
// router and offering the open/dismiss actions.
func (r *Renderer) ShowEvent(ev model.NotificationEvent) {
	data := map[string]string{"url": ev.TargetURL}
	for k, v := range ev.Metadata {
		data[k] = v
	}
	r.show(ev.Title, Options{
		Body: ev.Body,
		Data: data,
		Actions: []Action{
			{Action: ActionOpen, Title: "Open App"},
			{Action: ActionDismiss, Title: "Dismiss"},
		},
	})
}

func (r *Renderer) show(title string, opts Options) {
	if r.surface == nil {
		log.Printf("display: no notification surface available, skipping %q", title)
		return
	}

	if opts.Icon == "" {
		opts.Icon = DefaultIcon
	}
	if opts.Badge == "" {
		opts.Badge = DefaultIcon
	}
	if opts.Tag == "" {
		opts.Tag = DefaultTag
	}
	opts.RequireInteraction = true

	if err := r.surface.ShowNotification(title, opts); err != nil {
		log.Printf("display: failed to show %q: %v", title, err)
	}
}

// pushPayload is the message shape delivered to the background context by the
// gateway.
type pushPayload struct {
	Notification struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	} `json:"notification"`
	Data map[string]string `json:"data"`
}

// HandlePush renders a message delivered while no page is open. It returns
// only after the show has settled, which is what keeps the background context
// alive for the duration of the handler.
func (r *Renderer) HandlePush(ctx context.Context, payload []byte) {
	var p pushPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			log.Printf("display: undecodable push payload: %v", err)
		}
	}

	title := p.Notification.Title
	if title == "" {
		title = fallbackTitle
	}
	body := p.Notification.Body
	if body == "" {
		body = fallbackBody
	}

	data := p.Data
	if data == nil {
		data = map[string]string{}
	}
	if data["url"] == "" {
		data["url"] = "/"
	}

	r.show(title, Options{
		Body: body,
		Data: data,
		Actions: []Action{
			{Action: ActionOpen, Title: "Open App"},
			{Action: ActionDismiss, Title: "Dismiss"},
		},
	})
}
