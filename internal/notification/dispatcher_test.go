package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendplus-backend/internal/gateway"
	"rendplus-backend/internal/model"
	"rendplus-backend/internal/store"
)

// mockRegistry is a fixed snapshot of device registrations.
type mockRegistry struct {
	tokens []model.AdminDeviceToken
	err    error
}

func (m *mockRegistry) ListDeviceTokens(context.Context) ([]model.AdminDeviceToken, error) {
	return m.tokens, m.err
}

// mockCreds counts exchanges so tests can assert the gateway was or was not
// contacted.
type mockCreds struct {
	calls int
	err   error
}

func (m *mockCreds) Exchange(context.Context) (*gateway.AccessToken, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &gateway.AccessToken{Token: "bearer-test", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// mockSender records every message and fails the tokens listed in failFor.
type mockSender struct {
	mu      sync.Mutex
	sent    []*gateway.Message
	failFor map[string]bool
}

func (m *mockSender) Send(_ context.Context, bearer string, msg *gateway.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	if m.failFor[msg.Token] {
		return errors.New("gateway returned 404: UNREGISTERED")
	}
	return nil
}

func registrations(tokens ...string) []model.AdminDeviceToken {
	rows := make([]model.AdminDeviceToken, len(tokens))
	for i, t := range tokens {
		rows[i] = model.AdminDeviceToken{OwnerID: "admin-" + t, Token: t}
	}
	return rows
}

func TestDispatch_NoDevices(t *testing.T) {
	creds := &mockCreds{}
	sender := &mockSender{}
	d := NewDispatcher(&mockRegistry{}, creds, sender)

	result, err := d.Dispatch(context.Background(), model.NewTestEvent("op@rendplus.com"))
	require.NoError(t, err)
	assert.Equal(t, Result{Delivered: 0, Attempted: 0}, result)

	// "No one to notify" must not touch the gateway at all.
	assert.Equal(t, 0, creds.calls)
	assert.Empty(t, sender.sent)
}

func TestDispatch_AllSucceed(t *testing.T) {
	reg := &mockRegistry{tokens: registrations("tok-1", "tok-2", "tok-3")}
	sender := &mockSender{}
	d := NewDispatcher(reg, &mockCreds{}, sender)

	result, err := d.Dispatch(context.Background(), model.NewQuoteSubmissionEvent("Jane Doe", "jane@x.com"))
	require.NoError(t, err)
	assert.Equal(t, Result{Delivered: 3, Attempted: 3}, result)
	assert.Len(t, sender.sent, 3)
}

func TestDispatch_PartialFailureIsSuccess(t *testing.T) {
	reg := &mockRegistry{tokens: registrations("tok-1", "tok-stale", "tok-3")}
	sender := &mockSender{failFor: map[string]bool{"tok-stale": true}}
	d := NewDispatcher(reg, &mockCreds{}, sender)

	result, err := d.Dispatch(context.Background(), model.NewQuoteSubmissionEvent("Jane Doe", "jane@x.com"))
	require.NoError(t, err)
	assert.Equal(t, Result{Delivered: 2, Attempted: 3}, result)
}

func TestDispatch_AllFail(t *testing.T) {
	reg := &mockRegistry{tokens: registrations("tok-1", "tok-2")}
	sender := &mockSender{failFor: map[string]bool{"tok-1": true, "tok-2": true}}
	d := NewDispatcher(reg, &mockCreds{}, sender)

	result, err := d.Dispatch(context.Background(), model.NewQuoteSubmissionEvent("Jane Doe", "jane@x.com"))
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Equal(t, Result{Delivered: 0, Attempted: 2}, result)

	// The registry snapshot is never modified by failed sends; eviction of
	// dead tokens is not this component's job.
	tokens, listErr := reg.ListDeviceTokens(context.Background())
	require.NoError(t, listErr)
	assert.Len(t, tokens, 2)
}

func TestDispatch_RegistryFailure(t *testing.T) {
	reg := &mockRegistry{err: store.ErrRegistry}
	creds := &mockCreds{}
	d := NewDispatcher(reg, creds, &mockSender{})

	_, err := d.Dispatch(context.Background(), model.NewTestEvent("op@rendplus.com"))
	assert.ErrorIs(t, err, store.ErrRegistry)
	assert.Equal(t, 0, creds.calls)
}

func TestDispatch_CredentialFailure(t *testing.T) {
	reg := &mockRegistry{tokens: registrations("tok-1")}
	creds := &mockCreds{err: gateway.ErrCredentialExchange}
	sender := &mockSender{}
	d := NewDispatcher(reg, creds, sender)

	_, err := d.Dispatch(context.Background(), model.NewTestEvent("op@rendplus.com"))
	assert.ErrorIs(t, err, gateway.ErrCredentialExchange)
	assert.Empty(t, sender.sent)
}

func TestDispatch_QuoteSubmissionPayload(t *testing.T) {
	reg := &mockRegistry{tokens: registrations("tok-A1")}
	sender := &mockSender{}
	d := NewDispatcher(reg, &mockCreds{}, sender)

	result, err := d.Dispatch(context.Background(), model.NewQuoteSubmissionEvent("Jane Doe", "jane@x.com"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "tok-A1", msg.Token)
	assert.Equal(t, "🔔 New Quote Submission", msg.Title)
	assert.Contains(t, msg.Body, "Jane Doe")
	assert.Equal(t, "jane@x.com", msg.Data["userEmail"])
}
