package contact

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EmmanuelR15/portfolio/internal/config"
	"github.com/EmmanuelR15/portfolio/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return NewStore(d)
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := NewMessage(Fields{" Ana ", "ana@example.com", "Hola"}, "abc123")
	require.NoError(t, s.Save(ctx, m))

	r, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", r.Name)
	assert.Equal(t, DeliveryPending, r.Status)
	assert.Nil(t, r.DeliveredAt)
	assert.Equal(t, m.CreatedAt.Unix(), r.CreatedAt.Unix())

	require.NoError(t, s.MarkDelivered(ctx, m.ID))
	r, err = s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, DeliveryDelivered, r.Status)
	require.NotNil(t, r.DeliveredAt)

	other := NewMessage(Fields{"Bo", "bo@example.com", "Hi"}, "")
	require.NoError(t, s.Save(ctx, other))
	require.NoError(t, s.MarkFailed(ctx, other.ID, errors.New("timeout")))

	n, err := s.Count(ctx, DeliveryFailed)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "timeout", list[0].Error)
}

func TestStoreMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.ErrorIs(t, s.MarkDelivered(ctx, "nope"), ErrMessageNotFound)
}

func TestServiceRecordsOutcome(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ok := NewService(s, SenderFunc(func(context.Context, Message) error { return nil }), zap.NewNop())
	m := NewMessage(Fields{"Ana", "a@b", "Hola"}, "")
	require.NoError(t, ok.Send(ctx, m))
	r, err := s.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, DeliveryDelivered, r.Status)

	failing := NewService(s, SenderFunc(func(context.Context, Message) error { return errors.New("refused") }), zap.NewNop())
	m2 := NewMessage(Fields{"Bo", "b@c", "Hey"}, "")
	require.Error(t, failing.Send(ctx, m2))
	r, err = s.Get(ctx, m2.ID)
	require.NoError(t, err)
	assert.Equal(t, DeliveryFailed, r.Status)
	assert.Equal(t, "refused", r.Error)
}

func TestServiceBehindForm(t *testing.T) {
	s := newTestStore(t)
	svc := NewService(s, SimulatedSender{Delay: time.Millisecond}, zap.NewNop())

	f := NewForm(svc, WithRevertAfter(0), WithHashedIP("feedbeef"))
	defer f.Close()
	require.NoError(t, f.SetFields(Fields{"Ana", "a@b", "Hola"}))
	require.NoError(t, f.Submit(context.Background()))

	list, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "feedbeef", list[0].HashedIP)
	assert.Equal(t, DeliveryDelivered, list[0].Status)
}

func TestComposeMail(t *testing.T) {
	m := Message{Name: "Ana\r\nBcc: x@y", Email: "ana@example.com", Body: "Hola\nqué tal"}
	out := string(composeMail("owner@example.com", "bot@example.com", m))

	assert.True(t, strings.HasPrefix(out, "To: owner@example.com\r\n"))
	assert.Contains(t, out, "Subject: Portfolio Contact: Ana  Bcc: x@y\r\n")
	assert.Contains(t, out, "Reply-To: ana@example.com\r\n")
	assert.Contains(t, out, "qué tal")
	assert.NotContains(t, out, "\r\nBcc:")
}

func TestSMTPSender(t *testing.T) {
	_, err := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com", Port: "587"}, zap.NewNop())
	require.EqualError(t, err, "SMTP credentials not configured")

	s, err := NewSMTPSender(config.SMTPConfig{
		Host: "smtp.example.com", Port: "587", Username: "bot@example.com", Password: "pw", To: "owner@example.com",
	}, zap.NewNop())
	require.NoError(t, err)

	var gotAddr string
	var gotTo []string
	s.sendMail = func(addr string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		gotAddr, gotTo = addr, to
		return nil
	}
	require.NoError(t, s.Send(context.Background(), NewMessage(Fields{"Ana", "a@b", "Hola"}, "")))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)

	release := make(chan struct{})
	defer close(release)
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		<-release
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Send(ctx, NewMessage(Fields{"Ana", "a@b", "Hola"}, "")), context.DeadlineExceeded)
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(config.ContactConfig{Delivery: config.DeliverySimulated}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, SimulatedSender{Delay: DefaultSimulatedDelay}, s)

	s, err = NewSender(config.ContactConfig{Delivery: config.DeliveryLog}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, LogSender{}, s)

	_, err = NewSender(config.ContactConfig{Delivery: config.DeliverySMTP}, zap.NewNop())
	require.Error(t, err)

	_, err = NewSender(config.ContactConfig{Delivery: "pigeon"}, zap.NewNop())
	require.Error(t, err)
}
