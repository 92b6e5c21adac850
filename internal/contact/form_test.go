package contact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestEmailLooksValid(t *testing.T) {
	assert.True(t, EmailLooksValid("a@b"))
	assert.True(t, EmailLooksValid("test@test"))
	assert.False(t, EmailLooksValid("ab"))
	assert.False(t, EmailLooksValid(""))
}

func TestValid(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   bool
	}{
		{"complete", Fields{"Ana", "a@b", "Hola"}, true},
		{"shallow domain", Fields{"Ana", "test@test", "Hola"}, true},
		{"missing at", Fields{"Ana", "ab", "Hola"}, false},
		{"whitespace name", Fields{"   ", "a@b", "Hola"}, false},
		{"whitespace message", Fields{"Ana", "a@b", "\n\t "}, false},
		{"empty email", Fields{"Ana", "", "Hola"}, false},
		{"padded", Fields{"  Ana ", " a@b ", " Hola "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.fields))
		})
	}
}

type statusLog struct {
	mu  sync.Mutex
	got []Status
}

func (l *statusLog) add(s Status) {
	l.mu.Lock()
	l.got = append(l.got, s)
	l.mu.Unlock()
}

func (l *statusLog) all() []Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Status(nil), l.got...)
}

func fill(t *testing.T, f *Form, name, email, message string) {
	t.Helper()
	require.NoError(t, f.SetField(FieldName, name))
	require.NoError(t, f.SetField(FieldEmail, email))
	require.NoError(t, f.SetField(FieldMessage, message))
}

func TestSubmitSuccessClearsFields(t *testing.T) {
	defer goleak.VerifyNone(t)

	var sent []Message
	sender := SenderFunc(func(_ context.Context, m Message) error {
		sent = append(sent, m)
		return nil
	})
	f := NewForm(sender, WithRevertAfter(20*time.Millisecond))
	defer f.Close()

	var log statusLog
	f.OnStatus(log.add)

	fill(t, f, "Ana", "test@test", "Hola")
	assert.Equal(t, StatusIdle, f.Status())
	assert.True(t, f.CanSubmit())

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, StatusSuccess, f.Status())
	assert.Equal(t, Fields{}, f.Fields())
	require.Len(t, sent, 1)
	assert.Equal(t, "test@test", sent[0].Email)
	assert.NotEmpty(t, sent[0].ID)

	require.Eventually(t, func() bool { return f.Status() == StatusIdle }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []Status{StatusSubmitting, StatusSuccess, StatusIdle}, log.all())
}

func TestSubmitIncompleteIsNoop(t *testing.T) {
	called := false
	f := NewForm(SenderFunc(func(context.Context, Message) error {
		called = true
		return nil
	}))
	defer f.Close()

	var log statusLog
	f.OnStatus(log.add)

	fill(t, f, "Ana", "ab", "Hola")
	assert.False(t, f.CanSubmit())
	assert.ErrorIs(t, f.Submit(context.Background()), ErrIncomplete)

	assert.False(t, called)
	assert.Equal(t, StatusIdle, f.Status())
	assert.Empty(t, log.all())
	assert.Equal(t, "ab", f.Fields().Email)
}

func TestSubmitFailureKeepsFields(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("smtp down")
	f := NewForm(SenderFunc(func(context.Context, Message) error { return boom }),
		WithRevertAfter(20*time.Millisecond))
	defer f.Close()

	fill(t, f, "Ana", "a@b", "Hola")
	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusError, f.Status())
	assert.Equal(t, "Ana", f.Fields().Name)

	require.Eventually(t, func() bool { return f.Status() == StatusIdle }, time.Second, 5*time.Millisecond)
}

func TestSubmitTimeout(t *testing.T) {
	f := NewForm(SimulatedSender{Delay: time.Second}, WithTimeout(10*time.Millisecond), WithRevertAfter(0))
	defer f.Close()

	fill(t, f, "Ana", "a@b", "Hola")
	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatusError, f.Status())
}

func TestSubmitWhileSubmitting(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	f := NewForm(SenderFunc(func(ctx context.Context, _ Message) error {
		close(started)
		<-release
		return nil
	}), WithRevertAfter(0))
	defer f.Close()

	fill(t, f, "Ana", "a@b", "Hola")
	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()

	<-started
	assert.Equal(t, StatusSubmitting, f.Status())
	assert.False(t, f.CanSubmit())
	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmitting)

	close(release)
	require.NoError(t, <-done)
}

func TestCloseCancelsInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	f := NewForm(SenderFunc(func(ctx context.Context, _ Message) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))

	var log statusLog
	f.OnStatus(log.add)
	fill(t, f, "Ana", "a@b", "Hola")

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()

	<-started
	f.Close()
	f.Close()

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Equal(t, StatusSubmitting, f.Status())
	assert.Equal(t, []Status{StatusSubmitting}, log.all())
	assert.ErrorIs(t, f.SetField(FieldName, "x"), ErrClosed)
}

func TestCloseStopsRevert(t *testing.T) {
	f := NewForm(SenderFunc(func(context.Context, Message) error { return nil }),
		WithRevertAfter(10*time.Millisecond))

	fill(t, f, "Ana", "a@b", "Hola")
	require.NoError(t, f.Submit(context.Background()))
	f.Close()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, StatusSuccess, f.Status())
}

func TestSetFieldUnknown(t *testing.T) {
	f := NewForm(SimulatedSender{})
	defer f.Close()
	assert.ErrorIs(t, f.SetField("phone", "1"), ErrUnknownField)
}
