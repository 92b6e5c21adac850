// Package contact implements the contact form: validation, the submission
// lifecycle, and the delivery backends messages are handed to.
package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Status is the submission state shown next to the form.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Form input names.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultRevertAfter = 5 * time.Second
)

var (
	ErrIncomplete   = errors.New("contact form is incomplete")
	ErrSubmitting   = errors.New("contact form is already submitting")
	ErrClosed       = errors.New("contact form closed")
	ErrUnknownField = errors.New("unknown contact form field")
)

// Fields holds the three user inputs.
type Fields struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// Trimmed returns f with surrounding whitespace removed from every field.
func (f Fields) Trimmed() Fields {
	return Fields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// EmailLooksValid only checks for an "@". "test@test" passes.
func EmailLooksValid(email string) bool {
	return strings.Contains(email, "@")
}

// Valid reports whether f may be submitted.
func Valid(f Fields) bool {
	t := f.Trimmed()
	return t.Name != "" && t.Email != "" && t.Message != "" && EmailLooksValid(t.Email)
}

// Form is the state of one contact form instance. A Form must be closed
// when the page or request owning it goes away; after Close it never
// changes state again.
type Form struct {
	sender      Sender
	timeout     time.Duration
	revertAfter time.Duration
	hashedIP    string

	mu        sync.Mutex
	fields    Fields
	status    Status
	cancel    context.CancelFunc
	revert    *time.Timer
	gen       uint64
	closed    bool
	listeners []func(Status)
}

// FormOption configures a Form.
type FormOption func(*Form)

// WithTimeout bounds each delivery attempt.
func WithTimeout(d time.Duration) FormOption {
	return func(f *Form) { f.timeout = d }
}

// WithRevertAfter sets how long success or error is shown before the form
// goes back to idle. Zero or less keeps the terminal status.
func WithRevertAfter(d time.Duration) FormOption {
	return func(f *Form) { f.revertAfter = d }
}

// WithHashedIP tags outgoing messages with the sender's hashed address.
func WithHashedIP(h string) FormOption {
	return func(f *Form) { f.hashedIP = h }
}

// NewForm creates an empty, idle form delivering through sender.
func NewForm(sender Sender, opts ...FormOption) *Form {
	f := &Form{
		sender:      sender,
		timeout:     DefaultTimeout,
		revertAfter: DefaultRevertAfter,
		status:      StatusIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetField updates one input by name.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	switch name {
	case FieldName:
		f.fields.Name = value
	case FieldEmail:
		f.fields.Email = value
	case FieldMessage:
		f.fields.Message = value
	default:
		return ErrUnknownField
	}
	return nil
}

// SetFields replaces every input at once.
func (f *Form) SetFields(fields Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.fields = fields
	return nil
}

// Fields returns the current inputs.
func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Status returns the current submission status.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// CanSubmit reports whether the submit button is enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed && f.status != StatusSubmitting && Valid(f.fields)
}

// OnStatus registers fn to be called after every status change.
func (f *Form) OnStatus(fn func(Status)) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// setStatus must be called with f.mu held; the returned func notifies
// listeners and must be called after unlocking.
func (f *Form) setStatus(s Status) func() {
	f.status = s
	listeners := append([](func(Status))(nil), f.listeners...)
	return func() {
		for _, fn := range listeners {
			fn(s)
		}
	}
}

// Submit delivers the current inputs. An invalid form is left untouched and
// ErrIncomplete is returned. Otherwise the form moves to submitting and then
// to success, clearing the inputs, or to error with the delivery error
// returned. Submit blocks until delivery finishes, the timeout elapses, ctx
// is done or the form is closed.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	switch {
	case f.closed:
		f.mu.Unlock()
		return ErrClosed
	case f.status == StatusSubmitting:
		f.mu.Unlock()
		return ErrSubmitting
	case !Valid(f.fields):
		f.mu.Unlock()
		return ErrIncomplete
	}

	f.stopRevert()
	msg := NewMessage(f.fields, f.hashedIP)
	var (
		sendCtx context.Context
		cancel  context.CancelFunc
	)
	if f.timeout > 0 {
		sendCtx, cancel = context.WithTimeout(ctx, f.timeout)
	} else {
		sendCtx, cancel = context.WithCancel(ctx)
	}
	f.cancel = cancel
	notify := f.setStatus(StatusSubmitting)
	f.mu.Unlock()
	notify()

	err := f.sender.Send(sendCtx, msg)
	cancel()

	f.mu.Lock()
	f.cancel = nil
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if err == nil {
		f.fields = Fields{}
		notify = f.setStatus(StatusSuccess)
	} else {
		notify = f.setStatus(StatusError)
	}
	f.scheduleRevert()
	f.mu.Unlock()
	notify()

	return err
}

// stopRevert must be called with f.mu held.
func (f *Form) stopRevert() {
	f.gen++
	if f.revert != nil {
		f.revert.Stop()
		f.revert = nil
	}
}

// scheduleRevert must be called with f.mu held.
func (f *Form) scheduleRevert() {
	f.stopRevert()
	if f.revertAfter <= 0 {
		return
	}
	gen := f.gen
	f.revert = time.AfterFunc(f.revertAfter, func() {
		f.mu.Lock()
		if f.closed || f.gen != gen {
			f.mu.Unlock()
			return
		}
		f.revert = nil
		notify := f.setStatus(StatusIdle)
		f.mu.Unlock()
		notify()
	})
}

// Close aborts an in-flight delivery and any pending revert. It is safe to
// call more than once.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.stopRevert()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.listeners = nil
}
