package otp

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrCooldownActive = errors.New("resend is not allowed yet")
	ErrResendInFlight = errors.New("resend already in progress")
)

// Widget is one code-entry screen: buffer, cooldown and the timer driving
// it. It is safe for use from the input loop and the timer goroutine at once.
type Widget struct {
	mu        sync.Mutex
	buf       Buffer
	cooldown  Cooldown
	resending bool

	countdown *Countdown
	ctx       context.Context
}

type Option func(*Widget)

// WithCooldown overrides DefaultCooldown.
func WithCooldown(seconds int) Option {
	return func(w *Widget) { w.cooldown = NewCooldown(seconds) }
}

// WithTickInterval overrides the one-second tick; tests use it to run a
// cooldown quickly.
func WithTickInterval(d time.Duration) Option {
	return func(w *Widget) { w.countdown = NewCountdown(d) }
}

func NewWidget(opts ...Option) *Widget {
	w := &Widget{
		cooldown:  NewCooldown(DefaultCooldown),
		countdown: NewCountdown(time.Second),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Mount starts the cooldown timer for the widget's lifetime, bounded by ctx.
func (w *Widget) Mount(ctx context.Context) {
	w.mu.Lock()
	w.ctx = ctx
	running := !w.cooldown.CanResend()
	w.mu.Unlock()

	if running {
		w.countdown.Start(ctx, w.Tick)
	}
}

// Unmount cancels the timer. The widget can be mounted again.
func (w *Widget) Unmount() {
	w.countdown.Cancel()
}

// Tick advances the cooldown by one second and returns what is left.
func (w *Widget) Tick() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cooldown.Tick()
}

func (w *Widget) OnDigit(i int, raw string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.OnDigit(i, raw)
}

func (w *Widget) OnBackspace(i int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.OnBackspace(i)
}

func (w *Widget) OnPaste(text string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.OnPaste(text)
}

func (w *Widget) Complete() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Complete()
}

func (w *Widget) Code() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Code()
}

func (w *Widget) Slots() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Slots()
}

func (w *Widget) Focus() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Focus()
}

func (w *Widget) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cooldown.Remaining()
}

func (w *Widget) CanResend() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cooldown.CanResend() && !w.resending
}

// CooldownLabel renders the remaining wait as m:ss.
func (w *Widget) CooldownLabel() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cooldown.Format()
}

// Resend calls send when the cooldown is over. On success the cooldown
// restarts, the buffer is cleared and focus returns to slot 0; on failure
// nothing changes so the user can try again. While the cooldown runs it
// returns ErrCooldownActive without calling send.
func (w *Widget) Resend(ctx context.Context, send func(ctx context.Context) error) error {
	w.mu.Lock()
	if !w.cooldown.CanResend() {
		w.mu.Unlock()
		return ErrCooldownActive
	}
	if w.resending {
		w.mu.Unlock()
		return ErrResendInFlight
	}
	w.resending = true
	w.mu.Unlock()

	err := send(ctx)

	w.mu.Lock()
	w.resending = false
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.cooldown.Restart()
	w.buf.Reset()
	mountCtx := w.ctx
	w.mu.Unlock()

	if mountCtx != nil {
		w.countdown.Start(mountCtx, w.Tick)
	}
	return nil
}
