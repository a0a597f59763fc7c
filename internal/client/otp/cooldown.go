package otp

import "fmt"

// DefaultCooldown is the wait, in seconds, before a code may be re-sent.
// A freshly shown widget starts with it because the triggering flow has
// just sent a code.
const DefaultCooldown = 60

// Cooldown counts seconds down to zero. It never goes negative and resend is
// allowed exactly when it reaches zero.
type Cooldown struct {
	seconds   int
	remaining int
}

func NewCooldown(seconds int) Cooldown {
	if seconds < 0 {
		seconds = 0
	}
	return Cooldown{seconds: seconds, remaining: seconds}
}

// Tick removes one second and returns what is left.
func (c *Cooldown) Tick() int {
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining
}

func (c *Cooldown) Remaining() int {
	return c.remaining
}

func (c *Cooldown) CanResend() bool {
	return c.remaining == 0
}

// Restart sets the counter back to its full length.
func (c *Cooldown) Restart() {
	c.remaining = c.seconds
}

// Format renders the remaining time as m:ss.
func (c *Cooldown) Format() string {
	return fmt.Sprintf("%d:%02d", c.remaining/60, c.remaining%60)
}
