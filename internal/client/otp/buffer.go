// Package otp implements the six-digit code entry used by email verification
// and password reset: the digit buffer with its focus cursor, the resend
// cooldown, and the ticker that drives it.
package otp

import (
	"strings"

	"github.com/dmitrijs2005/castkeeper/internal/common"
)

// Length is the number of slots in a Buffer.
const Length = common.OTPLength

// Buffer holds one digit (or nothing) per slot plus the focused slot index.
// The zero value is an empty buffer focused on slot 0.
type Buffer struct {
	slots [Length]rune
	focus int
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// OnDigit handles typing raw into slot i. Input containing anything but
// digits is ignored. Only the last character is kept, so a slot never holds
// more than one digit; empty input clears the slot. Accepting a digit below
// the last slot moves focus to the next one. It reports whether the input
// was applied.
func (b *Buffer) OnDigit(i int, raw string) bool {
	if i < 0 || i >= Length {
		return false
	}
	for _, r := range raw {
		if !isDigit(r) {
			return false
		}
	}

	b.focus = i
	if raw == "" {
		b.slots[i] = 0
		return true
	}

	b.slots[i] = rune(raw[len(raw)-1])
	if i < Length-1 {
		b.focus = i + 1
	}
	return true
}

// OnBackspace moves focus back one slot when slot i is already empty. It
// never clears the previous slot.
func (b *Buffer) OnBackspace(i int) {
	if i < 0 || i >= Length {
		return
	}
	b.focus = i
	if b.slots[i] == 0 && i > 0 {
		b.focus = i - 1
	}
}

// OnPaste applies up to the first Length characters of text from slot 0.
// A paste containing any non-digit is rejected as a whole. Focus lands just
// past the pasted digits, capped at the last slot.
func (b *Buffer) OnPaste(text string) bool {
	pasted := []rune(text)
	if len(pasted) > Length {
		pasted = pasted[:Length]
	}
	for _, r := range pasted {
		if !isDigit(r) {
			return false
		}
	}

	b.slots = [Length]rune{}
	copy(b.slots[:], pasted)
	b.focus = min(len(pasted), Length-1)
	return true
}

// Complete reports whether every slot holds a digit.
func (b *Buffer) Complete() bool {
	for _, r := range b.slots {
		if r == 0 {
			return false
		}
	}
	return true
}

// Code joins the filled slots in order.
func (b *Buffer) Code() string {
	var sb strings.Builder
	for _, r := range b.slots {
		if r != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Slots returns the buffer as one string per slot, "" for empty ones.
func (b *Buffer) Slots() []string {
	out := make([]string, Length)
	for i, r := range b.slots {
		if r != 0 {
			out[i] = string(r)
		}
	}
	return out
}

func (b *Buffer) Focus() int {
	return b.focus
}

// Reset empties every slot and focuses slot 0.
func (b *Buffer) Reset() {
	*b = Buffer{}
}
