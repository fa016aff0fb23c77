package errors

import (
	"errors"
	"fmt"
)

// ReplyError is a failed step of an order conversation together with the
// reply the customer sees instead of the failure.
type ReplyError struct {
	Step  string // what the server was doing, e.g. "submit order"
	Reply string // shown in the chat
	Cause error
}

// Replying returns a ReplyError for step. A nil cause gives nil.
func Replying(step string, cause error, reply string) error {
	if cause == nil {
		return nil
	}
	return &ReplyError{Step: step, Reply: reply, Cause: cause}
}

// Replyingf is Replying with a formatted reply.
func Replyingf(step string, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &ReplyError{Step: step, Reply: fmt.Sprintf(format, args...), Cause: cause}
}

// Error describes the failure for logs. The reply is not part of it.
func (e *ReplyError) Error() string {
	if e.Step == "" {
		return e.Cause.Error()
	}
	return e.Step + ": " + e.Cause.Error()
}

func (e *ReplyError) Unwrap() error {
	return e.Cause
}

// ReplyFor returns the customer reply carried anywhere in err's chain, or
// fallback when there is none.
func ReplyFor(err error, fallback string) string {
	var re *ReplyError
	if errors.As(err, &re) && re.Reply != "" {
		return re.Reply
	}
	return fallback
}
