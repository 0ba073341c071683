package vision

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	err := NewError(CodeTimeout, errors.New("deadline"))
	if CodeOf(err) != CodeTimeout {
		t.Errorf("direct: %s", CodeOf(err))
	}
	wrapped := fmt.Errorf("estimate: %w", err)
	if CodeOf(wrapped) != CodeTimeout {
		t.Errorf("wrapped: %s", CodeOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Error("foreign error got a code")
	}
}

func TestErrorString(t *testing.T) {
	e := &Error{Code: CodeHTTP, Status: 503}
	if got := e.Error(); got != "estimation failed: HTTP (status 503)" {
		t.Errorf("got %q", got)
	}
	e2 := NewError(CodeNetwork, errors.New("refused"))
	if got := e2.Error(); got != "estimation failed: NETWORK: refused" {
		t.Errorf("got %q", got)
	}
}

func TestUserMessageNeverLeaksDetails(t *testing.T) {
	err := &Error{Code: CodeHTTP, Status: 500, Details: "x-goog-trace: secret"}
	msg := UserMessage(err)
	if msg == "" || msg == err.Error() {
		t.Errorf("message: %q", msg)
	}
	for _, code := range []Code{CodeMissingImage, CodeMissingKey, CodeHTTP, CodeEmpty, CodeSchema, CodeTimeout, CodeNetwork} {
		if UserMessage(&Error{Code: code}) == "" {
			t.Errorf("no message for %s", code)
		}
	}
	if UserMessage(errors.New("unknown")) == "" {
		t.Error("no fallback message")
	}
}
