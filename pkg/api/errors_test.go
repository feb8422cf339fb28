package api

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestConfigurationError(t *testing.T) {
	err := newConfigurationError("pipeline %q has no stages", "empty")

	want := `invalid configuration: pipeline "empty" has no stages`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if !IsConfiguration(err) {
		t.Fatalf("expected IsConfiguration to match")
	}
	if !IsConfiguration(fmt.Errorf("building: %w", err)) {
		t.Fatalf("expected IsConfiguration to match through wrapping")
	}
	if IsConfiguration(errors.New("plain")) {
		t.Fatalf("expected IsConfiguration to reject a plain error")
	}
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Primitive: "fetch", Limit: 250 * time.Millisecond}

	if got := err.Error(); got != "fetch timed out after 250ms" {
		t.Fatalf("unexpected message: %q", got)
	}

	limit, ok := IsTimeout(fmt.Errorf("run failed: %w", err))
	if !ok {
		t.Fatalf("expected IsTimeout to match through wrapping")
	}
	if limit != 250*time.Millisecond {
		t.Fatalf("expected limit 250ms, got %s", limit)
	}

	if _, ok := IsTimeout(errors.New("plain")); ok {
		t.Fatalf("expected IsTimeout to reject a plain error")
	}
	if IsConfiguration(err) {
		t.Fatalf("timeout must not be a configuration error")
	}
}
