package alerting_test

import (
	"testing"

	"luxrelay/internal/alerting"
)

func TestResolveCause(t *testing.T) {
	if got := alerting.ResolveCause(true); got != "shading or dust accumulation" {
		t.Errorf("maintained=true: got %q", got)
	}
	if got := alerting.ResolveCause(false); got != "maintenance problem" {
		t.Errorf("maintained=false: got %q", got)
	}
}
