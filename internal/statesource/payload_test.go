package statesource

import "testing"

func TestMaintenancePayload(t *testing.T) {
	cases := map[string]bool{
		"on":  true,
		"off": false,
		"ON":  false,
		"1":   false,
		"":    false,
	}
	for payload, want := range cases {
		if got := maintenancePayload(payload); got != want {
			t.Errorf("maintenancePayload(%q) = %v, want %v", payload, got, want)
		}
	}
}
