package config

import (
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
)

func TestResolveVerificationPolicy(t *testing.T) {
	cases := []struct {
		mode       string
		configured string
		want       string
	}{
		{"release", "", constants.VerificationPolicyStrict},
		{"debug", "", constants.VerificationPolicyPermissive},
		{"release", "permissive", constants.VerificationPolicyPermissive},
		{"debug", " STRICT ", constants.VerificationPolicyStrict},
	}
	for _, tc := range cases {
		got, err := ResolveVerificationPolicy(tc.mode, tc.configured)
		if err != nil {
			t.Fatalf("resolve %s/%s failed: %v", tc.mode, tc.configured, err)
		}
		if got != tc.want {
			t.Fatalf("resolve %s/%s want %s got %s", tc.mode, tc.configured, tc.want, got)
		}
	}
	if _, err := ResolveVerificationPolicy("release", "lenient"); err == nil {
		t.Fatalf("unknown policy should be rejected")
	}
}

func TestOrderConfigDefaults(t *testing.T) {
	cfg := OrderConfig{NumberTimezone: "Not/AZone"}
	if cfg.Location() != time.UTC {
		t.Fatalf("invalid timezone should fall back to UTC")
	}
	if cfg.MaxAttempts() != constants.DefaultOrderNumberMaxAttempt {
		t.Fatalf("max attempts want default got %d", cfg.MaxAttempts())
	}
	if (OrderConfig{NumberMaxAttempts: 9}).MaxAttempts() != 9 {
		t.Fatalf("explicit max attempts should win")
	}
}

func TestPortOneConfigTimeouts(t *testing.T) {
	cfg := PortOneConfig{APIKey: "k", APISecret: " ", TokenTimeoutMS: 1500, QueryTimeoutMS: 2500}
	if cfg.Configured() {
		t.Fatalf("blank secret should be treated as unconfigured")
	}
	if cfg.TokenTimeout() != 1500*time.Millisecond || cfg.QueryTimeout() != 2500*time.Millisecond {
		t.Fatalf("unexpected timeouts %s %s", cfg.TokenTimeout(), cfg.QueryTimeout())
	}
}
