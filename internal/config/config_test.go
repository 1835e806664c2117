package config

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("BISTRO_TEST_KEY", "from-env")

	if got := getEnv("BISTRO_TEST_KEY", "fallback"); got != "from-env" {
		t.Errorf("getEnv = %q, want %q", got, "from-env")
	}
	if got := getEnv("BISTRO_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv = %q, want %q", got, "fallback")
	}
}
