package config

import "testing"

func TestGetEnvIntFallsBackOnBadValues(t *testing.T) {
	cases := []struct {
		value string
		want  int
	}{
		{"25", 25},
		{" 25 ", 25},
		{"", 10},
		{"abc", 10},
		{"0", 10},
		{"-3", 10},
	}
	for _, tc := range cases {
		t.Setenv("DB_MAX_CONNS", tc.value)
		if got := getEnvInt("DB_MAX_CONNS", 10); got != tc.want {
			t.Errorf("getEnvInt(%q) = %d, want %d", tc.value, got, tc.want)
		}
	}
}
