package telegram

import (
	"strings"
	"testing"
)

func TestNewRejectsMissingCredentials(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "empty token", cfg: Config{ChatID: "-1001"}, want: "token is empty"},
		{name: "blank token", cfg: Config{Token: "   ", ChatID: "-1001"}, want: "token is empty"},
		{name: "empty chat", cfg: Config{Token: "123:abc"}, want: "chat id is empty"},
		{name: "blank chat", cfg: Config{Token: "123:abc", ChatID: " "}, want: "chat id is empty"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tc.cfg, nil)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("New(%+v) err = %v, want %q", tc.cfg, err, tc.want)
			}
		})
	}
}

func TestChatRecipient(t *testing.T) {
	t.Parallel()

	cases := []struct {
		id   string
		want string
	}{
		{"-1001234567890", "-1001234567890"},
		{"@tariff_alerts", "@tariff_alerts"},
	}
	for _, tc := range cases {
		if got := chat(tc.id).Recipient(); got != tc.want {
			t.Fatalf("Recipient(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}
