package logger

import "testing"

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("supersecret"); got != "****cret" {
		t.Fatalf("expected ****cret, got %q", got)
	}
	if got := MaskSecret("ab"); got != "****" {
		t.Fatalf("expected ****, got %q", got)
	}
	if got := MaskSecret(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskJSON(t *testing.T) {
	input := map[string]any{
		"smtp_password": "hunter2",
		"smtp_host":     "smtp.gmail.com",
		"nested": map[string]any{
			"token": "abc12345",
		},
	}
	masked := MaskJSON(input)
	if masked["smtp_password"] != "****ter2" {
		t.Fatalf("expected masked smtp_password, got %v", masked["smtp_password"])
	}
	if masked["smtp_host"] != "smtp.gmail.com" {
		t.Fatalf("expected smtp_host untouched, got %v", masked["smtp_host"])
	}
	nested, ok := masked["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map")
	}
	if nested["token"] != "****2345" {
		t.Fatalf("expected masked token, got %v", nested["token"])
	}
}
