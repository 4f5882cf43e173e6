package model

import "testing"

func TestSessionIdentityQuery(t *testing.T) {
	bySession := BySession(42)
	if !bySession.HasSession() {
		t.Fatalf("expected a session identity")
	}
	query := bySession.Query()
	if query.Get("session_id") != "42" {
		t.Fatalf("expected session_id=42, got %v", query)
	}
	if query.Has("mode") {
		t.Fatalf("a session identity must not carry a mode: %v", query)
	}

	byMode := ByMode(ModeLive)
	if byMode.HasSession() {
		t.Fatalf("a mode identity must not report a session")
	}
	query = byMode.Query()
	if query.Get("mode") != "LIVE" {
		t.Fatalf("expected mode=LIVE, got %v", query)
	}
	if query.Has("session_id") {
		t.Fatalf("a mode identity must not carry a session_id: %v", query)
	}

	if got := (SessionIdentity{}).Query(); len(got) != 0 {
		t.Fatalf("an empty identity renders no parameters, got %v", got)
	}
}
