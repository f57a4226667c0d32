package session

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSession_RememberDeduplicates(t *testing.T) {
	s := New()

	quotes := []string{"First", "Second", "First", "Third", "Second"}
	for _, q := range quotes {
		s.Remember(q)
	}

	if s.Len() != 3 {
		t.Errorf("expected 3 distinct quotes, got %d", s.Len())
	}
	if !s.Contains("Third") {
		t.Error("expected Third to be remembered")
	}
	if got := s.PriorQuotes(0); got != "First, Second, Third" {
		t.Errorf("expected insertion-ordered history, got %q", got)
	}
}

func TestSession_RememberReportsNew(t *testing.T) {
	s := New()
	if !s.Remember("Test") {
		t.Error("expected first insert to report new")
	}
	if s.Remember("Test") {
		t.Error("expected duplicate insert to report not new")
	}
}

func TestSession_PriorQuotesLimit(t *testing.T) {
	s := New()
	for _, q := range []string{"a", "b", "c", "d"} {
		s.Remember(q)
	}

	tests := []struct {
		limit int
		want  string
	}{
		{0, "a, b, c, d"},
		{2, "c, d"},
		{10, "a, b, c, d"},
	}
	for _, tt := range tests {
		if got := s.PriorQuotes(tt.limit); got != tt.want {
			t.Errorf("PriorQuotes(%d) = %q, want %q", tt.limit, got, tt.want)
		}
	}

	if s.Len() != 4 {
		t.Errorf("limit must not shrink the set, got %d", s.Len())
	}
}

func TestSession_EmptyHistory(t *testing.T) {
	if got := New().PriorQuotes(0); got != "" {
		t.Errorf("expected empty history, got %q", got)
	}
}

func TestStore_CreateGetDelete(t *testing.T) {
	st := NewStore(time.Hour, zap.NewNop())

	s := st.Create()
	if s.ID == "" {
		t.Fatal("expected session ID")
	}

	got, ok := st.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("expected to find the created session")
	}
	if !st.Exists(s.ID) || st.Exists("unknown") {
		t.Error("Exists disagrees with the live set")
	}

	st.Delete(s.ID)
	if st.Exists(s.ID) {
		t.Error("expected Exists to be false after delete")
	}
	if _, ok := st.Get(s.ID); ok {
		t.Error("expected session to be gone after delete")
	}
}

func TestStore_Sweep(t *testing.T) {
	st := NewStore(time.Hour, zap.NewNop())

	stale := st.Create()
	fresh := st.Create()

	now := time.Now()
	stale.Touch(now.Add(-2 * time.Hour))
	fresh.Touch(now)

	if removed := st.Sweep(now); removed != 1 {
		t.Errorf("expected 1 session removed, got %d", removed)
	}
	if _, ok := st.Get(stale.ID); ok {
		t.Error("expected stale session to be swept")
	}
	if _, ok := st.Get(fresh.ID); !ok {
		t.Error("expected fresh session to survive")
	}
}
