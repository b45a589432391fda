package store

import "testing"

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPrefs(t *testing.T) {
	s := openTestStore(t)

	value, err := s.Get(PrefProjectKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "" {
		t.Errorf("unset pref should be empty, got %q", value)
	}

	if err := s.Set(PrefProjectKey, "AWB"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(PrefProjectKey, "OPS"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	value, err = s.Get(PrefProjectKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "OPS" {
		t.Errorf("expected OPS, got %q", value)
	}
}

func TestDrafts(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveDraft("sess1", 1, "first answer"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := s.SaveDraft("sess1", 2, "second answer"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := s.SaveDraft("sess1", 1, "revised answer"); err != nil {
		t.Fatalf("SaveDraft overwrite: %v", err)
	}
	if err := s.SaveDraft("sess2", 1, "other session"); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	drafts, err := s.Drafts("sess1")
	if err != nil {
		t.Fatalf("Drafts: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[1] != "revised answer" {
		t.Errorf("drafts[1] = %q", drafts[1])
	}

	if err := s.ClearDrafts("sess1"); err != nil {
		t.Fatalf("ClearDrafts: %v", err)
	}
	drafts, err = s.Drafts("sess1")
	if err != nil {
		t.Fatalf("Drafts after clear: %v", err)
	}
	if len(drafts) != 0 {
		t.Errorf("expected no drafts after clear, got %d", len(drafts))
	}

	// Other sessions are untouched.
	other, _ := s.Drafts("sess2")
	if other[1] != "other session" {
		t.Errorf("sess2 drafts lost: %v", other)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Set(PrefSubtaskType, "Task")
	s.Close()

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	value, _ := s.Get(PrefSubtaskType)
	if value != "Task" {
		t.Errorf("expected persisted value, got %q", value)
	}
}
