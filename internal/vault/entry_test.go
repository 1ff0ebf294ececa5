package vault

import (
	"strings"
	"testing"
	"time"
)

// stubClock makes timeNow return strictly increasing timestamps so that
// ordering by UpdatedAt is deterministic.
func stubClock(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	timeNow = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	t.Cleanup(func() { timeNow = time.Now })
}

func TestAdd_Validation(t *testing.T) {
	c := NewCollection()

	longSite := make([]byte, MaxSiteLen+1)
	for i := range longSite {
		longSite[i] = 'a'
	}
	longNotes := make([]byte, MaxNotesLen+1)
	for i := range longNotes {
		longNotes[i] = 'b'
	}

	cases := []struct {
		name     string
		site     string
		password string
		notes    string
	}{
		{"empty site", "", "secret", ""},
		{"blank site", "   ", "secret", ""},
		{"oversized site", string(longSite), "secret", ""},
		{"empty password", "example.com", "", ""},
		{"oversized notes", "example.com", "secret", string(longNotes)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Add(tc.site, "", tc.password, tc.notes, nil)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var verr *ValidationError
			if !asValidationError(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
		})
	}

	if len(c.Entries) != 0 {
		t.Errorf("rejected adds must not modify the collection, got %d entries", len(c.Entries))
	}
}

func asValidationError(err error, target **ValidationError) bool {
	v, ok := err.(*ValidationError)
	if ok {
		*target = v
	}
	return ok
}

func TestCRUDScenario(t *testing.T) {
	stubClock(t)
	c := NewCollection()

	id, err := c.Add("github.com", "u1", "x", "", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id == "" {
		t.Fatal("Add returned empty id")
	}

	all := c.ListAll()
	if len(all) != 1 || all[0].ID != id {
		t.Fatalf("ListAll = %+v, want 1 entry with id %s", all, id)
	}
	if !all[0].CreatedAt.Equal(all[0].UpdatedAt) {
		t.Error("new entry must have CreatedAt == UpdatedAt")
	}

	before := c.Get(id).UpdatedAt
	notes := "work"
	found, err := c.Update(id, EntryPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !found {
		t.Fatal("Update did not find entry")
	}
	entry := c.Get(id)
	if entry.Notes != "work" {
		t.Errorf("Notes = %q, want %q", entry.Notes, "work")
	}
	if !entry.UpdatedAt.After(before) {
		t.Error("Update must bump UpdatedAt")
	}
	if !entry.CreatedAt.Before(entry.UpdatedAt) {
		t.Error("CreatedAt must not move on update")
	}

	if !c.Delete(id) {
		t.Fatal("Delete returned false for existing entry")
	}
	if len(c.ListAll()) != 0 {
		t.Error("collection must be empty after delete")
	}
	if c.Delete(id) {
		t.Error("Delete must return false for missing entry")
	}
}

func TestGet_Missing(t *testing.T) {
	c := NewCollection()
	if c.Get("no-such-id") != nil {
		t.Error("Get must return nil for unknown id")
	}
}

func TestUpdate_MissingID(t *testing.T) {
	c := NewCollection()
	site := "example.com"
	found, err := c.Update("no-such-id", EntryPatch{Site: &site})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if found {
		t.Error("Update must report not-found for unknown id")
	}
}

func TestUpdate_InvalidPatchLeavesEntryUnchanged(t *testing.T) {
	stubClock(t)
	c := NewCollection()
	id, err := c.Add("example.com", "user", "secret", "", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	before := *c.Get(id)

	empty := ""
	if _, err := c.Update(id, EntryPatch{Password: &empty}); err == nil {
		t.Fatal("expected validation error for empty password")
	}

	after := *c.Get(id)
	if after.Password != before.Password || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("rejected patch must leave the entry untouched")
	}
}

func TestSearchScenario(t *testing.T) {
	stubClock(t)
	c := NewCollection()
	id1, err := c.Add("github.com", "u1", "x", "", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	id2, err := c.Add("gitlab.com", "u2", "y", "", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	results := c.Search("git")
	if len(results) != 2 {
		t.Fatalf("Search(git) returned %d entries, want 2", len(results))
	}
	// gitlab was added later, so it has the newer UpdatedAt
	if results[0].ID != id2 || results[1].ID != id1 {
		t.Errorf("Search results not ordered by UpdatedAt desc: %s, %s", results[0].Site, results[1].Site)
	}

	if got := c.SearchSiteUser("git", "nomatch"); len(got) != 0 {
		t.Errorf("AND-mode search must return empty, got %d entries", len(got))
	}
	if got := c.SearchSiteUser("github", "u1"); len(got) != 1 {
		t.Errorf("AND-mode search expected 1 hit, got %d", len(got))
	}
}

func TestSearch_CaseInsensitiveAndFields(t *testing.T) {
	c := NewCollection()
	if _, err := c.Add("Example.COM", "Alice", "pw", "personal banking", []string{"Finance"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	for _, query := range []string{"example", "ALICE", "banking", "finance"} {
		if got := c.Search(query); len(got) != 1 {
			t.Errorf("Search(%q) = %d hits, want 1", query, len(got))
		}
	}
	if got := c.Search("nomatch"); len(got) != 0 {
		t.Errorf("Search(nomatch) = %d hits, want 0", len(got))
	}
}

func TestListAll_OrderedByUpdatedAtDesc(t *testing.T) {
	stubClock(t)
	c := NewCollection()
	first, err := c.Add("a.com", "", "pw", "", nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := c.Add("b.com", "", "pw", "", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Touch the oldest entry so it moves to the front.
	user := "updated"
	if _, err := c.Update(first, EntryPatch{Username: &user}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	all := c.ListAll()
	if all[0].ID != first {
		t.Errorf("most recently updated entry must come first, got %s", all[0].Site)
	}
}

func TestDiffListings(t *testing.T) {
	local := NewCollection()
	if _, err := local.Add("github.com", "u1", "x", "", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	external := NewCollection()
	if _, err := external.Add("github.com", "u1", "x", "", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := external.Add("gitlab.com", "u2", "y", "", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	diff := DiffListings(local, external)
	if diff == "" {
		t.Fatal("expected non-empty diff for differing collections")
	}
	for _, want := range []string{"gitlab.com", "--- local vault", "+++ recovery file"} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff missing %q:\n%s", want, diff)
		}
	}

	if got := DiffListings(external, external); got != "" {
		t.Errorf("identical collections must diff empty, got:\n%s", got)
	}
}

func TestListing_RedactsSecrets(t *testing.T) {
	c := NewCollection()
	if _, err := c.Add("example.com", "alice", "hunter2-secret", "private note", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	out := listing(c)
	if strings.Contains(out, "hunter2-secret") || strings.Contains(out, "private note") {
		t.Errorf("listing leaked secret data: %q", out)
	}
	if !strings.Contains(out, "example.com\talice") {
		t.Errorf("listing missing entry line: %q", out)
	}
}
