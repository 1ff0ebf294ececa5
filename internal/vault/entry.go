package vault

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	CollectionVersion = "2.0"

	MaxSiteLen  = 200
	MaxNotesLen = 1000
)

// timeNow is stubbed in tests to control entry timestamps.
var timeNow = time.Now

// Entry is a single stored credential. The ID is assigned at creation and
// never changes; everything else is mutable through Update.
type Entry struct {
	ID        string    `json:"id"`
	Site      string    `json:"site"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Notes     string    `json:"notes"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Collection is the decrypted record set. It exists only between a
// successful Load and the following Save; it is never persisted in
// plaintext.
type Collection struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []Entry   `json:"entries"`
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{
		Version:   CollectionVersion,
		CreatedAt: timeNow(),
		Entries:   make([]Entry, 0),
	}
}

// ValidationError reports a field constraint violation on add or update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validateSite(site string) error {
	if strings.TrimSpace(site) == "" {
		return &ValidationError{Field: "site", Reason: "must not be empty"}
	}
	if len(strings.TrimSpace(site)) > MaxSiteLen {
		return &ValidationError{Field: "site", Reason: fmt.Sprintf("must not exceed %d characters", MaxSiteLen)}
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	return nil
}

func validateNotes(notes string) error {
	if len(notes) > MaxNotesLen {
		return &ValidationError{Field: "notes", Reason: fmt.Sprintf("must not exceed %d characters", MaxNotesLen)}
	}
	return nil
}

// Add validates the fields, assigns a fresh ID and appends a new entry.
// Returns the ID of the new entry.
func (c *Collection) Add(site, username, password, notes string, tags []string) (string, error) {
	if err := validateSite(site); err != nil {
		return "", err
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}
	if err := validateNotes(notes); err != nil {
		return "", err
	}

	if tags == nil {
		tags = []string{}
	}
	now := timeNow()
	entry := Entry{
		ID:        uuid.NewString(),
		Site:      site,
		Username:  username,
		Password:  password,
		Notes:     notes,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Entries = append(c.Entries, entry)
	return entry.ID, nil
}

// Get finds an entry by ID, or nil if absent. Collections are small, so a
// linear scan is fine.
func (c *Collection) Get(id string) *Entry {
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			return &c.Entries[i]
		}
	}
	return nil
}

// EntryPatch enumerates the updatable fields of an entry. Nil members are
// left unchanged.
type EntryPatch struct {
	Site     *string
	Username *string
	Password *string
	Notes    *string
	Tags     *[]string
}

func (p *EntryPatch) validate() error {
	if p.Site != nil {
		if err := validateSite(*p.Site); err != nil {
			return err
		}
	}
	if p.Password != nil {
		if err := validatePassword(*p.Password); err != nil {
			return err
		}
	}
	if p.Notes != nil {
		if err := validateNotes(*p.Notes); err != nil {
			return err
		}
	}
	return nil
}

// Update applies a patch to the entry with the given ID and refreshes its
// UpdatedAt timestamp. Returns false if no entry has that ID. The patch is
// validated before any field is touched, so a rejected patch leaves the
// entry unchanged.
func (c *Collection) Update(id string, patch EntryPatch) (bool, error) {
	if err := patch.validate(); err != nil {
		return false, err
	}
	entry := c.Get(id)
	if entry == nil {
		return false, nil
	}

	if patch.Site != nil {
		entry.Site = *patch.Site
	}
	if patch.Username != nil {
		entry.Username = *patch.Username
	}
	if patch.Password != nil {
		entry.Password = *patch.Password
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		entry.Tags = *patch.Tags
	}
	entry.UpdatedAt = timeNow()
	return true, nil
}

// Delete removes the entry with the given ID. Returns false if absent.
func (c *Collection) Delete(id string) bool {
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Search returns entries whose site, username, notes or tags contain the
// query as a case-insensitive substring, newest first.
func (c *Collection) Search(query string) []Entry {
	query = strings.ToLower(query)
	var results []Entry
	for _, entry := range c.Entries {
		searchable := strings.ToLower(strings.Join([]string{
			entry.Site,
			entry.Username,
			entry.Notes,
			strings.Join(entry.Tags, " "),
		}, " "))
		if strings.Contains(searchable, query) {
			results = append(results, entry)
		}
	}
	sortByUpdated(results)
	return results
}

// SearchSiteUser returns entries whose site contains siteQuery AND whose
// username contains userQuery, both case-insensitive, newest first.
func (c *Collection) SearchSiteUser(siteQuery, userQuery string) []Entry {
	siteQuery = strings.ToLower(siteQuery)
	userQuery = strings.ToLower(userQuery)
	var results []Entry
	for _, entry := range c.Entries {
		if strings.Contains(strings.ToLower(entry.Site), siteQuery) &&
			strings.Contains(strings.ToLower(entry.Username), userQuery) {
			results = append(results, entry)
		}
	}
	sortByUpdated(results)
	return results
}

// ListAll returns all entries, newest first.
func (c *Collection) ListAll() []Entry {
	results := make([]Entry, len(c.Entries))
	copy(results, c.Entries)
	sortByUpdated(results)
	return results
}

func sortByUpdated(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
}
