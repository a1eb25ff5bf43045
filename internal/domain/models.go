package domain

import (
	"strings"
	"time"
)

// Source references the input of a queue item. Raw bytes and pasted text are
// kept in memory only.
type Source struct {
	Kind        SourceKind `json:"kind"`
	FileName    string     `json:"fileName"`
	ContentType string     `json:"contentType,omitempty"`
	Size        int64      `json:"size"`
	ObjectKey   string     `json:"objectKey,omitempty"`
	Data        []byte     `json:"-"`
	Text        string     `json:"-"`
}

// QueueItem is one unit of work tracked through the processing state machine.
type QueueItem struct {
	ID       string          `json:"id"`
	Source   Source          `json:"source"`
	Status   QueueStatus     `json:"status"`
	Progress int             `json:"progress"`
	Error    string          `json:"error,omitempty"`
	Result   *AdoptionRecord `json:"result,omitempty"`
	AddedAt  time.Time       `json:"addedAt"`
	Attempts int             `json:"attempts"`

	// ReviewSeq orders items by the moment they entered reviewing.
	ReviewSeq uint64 `json:"-"`
}

// Clone returns a deep copy of the item. Source payloads are shared since they
// are never mutated after enqueue.
func (q QueueItem) Clone() QueueItem {
	out := q
	if q.Result != nil {
		out.Result = q.Result.Clone()
	}
	return out
}

// TextEntry is one textbook adopted by a course.
type TextEntry struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Authors     []string     `json:"authors"`
	Publisher   string       `json:"publisher"`
	Year        *int         `json:"year,omitempty"`
	ISBN        string       `json:"isbn,omitempty"`
	Edition     string       `json:"edition,omitempty"`
	Category    TextCategory `json:"category"`
	IsPrincipal bool         `json:"isPrincipal"`
	Notes       string       `json:"notes,omitempty"`
}

// Clone returns a deep copy of the entry.
func (t TextEntry) Clone() TextEntry {
	out := t
	out.Authors = append([]string(nil), t.Authors...)
	if t.Year != nil {
		y := *t.Year
		out.Year = &y
	}
	return out
}

// AdoptionRecord is the structured description of a course and its adopted texts.
type AdoptionRecord struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	FileName  string `json:"fileName"`

	Institution            string `json:"institution"`
	Faculty                string `json:"faculty"`
	Department             string `json:"department"`
	DegreeProgram          string `json:"degreeProgram"`
	DegreeClass            string `json:"degreeClass"`
	DegreeClassDescription string `json:"degreeClassDescription"`

	Subject      string `json:"subject"`
	CourseName   string `json:"courseName"`
	AcademicYear string `json:"academicYear"`
	Semester     string `json:"semester"`
	Credits      int    `json:"credits"`
	SectorCode   string `json:"sectorCode"`

	Instructor      string `json:"instructor"`
	InstructorEmail string `json:"instructorEmail,omitempty"`

	AdoptedTexts    []TextEntry `json:"adoptedTexts"`
	PrincipalTextID string      `json:"principalTextId,omitempty"`

	ReviewState ReviewState `json:"reviewState"`
	Notes       string      `json:"notes,omitempty"`
}

// Clone returns a deep copy of the record.
func (r *AdoptionRecord) Clone() *AdoptionRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.AdoptedTexts = make([]TextEntry, len(r.AdoptedTexts))
	for i, t := range r.AdoptedTexts {
		out.AdoptedTexts[i] = t.Clone()
	}
	return &out
}

// TextIndex returns the position of the text with the given id, or -1.
func (r *AdoptionRecord) TextIndex(id string) int {
	for i := range r.AdoptedTexts {
		if r.AdoptedTexts[i].ID == id {
			return i
		}
	}
	return -1
}

// Principal returns the principal text, or nil when the list is empty.
func (r *AdoptionRecord) Principal() *TextEntry {
	for i := range r.AdoptedTexts {
		if r.AdoptedTexts[i].IsPrincipal {
			return &r.AdoptedTexts[i]
		}
	}
	return nil
}

// SetPrincipal flags the text with the given id as principal and clears the
// flag on every other entry.
func (r *AdoptionRecord) SetPrincipal(id string) error {
	idx := r.TextIndex(id)
	if idx < 0 {
		return ErrTextEntryNotFound
	}
	for i := range r.AdoptedTexts {
		t := &r.AdoptedTexts[i]
		t.IsPrincipal = i == idx
		switch {
		case t.IsPrincipal:
			t.Category = TextCategoryPrincipal
		case t.Category == TextCategoryPrincipal:
			t.Category = TextCategoryRecommended
		}
	}
	r.PrincipalTextID = id
	return nil
}

// EnsurePrincipal restores the single-principal invariant. The first flagged
// entry wins; if none is flagged the first entry is promoted.
func (r *AdoptionRecord) EnsurePrincipal() {
	if len(r.AdoptedTexts) == 0 {
		r.PrincipalTextID = ""
		return
	}
	id := r.AdoptedTexts[0].ID
	if p := r.Principal(); p != nil {
		id = p.ID
	}
	_ = r.SetPrincipal(id)
}

// Credentials configure a single inference call.
type Credentials struct {
	Provider string
	APIKey   string
	Model    string
}

// Configured reports whether an API key is present.
func (c Credentials) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Settings are the operator-editable inference settings.
type Settings struct {
	Provider  string    `json:"provider"`
	APIKey    string    `json:"apiKey"`
	Model     string    `json:"model"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Credentials converts settings into inference credentials.
func (s Settings) Credentials() Credentials {
	return Credentials{Provider: s.Provider, APIKey: s.APIKey, Model: s.Model}
}

// MaskedAPIKey returns the key with all but the last four characters hidden.
func (s Settings) MaskedAPIKey() string {
	if s.APIKey == "" {
		return ""
	}
	if len(s.APIKey) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + s.APIKey[len(s.APIKey)-4:]
}

// DashboardPreferences is the cached dashboard state.
type DashboardPreferences struct {
	GroupBy GroupBy `json:"groupBy"`
}
