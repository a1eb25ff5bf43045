// Package dashboard filters, groups and summarizes stored adoption records.
package dashboard

import (
	"sort"
	"strings"

	"adoptions/internal/domain"
)

// Filters narrows a record list. Empty fields match everything; set fields
// must all match.
type Filters struct {
	Institution   string `form:"institution" json:"institution,omitempty"`
	DegreeClass   string `form:"degreeClass" json:"degreeClass,omitempty"`
	DegreeProgram string `form:"degreeProgram" json:"degreeProgram,omitempty"`
	Subject       string `form:"subject" json:"subject,omitempty"`
	Title         string `form:"title" json:"title,omitempty"`
	Search        string `form:"q" json:"q,omitempty"`
}

// Filter returns the records matching every set filter, in input order.
func Filter(records []domain.AdoptionRecord, f Filters) []domain.AdoptionRecord {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.AdoptionRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		if !matches(r.Institution, f.Institution) ||
			!matches(r.DegreeClass, f.DegreeClass) ||
			!matches(r.DegreeProgram, f.DegreeProgram) ||
			!matches(r.Subject, f.Subject) {
			continue
		}
		if strings.TrimSpace(f.Title) != "" && !hasTitle(r, f.Title) {
			continue
		}
		if search != "" && !strings.Contains(searchText(r), search) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// matches compares a field against a filter value the same way Options
// normalizes them. A blank filter matches everything.
func matches(value, want string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.TrimSpace(value) == want
}

func hasTitle(r *domain.AdoptionRecord, title string) bool {
	for _, t := range r.AdoptedTexts {
		if matches(t.Title, title) {
			return true
		}
	}
	return false
}

func searchText(r *domain.AdoptionRecord) string {
	parts := []string{r.Institution, r.DegreeProgram, r.Subject, r.CourseName, r.Instructor}
	for _, t := range r.AdoptedTexts {
		parts = append(parts, t.Title)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Group collects records sharing institution, degree class, subject and
// degree program.
type Group struct {
	Key           string             `json:"key"`
	Institution   string             `json:"institution"`
	DegreeClass   string             `json:"degreeClass"`
	Subject       string             `json:"subject"`
	DegreeProgram string             `json:"degreeProgram"`
	Instructor    string             `json:"instructor"`
	AcademicYear  string             `json:"academicYear"`
	Texts         []domain.TextEntry `json:"texts"`
	Principal     *domain.TextEntry  `json:"principal,omitempty"`
	RecordCount   int                `json:"recordCount"`
	RecordIDs     []string           `json:"recordIds"`
}

// GroupRecords groups records and sorts the groups by the chosen criterion.
// Texts are de-duplicated by ISBN or by title and authors; the first
// principal text seen is kept as the group's principal.
func GroupRecords(records []domain.AdoptionRecord, by domain.GroupBy) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for i := range records {
		r := &records[i]
		key := strings.Join([]string{r.Institution, r.DegreeClass, r.Subject, r.DegreeProgram}, "_")
		gi, ok := index[key]
		if !ok {
			class := r.DegreeClass
			if r.DegreeClassDescription != "" {
				class = r.DegreeClass + " - " + r.DegreeClassDescription
			}
			groups = append(groups, Group{
				Key:           key,
				Institution:   r.Institution,
				DegreeClass:   class,
				Subject:       r.Subject,
				DegreeProgram: r.DegreeProgram,
				Instructor:    r.Instructor,
				AcademicYear:  r.AcademicYear,
				Texts:         []domain.TextEntry{},
				RecordIDs:     []string{},
			})
			gi = len(groups) - 1
			index[key] = gi
		}
		g := &groups[gi]
		g.RecordCount++
		g.RecordIDs = append(g.RecordIDs, r.ID)

		for _, t := range r.AdoptedTexts {
			if !containsText(g.Texts, t) {
				g.Texts = append(g.Texts, t.Clone())
			}
			if t.IsPrincipal && g.Principal == nil {
				p := t.Clone()
				g.Principal = &p
			}
		}
	}

	sortKey := func(g *Group) string {
		switch by {
		case domain.GroupByInstitution:
			return g.Institution
		case domain.GroupByProgram:
			return g.DegreeProgram
		case domain.GroupByInstructor:
			return g.Instructor
		default:
			return g.Subject
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(sortKey(&groups[i])) < strings.ToLower(sortKey(&groups[j]))
	})
	return groups
}

func containsText(texts []domain.TextEntry, t domain.TextEntry) bool {
	for _, existing := range texts {
		if existing.ISBN != "" && t.ISBN != "" && existing.ISBN == t.ISBN {
			return true
		}
		if existing.Title == t.Title && equalAuthors(existing.Authors, t.Authors) {
			return true
		}
	}
	return false
}

func equalAuthors(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PublisherCount is the number of adopted texts from one publisher.
type PublisherCount struct {
	Publisher string `json:"publisher"`
	Texts     int    `json:"texts"`
}

// Stats summarizes a record list.
type Stats struct {
	Records        int              `json:"records"`
	Institutions   int              `json:"institutions"`
	Subjects       int              `json:"subjects"`
	Programs       int              `json:"programs"`
	Titles         int              `json:"titles"`
	Texts          int              `json:"texts"`
	Publishers     []PublisherCount `json:"publishers"`
	Highlight      string           `json:"highlight,omitempty"`
	HighlightTexts int              `json:"highlightTexts"`
}

// ComputeStats counts records, distinct values and texts per publisher.
// Texts whose publisher contains highlight (case-insensitive) are counted
// separately.
func ComputeStats(records []domain.AdoptionRecord, highlight string) Stats {
	institutions := map[string]struct{}{}
	subjects := map[string]struct{}{}
	programs := map[string]struct{}{}
	titles := map[string]struct{}{}
	publishers := map[string]*PublisherCount{}
	needle := strings.ToLower(strings.TrimSpace(highlight))

	s := Stats{Records: len(records), Highlight: strings.TrimSpace(highlight)}
	for i := range records {
		r := &records[i]
		institutions[r.Institution] = struct{}{}
		subjects[r.Subject] = struct{}{}
		programs[r.DegreeProgram] = struct{}{}
		for _, t := range r.AdoptedTexts {
			s.Texts++
			titles[t.Title] = struct{}{}

			name := strings.TrimSpace(t.Publisher)
			if name != "" {
				key := strings.ToLower(name)
				pc, ok := publishers[key]
				if !ok {
					pc = &PublisherCount{Publisher: name}
					publishers[key] = pc
				}
				pc.Texts++
			}
			if needle != "" && strings.Contains(strings.ToLower(t.Publisher), needle) {
				s.HighlightTexts++
			}
		}
	}
	s.Institutions = len(institutions)
	s.Subjects = len(subjects)
	s.Programs = len(programs)
	s.Titles = len(titles)

	s.Publishers = make([]PublisherCount, 0, len(publishers))
	for _, pc := range publishers {
		s.Publishers = append(s.Publishers, *pc)
	}
	sort.Slice(s.Publishers, func(i, j int) bool {
		if s.Publishers[i].Texts != s.Publishers[j].Texts {
			return s.Publishers[i].Texts > s.Publishers[j].Texts
		}
		return s.Publishers[i].Publisher < s.Publishers[j].Publisher
	})
	return s
}

// Options lists the distinct values offered by the filter controls.
type Options struct {
	Institutions   []string `json:"institutions"`
	DegreeClasses  []string `json:"degreeClasses"`
	DegreePrograms []string `json:"degreePrograms"`
	Subjects       []string `json:"subjects"`
	Titles         []string `json:"titles"`
}

// FilterOptions returns sorted, trimmed, non-blank distinct values.
func FilterOptions(records []domain.AdoptionRecord) Options {
	var institutions, classes, programs, subjects, titles []string
	for i := range records {
		r := &records[i]
		institutions = append(institutions, r.Institution)
		classes = append(classes, r.DegreeClass)
		programs = append(programs, r.DegreeProgram)
		subjects = append(subjects, r.Subject)
		for _, t := range r.AdoptedTexts {
			titles = append(titles, t.Title)
		}
	}
	return Options{
		Institutions:   uniqueSorted(institutions),
		DegreeClasses:  uniqueSorted(classes),
		DegreePrograms: uniqueSorted(programs),
		Subjects:       uniqueSorted(subjects),
		Titles:         uniqueSorted(titles),
	}
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}
