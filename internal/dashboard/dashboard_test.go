package dashboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptions/internal/dashboard"
	"adoptions/internal/domain"
)

func text(id, title, publisher, isbn string, principal bool, authors ...string) domain.TextEntry {
	return domain.TextEntry{ID: id, Title: title, Publisher: publisher, ISBN: isbn, IsPrincipal: principal, Authors: authors}
}

func sampleRecords() []domain.AdoptionRecord {
	return []domain.AdoptionRecord{
		{
			ID: "r1", Institution: "Università di Bologna", DegreeClass: "L-13", DegreeClassDescription: "Scienze biologiche",
			DegreeProgram: "Scienze biologiche", Subject: "Chimica generale", CourseName: "Chimica I", Instructor: "Verdi",
			AdoptedTexts: []domain.TextEntry{
				text("a", "Chimica", "Zanichelli", "9788808123456", true, "Kotz"),
				text("b", "Stechiometria", "EdiSES", "", false, "Bertini"),
			},
		},
		{
			ID: "r2", Institution: "Università di Bologna", DegreeClass: "L-13", DegreeClassDescription: "Scienze biologiche",
			DegreeProgram: "Scienze biologiche", Subject: "Chimica generale", CourseName: "Chimica I (B)", Instructor: "Neri",
			AdoptedTexts: []domain.TextEntry{
				text("c", "Chimica (nuova ed.)", "Zanichelli", "9788808123456", false, "Kotz"),
				text("d", "Stechiometria", "EdiSES", "", true, "Bertini"),
			},
		},
		{
			ID: "r3", Institution: "Alma Mater Padova", DegreeClass: "LM-6", DegreeProgram: "Biologia",
			Subject: "Biologia molecolare", Instructor: "Bianchi",
			AdoptedTexts: []domain.TextEntry{
				text("e", "Biologia molecolare del gene", "zanichelli editore", "", true, "Watson"),
			},
		},
	}
}

func TestFilter_IsConjunctive(t *testing.T) {
	records := sampleRecords()

	got := dashboard.Filter(records, dashboard.Filters{Institution: "Università di Bologna", Title: "Stechiometria"})
	require.Len(t, got, 2)

	got = dashboard.Filter(records, dashboard.Filters{Institution: "Università di Bologna", Title: "Biologia molecolare del gene"})
	assert.Empty(t, got)

	got = dashboard.Filter(records, dashboard.Filters{DegreeClass: "LM-6"})
	require.Len(t, got, 1)
	assert.Equal(t, "r3", got[0].ID)

	assert.Len(t, dashboard.Filter(records, dashboard.Filters{}), 3)
}

func TestFilter_SearchIsCaseInsensitive(t *testing.T) {
	records := sampleRecords()

	got := dashboard.Filter(records, dashboard.Filters{Search: "NERI"})
	require.Len(t, got, 1)
	assert.Equal(t, "r2", got[0].ID)

	got = dashboard.Filter(records, dashboard.Filters{Search: "del gene"})
	require.Len(t, got, 1)
	assert.Equal(t, "r3", got[0].ID)

	got = dashboard.Filter(records, dashboard.Filters{Search: "chimica i", Subject: "Chimica generale"})
	assert.Len(t, got, 2)
}

func TestGroupRecords_MergesAndDedupesTexts(t *testing.T) {
	groups := dashboard.GroupRecords(sampleRecords(), domain.GroupBySubject)

	require.Len(t, groups, 2)
	assert.Equal(t, "Biologia molecolare", groups[0].Subject)
	bologna := groups[1]
	assert.Equal(t, 2, bologna.RecordCount)
	assert.Equal(t, []string{"r1", "r2"}, bologna.RecordIDs)
	assert.Equal(t, "L-13 - Scienze biologiche", bologna.DegreeClass)
	require.Len(t, bologna.Texts, 2, "same ISBN and same title+authors collapse")
	assert.Equal(t, "a", bologna.Texts[0].ID)
	require.NotNil(t, bologna.Principal)
	assert.Equal(t, "a", bologna.Principal.ID)
}

func TestGroupRecords_SortsByCriterion(t *testing.T) {
	groups := dashboard.GroupRecords(sampleRecords(), domain.GroupByInstitution)
	require.Len(t, groups, 2)
	assert.Equal(t, "Alma Mater Padova", groups[0].Institution)

	groups = dashboard.GroupRecords(sampleRecords(), domain.GroupByInstructor)
	assert.Equal(t, "Bianchi", groups[0].Instructor)

	groups = dashboard.GroupRecords(sampleRecords(), domain.GroupByProgram)
	assert.Equal(t, "Biologia", groups[0].DegreeProgram)

	assert.Empty(t, dashboard.GroupRecords(nil, domain.GroupBySubject))
}

func TestComputeStats(t *testing.T) {
	stats := dashboard.ComputeStats(sampleRecords(), "Zanichelli")

	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 2, stats.Institutions)
	assert.Equal(t, 2, stats.Subjects)
	assert.Equal(t, 2, stats.Programs)
	assert.Equal(t, 4, stats.Titles)
	assert.Equal(t, 5, stats.Texts)
	assert.Equal(t, 3, stats.HighlightTexts)
	require.Len(t, stats.Publishers, 3)
	assert.Equal(t, dashboard.PublisherCount{Publisher: "EdiSES", Texts: 2}, stats.Publishers[0])
	assert.Equal(t, dashboard.PublisherCount{Publisher: "Zanichelli", Texts: 2}, stats.Publishers[1])
	assert.Equal(t, dashboard.PublisherCount{Publisher: "zanichelli editore", Texts: 1}, stats.Publishers[2])
}

func TestComputeStats_Empty(t *testing.T) {
	stats := dashboard.ComputeStats(nil, "")
	assert.Zero(t, stats.Records)
	assert.Zero(t, stats.HighlightTexts)
	assert.NotNil(t, stats.Publishers)
}

func TestFilterOptions(t *testing.T) {
	records := sampleRecords()
	records = append(records, domain.AdoptionRecord{ID: "r4", Institution: "  ", Subject: " Chimica generale "})

	opts := dashboard.FilterOptions(records)

	assert.Equal(t, []string{"Alma Mater Padova", "Università di Bologna"}, opts.Institutions)
	assert.Equal(t, []string{"L-13", "LM-6"}, opts.DegreeClasses)
	assert.Equal(t, []string{"Biologia molecolare", "Chimica generale"}, opts.Subjects)
	assert.Contains(t, opts.Titles, "Stechiometria")
	assert.Len(t, opts.Titles, 4)
}

func TestFilter_OfferedOptionsMatchUntrimmedValues(t *testing.T) {
	records := []domain.AdoptionRecord{
		{ID: "p1", Institution: "Università di Pavia ", Subject: " Fisica", AdoptedTexts: []domain.TextEntry{
			text("t1", "Fisica 1 ", "Zanichelli", "", true, "Mazzoldi"),
		}},
		{ID: "p2", Institution: "Università di Pavia", Subject: "Analisi"},
	}
	opts := dashboard.FilterOptions(records)
	require.Equal(t, []string{"Università di Pavia"}, opts.Institutions)

	got := dashboard.Filter(records, dashboard.Filters{Institution: opts.Institutions[0]})
	assert.Len(t, got, 2)

	got = dashboard.Filter(records, dashboard.Filters{Subject: "Fisica", Title: opts.Titles[0]})
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)

	got = dashboard.Filter(records, dashboard.Filters{Institution: "  "})
	assert.Len(t, got, 2)
}
