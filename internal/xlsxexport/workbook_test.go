package xlsxexport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"adoptions/internal/domain"
	"adoptions/internal/xlsxexport"
)

func TestBuild(t *testing.T) {
	records := []domain.AdoptionRecord{
		{
			ID: "r1", Institution: "Università di Pisa", DegreeClass: "L-13", Subject: "Genetica",
			DegreeProgram: "Scienze biologiche", Instructor: "Rosa",
			AdoptedTexts: []domain.TextEntry{
				{Title: "Genetica", Authors: []string{"Russell"}, Publisher: "Pearson", IsPrincipal: true, Category: domain.TextCategoryPrincipal},
				{Title: "Esercizi di genetica", Authors: []string{"Elrod"}, Publisher: "McGraw-Hill", Category: domain.TextCategoryRecommended},
			},
		},
		{ID: "r2", Institution: "Università di Pisa", DegreeClass: "L-13", Subject: "Genetica", DegreeProgram: "Scienze biologiche", Instructor: "Rosa"},
	}

	data, err := xlsxexport.Build(records, domain.GroupBySubject)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxexport.SheetAdoptions)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Record ID", rows[0][0])
	assert.Equal(t, "r1", rows[1][0])
	assert.Equal(t, "Genetica", rows[1][9])
	assert.Equal(t, "Esercizi di genetica", rows[2][9])
	assert.Equal(t, "r2", rows[3][0])

	groups, err := f.GetRows(xlsxexport.SheetGroups)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Institution", groups[0][0])
	assert.Equal(t, "2", groups[1][5])
	assert.Equal(t, "Genetica", groups[1][6])
	assert.Equal(t, "Genetica; Esercizi di genetica", groups[1][8])
}

func TestBuild_Empty(t *testing.T) {
	data, err := xlsxexport.Build(nil, domain.GroupBySubject)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{xlsxexport.SheetAdoptions, xlsxexport.SheetGroups}, f.GetSheetList())
}
