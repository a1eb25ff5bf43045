package parser

import (
	"strings"

	"adoptions/internal/domain"
)

// SystemPrompt is sent as the system message by providers that support one.
const SystemPrompt = "You analyze Italian university course syllabi. Always answer with valid JSON only, without markdown or extra text."

// BuildSyllabusPrompt returns the extraction prompt for a syllabus text.
func BuildSyllabusPrompt(text string) string {
	var classes strings.Builder
	for _, dc := range domain.DegreeClasses {
		classes.WriteString("- " + dc.Code + ": " + dc.Name + " - " + dc.Description + "\n")
	}

	return `You are an expert analyst of Italian university course syllabi. Extract every requested field from the syllabus below with maximum precision.

AVAILABLE MINISTERIAL DEGREE CLASSES:
` + classes.String() + `
RULES:
1. subject: identify the SPECIFIC subject, never a generic one.
   Correct: "Chimica Organica", "Chimica Generale", "Biologia Molecolare". Wrong: "Chimica", "Biologia".
   Use the standard naming of the disciplinary sector.
2. degreeClass: use the exact code (e.g. L-13, LM-6). If the code is missing but the programme is recognizable, infer it
   (e.g. "Scienze Biologiche triennale" is L-13). degreeClassDescription is the name from the list above.
3. adoptedTexts: list ALL texts in the order they appear. The FIRST text is always the principal one (isPrincipal true).
   category is one of "principal", "recommended", "reference". Extract the ISBN when available.
4. instructor: full name of the instructor, instructorEmail when present.

If a field is not present, use an empty string for text and 0 for numbers.

SYLLABUS TEXT:
` + text + `

Return ONLY a JSON object with this structure:
{
  "institution": "full university name",
  "faculty": "",
  "department": "",
  "degreeProgram": "full degree programme name",
  "degreeClass": "code, e.g. L-13",
  "degreeClassDescription": "",
  "subject": "SPECIFIC subject, e.g. Chimica Organica",
  "courseName": "exact course name from the syllabus",
  "academicYear": "YYYY/YYYY",
  "semester": "1, 2 or Annuale",
  "credits": 0,
  "sectorCode": "e.g. BIO/10",
  "instructor": "Name Surname",
  "instructorEmail": "",
  "adoptedTexts": [
    {
      "title": "",
      "authors": ["Author1", "Author2"],
      "publisher": "",
      "year": 0,
      "isbn": "",
      "edition": "",
      "category": "principal",
      "isPrincipal": true,
      "notes": ""
    }
  ]
}`
}
