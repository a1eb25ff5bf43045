package extract_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoptions/internal/config"
	"adoptions/internal/domain"
	"adoptions/internal/extract"
	"adoptions/internal/port"
)

type fakeRunner struct {
	stdout, stderr string
	err            error
	gotName        string
	gotArgs        []string
	gotFile        []byte
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.gotName = name
	f.gotArgs = args
	if len(args) >= 2 {
		f.gotFile, _ = os.ReadFile(args[len(args)-2])
	}
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func newExtractor(r extract.Runner) *extract.Extractor {
	return extract.NewExtractor(config.ExtractorConfig{PDFToTextPath: "/usr/bin/pdftotext"}, r, nil)
}

func TestExtractor_PDF(t *testing.T) {
	r := &fakeRunner{stdout: "Programma di Chimica\fPagina 2\n"}
	pdf := []byte("%PDF-1.7 fake")

	text, err := newExtractor(r).Extract(context.Background(), port.ExtractInput{
		FileName: "chimica.pdf", ContentType: "application/pdf", Data: pdf,
	})

	require.NoError(t, err)
	assert.Equal(t, "Programma di Chimica\nPagina 2", text)
	assert.Equal(t, "/usr/bin/pdftotext", r.gotName)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}, r.gotArgs[:5])
	assert.Equal(t, "-", r.gotArgs[len(r.gotArgs)-1])
	assert.Equal(t, pdf, r.gotFile)
}

func TestExtractor_PDF_CommandFails(t *testing.T) {
	r := &fakeRunner{stderr: "Syntax Error: Couldn't find trailer dictionary", err: errors.New("exit status 1")}

	_, err := newExtractor(r).Extract(context.Background(), port.ExtractInput{
		FileName: "broken.pdf", ContentType: "application/pdf", Data: []byte("%PDF"),
	})

	var exErr *domain.ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, "broken.pdf", exErr.FileName)
	assert.Contains(t, err.Error(), "trailer dictionary")
}

func TestExtractor_PDF_NoTextLayer(t *testing.T) {
	r := &fakeRunner{stdout: " \f \n"}

	_, err := newExtractor(r).Extract(context.Background(), port.ExtractInput{
		FileName: "scan.pdf", ContentType: "application/pdf", Data: []byte("%PDF"),
	})

	var exErr *domain.ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Contains(t, err.Error(), "no readable text")
}

func TestExtractor_TextPassthrough(t *testing.T) {
	e := newExtractor(&fakeRunner{})

	text, err := e.Extract(context.Background(), port.ExtractInput{Text: "  pasted syllabus  "})
	require.NoError(t, err)
	assert.Equal(t, "pasted syllabus", text)

	text, err = e.Extract(context.Background(), port.ExtractInput{
		FileName: "a.txt", ContentType: "text/plain", Data: []byte("Corso di Biologia"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Corso di Biologia", text)

	_, err = e.Extract(context.Background(), port.ExtractInput{
		FileName: "a.txt", ContentType: "text/plain", Data: []byte{0xff, 0xfe, 0xfd},
	})
	assert.Error(t, err)
}

func TestExtractor_UnsupportedType(t *testing.T) {
	_, err := newExtractor(&fakeRunner{}).Extract(context.Background(), port.ExtractInput{
		FileName: "a.docx", ContentType: "application/msword", Data: []byte("x"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestPrecheck(t *testing.T) {
	pdf := []byte("%PDF-1.4\n" + strings.Repeat("x", 100))

	ct, err := extract.Precheck("Syllabus.PDF", pdf, 1024)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)

	ct, err = extract.Precheck("notes.txt", []byte("plain text"), 1024)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)

	_, err = extract.Precheck("image.png", pdf, 1024)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	_, err = extract.Precheck("fake.pdf", []byte("just text"), 1024)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	_, err = extract.Precheck("big.pdf", pdf, 10)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)

	_, err = extract.Precheck("empty.pdf", nil, 10)
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}
