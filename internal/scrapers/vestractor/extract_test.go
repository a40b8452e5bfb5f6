package vestractor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	_ "embed"
)

//go:embed testdata/entrypoint.html
var entrypointPage string

//go:embed testdata/exam.html
var examPage string

//go:embed testdata/resolution.html
var resolutionPage string

//go:embed testdata/empty.html
var emptyPage string

const (
	testEntrypoint = "https://objetivo.test/vestibular/resolucao_comentada.aspx"
	testExamUrl    = "https://objetivo.test/vestibular/fuvest/index.aspx"
	testPhaseUrl   = "https://objetivo.test/vestibular/fuvest/2024/fase1.aspx"
)

func strptr(s string) *string {
	return &s
}

func parse(t testing.TB, url, page string) *Document {
	doc, err := ParseDocumentString(url, page)
	require.NoError(t, err)
	return doc
}

func TestExtractExams(t *testing.T) {
	exams, skips := extractExams(parse(t, testEntrypoint, entrypointPage))

	expected := []EntranceExam{
		{
			FullAcronym:       "Fuvest",
			CompressedAcronym: "fuvest",
			PageUrl:           "https://objetivo.test/vestibular/fuvest/index.aspx",
		},
		{
			FullAcronym:       "Unicamp",
			CompressedAcronym: "unicamp",
			PageUrl:           "https://objetivo.test/vestibular/unicamp/index.aspx",
		},
		{
			FullAcronym:       "Enem Dia 1",
			CompressedAcronym: "enemdia1",
			PageUrl:           "https://objetivo.test/vestibular/enem/index.aspx",
		},
	}
	if diff := cmp.Diff(expected, exams); diff != "" {
		t.Fatal(diff)
	}

	reasons := make([]string, len(skips))
	for i, s := range skips {
		reasons[i] = s.reason
	}
	require.Equal(t, []string{
		"duplicate exam key fuvest",
		"anchor has no href",
		"anchor has no text",
	}, reasons)
}

func TestExtractResolutions(t *testing.T) {
	resolutions, skips := extractResolutions(parse(t, testExamUrl, examPage))

	expected := []Resolution{
		{
			PhaseName: "1ª Fase",
			PageUrl:   "https://objetivo.test/vestibular/fuvest/2024/fase1.aspx",
		},
		{
			PhaseName: "2ª Fase-DIa 1",
			PageUrl:   "https://objetivo.test/vestibular/fuvest/2024/fase2-dia1.aspx",
		},
	}
	if diff := cmp.Diff(expected, resolutions); diff != "" {
		t.Fatal(diff)
	}
	require.Len(t, skips, 1)
	require.Equal(t, "duplicate phase name 1ª Fase", skips[0].reason)
}

func TestExtractQuestions(t *testing.T) {
	questions := extractQuestions(parse(t, testPhaseUrl, resolutionPage))

	expected := []Question{
		{
			Area:     nil,
			Id:       "Q0",
			Answer:   strptr("E"),
			ImageUrl: "https://img.objetivo.test/q00.png",
		},
		{
			Area:     strptr("Matemática"),
			Id:       "01",
			Answer:   strptr("A"),
			ImageUrl: "https://img.objetivo.test/q01.png",
		},
		{
			Area:     strptr("Matemática"),
			Id:       "02",
			Answer:   strptr("C"),
			ImageUrl: "https://img.objetivo.test/q02.png",
		},
		{
			Area:     strptr("Física"),
			Id:       "03",
			Answer:   nil,
			ImageUrl: "https://img.objetivo.test/q03.png",
		},
	}
	if diff := cmp.Diff(expected, questions); diff != "" {
		t.Fatal(diff)
	}

	// areas are not shared between questions
	*questions[1].Area = "changed"
	require.Equal(t, "Matemática", *questions[2].Area)
}

func TestExtractFromEmptyPage(t *testing.T) {
	doc := parse(t, testEntrypoint, emptyPage)

	exams, skips := extractExams(doc)
	require.Empty(t, exams)
	require.Empty(t, skips)

	resolutions, _ := extractResolutions(doc)
	require.Empty(t, resolutions)

	require.Empty(t, extractQuestions(doc))
}

func TestFindKeepsDocumentOrder(t *testing.T) {
	doc := parse(t, testPhaseUrl, resolutionPage)

	var tags []string
	for _, e := range doc.Find(questionSelector) {
		tags = append(tags, e.Tag())
	}
	require.Equal(t, []string{"a", "h2", "a", "a", "h2", "a"}, tags)

	require.Empty(t, doc.Find("a[title="))
}
