package vestractor

import (
	"fmt"
	"strings"

	"vestibot/pkg/htmlutil"
)

const (
	// DefaultEntrypoint is the page listing every entrance exam with a commented resolution.
	DefaultEntrypoint = "https://www.curso-objetivo.br/vestibular/resolucao_comentada.aspx"

	resolutionTitleMarker = "Resolução Comentada"
)

var (
	examAnchorSelector       = fmt.Sprintf(`a[title^="%s"]`, resolutionTitleMarker)
	resolutionAnchorSelector = fmt.Sprintf(`a[title*="%s"]`, resolutionTitleMarker)
	questionSelector         = ".questao-gabarito, h2"
)

type EntranceExam struct {
	FullAcronym       string
	CompressedAcronym string
	PageUrl           string
}

type Resolution struct {
	PhaseName string
	PageUrl   string
}

type Question struct {
	// Area is nil when no heading came before the question on its page.
	Area *string
	Id   string
	// Answer is nil when the question has no scored answer.
	Answer   *string
	ImageUrl string
}

// skipped describes an element that was ignored because it did not look like the platform expects.
type skipped struct {
	text   string
	reason string
}

func anchorTextAndHref(doc *Document, a Element) (text, href string, reason string) {
	text = htmlutil.CleanText(a.Text())
	if text == "" {
		return "", "", "anchor has no text"
	}
	rawHref, ok := a.Attr("href")
	if !ok || strings.TrimSpace(rawHref) == "" {
		return "", "", "anchor has no href"
	}
	resolved, err := ResolveHref(doc.Url, strings.TrimSpace(rawHref))
	if err != nil {
		return "", "", err.Error()
	}
	return text, resolved, ""
}

// extractExams reads the entrance exam anchors of the entry page, anchors whose key was already
// seen are skipped.
func extractExams(doc *Document) ([]EntranceExam, []skipped) {
	var exams []EntranceExam
	var skips []skipped
	seen := map[string]struct{}{}

	for _, a := range doc.Find(examAnchorSelector) {
		text, href, reason := anchorTextAndHref(doc, a)
		if reason != "" {
			skips = append(skips, skipped{text: a.Text(), reason: reason})
			continue
		}

		key := CompressedKey(text)
		if _, dup := seen[key]; dup {
			skips = append(skips, skipped{text: text, reason: "duplicate exam key " + key})
			continue
		}
		seen[key] = struct{}{}

		exams = append(exams, EntranceExam{
			FullAcronym:       DisplayLabel(text),
			CompressedAcronym: key,
			PageUrl:           href,
		})
	}

	return exams, skips
}

// extractResolutions reads the resolution anchors of an exam page, anchors whose phase name was
// already seen are skipped.
func extractResolutions(doc *Document) ([]Resolution, []skipped) {
	var resolutions []Resolution
	var skips []skipped
	seen := map[string]struct{}{}

	for _, a := range doc.Find(resolutionAnchorSelector) {
		text, href, reason := anchorTextAndHref(doc, a)
		if reason != "" {
			skips = append(skips, skipped{text: a.Text(), reason: reason})
			continue
		}

		phase := DisplayLabel(text)
		if _, dup := seen[phase]; dup {
			skips = append(skips, skipped{text: text, reason: "duplicate phase name " + phase})
			continue
		}
		seen[phase] = struct{}{}

		resolutions = append(resolutions, Resolution{
			PhaseName: phase,
			PageUrl:   href,
		})
	}

	return resolutions, skips
}

// questionFold is the accumulator carried over the headings and question anchors of a page.
type questionFold struct {
	lastAreaSeen *string
	questions    []Question
}

func (f questionFold) step(e Element) questionFold {
	switch e.Tag() {
	case "h2":
		area := e.Text()
		f.lastAreaSeen = &area
	case "a":
		f.questions = append(f.questions, questionFromAnchor(e, f.lastAreaSeen))
	}
	return f
}

func questionFromAnchor(a Element, area *string) Question {
	parts := strings.Split(a.Text(), "-")

	q := Question{
		Id:       strings.TrimSpace(parts[0]),
		ImageUrl: a.AttrOr("data-url", ""),
	}
	if area != nil {
		copied := *area
		q.Area = &copied
	}
	if len(parts) > 1 {
		answer := strings.TrimSpace(parts[1])
		q.Answer = &answer
	}
	return q
}

// extractQuestions folds over the headings and question anchors of a resolution page in document
// order, every question takes the area of the last heading before it.
func extractQuestions(doc *Document) []Question {
	var fold questionFold
	for _, e := range doc.Find(questionSelector) {
		fold = fold.step(e)
	}
	return fold.questions
}
