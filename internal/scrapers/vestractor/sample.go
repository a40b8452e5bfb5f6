package vestractor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"vestibot/internal/components/random"
)

const report_catalog_warm = "catalog.warm"

// Pick is a sampled question along with where it came from.
type Pick struct {
	Exam       EntranceExam
	Resolution Resolution
	Question   Question
}

func (c *Catalog) findExam(ctx context.Context, examKey string) (*examNode, error) {
	list, err := c.examList(ctx)
	if err != nil {
		return nil, err
	}

	if examKey == "" {
		exam, ok := random.Pick(c.random, list.ordered)
		if !ok {
			return nil, &EmptyResultError{Level: LevelExam, Url: c.entrypoint}
		}
		return exam, nil
	}

	exam, ok := list.byKey[examKey]
	if !ok {
		keys := make([]string, len(list.ordered))
		for i, e := range list.ordered {
			keys[i] = e.CompressedAcronym
		}
		return nil, &NotFoundError{
			Level:       LevelExam,
			Key:         examKey,
			Suggestions: suggest(examKey, keys),
		}
	}
	return exam, nil
}

func (c *Catalog) findResolution(ctx context.Context, exam *examNode, phaseKey string) (*resolutionNode, error) {
	resolutions, err := c.resolutions(ctx, exam)
	if err != nil {
		return nil, err
	}

	if phaseKey == "" {
		resolution, ok := random.Pick(c.random, resolutions)
		if !ok {
			return nil, &EmptyResultError{Level: LevelResolution, Url: exam.PageUrl}
		}
		return resolution, nil
	}

	resolution, ok := exam.byPhase[phaseKey]
	if !ok {
		phases := make([]string, len(resolutions))
		for i, r := range resolutions {
			phases[i] = r.PhaseName
		}
		return nil, &NotFoundError{
			Level:       LevelResolution,
			Key:         phaseKey,
			Suggestions: suggest(phaseKey, phases),
		}
	}
	return resolution, nil
}

// RandomQuestion samples a question, loading whatever part of the catalog it walks through.
//
// An empty examKey or phaseKey picks uniformly at random at that level, otherwise the exam is
// matched exactly on its compressed acronym and the resolution on its phase name.
func (c *Catalog) RandomQuestion(ctx context.Context, examKey, phaseKey string) (Pick, error) {
	exam, err := c.findExam(ctx, examKey)
	if err != nil {
		return Pick{}, err
	}
	resolution, err := c.findResolution(ctx, exam, phaseKey)
	if err != nil {
		return Pick{}, err
	}
	questions, err := c.questions(ctx, resolution)
	if err != nil {
		return Pick{}, err
	}

	question, ok := random.Pick(c.random, questions)
	if !ok {
		return Pick{}, &EmptyResultError{Level: LevelQuestion, Url: resolution.PageUrl}
	}

	return Pick{
		Exam:       exam.EntranceExam,
		Resolution: resolution.Resolution,
		Question:   question,
	}, nil
}

// Exams returns the exam list in page order.
func (c *Catalog) Exams(ctx context.Context) ([]EntranceExam, error) {
	list, err := c.examList(ctx)
	if err != nil {
		return nil, err
	}
	exams := make([]EntranceExam, len(list.ordered))
	for i, e := range list.ordered {
		exams[i] = e.EntranceExam
	}
	return exams, nil
}

// Resolutions returns the resolutions of an exam in page order.
func (c *Catalog) Resolutions(ctx context.Context, examKey string) ([]Resolution, error) {
	exam, err := c.findExam(ctx, examKey)
	if err != nil {
		return nil, err
	}
	nodes, err := c.resolutions(ctx, exam)
	if err != nil {
		return nil, err
	}
	resolutions := make([]Resolution, len(nodes))
	for i, r := range nodes {
		resolutions[i] = r.Resolution
	}
	return resolutions, nil
}

// Questions returns every question of a resolution in page order.
func (c *Catalog) Questions(ctx context.Context, examKey, phaseKey string) ([]Question, error) {
	exam, err := c.findExam(ctx, examKey)
	if err != nil {
		return nil, err
	}
	resolution, err := c.findResolution(ctx, exam, phaseKey)
	if err != nil {
		return nil, err
	}
	questions, err := c.questions(ctx, resolution)
	if err != nil {
		return nil, err
	}
	return append([]Question(nil), questions...), nil
}

// LoadedResolutions reports how many resolutions are cached under an exam without loading
// anything, ok is false if the exam or its resolution list is not loaded yet.
func (c *Catalog) LoadedResolutions(examKey string) (count int, ok bool) {
	lists, loaded := c.root.peek()
	if !loaded {
		return 0, false
	}
	exam, exists := lists[0].byKey[examKey]
	if !exists {
		return 0, false
	}
	nodes, loaded := exam.resolutions.peek()
	return len(nodes), loaded
}

// Warm loads the resolution list of every exam, at most concurrency pages at a time. Exams whose
// page fails are reported and left unloaded, only a cancelled ctx makes Warm return an error.
func (c *Catalog) Warm(ctx context.Context, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 1
	}

	list, err := c.examList(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	failed := make([]bool, len(list.ordered))
	for i, exam := range list.ordered {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			_, err := c.resolutions(ctx, exam)
			if err != nil {
				failed[i] = true
				c.tel.ReportWarning(report_catalog_warm, err, exam.CompressedAcronym)
			}
			return nil
		})
	}
	err = g.Wait()

	var failures int64
	for _, f := range failed {
		if f {
			failures++
		}
	}
	c.tel.ReportCount(report_catalog_warm, failures)

	if err != nil {
		return fmt.Errorf("warm catalog: %w", err)
	}
	return nil
}
