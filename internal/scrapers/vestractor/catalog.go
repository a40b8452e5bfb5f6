package vestractor

import (
	"context"
	"fmt"

	"vestibot/internal/components/assert"
	"vestibot/internal/components/random"
	"vestibot/internal/components/telemetry"
)

const (
	report_catalog_load_exams       = "catalog.load-exams"
	report_catalog_load_resolutions = "catalog.load-resolutions"
	report_catalog_load_questions   = "catalog.load-questions"
)

type resolutionNode struct {
	Resolution
	questions branch[Question]
}

type examNode struct {
	EntranceExam
	resolutions branch[*resolutionNode]
	// byPhase indexes resolutions by phase name, it is written once by the resolution load.
	byPhase map[string]*resolutionNode
}

// examList is the loaded content of the root branch.
type examList struct {
	ordered []*examNode
	byKey   map[string]*examNode
}

// Catalog is the lazily populated exam -> resolution -> question tree of the platform.
// It is safe for concurrent use.
type Catalog struct {
	entrypoint string
	fetcher    Fetcher
	random     random.API
	tel        telemetry.API

	// root has at most one element, the examList, so the exam list gets the same load bookkeeping
	// as every other level.
	root branch[*examList]
}

type Options struct {
	// Entrypoint defaults to DefaultEntrypoint.
	Entrypoint string
	// Random defaults to random.StandardImpl, it does not need to be safe for concurrent use.
	Random random.API
}

// New creates a catalog that loads everything lazily, including the exam list.
func New(fetcher Fetcher, tel telemetry.API, opts Options) *Catalog {
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	if opts.Entrypoint == "" {
		opts.Entrypoint = DefaultEntrypoint
	}
	if opts.Random == nil {
		opts.Random = random.StandardImpl{}
	}
	// every caller of the catalog shares this source
	opts.Random = random.NewLocked(opts.Random)

	return &Catalog{
		entrypoint: opts.Entrypoint,
		fetcher:    fetcher,
		random:     opts.Random,
		tel:        telemetry.NewScopedAPI("vestractor", tel),
	}
}

// Open creates a catalog and loads the exam list right away.
func Open(ctx context.Context, fetcher Fetcher, tel telemetry.API, opts Options) (*Catalog, error) {
	c := New(fetcher, tel, opts)
	_, err := c.examList(ctx)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return c, nil
}

func (c *Catalog) reportSkipped(id, url string, skips []skipped) {
	for _, s := range skips {
		c.tel.ReportWarning(id, fmt.Errorf("skipped %q: %s", s.text, s.reason), url)
	}
}

func (c *Catalog) examList(ctx context.Context) (*examList, error) {
	lists, err := c.root.get(ctx, c.entrypoint, func(ctx context.Context) ([]*examList, error) {
		doc, err := c.fetcher.FetchDocument(ctx, c.entrypoint)
		if err != nil {
			c.tel.ReportBroken(report_catalog_load_exams, err, c.entrypoint)
			return nil, err
		}

		exams, skips := extractExams(doc)
		c.reportSkipped(report_catalog_load_exams, c.entrypoint, skips)
		c.tel.ReportCount(report_catalog_load_exams, int64(len(exams)))

		list := &examList{
			ordered: make([]*examNode, len(exams)),
			byKey:   make(map[string]*examNode, len(exams)),
		}
		for i, exam := range exams {
			node := &examNode{EntranceExam: exam}
			list.ordered[i] = node
			list.byKey[exam.CompressedAcronym] = node
		}
		return []*examList{list}, nil
	})
	if err != nil {
		return nil, err
	}
	return lists[0], nil
}

func (c *Catalog) resolutions(ctx context.Context, exam *examNode) ([]*resolutionNode, error) {
	return exam.resolutions.get(ctx, exam.PageUrl, func(ctx context.Context) ([]*resolutionNode, error) {
		doc, err := c.fetcher.FetchDocument(ctx, exam.PageUrl)
		if err != nil {
			c.tel.ReportBroken(report_catalog_load_resolutions, err, exam.CompressedAcronym)
			return nil, err
		}

		resolutions, skips := extractResolutions(doc)
		c.reportSkipped(report_catalog_load_resolutions, exam.PageUrl, skips)
		if len(resolutions) == 0 {
			c.tel.ReportWarning(report_catalog_load_resolutions, "no resolutions found", exam.PageUrl)
		}

		nodes := make([]*resolutionNode, len(resolutions))
		byPhase := make(map[string]*resolutionNode, len(resolutions))
		for i, r := range resolutions {
			nodes[i] = &resolutionNode{Resolution: r}
			byPhase[r.PhaseName] = nodes[i]
		}
		// byPhase is published before the branch turns loaded, readers only touch it after get
		// returns, which happens after the branch mutex was released by the loader.
		exam.byPhase = byPhase
		return nodes, nil
	})
}

func (c *Catalog) questions(ctx context.Context, resolution *resolutionNode) ([]Question, error) {
	return resolution.questions.get(ctx, resolution.PageUrl, func(ctx context.Context) ([]Question, error) {
		doc, err := c.fetcher.FetchDocument(ctx, resolution.PageUrl)
		if err != nil {
			c.tel.ReportBroken(report_catalog_load_questions, err, resolution.PageUrl)
			return nil, err
		}

		questions := extractQuestions(doc)
		if len(questions) == 0 {
			c.tel.ReportWarning(report_catalog_load_questions, "no questions found", resolution.PageUrl)
		}
		return questions, nil
	})
}
