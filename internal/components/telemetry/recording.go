package telemetry

import "sync"

// Report is a single call made against a RecordingAPI.
type Report struct {
	Kind   string
	Id     string
	Params []any
}

const (
	KindBroken  = "broken"
	KindWarning = "warning"
	KindDebug   = "debug"
	KindCount   = "count"
)

// RecordingAPI keeps every report in memory, it is meant for tests.
type RecordingAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *RecordingAPI) record(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, Id: id, Params: params})
}

func (r *RecordingAPI) ReportBroken(id string, params ...any) {
	r.record(KindBroken, id, params)
}

func (r *RecordingAPI) ReportWarning(id string, params ...any) {
	r.record(KindWarning, id, params)
}

func (r *RecordingAPI) ReportDebug(msg string, params ...any) {
	r.record(KindDebug, msg, params)
}

func (r *RecordingAPI) ReportCount(id string, count int64) {
	r.record(KindCount, id, []any{count})
}

// Reports returns a copy of the reports of the given kind, or all of them if kind is empty.
func (r *RecordingAPI) Reports(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if kind == "" || report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}
