package entity

const (
	EventEvaluationSucceeded = "filterbench.evaluation.succeeded"
	EventEvaluationFailed    = "filterbench.evaluation.failed"
	EventReportExported      = "filterbench.report.exported"
)

type EvaluationEvent struct {
	ImageID    string          `json:"image_id"`
	Name       string          `json:"name"`
	Seq        uint64          `json:"seq"`
	Status     Status          `json:"status"`
	Error      string          `json:"error,omitempty"`
	Cached     bool            `json:"cached,omitempty"`
	Operations []WireOperation `json:"operations"`
}

type ReportEvent struct {
	ReportID string   `json:"report_id"`
	Pages    int      `json:"pages"`
	ImageIDs []string `json:"image_ids"`
}
