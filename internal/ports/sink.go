package ports

import "github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"

// TableSink persists the three pipeline output tables.
type TableSink interface {
	WriteInvalidRecords(records []domain.InvalidRecord) error
	WriteTransformed(records []domain.TransformedRecord) error
	WriteSummaries(summaries []domain.DeviceSummary) error
	Name() string
}
