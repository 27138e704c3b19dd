package ports

import "github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"

// ChartSink receives the aggregated tables for presentation. The pipeline does
// not depend on rendering succeeding; failures are logged and the run goes on.
type ChartSink interface {
	Render(summaries []domain.DeviceSummary, transformed []domain.TransformedRecord) error
	Name() string
}
