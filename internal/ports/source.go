package ports

import (
	"context"

	"github.com/ngctnnnn/nms-data-pipeline-PhamNgocTan/internal/domain"
)

// RecordSource supplies the three raw input collections. Implementations own
// the file/wire format; rows come back already typed, with coercion failures
// on identity fields surfaced as errors and numeric coercion failures carried
// as NaN/zero for quality control to judge.
type RecordSource interface {
	DeviceInventory(ctx context.Context) ([]domain.DeviceInventory, error)
	InterfaceStats(ctx context.Context) ([]domain.InterfaceStats, error)
	Syslog(ctx context.Context) ([]domain.Syslog, error)
}
