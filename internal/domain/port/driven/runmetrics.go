package driven

import (
	"time"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
)

// RunMetrics records the outcome of each replication trigger.
type RunMetrics interface {
	ObserveRun(status model.RunStatus, elapsed time.Duration)
}
