package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord mirrors the go-users activity record contract.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink receives activity events (notification deliveries, imports).
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
