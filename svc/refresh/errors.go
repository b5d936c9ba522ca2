package refresh

import "errors"

var (
	ErrRefreshAborted      = errors.New("user data refresh aborted")
	ErrMetricsRegistration = errors.New("failed to register refresh metrics")
)
