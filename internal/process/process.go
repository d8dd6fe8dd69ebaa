// Package process terminates the browser process trees started for
// rasterizing letters.
package process

import "errors"

// ErrInvalidPID is returned for pids that cannot name a process group.
var ErrInvalidPID = errors.New("invalid pid")
