// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"slices"
	"syscall"
)

// watcherExhausted reports whether err means the OS watcher can no longer
// deliver events, so watching must stop instead of logging and continuing.
func watcherExhausted(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && slices.Contains(exhaustionErrnos, errno)
}
