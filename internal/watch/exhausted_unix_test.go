// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestWatcherExhausted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{syscall.ENOSPC, true},
		{syscall.EMFILE, true},
		{fmt.Errorf("inotify_add_watch: %w", syscall.ENFILE), true},
		{syscall.EACCES, false},
		{syscall.ENOENT, false},
		{errors.New("queue overflow"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := watcherExhausted(tt.err); got != tt.want {
			t.Errorf("watcherExhausted(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
