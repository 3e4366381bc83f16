// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsSupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		want bool
	}{
		{Windows, true},
		{Darwin, true},
		{Linux, true},
		{"freebsd", false},
		{"plan9", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()
			if got := IsSupported(tt.goos); got != tt.want {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.goos, got, tt.want)
			}
		})
	}
}
