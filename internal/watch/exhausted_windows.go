// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// exhaustionErrnos are the Win32 codes after which ReadDirectoryChangesW
// stops delivering events: too many open handles (4), an invalidated
// directory handle (6) and an unallocatable notification buffer (8).
var exhaustionErrnos = []syscall.Errno{4, 6, 8}
