// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"testing"
)

func TestNewShape(t *testing.T) {
	id := New().String()

	parts := strings.Split(id, "-")
	if len(parts) != 5 {
		t.Fatalf("identity %q does not have 5 groups", id)
	}
	for i, want := range []int{8, 4, 4, 4, 12} {
		if len(parts[i]) != want {
			t.Errorf("group %d of %q has length %d, want %d", i, id, len(parts[i]), want)
		}
	}

	// Version and variant bits are fixed for UUIDv4.
	if parts[2][0] != '4' {
		t.Errorf("version nibble = %c, want 4", parts[2][0])
	}
	switch parts[3][0] {
	case '8', '9', 'a', 'b':
	default:
		t.Errorf("variant nibble = %c, want one of 8/9/a/b", parts[3][0])
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[Identity]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate identity %q", id)
		}
		seen[id] = true
	}
}

func TestShort(t *testing.T) {
	id := Identity("0123456789abcdef")
	if id.Short() != "01234567" {
		t.Errorf("Short = %q", id.Short())
	}
	if Identity("abc").Short() != "abc" {
		t.Errorf("Short of short identity = %q", Identity("abc").Short())
	}
}
