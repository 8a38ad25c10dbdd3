package service

import (
	"context"
	"fmt"
)

// ExistsFunc reports whether an invoice number is already stored.
type ExistsFunc func(ctx context.Context, number string) (bool, error)

// DuplicateDetector flags invoice numbers already in storage or already
// accepted earlier in the same batch. Create one per import call.
type DuplicateDetector struct {
	exists ExistsFunc
	seen   map[string]struct{}
}

func NewDuplicateDetector(exists ExistsFunc) *DuplicateDetector {
	return &DuplicateDetector{
		exists: exists,
		seen:   make(map[string]struct{}),
	}
}

// IsDuplicate checks the batch first, then storage.
func (d *DuplicateDetector) IsDuplicate(ctx context.Context, number string) (bool, error) {
	if _, ok := d.seen[number]; ok {
		return true, nil
	}
	found, err := d.exists(ctx, number)
	if err != nil {
		return false, fmt.Errorf("failed to check invoice %s: %w", number, err)
	}
	return found, nil
}

// MarkSeen records the first accepted occurrence of a number.
func (d *DuplicateDetector) MarkSeen(number string) {
	d.seen[number] = struct{}{}
}
