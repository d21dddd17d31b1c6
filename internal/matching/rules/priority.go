package rules

import (
	"strings"

	"organmatch/internal/matching/models"
)

// ComparePriority orders recipients for service: negative when a goes first.
//  1. higher urgency first
//  2. earlier WaitingSince first
//  3. lower ID first, so the order is total
func ComparePriority(a, b *models.Recipient) int {
	if a.Urgency != b.Urgency {
		if a.Urgency > b.Urgency {
			return -1
		}
		return 1
	}
	if c := a.WaitingSince.Compare(b.WaitingSince); c != 0 {
		return c
	}
	return strings.Compare(string(a.ID), string(b.ID))
}

// SelectNextRecipient picks the recipient to serve next from pool, skipping
// anyone not waiting. The result does not depend on pool order.
func SelectNextRecipient(pool []*models.Recipient) (*models.Recipient, bool) {
	var best *models.Recipient
	for _, r := range pool {
		if r == nil || !r.Waiting {
			continue
		}
		if best == nil || ComparePriority(r, best) < 0 {
			best = r
		}
	}
	return best, best != nil
}
