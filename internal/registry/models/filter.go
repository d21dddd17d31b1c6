package models

import (
	matching "organmatch/internal/matching/models"
)

// DonorFilter narrows registry listings. Zero values match everything.
type DonorFilter struct {
	Organ         matching.Organ
	BloodGroup    matching.BloodGroup
	AvailableOnly bool
}

func (f DonorFilter) Matches(d *matching.Donor) bool {
	if f.Organ != "" && d.Medical.Organ != f.Organ {
		return false
	}
	if f.BloodGroup != "" && d.Medical.BloodGroup != f.BloodGroup {
		return false
	}
	if f.AvailableOnly && !d.Available {
		return false
	}
	return true
}

// RecipientFilter narrows waiting-list listings. Zero values match everything.
type RecipientFilter struct {
	Organ       matching.Organ
	BloodGroup  matching.BloodGroup
	Urgency     *matching.Urgency
	WaitingOnly bool
}

func (f RecipientFilter) Matches(r *matching.Recipient) bool {
	if f.Organ != "" && r.Medical.Organ != f.Organ {
		return false
	}
	if f.BloodGroup != "" && r.Medical.BloodGroup != f.BloodGroup {
		return false
	}
	if f.Urgency != nil && r.Urgency != *f.Urgency {
		return false
	}
	if f.WaitingOnly && !r.Waiting {
		return false
	}
	return true
}
