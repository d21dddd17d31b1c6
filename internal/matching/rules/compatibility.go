// Package rules holds the pure matching rules: donor/recipient compatibility
// and recipient priority. No I/O, no side effects.
package rules

import "organmatch/internal/matching/models"

// IsCompatible reports whether donor d may serve recipient r.
// Compatibility is exact equality over organ, blood group, tissue type and HLA
// match. There is no partial or weighted score.
func IsCompatible(d *models.Donor, r *models.Recipient) bool {
	if d == nil || r == nil {
		return false
	}
	return d.Medical.Organ == r.Medical.Organ &&
		d.Medical.BloodGroup == r.Medical.BloodGroup &&
		d.Medical.TissueType == r.Medical.TissueType &&
		d.Medical.HLAMatch == r.Medical.HLAMatch
}

// FindCompatibleDonor returns the first available donor in pool order that is
// compatible with r. Registries list donors in insertion order, so the result
// is reproducible; the first eligible donor wins even if others also qualify.
func FindCompatibleDonor(r *models.Recipient, pool []*models.Donor) (*models.Donor, bool) {
	for _, d := range pool {
		if d == nil || !d.Available {
			continue
		}
		if IsCompatible(d, r) {
			return d, true
		}
	}
	return nil, false
}
