package handler

import (
	"strings"
	"time"

	matching "organmatch/internal/matching/models"
	"organmatch/internal/registry/service"
	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
)

// MedicalRequest is the compatibility profile as sent by the registration workflow.
type MedicalRequest struct {
	BloodGroup string `json:"blood_group"`
	Organ      string `json:"organ"`
	TissueType string `json:"tissue_type"`
	HLAMatch   int    `json:"hla_match"`
}

func (m MedicalRequest) parse() (matching.Medical, error) {
	organ, err := matching.ParseOrgan(strings.TrimSpace(m.Organ))
	if err != nil {
		return matching.Medical{}, err
	}
	blood, err := matching.ParseBloodGroup(strings.TrimSpace(m.BloodGroup))
	if err != nil {
		return matching.Medical{}, err
	}
	return matching.Medical{
		BloodGroup: blood,
		Organ:      organ,
		TissueType: strings.TrimSpace(m.TissueType),
		HLAMatch:   m.HLAMatch,
	}, nil
}

// DonorRequest is the body of POST /donors.
type DonorRequest struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Gender  string         `json:"gender"`
	Age     int            `json:"age"`
	Medical MedicalRequest `json:"medical"`
}

func (r DonorRequest) ToInput() (service.DonorInput, error) {
	donorID, err := id.ParseDonorID(r.ID)
	if err != nil {
		return service.DonorInput{}, err
	}
	medical, err := r.Medical.parse()
	if err != nil {
		return service.DonorInput{}, err
	}
	return service.DonorInput{
		ID:      donorID,
		Name:    r.Name,
		Gender:  strings.TrimSpace(r.Gender),
		Age:     r.Age,
		Medical: medical,
	}, nil
}

// RecipientRequest is the body of POST /recipients. WaitingSince is RFC 3339
// and defaults to the request time.
type RecipientRequest struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Gender       string         `json:"gender"`
	Age          int            `json:"age"`
	Medical      MedicalRequest `json:"medical"`
	Urgency      string         `json:"urgency"`
	WaitingSince string         `json:"waiting_since,omitempty"`
}

func (r RecipientRequest) ToInput() (service.RecipientInput, error) {
	recipientID, err := id.ParseRecipientID(r.ID)
	if err != nil {
		return service.RecipientInput{}, err
	}
	medical, err := r.Medical.parse()
	if err != nil {
		return service.RecipientInput{}, err
	}
	urgency, err := matching.ParseUrgency(strings.TrimSpace(r.Urgency))
	if err != nil {
		return service.RecipientInput{}, err
	}
	var since time.Time
	if s := strings.TrimSpace(r.WaitingSince); s != "" {
		since, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return service.RecipientInput{}, dErrors.New(dErrors.CodeValidation, "waiting_since must be an RFC 3339 timestamp")
		}
	}
	return service.RecipientInput{
		ID:           recipientID,
		Name:         r.Name,
		Gender:       strings.TrimSpace(r.Gender),
		Age:          r.Age,
		Medical:      medical,
		Urgency:      urgency,
		WaitingSince: since,
	}, nil
}
