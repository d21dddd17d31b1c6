package models

import (
	"strings"
	"time"

	id "organmatch/pkg/domain"
	dErrors "organmatch/pkg/domain-errors"
)

// Donor is a registered organ donor within one hospital tenant.
//
// Invariants:
//   - Medical passes Validate
//   - Available is false exactly while a live (reserved or committed) match
//     references the donor; only the matching engine flips it
type Donor struct {
	ID           id.DonorID  `json:"id"`
	TenantID     id.TenantID `json:"tenant_id"`
	Name         string      `json:"name"`
	Gender       string      `json:"gender"`
	Age          int         `json:"age"`
	Medical      Medical     `json:"medical"`
	Available    bool        `json:"available"`
	RegisteredAt time.Time   `json:"registered_at"`
}

// Recipient is a patient on a hospital's waiting list.
//
// Invariants:
//   - Urgency is one of Low, Medium, High, Critical
//   - Waiting is false exactly while a live match references the recipient
type Recipient struct {
	ID           id.RecipientID `json:"id"`
	TenantID     id.TenantID    `json:"tenant_id"`
	Name         string         `json:"name"`
	Gender       string         `json:"gender"`
	Age          int            `json:"age"`
	Medical      Medical        `json:"medical"`
	Urgency      Urgency        `json:"urgency"`
	Waiting      bool           `json:"waiting"`
	WaitingSince time.Time      `json:"waiting_since"`
}

// NewDonor builds an available donor, enforcing the registration invariants.
func NewDonor(tenantID id.TenantID, donorID id.DonorID, name, gender string, age int, medical Medical, now time.Time) (*Donor, error) {
	if err := validatePerson(tenantID, string(donorID), "donor_id", name, age); err != nil {
		return nil, err
	}
	if err := medical.Validate(); err != nil {
		return nil, err
	}
	return &Donor{
		ID:           donorID,
		TenantID:     tenantID,
		Name:         strings.TrimSpace(name),
		Gender:       gender,
		Age:          age,
		Medical:      medical,
		Available:    true,
		RegisteredAt: now.UTC().Truncate(time.Second),
	}, nil
}

// NewRecipient builds a waiting recipient.
func NewRecipient(tenantID id.TenantID, recipientID id.RecipientID, name, gender string, age int, medical Medical, urgency Urgency, waitingSince time.Time) (*Recipient, error) {
	if err := validatePerson(tenantID, string(recipientID), "recipient_id", name, age); err != nil {
		return nil, err
	}
	if err := medical.Validate(); err != nil {
		return nil, err
	}
	if !urgency.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "urgency: unsupported value")
	}
	return &Recipient{
		ID:           recipientID,
		TenantID:     tenantID,
		Name:         strings.TrimSpace(name),
		Gender:       gender,
		Age:          age,
		Medical:      medical,
		Urgency:      urgency,
		Waiting:      true,
		WaitingSince: waitingSince.UTC().Truncate(time.Second),
	}, nil
}

func validatePerson(tenantID id.TenantID, rawID, idField, name string, age int) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if strings.TrimSpace(rawID) == "" {
		return dErrors.New(dErrors.CodeValidation, idField+" is required")
	}
	if strings.TrimSpace(name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if age < 0 || age > 150 {
		return dErrors.New(dErrors.CodeValidation, "age must be between 0 and 150")
	}
	return nil
}
