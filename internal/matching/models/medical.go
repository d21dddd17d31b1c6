package models

import (
	"fmt"

	dErrors "organmatch/pkg/domain-errors"
)

// Organ is the organ a donor pledges or a recipient needs.
// Invariant: one of the six values below; parsing is case-sensitive.
type Organ string

const (
	OrganHeart    Organ = "Heart"
	OrganLung     Organ = "Lung"
	OrganLiver    Organ = "Liver"
	OrganKidney   Organ = "Kidney"
	OrganPancreas Organ = "Pancreas"
	OrganEyes     Organ = "Eyes"
)

var organs = map[Organ]struct{}{
	OrganHeart: {}, OrganLung: {}, OrganLiver: {}, OrganKidney: {}, OrganPancreas: {}, OrganEyes: {},
}

// Organs lists the supported organs in display order.
func Organs() []Organ {
	return []Organ{OrganHeart, OrganLung, OrganLiver, OrganKidney, OrganPancreas, OrganEyes}
}

func ParseOrgan(s string) (Organ, error) {
	o := Organ(s)
	if _, ok := organs[o]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("organ: unsupported value %q", s))
	}
	return o, nil
}

func (o Organ) IsValid() bool {
	_, ok := organs[o]
	return ok
}

func (o Organ) String() string { return string(o) }

func (o *Organ) UnmarshalText(b []byte) error {
	v, err := ParseOrgan(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// BloodGroup is an ABO/Rh blood group.
type BloodGroup string

const (
	BloodAPos  BloodGroup = "A+"
	BloodANeg  BloodGroup = "A-"
	BloodBPos  BloodGroup = "B+"
	BloodBNeg  BloodGroup = "B-"
	BloodABPos BloodGroup = "AB+"
	BloodABNeg BloodGroup = "AB-"
	BloodOPos  BloodGroup = "O+"
	BloodONeg  BloodGroup = "O-"
)

var bloodGroups = map[BloodGroup]struct{}{
	BloodAPos: {}, BloodANeg: {}, BloodBPos: {}, BloodBNeg: {},
	BloodABPos: {}, BloodABNeg: {}, BloodOPos: {}, BloodONeg: {},
}

func ParseBloodGroup(s string) (BloodGroup, error) {
	g := BloodGroup(s)
	if _, ok := bloodGroups[g]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("blood_group: unsupported value %q", s))
	}
	return g, nil
}

func (g BloodGroup) IsValid() bool {
	_, ok := bloodGroups[g]
	return ok
}

func (g BloodGroup) String() string { return string(g) }

func (g *BloodGroup) UnmarshalText(b []byte) error {
	v, err := ParseBloodGroup(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// Medical is the compatibility profile shared by donors and recipients.
type Medical struct {
	BloodGroup BloodGroup `json:"blood_group"`
	Organ      Organ      `json:"organ"`
	TissueType string     `json:"tissue_type"`
	HLAMatch   int        `json:"hla_match"`
}

// Validate checks the closed enums and the free-form fields.
func (m Medical) Validate() error {
	if !m.Organ.IsValid() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("organ: unsupported value %q", m.Organ))
	}
	if !m.BloodGroup.IsValid() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("blood_group: unsupported value %q", m.BloodGroup))
	}
	if m.TissueType == "" {
		return dErrors.New(dErrors.CodeValidation, "tissue_type is required")
	}
	if m.HLAMatch < 0 {
		return dErrors.New(dErrors.CodeValidation, "hla_match must not be negative")
	}
	return nil
}
