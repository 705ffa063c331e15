package models

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"go.mongodb.org/mongo-driver/bson"
)

// Certification represents a credential earned from an issuer
type Certification struct {
	Base         `bson:",inline"`
	Issuer       string     `json:"issuer" bson:"issuer" validate:"required"`
	IssueDate    time.Time  `json:"issueDate" bson:"issueDate" validate:"required"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	CredentialID string     `json:"credentialId,omitempty" bson:"credentialId,omitempty"`
	PDF          string     `json:"pdf,omitempty" bson:"pdf,omitempty"`
}

// CheckIdentity extends the base check with the issuer and issue date
func (c *Certification) CheckIdentity() error {
	if err := c.Base.CheckIdentity(); err != nil {
		return err
	}
	if c.Issuer == "" {
		return errs.NewMissingRequiredFieldError("issuer")
	}
	if c.IssueDate.IsZero() {
		return errs.NewMissingRequiredFieldError("issueDate")
	}
	return nil
}

// certifications carry no image
func (c *Certification) ApplyDefaults(string) {}

type CertificationInput struct {
	BaseInput
	Issuer       *string `json:"issuer" validate:"omitempty,min=1"`
	IssueDate    *Date   `json:"issueDate"`
	ExpiryDate   *Date   `json:"expiryDate"`
	CredentialID *string `json:"credentialId"`
	PDF          *string `json:"pdf"`
}

func (in CertificationInput) Build() Certification {
	c := Certification{
		Base:         in.BaseInput.build(),
		Issuer:       deref(in.Issuer, ""),
		CredentialID: deref(in.CredentialID, ""),
		PDF:          deref(in.PDF, ""),
	}
	if in.IssueDate != nil {
		c.IssueDate = in.IssueDate.Time
	}
	if in.ExpiryDate != nil && !in.ExpiryDate.IsZero() {
		expiry := in.ExpiryDate.Time
		c.ExpiryDate = &expiry
	}
	return c
}

func (in CertificationInput) Fields() bson.M {
	set := in.BaseInput.fields()
	setIf(set, "issuer", in.Issuer)
	setIf(set, "credentialId", in.CredentialID)
	setIf(set, "pdf", in.PDF)
	if in.IssueDate != nil {
		set["issueDate"] = in.IssueDate.Time
	}
	if in.ExpiryDate != nil {
		if in.ExpiryDate.IsZero() {
			// an empty expiry clears it, stored as null like an absent one
			set["expiryDate"] = nil
		} else {
			set["expiryDate"] = in.ExpiryDate.Time
		}
	}
	return set
}

// check rejects a supplied but empty issue date, which would otherwise
// overwrite a required field with the zero time
func (in CertificationInput) check() error {
	if in.IssueDate != nil && in.IssueDate.IsZero() {
		return errs.NewMissingRequiredFieldError("issueDate")
	}
	return nil
}

// Date accepts either a full RFC 3339 timestamp or a bare calendar date
// ("2024-05-01"), which is what date inputs in the admin UI produce.
type Date struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}
