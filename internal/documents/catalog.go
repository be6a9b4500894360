// Package documents is the static checklist of supporting documents an
// eligible Help-to-Buy applicant must supply.
package documents

import (
	"time"

	"htb-gateway/internal/regulations"
)

type Category string

const (
	CategoryIdentity Category = "IDENTITY"
	CategoryIncome   Category = "INCOME"
	CategoryMortgage Category = "MORTGAGE"
	CategoryProperty Category = "PROPERTY"
	CategoryTax      Category = "TAX"
)

const selfEmployed = "SELF_EMPLOYED"

// Template is one catalogue entry. DueDays counts from the assessment's
// issue time.
type Template struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Category         Category `json:"category"`
	Mandatory        bool     `json:"mandatory"`
	DueDays          int      `json:"due_days"`
	SelfEmployedOnly bool     `json:"self_employed_only,omitempty"`
	NewHomeOnly      bool     `json:"new_home_only,omitempty"`
}

// Profile selects which templates apply.
type Profile struct {
	HomeType       regulations.HomeType
	EmploymentType string
	Eligible       bool
}

// Requirement is a template resolved against an issue time.
type Requirement struct {
	ID        string
	Name      string
	Category  Category
	Mandatory bool
	DueBy     time.Time
}

type Catalog struct {
	templates []Template
}

// New builds a catalogue from templates, in checklist order.
func New(templates []Template) *Catalog {
	return &Catalog{templates: append([]Template(nil), templates...)}
}

// Default is the standard HTB checklist.
func Default() *Catalog {
	return New([]Template{
		{ID: "salary_cert", Name: "Salary certificate from employer", Category: CategoryIncome, Mandatory: true, DueDays: 14},
		{ID: "bank_statements", Name: "Six months of bank statements", Category: CategoryIncome, Mandatory: true, DueDays: 14},
		{ID: "mortgage_approval", Name: "Mortgage approval in principle", Category: CategoryMortgage, Mandatory: true, DueDays: 21},
		{ID: "contracts_sale", Name: "Signed contracts for sale", Category: CategoryProperty, Mandatory: true, DueDays: 30},
		{ID: "photo_id", Name: "Photo identification", Category: CategoryIdentity, Mandatory: true, DueDays: 7},
		{ID: "pps_cert", Name: "PPS number confirmation", Category: CategoryIdentity, Mandatory: true, DueDays: 7},
		{ID: "tax_returns", Name: "Two years of tax returns and accountant certification", Category: CategoryTax, Mandatory: true, DueDays: 21, SelfEmployedOnly: true},
		{ID: "ber_cert", Name: "BER certificate", Category: CategoryProperty, Mandatory: true, DueDays: 30, NewHomeOnly: true},
	})
}

// Checklist returns the templates that apply to p, ignoring eligibility.
func (c *Catalog) Checklist(p Profile) []Template {
	out := make([]Template, 0, len(c.templates))
	for _, t := range c.templates {
		if t.SelfEmployedOnly && p.EmploymentType != selfEmployed {
			continue
		}
		if t.NewHomeOnly && p.HomeType != regulations.HomeTypeNew {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Required resolves the checklist for an assessment issued at issuedAt.
// Ineligible results carry no documents.
func (c *Catalog) Required(p Profile, issuedAt time.Time) []Requirement {
	if !p.Eligible {
		return []Requirement{}
	}
	templates := c.Checklist(p)
	out := make([]Requirement, len(templates))
	for i, t := range templates {
		out[i] = Requirement{
			ID:        t.ID,
			Name:      t.Name,
			Category:  t.Category,
			Mandatory: t.Mandatory,
			DueBy:     issuedAt.AddDate(0, 0, t.DueDays),
		}
	}
	return out
}
