package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact is a recipient ingested into a named list. Emails are stored
// lower-cased. MailSent, SentTemplateID, and LedgerID are maintained by
// the dispatch engine after successful sends.
type Contact struct {
	ID             uuid.UUID  `json:"id"`
	EmailFirst     string     `json:"email_first"`
	EmailSecond    string     `json:"email_second,omitempty"`
	FullName       string     `json:"full_name"`
	Phone          string     `json:"phone,omitempty"`
	CompanyPhone   string     `json:"company_phone,omitempty"`
	URL            string     `json:"url,omitempty"`
	JobTitle       string     `json:"job_title,omitempty"`
	CompanyName    string     `json:"company_name,omitempty"`
	CompanyDomain  string     `json:"company_domain,omitempty"`
	CompanyID      string     `json:"company_id,omitempty"`
	City           string     `json:"city,omitempty"`
	LinkedinID     string     `json:"linkedin_id,omitempty"`
	ListName       string     `json:"list_name"`
	MailSent       bool       `json:"mail_sent"`
	SentTemplateID *uuid.UUID `json:"sent_template_id,omitempty"`
	LedgerID       *uuid.UUID `json:"ledger_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Bindings returns the contact's profile fields as a placeholder binding
// map, with the short aliases name, email, and company. Empty fields are
// omitted so they never blank out a caller-supplied binding of the same
// key.
func (c *Contact) Bindings() map[string]string {
	fields := map[string]string{
		"full_name":      c.FullName,
		"name":           c.FullName,
		"email":          c.EmailFirst,
		"email_first":    c.EmailFirst,
		"email_second":   c.EmailSecond,
		"phone":          c.Phone,
		"company_phone":  c.CompanyPhone,
		"url":            c.URL,
		"job_title":      c.JobTitle,
		"company":        c.CompanyName,
		"company_name":   c.CompanyName,
		"company_domain": c.CompanyDomain,
		"city":           c.City,
		"linkedin_id":    c.LinkedinID,
		"list_name":      c.ListName,
	}

	bindings := make(map[string]string, len(fields))
	for k, v := range fields {
		if v != "" {
			bindings[k] = v
		}
	}
	return bindings
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
