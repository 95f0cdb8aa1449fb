// Package models defines the client-side data model for the JobDeck API.
// Persisted representations are owned by the backend; these structs mirror
// the JSON shapes the REST endpoints exchange.
package models

import (
	"strings"
	"time"
)

// Role is the access level of a user account.
type Role string

const (
	RoleUser         Role = "user"
	RoleCompanyAdmin Role = "company_admin"
	RoleSuperAdmin   Role = "super_admin"
)

// IsAdmin reports whether the role grants access to the admin back-office.
func (r Role) IsAdmin() bool {
	return r == RoleCompanyAdmin || r == RoleSuperAdmin
}

// User is an account as returned by /auth/me and the admin user endpoints.
// Credits are decremented server-side by contact unlocks only.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	CompanyID string `json:"companyId,omitempty"`
	Credits   int    `json:"credits"`
	IsActive  bool   `json:"isActive"`
}

// FullName joins first and last name, tolerating either being empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Company is an employer profile.
type Company struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Website     string   `json:"website,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	Size        string   `json:"size,omitempty"`
	LogoURL     string   `json:"logoUrl,omitempty"`
	Locations   []string `json:"locations"`
	IsVerified  bool     `json:"isVerified"`
}

// Job is a posted position. ParentID links a child posting (e.g. a
// per-location variant) to its parent job.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	CompanyID   string   `json:"companyId"`
	CompanyName string   `json:"companyName,omitempty"`
	ParentID    string   `json:"parentId,omitempty"`
	Description string   `json:"description,omitempty"`
	Locations   []string `json:"locations"`
	SalaryMin   int      `json:"salaryMin,omitempty"`
	SalaryMax   int      `json:"salaryMax,omitempty"`
	Seniority   string   `json:"seniority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsActive    bool     `json:"isActive"`
}

// Contact is a recruiter or hiring contact at a company. Name, Email and
// Phone arrive masked from list endpoints and in full only from a
// successful unlock; IsUnlocked reflects whether the requesting user has
// already spent a credit on this contact.
type Contact struct {
	ID         string `json:"id"`
	CompanyID  string `json:"companyId"`
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	IsUnlocked bool   `json:"isUnlocked"`
}

// Masked returns a copy safe to render for a locked contact. The raw
// fields of a locked contact must never be printed verbatim.
func (c Contact) Masked() Contact {
	m := c
	m.Name = maskWords(c.Name)
	m.Email = maskEmail(c.Email)
	m.Phone = maskPhone(c.Phone)
	return m
}

// Merge overlays the revealed fields from an unlock response onto the
// receiver, leaving identifiers untouched.
func (c Contact) Merge(revealed Contact) Contact {
	c.Name = revealed.Name
	c.Position = revealed.Position
	c.Email = revealed.Email
	c.Phone = revealed.Phone
	c.IsUnlocked = true
	return c
}

// ChipTemplate is an admin-managed template from which chips are stamped
// onto jobs (skill tags, benefit badges, and the like).
type ChipTemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Chip is a template instance attached to a job.
type Chip struct {
	ID         string `json:"id"`
	TemplateID string `json:"templateId"`
	JobID      string `json:"jobId"`
	Label      string `json:"label"`
}

// MarketSnapshot is an AI-generated market-insight report managed from the
// admin back-office and browsed read-only on the public side.
type MarketSnapshot struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Sector      string    `json:"sector,omitempty"`
	Period      string    `json:"period,omitempty"`
	Summary     string    `json:"summary"`
	Highlights  []string  `json:"highlights,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// AdminStats is the back-office dashboard aggregate.
type AdminStats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalCompanies int `json:"totalCompanies"`
	TotalJobs      int `json:"totalJobs"`
	TotalContacts  int `json:"totalContacts"`
	UnlocksToday   int `json:"unlocksToday"`
	CreditsSpent   int `json:"creditsSpent"`
}

func maskWords(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = string(r[0]) + "***"
	}
	return strings.Join(words, " ")
}

func maskEmail(s string) string {
	if s == "" {
		return ""
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		return "***"
	}
	return string([]rune(s[:at])[0]) + "***@" + s[at+1:]
}

func maskPhone(s string) string {
	if s == "" {
		return ""
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) <= 2 {
		return "***"
	}
	return "*** *** " + digits[len(digits)-2:]
}
