// Package types provides type definitions for structured data used throughout the Career+ optimization backend.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Experience represents a single work experience entry on a resume
type Experience struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location,omitempty"`
	Dates       string   `json:"dates,omitempty"`
	Description []string `json:"description"`
}

// Education represents a single education entry on a resume
type Education struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Location    string   `json:"location,omitempty"`
	Dates       string   `json:"dates,omitempty"`
	Details     []string `json:"details,omitempty"`
}

// Certification represents a professional certification
type Certification struct {
	Name    string `json:"name"`
	Issuer  string `json:"issuer,omitempty"`
	Date    string `json:"date,omitempty"`
	Details string `json:"details,omitempty"`
}

// ContactInfo holds the candidate's contact details
type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// Resume is the canonical structured resume shape shared by the analyzer,
// optimizer, localizer, and PDF exporter.
type Resume struct {
	Contact        ContactInfo     `json:"contact"`
	Summary        string          `json:"summary,omitempty"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education,omitempty"`
	Skills         []string        `json:"skills,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// BulletCount returns the total number of description bullets across all experience entries
func (r *Resume) BulletCount() int {
	count := 0
	for _, exp := range r.Experience {
		count += len(exp.Description)
	}
	return count
}
