package models

import "time"

// ExtensionLead is a staging record captured passively (by the browser
// helper) before any validation. Promotion turns it into an outreach
// record and deletes the lead.
type ExtensionLead struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"userId"`
	ProfileURL   string     `gorm:"not null" json:"profileUrl"`
	PersonName   string     `gorm:"not null" json:"personName"`
	CompanyName  string     `json:"companyName"`
	CompanyURL   string     `json:"companyUrl"`
	Position     string     `json:"position"`
	PersonRole   string     `json:"personRole"`
	EmailAddress string     `json:"emailAddress"`
	OutreachDate *time.Time `json:"outreachDate"`
	FollowUpDate *time.Time `json:"followUpDate"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
}
