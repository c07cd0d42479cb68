package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	Outreaches *OutreachRepository
	Leads      *LeadRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		Outreaches: NewOutreachRepository(database),
		Leads:      NewLeadRepository(database),
	}
}
