package models

import "time"

type User struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Name                 string    `gorm:"not null" json:"name"`
	Email                string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash         string    `json:"-"`
	NotificationEmail    string    `json:"notificationEmail"`
	ReceiveNotifications bool      `gorm:"not null;default:true" json:"receiveNotifications"`
	CreatedAt            time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// ReminderAddress is where reminder emails for this user go: the explicit
// notification override when set, the account email otherwise.
func (user User) ReminderAddress() string {
	if user.NotificationEmail != "" {
		return user.NotificationEmail
	}
	return user.Email
}
