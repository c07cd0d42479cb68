package services

import (
	"regexp"
	"strings"

	"github.com/coldtrackhq/coldtrack/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var passwordUpperPattern = regexp.MustCompile(`\p{Lu}`)
var passwordLowerPattern = regexp.MustCompile(`\p{Ll}`)
var passwordDigitPattern = regexp.MustCompile(`\d`)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdateNotificationSettings(userID uint, notificationEmail string, receiveNotifications bool) error
	DeleteAccountAndRelatedData(userID uint) error
}

type AuthService struct {
	users AuthUserRepository
	clock Clock
}

func NewAuthService(users AuthUserRepository, clock Clock) *AuthService {
	if clock == nil {
		clock = SystemClock()
	}
	return &AuthService{users: users, clock: clock}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidatePasswordStrength(password string) []FieldError {
	fields := make([]FieldError, 0)
	if len(password) < 8 {
		fields = append(fields, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if !passwordUpperPattern.MatchString(password) || !passwordLowerPattern.MatchString(password) || !passwordDigitPattern.MatchString(password) {
		fields = append(fields, FieldError{Field: "password", Message: "password needs upper and lower case letters and a digit"})
	}
	return fields
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (service *AuthService) Register(input RegisterInput) (models.User, error) {
	fields := make([]FieldError, 0)
	email := NormalizeEmail(input.Email)
	if email == "" || !emailPattern.MatchString(email) {
		fields = append(fields, FieldError{Field: "email", Message: "invalid email address"})
	}
	fields = append(fields, ValidatePasswordStrength(input.Password)...)
	if len(fields) > 0 {
		return models.User{}, NewValidation("invalid registration input", fields...)
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, NewStorage("check email uniqueness", err)
	}
	if exists {
		return models.User{}, NewValidation("email already registered",
			FieldError{Field: "email", Message: "email already registered"})
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, NewStorage("hash password", err)
	}

	user := models.User{
		Name:                 strings.TrimSpace(input.Name),
		Email:                email,
		PasswordHash:         string(passwordHash),
		ReceiveNotifications: true,
		CreatedAt:            service.clock.Now(),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, NewStorage("create user", err)
	}
	return user, nil
}

// Authenticate checks credentials without revealing which part failed.
// Users created through OAuth have no password hash and cannot log in with
// a password at all.
func (service *AuthService) Authenticate(email string, password string) (models.User, error) {
	user, err := service.users.FindByNormalizedEmail(NormalizeEmail(email))
	if err != nil {
		return models.User{}, NewUnauthorized("invalid credentials")
	}
	if user.PasswordHash == "" {
		return models.User{}, NewUnauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, NewUnauthorized("invalid credentials")
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

type NotificationSettingsInput struct {
	NotificationEmail    string `json:"notificationEmail"`
	ReceiveNotifications bool   `json:"receiveNotifications"`
}

func (service *AuthService) UpdateNotificationSettings(userID uint, input NotificationSettingsInput) (models.User, error) {
	email := NormalizeEmail(input.NotificationEmail)
	if email != "" && !emailPattern.MatchString(email) {
		return models.User{}, NewValidation("invalid notification settings",
			FieldError{Field: "notificationEmail", Message: "invalid email address"})
	}

	if err := service.users.UpdateNotificationSettings(userID, email, input.ReceiveNotifications); err != nil {
		return models.User{}, NewStorage("update notification settings", err)
	}
	user, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, NewStorage("reload user", err)
	}
	return user, nil
}

// DeleteAccount removes the user together with every outreach record and
// staged lead they own.
func (service *AuthService) DeleteAccount(userID uint) error {
	if err := service.users.DeleteAccountAndRelatedData(userID); err != nil {
		return NewStorage("delete account", err)
	}
	return nil
}
