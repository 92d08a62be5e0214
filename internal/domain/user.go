package domain

import (
	"time"
)

// PhoneNumberLength is the required length of a phone number.
const PhoneNumberLength = 10

// User represents an account identified by a phone number. The pending OTP
// fields are never serialized into responses.
type User struct {
	ID                string     `json:"id"`
	PhoneNumber       string     `json:"phone_number"`
	Name              string     `json:"name,omitempty"`
	Role              string     `json:"role"`
	IsPhoneVerified   bool       `json:"is_phone_verified"`
	VerifyOtp         string     `json:"-"`
	VerifyOtpExpireAt *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// PublicUser is the projection of a user returned to clients after
// verification.
type PublicUser struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		Name:        u.Name,
		Role:        u.Role,
	}
}

// HasPendingOtp reports whether the user has an unconsumed OTP on record.
func (u *User) HasPendingOtp() bool {
	return u.VerifyOtp != "" && u.VerifyOtpExpireAt != nil
}

// OtpExpired reports whether the pending OTP has expired as of now. Expiry is
// inclusive: a code checked exactly at its expiry instant is already expired.
func (u *User) OtpExpired(now time.Time) bool {
	return u.VerifyOtpExpireAt == nil || !now.Before(*u.VerifyOtpExpireAt)
}
