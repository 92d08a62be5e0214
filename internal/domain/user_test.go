package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONNeverExposesOtpFields(t *testing.T) {
	expireAt := time.Now().Add(time.Minute)
	u := User{
		ID:                "user-1",
		PhoneNumber:       "9876543210",
		Role:              RoleUser,
		VerifyOtp:         "4821",
		VerifyOtpExpireAt: &expireAt,
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "4821")
	assert.NotContains(t, string(data), "verify_otp")
}

func TestUser_Public_Projection(t *testing.T) {
	u := User{
		ID:              "user-1",
		PhoneNumber:     "9876543210",
		Name:            "Asha",
		Role:            RoleUser,
		IsPhoneVerified: true,
		VerifyOtp:       "4821",
	}

	pub := u.Public()
	assert.Equal(t, "user-1", pub.ID)
	assert.Equal(t, "9876543210", pub.PhoneNumber)
	assert.Equal(t, "Asha", pub.Name)
	assert.Equal(t, RoleUser, pub.Role)
}

func TestUser_OtpExpired_Boundary(t *testing.T) {
	expireAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	u := User{VerifyOtp: "4821", VerifyOtpExpireAt: &expireAt}

	assert.False(t, u.OtpExpired(expireAt.Add(-time.Second)))
	// Exactly at the expiry instant the code is already expired.
	assert.True(t, u.OtpExpired(expireAt))
	assert.True(t, u.OtpExpired(expireAt.Add(time.Second)))
}

func TestUser_OtpExpired_NoPendingOtp(t *testing.T) {
	u := User{}
	assert.True(t, u.OtpExpired(time.Now()))
	assert.False(t, u.HasPendingOtp())
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(OrderStatusProcessing))
	assert.True(t, IsValidStatus(OrderStatusDelivered))
	assert.False(t, IsValidStatus("pending"))
}
