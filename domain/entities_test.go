package domain

import (
	"testing"
	"time"
)

func TestValidPurpose(t *testing.T) {
	tests := []struct {
		name    string
		purpose Purpose
		want    bool
	}{
		{"registration", PurposeRegistration, true},
		{"password reset", PurposePasswordReset, true},
		{"rfq unlock", PurposeRFQUnlock, true},
		{"empty", Purpose(""), false},
		{"unknown", Purpose("newsletter"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPurpose(tt.purpose); got != tt.want {
				t.Errorf("ValidPurpose(%q) = %v, want %v", tt.purpose, got, tt.want)
			}
		})
	}
}

func TestValidChannel(t *testing.T) {
	tests := []struct {
		name    string
		channel Channel
		want    bool
	}{
		{"sms", ChannelSMS, true},
		{"email", ChannelEmail, true},
		{"empty", Channel(""), false},
		{"unknown", Channel("carrier_pigeon"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidChannel(tt.channel); got != tt.want {
				t.Errorf("ValidChannel(%q) = %v, want %v", tt.channel, got, tt.want)
			}
		})
	}
}

func TestVerificationRequest_Expired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		at        time.Time
		want      bool
	}{
		{"well before expiry", now.Add(5 * time.Minute), now, false},
		{"exactly at expiry", now, now, false},
		{"just past expiry", now, now.Add(time.Millisecond), true},
		{"long past expiry", now.Add(-time.Hour), now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &VerificationRequest{ExpiresAt: tt.expiresAt}
			if got := req.Expired(tt.at); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}
