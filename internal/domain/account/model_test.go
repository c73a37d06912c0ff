package account_test

import (
	"testing"

	"canteen/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr bool
	}{
		{"valid", account.Account{ID: "1", Email: "asha@college.edu"}, false},
		{"empty email", account.Account{ID: "2"}, true},
		{"no at sign", account.Account{ID: "3", Email: "not-an-email"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Account.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_Password tests hashing and verification round-trip.
func TestAccount_Password(t *testing.T) {
	var a account.Account

	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("SetPassword(\"\") = %v, want ErrEmptyPassword", err)
	}
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("SetPassword(short) = %v, want ErrPasswordTooShort", err)
	}

	if err := a.SetPassword("hunter2hunter2"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "hunter2hunter2" {
		t.Fatal("password was not hashed")
	}
	if err := a.CheckPassword("hunter2hunter2"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := a.CheckPassword("wrong-password"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestAccount_CheckPasswordUnset tests verification against an empty hash.
func TestAccount_CheckPasswordUnset(t *testing.T) {
	var a account.Account
	if err := a.CheckPassword("anything"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword with empty hash = %v, want ErrWrongPassword", err)
	}
}
