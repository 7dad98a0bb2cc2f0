package services

import (
	"testing"
	"time"

	"centsimple/internal/models"
	"centsimple/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("creates_unverified_user_with_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, token, err := svc.Register("New@Example.com", "password123", "New", "User")
		testutil.AssertNoError(t, err)

		if user.Email != "new@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.IsVerified {
			t.Error("new user should not be verified")
		}
		if token == "" {
			t.Error("expected a verification token")
		}
		if user.Password == "password123" {
			t.Error("password should be hashed")
		}
	})

	t.Run("duplicate_email_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, _, err := svc.Register("dup@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)

		_, _, err = svc.Register("DUP@example.com", "password123", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestVerifyEmail(t *testing.T) {
	t.Run("valid_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, token, err := svc.Register("verify@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)

		user, err := svc.VerifyEmail(token)
		testutil.AssertNoError(t, err)

		if !user.IsVerified {
			t.Error("user should be verified")
		}
		if user.VerificationToken != nil {
			t.Error("token should be cleared after verification")
		}

		var stored models.User
		testutil.AssertNoError(t, db.First(&stored, "id = ?", user.ID).Error)
		if !stored.IsVerified || stored.VerificationToken != nil {
			t.Error("verification should be persisted")
		}
	})

	t.Run("unknown_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.VerifyEmail("not-a-real-token")
		testutil.AssertAppError(t, err, "INVALID_VERIFICATION_TOKEN")
	})

	t.Run("expired_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, token, err := svc.Register("expired@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)

		past := time.Now().Add(-time.Hour)
		testutil.AssertNoError(t, db.Model(&models.User{}).
			Where("verification_token = ?", token).
			Update("verification_token_expires", past).Error)

		_, err = svc.VerifyEmail(token)
		testutil.AssertAppError(t, err, "INVALID_VERIFICATION_TOKEN")
	})
}

func TestRegenerateVerification(t *testing.T) {
	t.Run("issues_fresh_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, oldToken, err := svc.Register("resend@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)

		_, newToken, err := svc.RegenerateVerification("resend@example.com")
		testutil.AssertNoError(t, err)

		if newToken == "" || newToken == oldToken {
			t.Error("expected a fresh verification token")
		}

		// The old token no longer verifies.
		_, err = svc.VerifyEmail(oldToken)
		testutil.AssertAppError(t, err, "INVALID_VERIFICATION_TOKEN")
	})

	t.Run("already_verified", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, _, err := svc.RegenerateVerification(user.Email)
		testutil.AssertAppError(t, err, "ALREADY_VERIFIED")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, _, err := svc.RegenerateVerification("ghost@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		got, err := svc.AttemptLogin(user.Email, "password123")
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.AttemptLogin(user.Email, "wrong-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email_same_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unverified_user_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, _, err := svc.Register("pending@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("pending@example.com", "password123")
		testutil.AssertAppError(t, err, "EMAIL_NOT_VERIFIED")
	})
}
