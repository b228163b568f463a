package cryptox

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := HashPassword(tt.password)
			require.NoError(t, err)

			require.Equal(t, PasswordIterations, rec.Iterations)
			require.Len(t, rec.Salt, PasswordSaltLength*2, "salt should be hex encoded")
			require.Len(t, rec.Hash, PasswordKeyLength*2, "hash should be hex encoded")

			_, err = hex.DecodeString(rec.Salt)
			require.NoError(t, err)

			require.NoError(t, VerifyPassword(tt.password, rec))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	rec1, err := HashPassword("samepassword")
	require.NoError(t, err)
	rec2, err := HashPassword("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, rec1.Salt, rec2.Salt)
	require.NotEqual(t, rec1.Hash, rec2.Hash)
}

// legacyRecord is "correct-horse" as stored in existing secrets files, i.e.
// crypto.pbkdf2Sync(password, saltHex, 10000, 256, "sha256"). The hex salt
// string is the PBKDF2 salt, not its decoded bytes.
var legacyRecord = PasswordRecord{
	Salt: "a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1a3f1",
	Hash: "65617c644121e274b7b77b816d38b26669ba5222e18d0220b93e4102056a0045fb5c321d8cfe8bd39e87b5f5f317f766741d9ae877b5961e8750da24c97f528c" +
		"bcf8a75e46d2c5a555821b0f8171549ce474f490cee9590daf13588eaed3cf9c3bb36f4a35af07149f52a65353e44cc37d2937f0df3c4fd3cd91e4326827a26c" +
		"c74b4e96d5506fea69b539eeaf88c0699697879489b42448a947366592bc160636d383bea359611563a9a75ee045c5199530fc9ea60c848aa8c1118ec109b11b" +
		"88d5b922786fa509883d02f06251048fab6d05b85669ab9e1e659964ef7dd4080ea79dbc135ff3f96611e5e3c67f7c58aabede384175ee39cd98d84b79e97371",
	Iterations: 10000,
}

func TestVerifyPassword_LegacyRecord(t *testing.T) {
	require.NoError(t, VerifyPassword("correct-horse", legacyRecord))
	require.ErrorIs(t, VerifyPassword("wrong", legacyRecord), ErrPasswordMismatch)
	require.ErrorIs(t, VerifyPassword("Correct-horse", legacyRecord), ErrPasswordMismatch)
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	rec, err := HashPassword("correct-horse")
	require.NoError(t, err)

	tests := []struct {
		name          string
		wrongPassword string
	}{
		{"completely wrong", "wrong"},
		{"case difference", "Correct-Horse"},
		{"extra space", "correct-horse "},
		{"empty password", ""},
		{"very long", strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword(tt.wrongPassword, rec)
			require.ErrorIs(t, err, ErrPasswordMismatch)
		})
	}
}

func TestVerifyPassword_InvalidRecord(t *testing.T) {
	tests := []struct {
		name   string
		record PasswordRecord
	}{
		{"empty record", PasswordRecord{}},
		{"missing salt", PasswordRecord{Hash: "abcd", Iterations: 1}},
		{"zero iterations", PasswordRecord{Salt: "salt", Hash: "abcd"}},
		{"negative iterations", PasswordRecord{Salt: "salt", Hash: "abcd", Iterations: -5}},
		{"non-hex hash", PasswordRecord{Salt: "salt", Hash: "zz", Iterations: 1}},
		{"empty hash", PasswordRecord{Salt: "salt", Iterations: 1}},
		{"one byte hash", PasswordRecord{Salt: legacyRecord.Salt, Hash: legacyRecord.Hash[:2], Iterations: 10000}},
		{"half length hash", PasswordRecord{Salt: legacyRecord.Salt, Hash: legacyRecord.Hash[:PasswordKeyLength], Iterations: 10000}},
		{"overlong hash", PasswordRecord{Salt: legacyRecord.Salt, Hash: legacyRecord.Hash + "00", Iterations: 10000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword("password", tt.record)
			require.ErrorIs(t, err, ErrInvalidPasswordRecord)
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool, 20)
	for range 20 {
		password, err := GeneratePassword()
		require.NoError(t, err)
		require.Len(t, password, 16)
		require.NotContains(t, seen, password, "duplicate password generated")
		seen[password] = true

		for _, char := range password {
			valid := (char >= 'a' && char <= 'z') ||
				(char >= 'A' && char <= 'Z') ||
				(char >= '0' && char <= '9')
			require.True(t, valid, "password should only contain alphanumeric characters")
		}
	}
}
