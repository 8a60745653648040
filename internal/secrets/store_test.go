package secrets

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"torchenv/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWriterLogger(logging.LevelError, io.Discard)
}

func TestTokenStore_RoundTrip(t *testing.T) {
	store, err := NewTokenStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewTokenStore() error = %v", err)
	}

	if err := store.SetToken("pypi-AgEIcHlwaS5vcmc"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "pypi-AgEIcHlwaS5vcmc" {
		t.Errorf("Token() = %q", token)
	}
}

func TestTokenStore_MissingTokenIsEmpty(t *testing.T) {
	store, err := NewTokenStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewTokenStore() error = %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "" {
		t.Errorf("Token() = %q, want empty", token)
	}
}

func TestTokenStore_ClearToken(t *testing.T) {
	store, err := NewTokenStore(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("NewTokenStore() error = %v", err)
	}

	if err := store.SetToken("secret"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}
	if err := store.ClearToken(); err != nil {
		t.Fatalf("ClearToken() error = %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "" {
		t.Errorf("Token() after clear = %q, want empty", token)
	}

	// Clearing twice is fine
	if err := store.ClearToken(); err != nil {
		t.Errorf("second ClearToken() error = %v", err)
	}
}

func TestTokenStore_TokenNotStoredInPlaintext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewTokenStore(dir, testLogger())
	if err != nil {
		t.Fatalf("NewTokenStore() error = %v", err)
	}

	if err := store.SetToken("very-secret-token"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "secrets", "index_token.enc"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(data), "very-secret-token") {
		t.Error("token file contains the plaintext token")
	}
}

func TestTokenStore_PassphrasePersists(t *testing.T) {
	dir := t.TempDir()

	first, err := NewTokenStore(dir, testLogger())
	if err != nil {
		t.Fatalf("NewTokenStore() error = %v", err)
	}
	if err := first.SetToken("stable"); err != nil {
		t.Fatalf("SetToken() error = %v", err)
	}

	// A second store over the same state dir must reuse the passphrase
	second, err := NewTokenStore(dir, testLogger())
	if err != nil {
		t.Fatalf("NewTokenStore() error = %v", err)
	}

	token, err := second.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "stable" {
		t.Errorf("Token() = %q, want stable", token)
	}
}

func TestEncryptDecrypt(t *testing.T) {
	key := DeriveKey("passphrase")

	encrypted, err := Encrypt([]byte("payload"), &key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	decrypted, err := Decrypt(encrypted, &key)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if string(decrypted) != "payload" {
		t.Errorf("Decrypt() = %q", decrypted)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	key := DeriveKey("passphrase")
	wrong := DeriveKey("other")

	encrypted, err := Encrypt([]byte("payload"), &key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := Decrypt(encrypted, &wrong); err == nil {
		t.Fatal("Decrypt() with wrong key should fail")
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	key := DeriveKey("passphrase")
	if _, err := Decrypt([]byte("short"), &key); err == nil {
		t.Fatal("Decrypt() should reject undersized input")
	}
}
