package secrets

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"torchenv/internal/logging"
)

const tokenFile = "index_token.enc"

// TokenStore keeps the package-index credential encrypted on disk, so a
// baked CI image never carries the token in plain text.
type TokenStore struct {
	dir            string
	passphraseFile string
	key            *[KeySize]byte
	logger         *logging.Logger
}

// NewTokenStore creates a token store rooted in the given state directory
func NewTokenStore(stateDir string, logger *logging.Logger) (*TokenStore, error) {
	dir := filepath.Join(stateDir, "secrets")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create secrets directory: %w", err)
	}

	passphraseFile := filepath.Join(stateDir, ".passphrase")
	passphrase, err := loadOrGeneratePassphrase(passphraseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load passphrase: %w", err)
	}

	key := DeriveKey(passphrase)

	return &TokenStore{
		dir:            dir,
		passphraseFile: passphraseFile,
		key:            &key,
		logger:         logger,
	}, nil
}

// SetToken stores the index credential encrypted with 0600 permissions
func (s *TokenStore) SetToken(token string) error {
	encrypted, err := Encrypt([]byte(token), s.key)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	path := filepath.Join(s.dir, tokenFile)
	if err := os.WriteFile(path, encrypted, 0o600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}

	if err := s.verifyPermissions(path); err != nil {
		s.logger.Warn("secrets.permissions.invalid", "Token file has incorrect permissions", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	s.logger.Info("secrets.token.stored", "Index token stored", nil)
	return nil
}

// Token retrieves the decrypted index credential. Returns empty string
// without error when no token has been stored.
func (s *TokenStore) Token() (string, error) {
	path := filepath.Join(s.dir, tokenFile)

	encrypted, err := os.ReadFile(path) // #nosec G304 -- path is constructed from the controlled secrets dir
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	decrypted, err := Decrypt(encrypted, s.key)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(decrypted), nil
}

// ClearToken removes the stored credential if present
func (s *TokenStore) ClearToken() error {
	path := filepath.Join(s.dir, tokenFile)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}

	s.logger.Info("secrets.token.cleared", "Index token removed", nil)
	return nil
}

// verifyPermissions checks if file has exactly 0600 permissions
func (s *TokenStore) verifyPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm() != os.FileMode(0o600) {
		return fmt.Errorf("file has permissions %o, expected 600", info.Mode().Perm())
	}
	return nil
}

// loadOrGeneratePassphrase loads the passphrase from file or generates one
func loadOrGeneratePassphrase(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the state dir
	if err == nil {
		return string(data), nil
	}

	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read passphrase file: %w", err)
	}

	passphrase, err := generatePassphrase()
	if err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create passphrase directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(passphrase), 0o600); err != nil {
		return "", fmt.Errorf("failed to write passphrase: %w", err)
	}

	return passphrase, nil
}

// generatePassphrase generates a random 256-bit hex passphrase
func generatePassphrase() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", bytes), nil
}
