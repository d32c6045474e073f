// Package previewtoken carries a parsed statement batch from the preview step
// to the import step without server-side state.
//
// Tokens are fernet tokens: the JSON encoded batch is encrypted and
// authenticated with a shared key and carries its own issue time, so a token
// older than the configured TTL is rejected on import.
package previewtoken

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/gripfinance/grip-backend/internal/apperrors"
	"github.com/gripfinance/grip-backend/internal/model"
)

// DefaultTTL is used when the signer is created with a non-positive TTL.
const DefaultTTL = 30 * time.Minute

// Signer issues and verifies preview tokens.
type Signer struct {
	key *fernet.Key
	ttl time.Duration
}

// NewSigner creates a Signer from a base64 encoded fernet key. An empty key
// generates a random one, which makes tokens valid for this process only.
func NewSigner(encodedKey string, ttl time.Duration) (*Signer, error) {
	var key *fernet.Key
	if encodedKey == "" {
		key = new(fernet.Key)
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate preview token key: %w", err)
		}
	} else {
		k, err := fernet.DecodeKey(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("invalid preview token key: %w", err)
		}
		key = k
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{key: key, ttl: ttl}, nil
}

// TTL returns how long issued tokens stay valid.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Sign encodes transactions into a token.
func (s *Signer) Sign(transactions []model.ParsedTransaction) (string, error) {
	payload, err := json.Marshal(transactions)
	if err != nil {
		return "", fmt.Errorf("failed to encode preview batch: %w", err)
	}

	tok, err := fernet.EncryptAndSign(payload, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign preview batch: %w", err)
	}
	return string(tok), nil
}

// Verify decodes a token issued by Sign. Expired, tampered or foreign tokens
// return apperrors.ErrInvalidPreviewToken.
func (s *Signer) Verify(token string) ([]model.ParsedTransaction, error) {
	payload := fernet.VerifyAndDecrypt([]byte(token), s.ttl, []*fernet.Key{s.key})
	if payload == nil {
		return nil, apperrors.ErrInvalidPreviewToken
	}

	var transactions []model.ParsedTransaction
	if err := json.Unmarshal(payload, &transactions); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidPreviewToken, err)
	}
	return transactions, nil
}
