package interview

import (
	"context"
	"errors"

	"github.com/pobyzaarif/goshortcute"
)

var ErrSharingDisabled = errors.New("profile sharing is not configured")

// ShareCode packs the session's profile document into an encrypted,
// URL-safe code that Restore accepts on any instance holding the same key.
func (s *Service) ShareCode(ctx context.Context, sessionID string) (string, error) {
	if s.cfg.ShareKey == "" {
		return "", ErrSharingDisabled
	}
	sess, err := s.get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	data, err := sess.profile.Save()
	if err != nil {
		return "", err
	}

	encrypted, err := goshortcute.AESCBCEncrypt(data, []byte(s.cfg.ShareKey))
	if err != nil {
		return "", err
	}
	return goshortcute.StringtoBase64Encode(encrypted), nil
}

// Restore creates a new session from a share code.
func (s *Service) Restore(ctx context.Context, code string) (string, error) {
	if s.cfg.ShareKey == "" {
		return "", ErrSharingDisabled
	}

	decoded := goshortcute.StringtoBase64Decode(code)
	data, err := goshortcute.AESCBCDecrypt([]byte(decoded), []byte(s.cfg.ShareKey))
	if err != nil {
		return "", errors.New("invalid share code")
	}

	sess, err := s.ImportProfile(ctx, []byte(data))
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}
