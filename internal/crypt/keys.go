package crypt

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNoKey is returned by LoadKey when no provider has key material and an ephemeral
// key is not allowed.
var ErrNoKey = errors.New("no encryption key configured")

// KeyProvider yields key material. It returns ErrNoKey when it has nothing configured,
// any other error when configured but broken.
type KeyProvider interface {
	Key(ctx context.Context) ([]byte, error)
}

// EnvKey holds a key taken from the environment (ENCRYPTION_KEY).
type EnvKey struct {
	Value string
}

func (k EnvKey) Key(context.Context) ([]byte, error) {
	if k.Value == "" {
		return nil, ErrNoKey
	}
	key, err := ParseKey(k.Value)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY: %w", err)
	}
	return key, nil
}

// FileKey reads a key from a file such as a mounted secret (ENCRYPTION_KEY_FILE).
type FileKey struct {
	Path string
}

func (k FileKey) Key(context.Context) ([]byte, error) {
	if k.Path == "" {
		return nil, ErrNoKey
	}
	b, err := os.ReadFile(k.Path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	key, err := ParseKey(string(b))
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", k.Path, err)
	}
	return key, nil
}

// LoadKey returns the first key any provider yields. When none has one, it generates a
// random key if allowEphemeral is set (ephemeral reports true) and fails with ErrNoKey
// otherwise. Data sealed under an ephemeral key is lost on restart.
func LoadKey(ctx context.Context, allowEphemeral bool, providers ...KeyProvider) (key []byte, ephemeral bool, err error) {
	for _, p := range providers {
		key, err := p.Key(ctx)
		if errors.Is(err, ErrNoKey) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return key, false, nil
	}
	if !allowEphemeral {
		return nil, false, ErrNoKey
	}
	s, err := GenerateKey()
	if err != nil {
		return nil, false, err
	}
	key, err = ParseKey(s)
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}
