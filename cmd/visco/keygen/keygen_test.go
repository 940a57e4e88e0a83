package keygen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/crucial707/visco/internal/crypt"
)

func TestKeygen(t *testing.T) {
	cmd := keygenCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("RunE: %v", err)
	}
	key, err := crypt.ParseKey(strings.TrimSpace(buf.String()))
	if err != nil {
		t.Fatalf("printed key does not parse: %v", err)
	}
	if len(key) != crypt.KeySize {
		t.Errorf("key length %d", len(key))
	}
}
