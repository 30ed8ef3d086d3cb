package backend

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestIdentityCreateOnFirstUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "identity.toml")
	id, err := LoadIdentity(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := id.Public(); ok {
		t.Fatalf("expected no public key before first unlock")
	}
	if id.HasPrivateKey() || id.IsUnlocked() {
		t.Fatalf("expected empty identity")
	}
	if err := id.Unlock("hunter2"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	pk, ok := id.Public()
	if !ok {
		t.Fatalf("expected public key after create")
	}
	if !id.HasPrivateKey() || !id.IsUnlocked() {
		t.Fatalf("expected unlocked identity")
	}

	reloaded, err := LoadIdentity(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, ok := reloaded.Public()
	if !ok || got != pk {
		t.Fatalf("expected reloaded public key %s, got %s", pk.Hex(), got.Hex())
	}
	if !reloaded.HasPrivateKey() || reloaded.IsUnlocked() {
		t.Fatalf("expected sealed but locked identity after reload")
	}
	if err := reloaded.Unlock("wrong"); !errors.Is(err, ErrBadPassword) {
		t.Fatalf("expected ErrBadPassword, got %v", err)
	}
	if err := reloaded.Unlock("hunter2"); err != nil {
		t.Fatalf("unlock reloaded: %v", err)
	}
	reloaded.Lock()
	if reloaded.IsUnlocked() {
		t.Fatalf("expected Lock to forget the private key")
	}
}

func TestIdentityRejectsEmptyPassword(t *testing.T) {
	id, err := LoadIdentity(filepath.Join(t.TempDir(), "identity.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := id.Unlock(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestPublicIdentityEncodings(t *testing.T) {
	pk := testIdentity(0xab)
	if got := pk.Hex(); got != strings.Repeat("ab", 32) {
		t.Fatalf("unexpected hex %s", got)
	}
	bech := pk.Bech32()
	if !strings.HasPrefix(bech, "npub1") {
		t.Fatalf("expected npub prefix, got %q", bech)
	}
	parsed, err := ParsePublicIdentity(pk.Hex())
	if err != nil || parsed != pk {
		t.Fatalf("expected hex round trip, got %v err=%v", parsed, err)
	}
	if _, err := ParsePublicIdentity("abcd"); err == nil {
		t.Fatalf("expected short key to be rejected")
	}
}
