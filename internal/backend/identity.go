package backend

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	saltSize     = 16
	nonceSize    = 24
	sealedKeyLen = 32
)

type keyfile struct {
	PublicKey string `toml:"public_key"`
	Salt      string `toml:"salt"`
	Nonce     string `toml:"nonce"`
	Sealed    string `toml:"sealed_key"`
}

// Identity holds the user's keypair. The private key is only kept in memory
// after a successful Unlock.
type Identity struct {
	path string

	mu      sync.RWMutex
	public  PublicIdentity
	hasPub  bool
	file    *keyfile
	private ed25519.PrivateKey
}

// LoadIdentity reads the keyfile at path. A missing file yields an empty
// identity that Unlock will create on first use.
func LoadIdentity(path string) (*Identity, error) {
	id := &Identity{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return id, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read keyfile: %w", err)
	}
	var kf keyfile
	if err := toml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keyfile: %w", err)
	}
	pk, err := ParsePublicIdentity(kf.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("keyfile: %w", err)
	}
	id.public = pk
	id.hasPub = true
	if kf.Sealed != "" {
		id.file = &kf
	}
	return id, nil
}

// Public returns the public key if one is known.
func (i *Identity) Public() (PublicIdentity, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.public, i.hasPub
}

// HasPrivateKey reports whether a sealed private key is available.
func (i *Identity) HasPrivateKey() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.file != nil || i.private != nil
}

// IsUnlocked reports whether the private key is usable.
func (i *Identity) IsUnlocked() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.private != nil
}

// Unlock opens the sealed private key with password. When no keyfile exists a
// fresh keypair is generated, sealed with password, and written to disk.
func (i *Identity) Unlock(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	i.mu.RLock()
	kf := i.file
	i.mu.RUnlock()
	if kf == nil {
		return i.create(password)
	}

	salt, err := hex.DecodeString(kf.Salt)
	if err != nil {
		return fmt.Errorf("keyfile salt: %w", err)
	}
	nonceBytes, err := hex.DecodeString(kf.Nonce)
	if err != nil || len(nonceBytes) != nonceSize {
		return fmt.Errorf("keyfile nonce is malformed")
	}
	sealed, err := hex.DecodeString(kf.Sealed)
	if err != nil {
		return fmt.Errorf("keyfile sealed key: %w", err)
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], nonceBytes)
	seed, ok := secretbox.Open(nil, sealed, &nonce, key)
	if !ok || len(seed) != ed25519.SeedSize {
		return ErrBadPassword
	}
	priv := ed25519.NewKeyFromSeed(seed)

	i.mu.Lock()
	i.private = priv
	i.mu.Unlock()
	return nil
}

// Lock forgets the in-memory private key.
func (i *Identity) Lock() {
	i.mu.Lock()
	i.private = nil
	i.mu.Unlock()
}

func (i *Identity) create(password string) error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return err
	}
	sealed := secretbox.Seal(nil, priv.Seed(), &nonce, key)

	var pk PublicIdentity
	copy(pk[:], pub)
	kf := &keyfile{
		PublicKey: pk.Hex(),
		Salt:      hex.EncodeToString(salt),
		Nonce:     hex.EncodeToString(nonce[:]),
		Sealed:    hex.EncodeToString(sealed),
	}
	data, err := toml.Marshal(kf)
	if err != nil {
		return fmt.Errorf("encode keyfile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(i.path), 0o700); err != nil {
		return fmt.Errorf("create keyfile directory: %w", err)
	}
	if err := os.WriteFile(i.path, data, 0o600); err != nil {
		return fmt.Errorf("write keyfile: %w", err)
	}

	i.mu.Lock()
	i.public = pk
	i.hasPub = true
	i.file = kf
	i.private = priv
	i.mu.Unlock()
	return nil
}

func deriveKey(password string, salt []byte) (*[sealedKeyLen]byte, error) {
	raw, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, sealedKeyLen)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	var key [sealedKeyLen]byte
	copy(key[:], raw)
	return &key, nil
}
