package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/scrypt"

	"github.com/cascoin/l2/codec"
)

// KeyStoreV1 is an at-rest encrypted sequencer signing key, the
// passphrase-protected analogue of the teacher's AES-256-KW dev
// keystore: here the key-encryption-key is derived from an operator
// passphrase via scrypt rather than supplied directly as a KEK.
type KeyStoreV1 struct {
	Version    string `json:"version"` // "L2KSv1"
	Address    string `json:"address"` // hex
	ScryptN    int    `json:"scrypt_n"`
	ScryptR    int    `json:"scrypt_r"`
	ScryptP    int    `json:"scrypt_p"`
	SaltHex    string `json:"salt"`
	NonceHex   string `json:"nonce"`
	CipherText string `json:"ciphertext"` // hex, AES-256-GCM sealed private key
}

const (
	defaultScryptN = 1 << 18
	defaultScryptR = 8
	defaultScryptP = 1
	saltSize       = 16
)

// EncryptKey wraps a raw secp256k1 private key under a passphrase,
// for local operator storage of a sequencer's signing key.
func EncryptKey(addr codec.Address, privKey, passphrase []byte) (*KeyStoreV1, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("keystore: salt: %w", err)
	}
	kek, err := scrypt.Key(passphrase, salt, defaultScryptN, defaultScryptR, defaultScryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("keystore: derive kek: %w", err)
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("keystore: aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keystore: gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("keystore: nonce: %w", err)
	}
	ciphertext := gcm.Seal(nil, nonce, privKey, nil)

	return &KeyStoreV1{
		Version:    "L2KSv1",
		Address:    hex.EncodeToString(addr[:]),
		ScryptN:    defaultScryptN,
		ScryptR:    defaultScryptR,
		ScryptP:    defaultScryptP,
		SaltHex:    hex.EncodeToString(salt),
		NonceHex:   hex.EncodeToString(nonce),
		CipherText: hex.EncodeToString(ciphertext),
	}, nil
}

// DecryptKey reverses EncryptKey, returning the raw private key bytes.
func DecryptKey(ks *KeyStoreV1, passphrase []byte) ([]byte, error) {
	salt, err := hex.DecodeString(ks.SaltHex)
	if err != nil {
		return nil, fmt.Errorf("keystore: bad salt: %w", err)
	}
	nonce, err := hex.DecodeString(ks.NonceHex)
	if err != nil {
		return nil, fmt.Errorf("keystore: bad nonce: %w", err)
	}
	ciphertext, err := hex.DecodeString(ks.CipherText)
	if err != nil {
		return nil, fmt.Errorf("keystore: bad ciphertext: %w", err)
	}
	kek, err := scrypt.Key(passphrase, salt, ks.ScryptN, ks.ScryptR, ks.ScryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("keystore: derive kek: %w", err)
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("keystore: aes cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keystore: gcm: %w", err)
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("keystore: bad nonce length")
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("keystore: wrong passphrase or corrupted keystore: %w", err)
	}
	return plaintext, nil
}

func MarshalKeyStore(ks *KeyStoreV1) ([]byte, error) {
	return json.MarshalIndent(ks, "", "  ")
}

func UnmarshalKeyStore(b []byte) (*KeyStoreV1, error) {
	var ks KeyStoreV1
	if err := json.Unmarshal(b, &ks); err != nil {
		return nil, err
	}
	return &ks, nil
}
