package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cascoin/l2/codec"
)

func TestEncryptDecryptKeyRoundTrip(t *testing.T) {
	priv, pub, err := GenerateKeypair()
	require.NoError(t, err)
	addr := Secp256k1Provider{}.Address(pub)

	ks, err := EncryptKey(addr, priv, []byte("correct horse battery staple"))
	require.NoError(t, err)
	require.Equal(t, "L2KSv1", ks.Version)

	got, err := DecryptKey(ks, []byte("correct horse battery staple"))
	require.NoError(t, err)
	require.Equal(t, priv, got)
}

func TestDecryptKeyWrongPassphraseFails(t *testing.T) {
	priv, _, err := GenerateKeypair()
	require.NoError(t, err)
	var addr codec.Address

	ks, err := EncryptKey(addr, priv, []byte("right passphrase"))
	require.NoError(t, err)

	_, err = DecryptKey(ks, []byte("wrong passphrase"))
	require.Error(t, err)
}

func TestKeyStoreJSONRoundTrip(t *testing.T) {
	priv, pub, err := GenerateKeypair()
	require.NoError(t, err)
	addr := Secp256k1Provider{}.Address(pub)

	ks, err := EncryptKey(addr, priv, []byte("passphrase"))
	require.NoError(t, err)

	b, err := MarshalKeyStore(ks)
	require.NoError(t, err)

	loaded, err := UnmarshalKeyStore(b)
	require.NoError(t, err)
	require.Equal(t, ks.Address, loaded.Address)
	require.Equal(t, ks.CipherText, loaded.CipherText)
}
