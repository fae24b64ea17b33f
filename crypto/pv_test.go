package crypto

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenAndLoadFilePV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "voter.json")
	pv, err := GenFilePV(path)
	require.NoError(t, err)

	loaded, err := LoadFilePV(path)
	require.NoError(t, err)
	require.Equal(t, pv.Pubkey(), loaded.Pubkey())

	sig, err := loaded.Sign([]byte("msg"))
	require.NoError(t, err)
	require.True(t, pv.PrivKey().PubKey().VerifySignature([]byte("msg"), sig))

	_, err = GenFilePV(path)
	require.Error(t, err)
	_, err = LoadFilePV(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
