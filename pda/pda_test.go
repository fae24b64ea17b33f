package pda

import (
	"bytes"
	"testing"

	"github.com/calehh/signedvoting/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/stretchr/testify/require"
)

var testProgram = types.MustPubkeyFromBase58("8Z52ChpaMPvvnSVjSrQmJirxiqpuNvQSprUebVWXyaCs")

func TestCreateProgramAddressKnownVectors(t *testing.T) {
	loader := types.MustPubkeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")
	seedKey := types.MustPubkeyFromBase58("SeedPubey1111111111111111111111111111111111")
	cases := []struct {
		seeds [][]byte
		want  string
	}{
		{[][]byte{{}, {1}}, "BwqrghZA2htAcqq8dzP1WDAhTXYTYWj7CHxF5j7TDBAe"},
		{[][]byte{[]byte("☉"), {0}}, "13yWmRpaTR4r5nAktwLqMpRNr28tnVUZw26rTvPSSB19"},
		{[][]byte{[]byte("Talking"), []byte("Squirrels")}, "2fnQrngrQT4SeLcdToJAD96phoEjNL2man2kfRLCASVk"},
		{[][]byte{seedKey[:], {1}}, "976ymqVnfE32QFe6NfGDctSvVa36LWnvYxhU6G2232YL"},
	}
	for _, c := range cases {
		addr, err := CreateProgramAddress(c.seeds, loader)
		require.NoError(t, err)
		require.Equal(t, c.want, addr.String())
	}
}

func TestFindProgramAddressKnownVector(t *testing.T) {
	author := bytes.Repeat([]byte{0x01}, 32)
	hash := bytes.Repeat([]byte{0xAA}, 32)
	addr, bump, err := FindProgramAddress([][]byte{author, hash}, testProgram)
	require.NoError(t, err)
	require.Equal(t, "ErKM82otoyt1Rm9zLeyXJhtLCB6jvgmyvt84cXXuK5og", addr.String())
	require.Equal(t, uint8(254), bump)
}

func TestFindProgramAddressDeterministic(t *testing.T) {
	author := bytes.Repeat([]byte{0x01}, 32)
	hash := bytes.Repeat([]byte{0xAA}, 32)

	a1, b1, err := FindProgramAddress([][]byte{author, hash}, testProgram)
	require.NoError(t, err)
	a2, b2, err := FindProgramAddress([][]byte{author, hash}, testProgram)
	require.NoError(t, err)
	require.Equal(t, a1, a2)
	require.Equal(t, b1, b2)
	require.False(t, IsOnCurve(a1[:]))
	require.True(t, VerifyProgramAddress([][]byte{author, hash}, b1, testProgram, a1))
}

func TestFindProgramAddressDistinctSeeds(t *testing.T) {
	author := bytes.Repeat([]byte{0x01}, 32)
	seen := map[types.Pubkey]bool{}
	for i := 0; i < 64; i++ {
		hash := bytes.Repeat([]byte{byte(i)}, 32)
		addr, bump, err := FindProgramAddress([][]byte{author, hash}, testProgram)
		require.NoError(t, err)
		require.False(t, seen[addr], "collision at %d", i)
		require.NotZero(t, bump)
		seen[addr] = true
	}

	other := types.Pubkey{9}
	a1, _, err := FindProgramAddress([][]byte{author}, testProgram)
	require.NoError(t, err)
	a2, _, err := FindProgramAddress([][]byte{author}, other)
	require.NoError(t, err)
	require.NotEqual(t, a1, a2)
}

func TestVerifyProgramAddressWrongBump(t *testing.T) {
	seeds := [][]byte{[]byte("proposal"), []byte("voter")}
	addr, bump, err := FindProgramAddress(seeds, testProgram)
	require.NoError(t, err)
	require.False(t, VerifyProgramAddress(seeds, bump-1, testProgram, addr))
	require.False(t, VerifyProgramAddress([][]byte{[]byte("proposal")}, bump, testProgram, addr))
}

func TestCreateProgramAddressLimits(t *testing.T) {
	_, err := CreateProgramAddress([][]byte{make([]byte, MaxSeedLength+1)}, testProgram)
	require.ErrorIs(t, err, ErrMaxSeedLengthExceeded)

	seeds := make([][]byte, MaxSeeds+1)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	_, err = CreateProgramAddress(seeds, testProgram)
	require.ErrorIs(t, err, ErrMaxSeedsExceeded)

	_, _, err = FindProgramAddress(seeds[:MaxSeeds], testProgram)
	require.ErrorIs(t, err, ErrMaxSeedsExceeded)
}

func TestSignerKeysAreOnCurve(t *testing.T) {
	for i := 0; i < 8; i++ {
		pk := ed25519.GenPrivKey().PubKey().Bytes()
		require.True(t, IsOnCurve(pk))
	}
}
