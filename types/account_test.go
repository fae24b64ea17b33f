package types

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountDiscriminator(t *testing.T) {
	h := sha256.Sum256([]byte("account:Proposal"))
	require.Equal(t, h[:8], ProposalDiscriminator[:])
	require.NotEqual(t, ProposalDiscriminator, VoteDiscriminator)
}

func TestProposalAccountLayout(t *testing.T) {
	var hash ContentHash
	copy(hash[:], bytes.Repeat([]byte{0xAA}, 32))
	p := &Proposal{
		Bump:   254,
		Author: Pubkey{1},
		Payer:  Pubkey{2},
		Uri:    "ipfs://Qm123",
		Hash:   hash,
	}
	dat, err := p.MarshalAccount()
	require.NoError(t, err)
	require.Equal(t, int(ProposalSpace(p.Uri)), len(dat))

	var want []byte
	want = append(want, ProposalDiscriminator[:]...)
	want = append(want, 254)
	want = append(want, p.Author[:]...)
	want = append(want, p.Payer[:]...)
	want = binary.LittleEndian.AppendUint32(want, uint32(len(p.Uri)))
	want = append(want, p.Uri...)
	want = append(want, hash[:]...)
	require.Equal(t, want, dat)

	got, err := UnmarshalProposalAccount(dat)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestVoteAccountLayout(t *testing.T) {
	v := &Vote{Bump: 253, Voter: Pubkey{3}, ProposalId: Pubkey{4}, Choice: 1}
	dat, err := v.MarshalAccount()
	require.NoError(t, err)
	require.Len(t, dat, VoteSpace)
	require.Equal(t, byte(253), dat[8])
	require.Equal(t, byte(1), dat[VoteSpace-1])

	got, err := UnmarshalVoteAccount(dat)
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestUnmarshalDiscriminatorMismatch(t *testing.T) {
	v := &Vote{Voter: Pubkey{3}, ProposalId: Pubkey{4}}
	dat, err := v.MarshalAccount()
	require.NoError(t, err)

	_, err = UnmarshalProposalAccount(dat)
	require.ErrorIs(t, err, ErrAccountDiscriminatorMismatch)
	_, err = UnmarshalVoteAccount(dat[:4])
	require.ErrorIs(t, err, ErrAccountDiscriminatorMismatch)
}

func TestContentHashText(t *testing.T) {
	var h ContentHash
	require.Error(t, h.UnmarshalText([]byte("abcd")))
	require.Error(t, h.UnmarshalText([]byte("zz")))
	s := "aa" + string(bytes.Repeat([]byte("01"), 31))
	require.NoError(t, h.UnmarshalText([]byte(s)))
	require.Equal(t, s, h.String())
}

func TestPubkeyText(t *testing.T) {
	pk := MustPubkeyFromBase58("8Z52ChpaMPvvnSVjSrQmJirxiqpuNvQSprUebVWXyaCs")
	require.Equal(t, byte(0x70), pk[0])
	require.Equal(t, "8Z52ChpaMPvvnSVjSrQmJirxiqpuNvQSprUebVWXyaCs", pk.String())

	_, err := PubkeyFromBase58("abc")
	require.ErrorIs(t, err, ErrInvalidPubkey)
	_, err = PubkeyFromBase58("0OIl")
	require.ErrorIs(t, err, ErrInvalidPubkey)

	var got Pubkey
	dat, err := pk.MarshalJSON()
	require.NoError(t, err)
	require.NoError(t, got.UnmarshalJSON(dat))
	require.Equal(t, pk, got)
}

func TestErrorCodes(t *testing.T) {
	require.Equal(t, uint32(0), CodeOf(nil))
	require.Equal(t, uint32(6000), CodeOf(ErrInvalidPayer))
	require.Equal(t, KindAuthorizationFailure, KindOf(ErrAccountNotSigner))
	require.Equal(t, "InvalidPayer: Invalid payer - must be the proposal's original payer", ResultLog(ErrInvalidPayer))

	err := NewClaims(Pubkey{1}).Require("voter", Pubkey{2})
	require.ErrorIs(t, err, ErrAccountNotSigner)
	require.Equal(t, uint32(3010), CodeOf(err))
	require.NoError(t, NewClaims(Pubkey{1}).Require("voter", Pubkey{1}))
	require.False(t, (*Claims)(nil).Signed(Pubkey{1}))
}
