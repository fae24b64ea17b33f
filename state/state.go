package state

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/calehh/signedvoting/tx"
	"github.com/calehh/signedvoting/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

const (
	ModifiedFlagNew = 1 << 0
	ModifiedFlagMod = 1 << 1
)

var (
	KeyState       = "s"
	KeyAccountBody = "a%x"
)

var (
	ErrDuplicateSigner     = errors.New("duplicate signer")
	ErrPayerNotSystem      = errors.New("payer must be a system account without data")
	ErrAccountDataTooLarge = errors.New("account data exceeds allocated space")
)

type State struct {
	logger cmtlog.Logger
	db     *iavl.MutableTree
	dbVer  int64

	header        *StateHeader
	acnts         map[types.Pubkey]*Account
	modifiedAcnts map[types.Pubkey]uint32
}

func newState(db *iavl.MutableTree, logger cmtlog.Logger) *State {
	return &State{
		logger:        logger,
		db:            db,
		dbVer:         0,
		header:        new(StateHeader),
		acnts:         make(map[types.Pubkey]*Account),
		modifiedAcnts: make(map[types.Pubkey]uint32),
	}
}

func (s *State) nextState() *State {
	n := &State{
		logger:        s.logger,
		db:            s.db,
		dbVer:         s.dbVer,
		acnts:         make(map[types.Pubkey]*Account),
		modifiedAcnts: make(map[types.Pubkey]uint32),
	}
	n.header = s.header.Clone()
	if s.header.GetHash() != nil {
		n.header.Height = s.header.Height + 1
	}
	return n
}

func deepCopyMap[K comparable, V any](source map[K]V) map[K]V {
	res := make(map[K]V, len(source))
	for k, v := range source {
		switch x := any(v).(type) {
		case *Account:
			res[k] = any(x.Clone()).(V)
		default:
			res[k] = v
		}
	}
	return res
}

// Clone returns a copy-on-write view used to run one transaction. The
// caller adopts the clone on success and drops it on failure.
func (s *State) Clone() *State {
	return &State{
		logger:        s.logger,
		db:            s.db,
		dbVer:         s.dbVer,
		header:        s.header.Clone(),
		acnts:         deepCopyMap(s.acnts),
		modifiedAcnts: deepCopyMap(s.modifiedAcnts),
	}
}

func (s *State) load() (err error) {
	val, err := s.db.Get([]byte(KeyState))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil
		}
		return err
	}
	if val != nil {
		err = s.header.Unmarshal(val)
		if err != nil {
			return
		}
		h := s.db.Hash()
		if h != nil {
			s.calcHash(h, true)
		}
	}
	return
}

func (s *State) calcHash(rootHash []byte, update bool) (h common.Hash) {
	h = crypto.Keccak256Hash(rootHash)
	if update {
		s.header.RootHash = append(s.header.RootHash[:0], rootHash...)
		s.header.Hash = append(s.header.Hash[:0], h[:]...)
	}
	return
}

// Update writes the header and every modified account into the working
// tree and returns the resulting app hash.
func (s *State) Update() (h common.Hash, err error) {
	var hash []byte
	defer func() {
		if hash == nil {
			s.db.Rollback()
		}
	}()
	var val []byte
	val, err = s.header.Marshal()
	if err != nil {
		return
	}
	_, err = s.db.Set([]byte(KeyState), val)
	if err != nil {
		return
	}

	addrs := make([]types.Pubkey, 0, len(s.modifiedAcnts))
	for addr := range s.modifiedAcnts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	for _, addr := range addrs {
		acnt := s.acnts[addr]
		val, err = acnt.Marshal()
		if err != nil {
			return
		}
		_, err = s.db.Set(accountKey(addr), val)
		if err != nil {
			return
		}
	}
	hash = s.db.WorkingHash()
	h = s.calcHash(hash, false)
	s.modifiedAcnts = make(map[types.Pubkey]uint32)
	return
}

func (s *State) save() (h common.Hash, err error) {
	hash, ver, err := s.db.SaveVersion()
	if err != nil {
		return h, err
	}
	s.dbVer = ver
	h = s.calcHash(hash, true)
	return
}

func accountKey(addr types.Pubkey) []byte {
	return []byte(fmt.Sprintf(KeyAccountBody, addr[:]))
}

func (s *State) Header() *StateHeader {
	return s.header
}

func (s *State) Hash() (h common.Hash) {
	if s.header.Hash != nil {
		copy(h[:], s.header.Hash)
	}
	return
}

func (s *State) SetChainId(chainId string) {
	s.header.ChainId = chainId
}

// GetAccount returns nil, nil when nothing is stored at addr.
func (s *State) GetAccount(addr types.Pubkey) (acnt *Account, err error) {
	acnt, cached, err := s.lookupAccount(addr)
	if err != nil || acnt == nil || cached {
		return
	}
	s.acnts[addr] = acnt
	return
}

func (s *State) lookupAccount(addr types.Pubkey) (acnt *Account, cached bool, err error) {
	if acnt = s.acnts[addr]; acnt != nil {
		return acnt, true, nil
	}
	val, err := s.db.Get(accountKey(addr))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	if val == nil {
		return nil, false, nil
	}
	acnt, err = UnmarshalAccount(val)
	if err != nil {
		return nil, false, err
	}
	acnt.Address = addr
	return
}

// committedAccount reads addr as of the last saved version, ignoring
// writes staged in the working tree.
func (s *State) committedAccount(addr types.Pubkey) (acnt *Account, err error) {
	if s.dbVer == 0 {
		return nil, nil
	}
	val, err := s.db.GetVersioned(accountKey(addr), s.dbVer)
	if err != nil || val == nil {
		return nil, err
	}
	acnt, err = UnmarshalAccount(val)
	if err != nil {
		return nil, err
	}
	acnt.Address = addr
	return
}

func (s *State) setAccount(acnt *Account, flag uint32) {
	s.acnts[acnt.Address] = acnt
	s.modifiedAcnts[acnt.Address] |= flag
}

// AddAccount seeds a funded system account. Used by InitChain.
func (s *State) AddAccount(addr types.Pubkey, lamports uint64) (err error) {
	a, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	if a != nil {
		return errors.Wrapf(types.ErrAccountAlreadyInUse, "genesis account %s", addr)
	}
	s.setAccount(&Account{Address: addr, Owner: types.SystemProgramID, Lamports: lamports}, ModifiedFlagNew)
	return
}

func (s *State) debit(payer types.Pubkey, amount uint64) (err error) {
	a, err := s.GetAccount(payer)
	if err != nil {
		return err
	}
	if a == nil {
		return errors.Wrapf(types.ErrInsufficientFunds, "%s holds 0, need %d", payer, amount)
	}
	if !a.IsSystemAccount() {
		return errors.Wrapf(ErrPayerNotSystem, "%s", payer)
	}
	if a.Lamports < amount {
		return errors.Wrapf(types.ErrInsufficientFunds, "%s holds %d, need %d", payer, a.Lamports, amount)
	}
	a.Lamports -= amount
	s.setAccount(a, ModifiedFlagMod)
	return
}

// CreateAccount allocates space bytes at addr for owner, funded by payer
// up to the rent-exempt minimum. It refuses addresses that already hold
// a record; lamports already parked at addr count toward the minimum.
func (s *State) CreateAccount(payer, addr, owner types.Pubkey, space uint64) (acnt *Account, err error) {
	existing, err := s.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if existing != nil && (len(existing.Data) != 0 || existing.Owner != types.SystemProgramID) {
		return nil, errors.Wrapf(types.ErrAccountAlreadyInUse, "%s", addr)
	}
	required := RentExemptMinimum(space)
	var have uint64
	if existing != nil {
		have = existing.Lamports
	}
	if have < required {
		if err = s.debit(payer, required-have); err != nil {
			return nil, err
		}
	}
	flag := uint32(ModifiedFlagMod)
	if existing == nil {
		existing = &Account{Address: addr}
		flag = ModifiedFlagNew
	}
	if have < required {
		existing.Lamports = required
	}
	existing.Owner = owner
	existing.Data = make([]byte, space)
	s.setAccount(existing, flag)
	s.logger.Debug("create account", "addr", addr, "owner", owner, "space", space, "payer", payer)
	return existing.Clone(), nil
}

// SetAccountData writes dat at the start of the account's allocated space.
func (s *State) SetAccountData(addr types.Pubkey, dat []byte) (err error) {
	a, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	if a == nil {
		return errors.Wrapf(types.ErrAccountNotFound, "%s", addr)
	}
	if len(dat) > len(a.Data) {
		return errors.Wrapf(ErrAccountDataTooLarge, "%d > %d", len(dat), len(a.Data))
	}
	copy(a.Data, dat)
	s.setAccount(a, ModifiedFlagMod)
	return
}

func (s *State) Transfer(from, to types.Pubkey, amount uint64) (err error) {
	if err = s.debit(from, amount); err != nil {
		return err
	}
	a, err := s.GetAccount(to)
	if err != nil {
		return err
	}
	flag := uint32(ModifiedFlagMod)
	if a == nil {
		a = &Account{Address: to, Owner: types.SystemProgramID}
		flag = ModifiedFlagNew
	}
	a.Lamports += amount
	s.setAccount(a, flag)
	return
}

func (s *State) BumpNonce(addr types.Pubkey) (err error) {
	a, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	if a == nil {
		return errors.Wrapf(types.ErrAccountNotFound, "%s", addr)
	}
	a.Nonce += 1
	s.setAccount(a, ModifiedFlagMod)
	return
}

// Verify authenticates btx and returns the claims handlers check roles
// against. With allowNonceGap a future nonce is accepted (mempool).
func (s *State) Verify(btx *tx.SVTx, allowNonceGap bool) (claims *types.Claims, err error) {
	feePayer, ok := btx.FeePayer()
	if !ok || len(btx.Sig) != len(btx.Signers) {
		return nil, errors.Wrap(types.ErrSignatureInvalid, "signer and signature count mismatch")
	}
	seen := make(map[types.Pubkey]bool, len(btx.Signers))
	for _, signer := range btx.Signers {
		if seen[signer] {
			return nil, errors.Wrapf(ErrDuplicateSigner, "%s", signer)
		}
		seen[signer] = true
	}
	a, err := s.GetAccount(feePayer)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.Wrapf(types.ErrAccountNotFound, "fee payer %s", feePayer)
	}
	if !(a.Nonce == btx.Nonce || (allowNonceGap && a.Nonce < btx.Nonce)) {
		return nil, errors.Wrapf(types.ErrNonceInvalid, "expect %d got %d", a.Nonce, btx.Nonce)
	}
	dat, err := btx.SigData([]byte(s.header.ChainId))
	if err != nil {
		return nil, err
	}
	for i, signer := range btx.Signers {
		pk := ed25519.PubKey(signer[:])
		if !pk.VerifySignature(dat, btx.Sig[i]) {
			return nil, errors.Wrapf(types.ErrSignatureInvalid, "signer %s", signer)
		}
	}
	return types.NewClaims(btx.Signers...), nil
}
