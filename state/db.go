package state

import (
	"sync"

	"github.com/calehh/signedvoting/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	"github.com/ethereum/go-ethereum/common"
)

type StateDB struct {
	mtx sync.RWMutex

	dir    string
	logger cmtlog.Logger
	ldb    dbm.DB
	db     *iavl.MutableTree

	state *State
}

func NewStateDB(dir string, logger cmtlog.Logger) (db *StateDB, err error) {
	logger = logger.With("module", "svdb")
	ldb, err := dbm.NewDB("signedvoting", "goleveldb", dir)
	if err != nil {
		return nil, err
	}
	tdb := iavl.NewMutableTree(ldb, 128, true, Cometbft2CosmosLogger(logger))
	version, err := tdb.Load()
	if err != nil {
		ldb.Close()
		return nil, err
	}
	logger.Info("load db success", "version", version)
	st := newState(tdb, logger)
	st.dbVer = version
	err = st.load()
	if err != nil {
		logger.Error("from svdb load fail", "err", err)
		ldb.Close()
		return nil, err
	}
	db = &StateDB{
		dir:    dir,
		logger: logger,
		ldb:    ldb,
		db:     tdb,
		state:  st,
	}
	return
}

// Close releases the tree and the leveldb handle under it; iavl leaves
// the backing db open.
func (db *StateDB) Close() (err error) {
	err = db.db.Close()
	if cerr := db.ldb.Close(); err == nil {
		err = cerr
	}
	return
}

func (db *StateDB) Header() (header *StateHeader) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	header = db.state.Header()
	return
}

func (db *StateDB) State() *State {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	return db.state
}

func (db *StateDB) NewState() (st *State) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	st = db.state.nextState()
	return
}

func (db *StateDB) SetState(st *State) (hash common.Hash, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	hash, err = st.save()
	if err != nil {
		return
	}
	db.state = st
	return
}

// GetAccount reads the committed account at addr.
func (db *StateDB) GetAccount(addr types.Pubkey) (acnt *Account, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	acnt, err = db.state.committedAccount(addr)
	if err != nil {
		return
	}
	height = db.state.header.Height
	return
}
