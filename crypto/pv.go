package crypto

import (
	"os"
	"path/filepath"

	"github.com/calehh/signedvoting/types"
	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	"github.com/cometbft/cometbft/privval"
	"github.com/pkg/errors"
)

var ErrNotEd25519 = errors.New("key is not ed25519")

// PV is a signing identity read from a cometbft key file, the same format
// as priv_validator_key.json.
type PV struct {
	privateKey crypto.PrivKey
	publicKey  crypto.PubKey
}

func LoadFilePV(keyFilePath string) (*PV, error) {
	keyJSONBytes, err := os.ReadFile(keyFilePath)
	if err != nil {
		return nil, err
	}
	pvKey := privval.FilePVKey{}
	err = cmtjson.Unmarshal(keyJSONBytes, &pvKey)
	if err != nil {
		return nil, errors.Wrapf(err, "reading key from %v", keyFilePath)
	}
	if _, ok := pvKey.PrivKey.(ed25519.PrivKey); !ok {
		return nil, errors.Wrapf(ErrNotEd25519, "%v", keyFilePath)
	}
	return &PV{
		privateKey: pvKey.PrivKey,
		publicKey:  pvKey.PubKey,
	}, nil
}

// GenFilePV writes a fresh ed25519 key to keyFilePath. It refuses to
// overwrite an existing file.
func GenFilePV(keyFilePath string) (*PV, error) {
	if _, err := os.Stat(keyFilePath); err == nil {
		return nil, errors.Errorf("key file %v already exists", keyFilePath)
	}
	if err := os.MkdirAll(filepath.Dir(keyFilePath), 0o700); err != nil {
		return nil, err
	}
	filePV := privval.NewFilePV(ed25519.GenPrivKey(), keyFilePath, "")
	filePV.Key.Save()
	return &PV{
		privateKey: filePV.Key.PrivKey,
		publicKey:  filePV.Key.PubKey,
	}, nil
}

func (k *PV) PrivKey() crypto.PrivKey {
	return k.privateKey
}

func (k *PV) Pubkey() types.Pubkey {
	pk, _ := types.PubkeyFromBytes(k.publicKey.Bytes())
	return pk
}

func (k *PV) Sign(data []byte) ([]byte, error) {
	return k.privateKey.Sign(data)
}
