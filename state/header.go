package state

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// StateHeader is stored under KeyState in protobuf wire format:
// 1 height, 2 chain_id, 3 root_hash, 4 hash.
type StateHeader struct {
	Height   uint64
	ChainId  string
	RootHash []byte
	Hash     []byte
}

func (h *StateHeader) GetHash() []byte {
	if h == nil {
		return nil
	}
	return h.Hash
}

func (h *StateHeader) Clone() *StateHeader {
	n := &StateHeader{Height: h.Height, ChainId: h.ChainId}
	if h.RootHash != nil {
		n.RootHash = append([]byte{}, h.RootHash...)
	}
	if h.Hash != nil {
		n.Hash = append([]byte{}, h.Hash...)
	}
	return n
}

func (h *StateHeader) Marshal() ([]byte, error) {
	var b []byte
	if h.Height != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, h.Height)
	}
	if h.ChainId != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, h.ChainId)
	}
	if len(h.RootHash) != 0 {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, h.RootHash)
	}
	if len(h.Hash) != 0 {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, h.Hash)
	}
	return b, nil
}

func (h *StateHeader) Unmarshal(b []byte) error {
	*h = StateHeader{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "state header tag")
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return errors.Wrap(protowire.ParseError(m), "state header height")
			}
			h.Height = v
			n = m
		case num == 2 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return errors.Wrap(protowire.ParseError(m), "state header chain id")
			}
			h.ChainId = v
			n = m
		case (num == 3 || num == 4) && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return errors.Wrap(protowire.ParseError(m), "state header hash")
			}
			if num == 3 {
				h.RootHash = append([]byte{}, v...)
			} else {
				h.Hash = append([]byte{}, v...)
			}
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errors.Wrap(protowire.ParseError(n), "state header field")
			}
		}
		b = b[n:]
	}
	return nil
}
