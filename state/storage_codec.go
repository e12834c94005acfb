// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/harvestlabs/harvest/hvs"
)

// StorageEncoder defines the interface of custom storage encoding.
// Returning empty bytes elides the slot from storage.
type StorageEncoder interface {
	Encode() ([]byte, error)
}

// StorageDecoder defines the interface of custom storage decoding.
// Empty input means the slot was never written.
type StorageDecoder interface {
	Decode([]byte) error
}

// encodeStorageValue encodes a slot value. Zero values encode to nil,
// which clears the slot instead of storing a zero.
func encodeStorageValue(val interface{}) ([]byte, error) {
	if enc, ok := val.(StorageEncoder); ok {
		return enc.Encode()
	}

	switch v := val.(type) {
	case *big.Int:
		if v == nil || v.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(v)
	case uint64:
		if v == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(v)
	case bool:
		if !v {
			return nil, nil
		}
		return rlp.EncodeToBytes(v)
	case hvs.AssetID:
		if v == "" {
			return nil, nil
		}
		return rlp.EncodeToBytes(string(v))
	case hvs.Address:
		if v.IsZero() {
			return nil, nil
		}
		return rlp.EncodeToBytes(v.Bytes())
	default:
		return nil, errors.Errorf("storage: unsupported slot type %T", val)
	}
}

// decodeStorageValue decodes a slot value into val. Empty data yields
// the zero value of the slot type.
func decodeStorageValue(data []byte, val interface{}) error {
	if dec, ok := val.(StorageDecoder); ok {
		return dec.Decode(data)
	}

	switch v := val.(type) {
	case *big.Int:
		if len(data) == 0 {
			v.SetInt64(0)
			return nil
		}
		return rlp.DecodeBytes(data, v)
	case *uint64:
		if len(data) == 0 {
			*v = 0
			return nil
		}
		return rlp.DecodeBytes(data, v)
	case *bool:
		if len(data) == 0 {
			*v = false
			return nil
		}
		return rlp.DecodeBytes(data, v)
	case *hvs.AssetID:
		if len(data) == 0 {
			*v = ""
			return nil
		}
		var s string
		if err := rlp.DecodeBytes(data, &s); err != nil {
			return err
		}
		*v = hvs.AssetID(s)
		return nil
	case *hvs.Address:
		if len(data) == 0 {
			*v = hvs.Address{}
			return nil
		}
		var b []byte
		if err := rlp.DecodeBytes(data, &b); err != nil {
			return err
		}
		*v = hvs.BytesToAddress(b)
		return nil
	default:
		return errors.Errorf("storage: unsupported slot type %T", val)
	}
}
