// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hvs

import (
	"encoding/json"
	"errors"
	"strings"
)

// AssetID identifies a fungible asset, e.g. "FARM-a1b2c3".
// The canonical form is an uppercase alphanumeric ticker of 3 to 10
// characters, a dash, and a 6-char lowercase hex suffix.
type AssetID string

const (
	minTickerLength = 3
	maxTickerLength = 10
	assetSuffixLen  = 6
)

// Valid checks whether the identifier is well formed.
func (id AssetID) Valid() bool {
	s := string(id)
	dash := strings.IndexByte(s, '-')
	if dash < minTickerLength || dash > maxTickerLength {
		return false
	}
	if len(s)-dash-1 != assetSuffixLen {
		return false
	}
	for _, c := range s[:dash] {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	for _, c := range s[dash+1:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// String implements the stringer interface.
func (id AssetID) String() string {
	return string(id)
}

// Bytes returns byte slice form of the identifier.
func (id AssetID) Bytes() []byte {
	return []byte(id)
}

// MarshalJSON implements json.Marshaler.
func (id AssetID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *AssetID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAssetID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseAssetID converts a string into AssetID, rejecting malformed ones.
func ParseAssetID(s string) (AssetID, error) {
	id := AssetID(s)
	if !id.Valid() {
		return "", errors.New("invalid asset identifier")
	}
	return id, nil
}
