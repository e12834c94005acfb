// Copyright (c) 2025 The Harvest developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hvs

// Constants of the farming protocol.
const (
	// BlockInterval time interval between two consecutive blocks, in seconds.
	BlockInterval uint64 = 6

	// MaxBps full share in basis points. 10000 bps = 100%.
	MaxBps uint64 = 10000
)
