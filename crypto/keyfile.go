// This file is part of lsnes-go.
//
// lsnes-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// lsnes-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with lsnes-go.  If not, see <https://www.gnu.org/licenses/>.

package crypto

import (
	"crypto/rand"
	"os"
	"path/filepath"

	"github.com/lsnes-go/core/config"
	"github.com/lsnes-go/core/coreerr"
)

// dh25519.key layout: 32 bytes of private scalar, 32 bytes of derived
// public key, and 128 reserved bytes kept zero, 192 bytes total. The
// reserve keeps the file size stable if the format ever grows.
const (
	keyFileName = "dh25519.key"
	keyFileSize = 192
)

// LoadUserDH25519Key reads the persistent upload-authentication
// keypair from the per-user configuration directory (config.Dir),
// creating the directory if this is the first run.
func LoadUserDH25519Key() (*DH25519Auth, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, coreerr.Categorized(coreerr.IoFailure, "crypto: create %v: %v", dir, err)
	}
	return LoadDH25519Key(dir)
}

// LoadDH25519Key reads the persistent upload-authentication keypair
// from dir, generating and saving a fresh one (0600 permissions) if
// none exists.
func LoadDH25519Key(dir string) (*DH25519Auth, error) {
	path := filepath.Join(dir, keyFileName)

	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != keyFileSize {
			return nil, coreerr.Categorized(coreerr.MalformedInput, "crypto: %v is %d bytes, want %d", path, len(data), keyFileSize)
		}
		var priv [32]byte
		copy(priv[:], data[:32])
		Zeroize(data)
		return NewDH25519Auth(priv), nil
	}
	if !os.IsNotExist(err) {
		return nil, coreerr.Categorized(coreerr.IoFailure, "crypto: read %v: %v", path, err)
	}

	var priv [32]byte
	if _, err := rand.Read(priv[:]); err != nil {
		return nil, coreerr.Categorized(coreerr.IoFailure, "crypto: generate key: %v", err)
	}
	auth := NewDH25519Auth(priv)

	buf := make([]byte, keyFileSize)
	copy(buf[:32], priv[:])
	pub := auth.PublicKey()
	copy(buf[32:64], pub[:])
	err = os.WriteFile(path, buf, 0600)
	Zeroize(buf)
	Zeroize(priv[:])
	if err != nil {
		return nil, coreerr.Categorized(coreerr.IoFailure, "crypto: write %v: %v", path, err)
	}
	return auth, nil
}
