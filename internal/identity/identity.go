// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity resolves the signed-in shopper from the credential
// file written at sign-in time.
//
// Credential file location: ~/.shopchat/credentials.json. The file is
// owned by the sign-in flow; this package only reads it and hands the
// bearer token to the API clients.
package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopvn/shopchat-tui/internal/util"
)

// ErrNotSignedIn is returned when no usable credential exists.
var ErrNotSignedIn = errors.New("identity: not signed in")

// Identity is the authenticated shopper.
type Identity struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// CredentialsPath returns the path of the credential file.
func CredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".shopchat", "credentials.json"), nil
}

// =============================================================================
// PROVIDER
// =============================================================================

// Provider loads and caches the credential. Safe for concurrent use.
type Provider struct {
	mu     sync.Mutex
	path   string
	cached *Identity
}

// NewProvider creates a provider reading the default credential path.
func NewProvider() (*Provider, error) {
	path, err := CredentialsPath()
	if err != nil {
		return nil, err
	}
	return NewProviderFromPath(path), nil
}

// NewProviderFromPath creates a provider reading a specific file.
func NewProviderFromPath(path string) *Provider {
	return &Provider{path: path}
}

// Current returns the signed-in identity, loading it on first use.
func (p *Provider) Current() (*Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return p.cached, nil
	}
	id, err := p.load()
	if err != nil {
		return nil, err
	}
	p.cached = id
	return id, nil
}

// Token returns the bearer token for authenticated requests. The
// signature matches what the REST client expects from a token source.
func (p *Provider) Token() (string, error) {
	id, err := p.Current()
	if err != nil {
		return "", err
	}
	return id.AccessToken, nil
}

// Reload drops the cache so the next Current re-reads the file. Used
// after the sign-in flow rewrites the credential.
func (p *Provider) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = nil
}

// Save writes a credential file with owner-only permissions and
// replaces the cached identity.
func (p *Provider) Save(id *Identity) error {
	if id == nil || id.UserID == "" || id.AccessToken == "" {
		return errors.New("identity: refusing to save incomplete credential")
	}

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("identity: encode credential: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("identity: create credential directory: %w", err)
	}
	if err := util.AtomicWriteFile(p.path, data, 0600); err != nil {
		return fmt.Errorf("identity: write credential: %w", err)
	}

	p.mu.Lock()
	p.cached = id
	p.mu.Unlock()
	return nil
}

// load reads and validates the credential file.
func (p *Provider) load() (*Identity, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotSignedIn
		}
		return nil, fmt.Errorf("identity: read credential: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("identity: malformed credential file: %w", err)
	}
	if id.UserID == "" || id.AccessToken == "" {
		return nil, ErrNotSignedIn
	}
	return &id, nil
}
