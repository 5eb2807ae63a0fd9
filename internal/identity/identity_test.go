// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCurrent_MissingFile(t *testing.T) {
	p := NewProviderFromPath(filepath.Join(t.TempDir(), "credentials.json"))

	_, err := p.Current()
	if !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestCurrent_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	p := NewProviderFromPath(path)
	if _, err := p.Current(); err == nil {
		t.Error("expected error for malformed credential file")
	}
}

func TestCurrent_IncompleteCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(`{"user_id":"u1"}`), 0600); err != nil {
		t.Fatal(err)
	}

	p := NewProviderFromPath(path)
	if _, err := p.Current(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("credential without token should count as signed out, got %v", err)
	}
}

func TestSaveThenToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	p := NewProviderFromPath(path)

	if err := p.Save(&Identity{UserID: "user-1", AccessToken: "tok-1"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	tok, err := p.Token()
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	if tok != "tok-1" {
		t.Errorf("expected tok-1, got %q", tok)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat credential file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credential file should be 0600, got %o", perm)
	}
}

func TestSave_RejectsIncomplete(t *testing.T) {
	p := NewProviderFromPath(filepath.Join(t.TempDir(), "credentials.json"))
	if err := p.Save(&Identity{UserID: "u1"}); err == nil {
		t.Error("expected error saving credential without token")
	}
}

func TestReload_PicksUpRewrittenCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(`{"user_id":"u1","access_token":"old"}`), 0600); err != nil {
		t.Fatal(err)
	}

	p := NewProviderFromPath(path)
	if tok, _ := p.Token(); tok != "old" {
		t.Fatalf("expected old token, got %q", tok)
	}

	if err := os.WriteFile(path, []byte(`{"user_id":"u1","access_token":"new"}`), 0600); err != nil {
		t.Fatal(err)
	}

	// Cached until reload.
	if tok, _ := p.Token(); tok != "old" {
		t.Errorf("token should be cached, got %q", tok)
	}
	p.Reload()
	if tok, _ := p.Token(); tok != "new" {
		t.Errorf("expected new token after reload, got %q", tok)
	}
}
