package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishcrypt/internal/domain"
	"fishcrypt/internal/store"
)

var fastScrypt = store.ScryptParams{N: 1 << 10, R: 8, P: 1}

type backend struct {
	name     string
	keys     func(t *testing.T, dir string) domain.KeyStore
	sessions func(t *testing.T, dir string) domain.SessionStore
}

func openSQLite(t *testing.T, dir string) *store.SQLiteStore {
	t.Helper()
	s, err := store.OpenSQLite(filepath.Join(dir, "fish.db"), "pass", fastScrypt)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func backends() []backend {
	return []backend{
		{
			name:     "memory",
			keys:     func(*testing.T, string) domain.KeyStore { return store.NewMemoryStore() },
			sessions: func(*testing.T, string) domain.SessionStore { return store.NewMemoryStore() },
		},
		{
			name: "file",
			keys: func(_ *testing.T, dir string) domain.KeyStore {
				return store.NewKeyFileStore(dir, "pass", fastScrypt)
			},
			sessions: func(_ *testing.T, dir string) domain.SessionStore {
				return store.NewSessionFileStore(dir, "pass", fastScrypt)
			},
		},
		{
			name:     "sqlite",
			keys:     func(t *testing.T, dir string) domain.KeyStore { return openSQLite(t, dir) },
			sessions: func(t *testing.T, dir string) domain.SessionStore { return openSQLite(t, dir) },
		},
	}
}

func TestKeyStore_Contract(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ks := b.keys(t, t.TempDir())

			_, ok, err := ks.GetKey("#chan")
			require.NoError(t, err)
			assert.False(t, ok)

			key := domain.SymmetricKey{Material: domain.KeyMaterial{1, 2, 3}, Mode: domain.ModeCBC}
			require.NoError(t, ks.SetKey("#Chan", key))

			got, ok, err := ks.GetKey(" #chan ")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, key, got)

			require.NoError(t, ks.SetDisabled("#chan", true))
			disabled, err := ks.IsDisabled("#CHAN")
			require.NoError(t, err)
			assert.True(t, disabled)

			// Replacing the key keeps the flag.
			key.Mode = domain.ModeECB
			require.NoError(t, ks.SetKey("#chan", key))
			disabled, err = ks.IsDisabled("#chan")
			require.NoError(t, err)
			assert.True(t, disabled)

			require.NoError(t, ks.SetKey("bob", key))
			require.NoError(t, ks.SetDisabled("carol", true))
			targets, err := ks.ListTargets()
			require.NoError(t, err)
			assert.Equal(t, []domain.Target{"#chan", "bob"}, targets)

			require.NoError(t, ks.DeleteKey("#chan"))
			_, ok, err = ks.GetKey("#chan")
			require.NoError(t, err)
			assert.False(t, ok)
			disabled, err = ks.IsDisabled("#chan")
			require.NoError(t, err)
			assert.False(t, disabled)
		})
	}
}

func TestSessionStore_Contract(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ss := b.sessions(t, t.TempDir())

			sess := domain.KeyExchangeSession{
				ID:         "6f1c7a52-3f0e-4d8e-9a4b-0b8c2f1d9e77",
				Target:     "Bob",
				Private:    []byte{9, 9, 9},
				Public:     []byte{4},
				Variant:    domain.VariantCBC,
				State:      domain.StateAwaitingPeer,
				CreatedUTC: 1700000000,
			}
			require.NoError(t, ss.SaveSession(sess))

			got, ok, err := ss.LoadSession("bob")
			require.NoError(t, err)
			require.True(t, ok)
			want := sess
			want.Target = "bob"
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("session mismatch (-want +got):\n%s", diff)
			}

			require.NoError(t, ss.DeleteSession("BOB"))
			_, ok, err = ss.LoadSession("bob")
			require.NoError(t, err)
			assert.False(t, ok)
			require.NoError(t, ss.DeleteSession("nobody"))
		})
	}
}

func TestMemoryStore_SessionIsCopied(t *testing.T) {
	s := store.NewMemoryStore()
	priv := []byte{1, 2, 3}
	require.NoError(t, s.SaveSession(domain.KeyExchangeSession{Target: "x", Private: priv}))
	priv[0] = 42

	got, _, err := s.LoadSession("x")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got.Private)
}

func TestKeyFileStore_PersistsSealed(t *testing.T) {
	dir := t.TempDir()
	key := domain.SymmetricKey{Material: domain.KeyMaterial{0xAA, 0xBB}, Mode: domain.ModeECB}
	require.NoError(t, store.NewKeyFileStore(dir, "pass", fastScrypt).SetKey("#chan", key))

	raw, err := os.ReadFile(filepath.Join(dir, "keys.enc"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "#chan")

	got, ok, err := store.NewKeyFileStore(dir, "pass", fastScrypt).GetKey("#chan")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key, got)

	_, _, err = store.NewKeyFileStore(dir, "wrong", fastScrypt).GetKey("#chan")
	assert.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fish.db")

	s, err := store.OpenSQLite(path, "pass", fastScrypt)
	require.NoError(t, err)
	key := domain.SymmetricKey{Material: domain.KeyMaterial{7}, Mode: domain.ModeCBC}
	require.NoError(t, s.SetKey("#chan", key))
	require.NoError(t, s.Close())

	s, err = store.OpenSQLite(path, "pass", fastScrypt)
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.GetKey("#chan")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key, got)

	_, err = store.OpenSQLite(path, "wrong", fastScrypt)
	assert.ErrorIs(t, err, store.ErrWrongPassphrase)
}
