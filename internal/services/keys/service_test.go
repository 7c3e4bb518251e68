package keys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishcrypt/internal/crypto"
	"fishcrypt/internal/domain"
	"fishcrypt/internal/services/keys"
	"fishcrypt/internal/store"
)

func TestSplitModePrefix(t *testing.T) {
	cases := []struct {
		in, rest string
		mode     domain.CipherMode
	}{
		{"cbc:secret", "secret", domain.ModeCBC},
		{"ECB:secret", "secret", domain.ModeECB},
		{"secret", "secret", ""},
		{"cbc", "cbc", ""},
		{"cbc:", "", domain.ModeCBC},
	}
	for _, c := range cases {
		rest, mode := keys.SplitModePrefix(c.in)
		assert.Equal(t, c.rest, rest, c.in)
		assert.Equal(t, c.mode, mode, c.in)
	}
}

func TestSetKey_ModeSelection(t *testing.T) {
	st := store.NewMemoryStore()
	svc := keys.New(st, domain.ModeCBC, nil)

	info, err := svc.SetKey("#Chan", "ecb:MyKey", domain.ModeCBC)
	require.NoError(t, err)
	assert.Equal(t, domain.Target("#chan"), info.Target)
	assert.Equal(t, domain.ModeECB, info.Mode)

	k, ok, err := st.GetKey("#chan")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, crypto.DeriveKey([]byte("MyKey")), k.Material)
	assert.Equal(t, crypto.Fingerprint(k.Material), info.Fingerprint)

	info, err = svc.SetKey("bob", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeCBC, info.Mode)

	info, err = svc.SetKey("bob", "secret", domain.ModeECB)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeECB, info.Mode)
}

func TestSetKey_Errors(t *testing.T) {
	svc := keys.New(store.NewMemoryStore(), domain.ModeCBC, nil)

	_, err := svc.SetKey("bob", "cbc:", "")
	assert.ErrorIs(t, err, keys.ErrEmptySecret)

	_, err = svc.SetKey("bob", "x", "ofb")
	assert.Error(t, err)

	_, err = svc.SetKey("  ", "x", "")
	assert.Error(t, err)
}

func TestEnableDisableDescribe(t *testing.T) {
	svc := keys.New(store.NewMemoryStore(), domain.ModeECB, nil)

	_, err := svc.Describe("bob")
	assert.ErrorIs(t, err, domain.ErrNoKey)

	_, err = svc.SetKey("bob", "secret", "")
	require.NoError(t, err)
	require.NoError(t, svc.SetEnabled("BOB", false))

	info, err := svc.Describe("bob")
	require.NoError(t, err)
	assert.True(t, info.Disabled)
	assert.Len(t, info.Fingerprint, 12)
	assert.NotContains(t, info.Fingerprint, "secret")

	require.NoError(t, svc.SetEnabled("bob", true))
	info, err = svc.Describe("bob")
	require.NoError(t, err)
	assert.False(t, info.Disabled)
}

func TestListAndDelete(t *testing.T) {
	svc := keys.New(store.NewMemoryStore(), domain.ModeCBC, nil)
	for _, target := range []domain.Target{"zed", "#alpha", "mike"} {
		_, err := svc.SetKey(target, "k-"+target.String(), "")
		require.NoError(t, err)
	}

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.Target("#alpha"), list[0].Target)
	assert.Equal(t, domain.Target("zed"), list[2].Target)

	require.NoError(t, svc.DeleteKey("MIKE"))
	assert.ErrorIs(t, svc.DeleteKey("mike"), domain.ErrNoKey)

	list, err = svc.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
