package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishcrypt/internal/app"
	"fishcrypt/internal/domain"
)

func TestNewWire_Backends(t *testing.T) {
	for _, backend := range []string{app.BackendMemory, app.BackendFile, app.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := app.DefaultConfig(t.TempDir())
			cfg.Store.Backend = backend
			cfg.Store.ScryptN = 1 << 10

			w, err := app.NewWire(cfg, "pass", nil, nil)
			require.NoError(t, err)
			defer w.Close()

			info, err := w.KeyMgr.SetKey("#chan", "ecb:MyKey", "")
			require.NoError(t, err)
			assert.Equal(t, domain.ModeECB, info.Mode)

			out, err := w.Messages.EncodeOutgoing("#chan", "hello world", domain.KindMessage)
			require.NoError(t, err)
			assert.Equal(t, "+OK VKneU./M.Aw/mogZw0Hl0Vx.", out.Line)

			line, err := w.KeyX.Initiate("bob", "")
			require.NoError(t, err)
			assert.Contains(t, line, "DH1080_INIT_CBC ")
			_, pending, err := w.KeyX.Pending("bob")
			require.NoError(t, err)
			assert.True(t, pending)
		})
	}
}

func TestNewWire_UnknownBackend(t *testing.T) {
	cfg := app.DefaultConfig(t.TempDir())
	cfg.Store.Backend = "tape"
	_, err := app.NewWire(cfg, "", nil, nil)
	assert.Error(t, err)
}
