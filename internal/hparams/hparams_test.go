// internal/hparams/hparams_test.go
package hparams

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ribopred-core/encoder"
)

func TestRoundTrip(t *testing.T) {
	cfg := encoder.DefaultConfig()
	p := FromConfig(cfg)
	got, err := p.Config()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestPartialSidecarFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"n_embd":64,"n_layer":2}`), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	cfg, err := p.Config()
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Dim)
	assert.Equal(t, 2, cfg.Depth)
	assert.Equal(t, encoder.DefaultConfig().HeadSize, cfg.HeadSize)
	assert.Equal(t, encoder.DefaultConfig().PosScale, cfg.PosScale)
}

func TestInvalidSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"n_embd":7}`), 0o644))

	p, err := LoadFile(path)
	require.NoError(t, err)
	_, err = p.Config()
	assert.Error(t, err, "odd embedding dim must be rejected")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
