package config

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_OverrideReplacesEmbedded(t *testing.T) {
	base := fstest.MapFS{
		EffectsFile: {Data: []byte("tilt:\n  maxTilt: 10\n")},
		SiteFile:    {Data: []byte("businessName: Base\nphone: \"1\"\n")},
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EffectsFile), []byte("tilt:\n  maxTilt: 12\n"), 0o644))

	l := NewLoaderFS(dir, base)
	assert.Equal(t, dir, l.Dir())

	effects, err := l.LoadEffects()
	require.NoError(t, err)
	assert.Equal(t, 12.0, effects.Tilt.MaxTilt)

	// 覆盖目录中没有 site.yaml，回退到内置文件
	site, err := l.LoadSite()
	require.NoError(t, err)
	assert.Equal(t, "Base", site.BusinessName)
}

func TestLoader_MissingEverywhere(t *testing.T) {
	l := NewLoaderFS(t.TempDir(), fstest.MapFS{})
	_, err := l.LoadSite()
	assert.Error(t, err)
}
