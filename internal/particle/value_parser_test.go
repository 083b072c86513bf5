package particle

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Range
		wantErr bool
	}{
		{"固定值", "1500", Range{1500, 1500}, false},
		{"范围值", "[0.7 0.9]", Range{0.7, 0.9}, false},
		{"负数范围", "[-0.1 0.1]", Range{-0.1, 0.1}, false},
		{"反序范围自动交换", "[2 0.5]", Range{0.5, 2}, false},
		{"带空白", "  [ 1  2 ]  ", Range{1, 2}, false},
		{"空字符串", "", Range{}, true},
		{"缺少右括号", "[1 2", Range{}, true},
		{"单个边界", "[1]", Range{}, true},
		{"非数字", "abc", Range{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidRange))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRange_String(t *testing.T) {
	assert.Equal(t, "1.5", Range{1.5, 1.5}.String())
	assert.Equal(t, "[0.5 2]", Range{0.5, 2}.String())
}

func TestRange_Sample(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := Range{-0.1, 0.1}
	for i := 0; i < 1000; i++ {
		v := r.Sample(rng)
		require.True(t, v >= -0.1 && v < 0.1)
	}
	assert.Equal(t, 3.0, Range{3, 3}.Sample(rng))
}

func TestParseConfig(t *testing.T) {
	doc := []byte(`
densityDividerWide: 8000
size: "[1 3]"
speed: 0.05
`)
	cfg, err := ParseConfig(doc)
	require.NoError(t, err)
	assert.Equal(t, 8000.0, cfg.DividerWide)
	assert.Equal(t, 15000.0, cfg.DividerNarrow, "missing keys keep defaults")
	assert.Equal(t, Range{1, 3}, cfg.Size)
	assert.Equal(t, Range{0.05, 0.05}, cfg.Speed)
	assert.Equal(t, Range{0.1, 0.6}, cfg.Opacity)
}

func TestParseConfig_Errors(t *testing.T) {
	_, err := ParseConfig([]byte(`size: "[1"`))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParseConfig([]byte(`densityDividerNarrow: 0`))
	assert.Error(t, err)

	_, err = ParseConfig([]byte(`size: [1, 2]`))
	assert.Error(t, err, "sequence nodes are rejected")
}

func TestRange_YAMLRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(map[string]Range{"size": {0.5, 2}})
	require.NoError(t, err)

	var back map[string]Range
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Range{0.5, 2}, back["size"])
}
