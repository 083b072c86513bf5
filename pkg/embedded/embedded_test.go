package embedded

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/effects.yaml": {Data: []byte("tilt:\n  maxTilt: 10\n")},
		"data/site.yaml":    {Data: []byte("businessName: test\n")},
	}
}

func reset() {
	dataFS = nil
	initialized = false
}

// 未初始化时所有访问都返回 ErrNotInitialized
func TestNotInitialized(t *testing.T) {
	reset()
	assert.False(t, initialized)

	_, err := ReadFile("data/site.yaml")
	assert.True(t, errors.Is(err, ErrNotInitialized))
}

func TestReadFile(t *testing.T) {
	Init(testFS())
	defer reset()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"标准路径", "data/site.yaml", "businessName: test\n", false},
		{"带 ./ 前缀", "./data/site.yaml", "businessName: test\n", false},
		{"未知前缀", "assets/site.yaml", "", true},
		{"文件不存在", "data/missing.yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFile(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestInit_NilKeepsUninitialized(t *testing.T) {
	Init(nil)
	defer reset()

	assert.False(t, initialized)
	_, err := ReadFile("data/site.yaml")
	assert.ErrorIs(t, err, ErrNotInitialized)
}
