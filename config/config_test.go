package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert := assert.New(t)

	c, err := Parse(`
origin = 0x200
limit = 5000
verbose = true

[defines]
SPEED = "4"
COUNTER = "v7"
`)
	assert.NoError(err)
	assert.Equal(uint16(0x200), c.Origin)
	assert.Equal(5000, c.Limit)
	assert.True(c.Verbose)
	assert.Equal(map[string]string{"SPEED": "4", "COUNTER": "v7"}, c.Defines)
}

func TestParse_Empty(t *testing.T) {
	assert := assert.New(t)

	c, err := Parse("")
	assert.NoError(err)
	assert.Equal(uint16(0), c.Origin)
	assert.Equal(0, c.Limit)
	assert.False(c.Verbose)
	assert.NotNil(c.Defines)
}

func TestParse_Invalid(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("origin = [")
	assert.Error(err)

	_, err = Parse("origin = 0x10000")
	assert.Error(err)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "chip8.toml")
	assert.NoError(os.WriteFile(path, []byte("limit = 10\n"), 0o644))

	c, err := Load(path)
	assert.NoError(err)
	assert.Equal(10, c.Limit)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(err)
}
