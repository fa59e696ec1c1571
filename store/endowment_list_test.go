package store

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndowmentList(t *testing.T) {
	dir := t.TempDir()
	l := NewEndowmentList(dir)
	assert.Equal(t, filepath.Join(dir, "endowment_list.txt"), l.Path())

	got, err := l.Read()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, l.Append("terra1first"))
	require.NoError(t, l.Append("terra1second"))
	// a second instance appends to the same file
	require.NoError(t, NewEndowmentList(dir).Append("terra1third"))

	got, err = l.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"terra1first", "terra1second", "terra1third"}, got)

	bz, err := ioutil.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Equal(t, "terra1first\nterra1second\nterra1third\n", string(bz))
}

func TestEndowmentListAppendFails(t *testing.T) {
	l := NewEndowmentList(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, l.Append("terra1first"))
}
