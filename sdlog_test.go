package sdlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ntamas-sdlog/sdlog/logformat"
	"github.com/ntamas-sdlog/sdlog/typecode"
)

func TestNewFileWriter_WritesToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.sdlog")

	w, err := NewFileWriter(path)
	require.NoError(t, err)

	mf, err := logformat.NewMessageFormat(3, "GPS")
	require.NoError(t, err)
	require.NoError(t, mf.AddColumn("lat", typecode.LatLon, '-'))

	require.NoError(t, w.Write(mf, typecode.Float64V(37.7749)))
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestNewBufferWriter_WritesWithoutError(t *testing.T) {
	w := NewBufferWriter()

	mf, err := logformat.NewMessageFormat(4, "ATT")
	require.NoError(t, err)
	require.NoError(t, mf.AddColumn("roll", typecode.Float32, '-'))

	require.NoError(t, w.Write(mf, typecode.Float32V(1.5)))
	require.NoError(t, w.Close())
}
