package report

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticChart string

func (c staticChart) Render(w io.Writer) error {
	_, err := io.WriteString(w, string(c))
	return err
}

type brokenChart struct{}

func (brokenChart) Render(io.Writer) error { return errors.New("render failed") }

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	require.NoError(t, sink.Save("b", staticChart("<b>")))
	require.NoError(t, sink.Save("a", staticChart("<a>")))
	require.NoError(t, sink.Save("b", staticChart("<b2>")))

	assert.Equal(t, []string{"b", "a"}, sink.Names())
	html, ok := sink.Chart("b")
	require.True(t, ok)
	assert.Equal(t, "<b2>", string(html))

	_, ok = sink.Chart("missing")
	assert.False(t, ok)

	require.Error(t, sink.Save("c", brokenChart{}))
	assert.Len(t, sink.Names(), 2)
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	sink, err := NewDirSink(dir)
	require.NoError(t, err)

	require.NoError(t, sink.Save("total_cases", staticChart("<html>")))
	content, err := os.ReadFile(filepath.Join(dir, "total_cases.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>", string(content))

	require.Error(t, sink.Save("broken", brokenChart{}))
	assert.NoFileExists(t, filepath.Join(dir, "broken.html"))
}

func TestTeeSink(t *testing.T) {
	first, second := NewMemorySink(), NewMemorySink()
	tee := TeeSink{first, second}

	require.NoError(t, tee.Save("x", staticChart("<x>")))
	assert.Equal(t, []string{"x"}, first.Names())
	assert.Equal(t, []string{"x"}, second.Names())

	assert.Error(t, tee.Save("y", brokenChart{}))
}
