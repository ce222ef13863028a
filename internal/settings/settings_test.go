package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	reader := strings.NewReader(`
titleSuffix: " - Test Wiki"
showUnpublished: true
categories:
  published: "Ready"
`)

	s, err := NewLoader(reader).Load(true)

	require.NoError(t, err)
	assert.Equal(t, " - Test Wiki", s.TitleSuffix)
	assert.True(t, s.ShowUnpublished)
	assert.Equal(t, "Ready", s.Categories.Published)
	assert.Equal(t, "Authors", s.Categories.Authors)
	assert.Equal(t, "/mediawiki/index.php", s.ScriptPath)
	assert.Equal(t, "img/icon-video.png", s.Placeholders.Video)
}

func TestLoader_EmptyFile(t *testing.T) {
	s, err := NewLoader(strings.NewReader("")).Load(true)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoader_Invalid(t *testing.T) {
	_, err := NewLoader(strings.NewReader(`scriptPath: "mediawiki"`)).Load(true)
	assert.ErrorContains(t, err, "scriptPath")

	_, err = NewLoader(strings.NewReader(`categories: [`)).Load(false)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SHOW_UNPUBLISHED", "true")
	t.Setenv("RTMP_STREAMER", "rtmp://example.org/stream")

	s := Default()
	s.ApplyEnv()

	assert.True(t, s.ShowUnpublished)
	assert.Equal(t, "rtmp://example.org/stream", s.StreamingPrefix)
}
