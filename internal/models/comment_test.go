package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentNormalizeMedia(t *testing.T) {
	t.Parallel()

	t.Run("no attachment yields nil media", func(t *testing.T) {
		t.Parallel()
		c := &Comment{Content: "plain"}
		c.NormalizeMedia()
		assert.False(t, c.HasMedia())
		assert.Nil(t, c.Media)
	})

	t.Run("attachment fills the response shape", func(t *testing.T) {
		t.Parallel()
		c := &Comment{
			MediaType: MediaTypeImage,
			MediaURL:  "https://example.com/a.jpg",
			MediaMeta: `{"width":800}`,
		}
		c.NormalizeMedia()
		require.NotNil(t, c.Media)
		assert.Equal(t, MediaTypeImage, c.Media.Type)
		assert.Equal(t, "https://example.com/a.jpg", c.Media.URL)
		assert.JSONEq(t, `{"width":800}`, string(c.Media.Metadata))
	})

	t.Run("missing metadata stays empty", func(t *testing.T) {
		t.Parallel()
		c := &Comment{MediaType: MediaTypeVideo, MediaURL: "https://example.com/v.mp4"}
		c.NormalizeMedia()
		require.NotNil(t, c.Media)
		assert.Empty(t, c.Media.Metadata)
	})

	t.Run("stale media pointer is cleared", func(t *testing.T) {
		t.Parallel()
		c := &Comment{Media: &CommentMedia{Type: MediaTypeImage, URL: "old"}}
		c.NormalizeMedia()
		assert.Nil(t, c.Media)
	})
}

func TestCommentJSONShape(t *testing.T) {
	t.Parallel()

	c := &Comment{
		ID:        1,
		PostID:    2,
		UserID:    3,
		Content:   "hi",
		MediaType: MediaTypeImage,
		MediaURL:  "https://example.com/a.jpg",
	}
	c.NormalizeMedia()

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))

	// raw media columns never leak; only the normalized object does
	assert.NotContains(t, out, "MediaType")
	assert.NotContains(t, out, "MediaURL")
	require.Contains(t, out, "media")
	media := out["media"].(map[string]interface{})
	assert.Equal(t, "image", media["type"])

	// top-level comments omit parent and root ids
	assert.NotContains(t, out, "parent_id")
	assert.NotContains(t, out, "root_id")
}
