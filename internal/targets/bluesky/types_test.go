package bluesky

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heraldo/internal/types"
	"heraldo/internal/utils"
)

func TestPost_TryFrom(t *testing.T) {
	raw := []byte(`{
		"segments": [
			{"text": "New video!"},
			{"text": "Watch", "uri": "https://example.com/watch/1"}
		],
		"embed": {
			"uri": "https://example.com/watch/1",
			"title": "Launch",
			"description": "A launch video"
		}
	}`)

	var post Post
	require.NoError(t, post.TryFrom(raw))
	require.Len(t, post.Segments, 2)
	assert.Equal(t, "New video!", post.Segments[0].Text)
	assert.Equal(t, "https://example.com/watch/1", post.Segments[1].URI)
	require.NotNil(t, post.Embed)
	assert.Equal(t, "Launch", post.Embed.Title)
}

func TestPost_TryFrom_InvalidJSON(t *testing.T) {
	var post Post
	require.Error(t, post.TryFrom([]byte("{broken")))
}

func TestPost_Into_ComputesByteRanges(t *testing.T) {
	post := Post{Segments: []Segment{
		{Text: "Announcing: "},
		{Text: "Read More", URI: "https://example.com/posts/1"},
	}}

	rt := post.Into()
	assert.Equal(t, "Announcing: Read More", rt.Text)
	require.Len(t, rt.Facets, 1)

	idx := rt.Facets[0].Index
	assert.Equal(t, int64(len("Announcing: ")), idx.ByteStart)
	assert.Equal(t, int64(len("Announcing: Read More")), idx.ByteEnd)
	assert.Equal(t, "https://example.com/posts/1",
		rt.Facets[0].Features[0].RichtextFacet_Link.Uri)
}

func TestPost_Into_SkipsEmptySegments(t *testing.T) {
	post := Post{Segments: []Segment{
		{Text: ""},
		{Text: "only"},
	}}

	rt := post.Into()
	assert.Equal(t, "only", rt.Text)
	assert.Empty(t, rt.Facets)
}

func TestEmbedData_TryInto_TruncatesLongDescription(t *testing.T) {
	embed := EmbedData{
		URI:         "https://example.com/posts/1",
		Title:       "Title",
		Description: strings.Repeat("x", 400),
	}

	external, err := embed.TryInto()
	require.NoError(t, err)
	assert.Len(t, external.Description, 300)
	assert.True(t, strings.HasSuffix(external.Description, "..."))
}

func TestEmbedData_TryInto_RequiresURI(t *testing.T) {
	embed := EmbedData{Title: "no uri"}
	_, err := embed.TryInto()
	require.Error(t, err)
}

func TestBuildPost(t *testing.T) {
	rt := RichText{Text: "hello"}
	embed := &EmbedData{URI: "https://example.com", Title: "t"}
	external, err := embed.TryInto()
	require.NoError(t, err)

	createdAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
	post := BuildPost(rt, external, []string{"en"}, createdAt)

	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, []string{"en"}, post.Langs)
	assert.Equal(t, createdAt, post.CreatedAt)
	require.NotNil(t, post.Embed)
	assert.Equal(t, "https://example.com", post.Embed.EmbedExternal.External.Uri)

	bare := BuildPost(rt, nil, nil, createdAt)
	assert.Nil(t, bare.Embed)
}

// The shipped template must render every item shape into valid Post JSON.
func TestTemplate_RendersToValidPost(t *testing.T) {
	tmpl, err := utils.LoadPostTemplate("../../../templates/bluesky.tmpl")
	require.NoError(t, err)

	items := []types.Item{
		{
			ID:           "video_1",
			Title:        `Launch "Day" <live>`,
			URL:          "https://example.com/watch/1",
			Description:  "line one\nline two",
			ThumbnailURL: "https://example.com/thumb.jpg",
			SourceKey:    types.SourceVideo,
		},
		{
			ID:        "article_1",
			Title:     "Quiet release",
			URL:       "https://example.com/posts/1",
			SourceKey: types.SourceArticle,
		},
	}

	for _, item := range items {
		var buf strings.Builder
		require.NoError(t, tmpl.Execute(&buf, item), "item %s", item.ID)

		var post Post
		require.NoError(t, post.TryFrom([]byte(buf.String())), "item %s rendered: %s", item.ID, buf.String())
		require.NotEmpty(t, post.Segments)
		require.NotNil(t, post.Embed)
		assert.Equal(t, item.URL, post.Embed.URI)
	}
}
