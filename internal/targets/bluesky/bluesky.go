package bluesky

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"

	"heraldo/internal/platforms"
	"heraldo/internal/types"
)

// Target publishes one item at a time as a Bluesky post with an external
// embed card and, when available, a thumbnail blob.
type Target struct {
	name      string
	platform  *platforms.BlueskyPlatform
	languages []string
	template  *template.Template
}

func New(name string, languages []string, platform *platforms.BlueskyPlatform, tmpl *template.Template) *Target {
	if len(languages) == 0 {
		languages = []string{"en"}
	}

	return &Target{
		name:      name,
		platform:  platform,
		languages: languages,
		template:  tmpl,
	}
}

func (t *Target) Name() string {
	return t.name
}

func (t *Target) Publish(ctx context.Context, item types.Item) (*types.PublishResult, error) {
	var buf bytes.Buffer
	if err := t.template.Execute(&buf, item); err != nil {
		return nil, fmt.Errorf("template execution error: %w", err)
	}

	var post Post
	if err := post.TryFrom(buf.Bytes()); err != nil {
		return nil, err
	}

	richText := post.Into()

	var embedExternal *bsky.EmbedExternal_External
	if post.Embed != nil {
		var err error
		embedExternal, err = post.Embed.TryInto()
		if err != nil {
			return nil, err
		}
	}

	bskyPost := BuildPost(richText, embedExternal, t.languages, time.Now().Format(time.RFC3339))

	var resp *atproto.RepoCreateRecord_Output
	err := t.platform.Do(ctx, func(c *xrpc.Client) error {
		if post.Embed != nil && post.Embed.ThumbnailURL != "" {
			blob, blobErr := UploadBlob(ctx, c, post.Embed.ThumbnailURL)
			if blobErr == nil {
				AttachThumbnail(bskyPost, blob)
			}
		}

		var err error
		resp, err = atproto.RepoCreateRecord(ctx, c, &atproto.RepoCreateRecord_Input{
			Collection: "app.bsky.feed.post",
			Repo:       c.Auth.Did,
			Record:     &util.LexiconTypeDecoder{Val: bskyPost},
		})
		return err
	})

	if err != nil {
		return &types.PublishResult{
			Success:   false,
			Target:    t.name,
			ItemID:    item.ID,
			Timestamp: time.Now(),
			Error:     err,
		}, err
	}

	return &types.PublishResult{
		Success:   true,
		Target:    t.name,
		ItemID:    item.ID,
		Timestamp: time.Now(),
		Metadata: map[string]interface{}{
			"uri": resp.Uri,
			"cid": resp.Cid,
		},
	}, nil
}
