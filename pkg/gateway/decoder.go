package gateway

import (
	"context"
	"strings"

	"github.com/compustack/aether/pkg/model"
	"github.com/compustack/aether/pkg/utils"
)

// TextFallback replaces an empty text response.
const TextFallback = "No data"

const imageDataURIPrefix = "data:image/png;base64,"

func DecodeText(resp *model.ContentResponse) string {
	if resp == nil || resp.Text == "" {
		return TextFallback
	}
	return resp.Text
}

// DecodeImage returns the first inline payload of the response as a data URI.
func DecodeImage(resp *model.ContentResponse) (string, error) {
	if resp != nil {
		for _, part := range resp.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return imageDataURIPrefix + part.InlineData.Data, nil
			}
		}
	}
	return "", utils.WrapIfNotNil(model.ErrNoImageData)
}

// DecodeSpeech returns the base64 audio payload of the first response part.
func DecodeSpeech(resp *model.ContentResponse) (string, error) {
	if resp == nil || len(resp.Parts) == 0 {
		return "", utils.WrapIfNotNil(model.ErrNoAudioData)
	}
	inline := resp.Parts[0].InlineData
	if inline == nil || inline.Data == "" {
		return "", utils.WrapIfNotNil(model.ErrNoAudioData)
	}
	return inline.Data, nil
}

type AssetDownloader interface {
	DownloadAsset(ctx context.Context, uri string) (*model.Blob, error)
}

// DecodeVideo fetches the finished asset into memory.
func DecodeVideo(ctx context.Context, downloader AssetDownloader, uri string) (*model.Blob, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, utils.WrapIfNotNil(model.ErrMissingAsset)
	}
	blob, err := downloader.DownloadAsset(ctx, uri)
	if err != nil {
		return nil, utils.MarkIfNotNil(model.ErrTransport, err)
	}
	if blob == nil {
		return nil, utils.WrapIfNotNil(model.ErrMissingAsset)
	}
	if blob.URI == "" {
		blob.URI = uri
	}
	return blob, nil
}
