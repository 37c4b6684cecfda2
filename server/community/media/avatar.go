// Package media normalizes user-supplied avatar images.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"community_server/server/community/domain"
)

const (
	AvatarSize        = 256
	maxAvatarBytes    = 5 * 1024 * 1024
	maxAvatarSide     = 4096
	dataURIPNGPrefix  = "data:image/png;base64,"
	avatarContentType = "image/png"
)

// ObjectStore uploads an encoded avatar and returns its public URL.
type ObjectStore interface {
	PutAvatar(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type AvatarProcessor struct {
	objects ObjectStore
}

// NewAvatarProcessor accepts a nil store; avatars are then kept inline as
// data URIs.
func NewAvatarProcessor(objects ObjectStore) *AvatarProcessor {
	return &AvatarProcessor{objects: objects}
}

// Normalize turns raw into the avatar reference to store. http(s) URLs pass
// through untouched; image data URIs are decoded, thumbnailed to
// AvatarSize and re-encoded as PNG.
func (p *AvatarProcessor) Normalize(ctx context.Context, ownerID, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "http://") {
		return raw, nil
	}

	data, err := decodeDataURI(raw)
	if err != nil {
		return "", err
	}
	// Header first: a small payload can still expand to a huge bitmap.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", domain.ErrInvalidRequest.WithMessage("avatar is not a decodable image")
	}
	if cfg.Width > maxAvatarSide || cfg.Height > maxAvatarSide {
		return "", domain.ErrInvalidRequest.WithMessage(fmt.Sprintf("avatar must be at most %dx%d pixels", maxAvatarSide, maxAvatarSide))
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", domain.ErrInvalidRequest.WithMessage("avatar is not a decodable image")
	}

	// Crop before resizing so thin images never upscale to a huge intermediate.
	side := min(img.Bounds().Dx(), img.Bounds().Dy())
	square := imaging.CropAnchor(img, side, side, imaging.Center)
	thumb := imaging.Resize(square, AvatarSize, AvatarSize, imaging.Lanczos)
	buf := bytes.NewBuffer(nil)
	if err := imaging.Encode(buf, thumb, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	if p.objects == nil {
		return dataURIPNGPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
	}
	key := fmt.Sprintf("avatars/%s/%s.png", ownerID, uuid.NewString())
	url, err := p.objects.PutAvatar(ctx, key, buf.Bytes(), avatarContentType)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return url, nil
}

func decodeDataURI(raw string) ([]byte, error) {
	if !strings.HasPrefix(raw, "data:image/") {
		return nil, domain.ErrInvalidRequest.WithMessage("avatar must be an http(s) URL or an image data URI")
	}
	comma := strings.Index(raw, ",")
	if comma < 0 || !strings.HasSuffix(raw[:comma], ";base64") {
		return nil, domain.ErrInvalidRequest.WithMessage("avatar data URI must be base64 encoded")
	}
	payload := raw[comma+1:]
	if base64.StdEncoding.DecodedLen(len(payload)) > maxAvatarBytes {
		return nil, domain.ErrInvalidRequest.WithMessage("avatar is too large")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.ErrInvalidRequest.WithMessage("avatar data URI is not valid base64")
	}
	return data, nil
}
