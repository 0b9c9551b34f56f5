// Package codec converts card assets to and from the text form used in
// backup documents.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// DefaultMIME is the type recorded for assets that carry none.
const DefaultMIME = "application/octet-stream"

// ErrCorruptAsset is returned when encoded asset text cannot be decoded.
var ErrCorruptAsset = fmt.Errorf("corrupt asset: %w", types.ErrAssetUnavailable)

// EncodedAsset is the text form of an asset: standard padded base64 plus
// its MIME type.
type EncodedAsset struct {
	Base64 string `json:"base64"`
	Type   string `json:"type"`
}

// Encode converts an asset to text. A nil asset encodes to nil.
func Encode(a *types.Asset) *EncodedAsset {
	if a == nil {
		return nil
	}
	mime := a.MIME
	if mime == "" {
		mime = DefaultMIME
	}
	return &EncodedAsset{
		Base64: base64.StdEncoding.EncodeToString(a.Data),
		Type:   mime,
	}
}

// Decode converts text back to an asset, byte for byte. A nil input
// decodes to nil. ASCII whitespace is ignored and padding is optional, as in
// a browser's atob. Returns an error wrapping ErrCorruptAsset when the text
// is not valid base64.
func Decode(e *EncodedAsset) (*types.Asset, error) {
	if e == nil {
		return nil, nil
	}
	data, err := decodeBase64(e.Base64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptAsset, err)
	}
	mime := e.Type
	if mime == "" {
		mime = DefaultMIME
	}
	return &types.Asset{Data: data, MIME: mime}, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)
	if len(s)%4 == 0 {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// ReadLimited reads all of r. When limit is positive and r holds more than
// limit bytes, it returns an error wrapping types.ErrTooLarge instead of a
// truncated payload.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", types.ErrTooLarge, limit)
	}
	return data, nil
}

// DetectMIME sniffs the MIME type of raw asset bytes.
func DetectMIME(data []byte) string {
	m := mimetype.Detect(data)
	if m == nil {
		return DefaultMIME
	}
	return m.String()
}

// FromBytes builds an asset from raw bytes, sniffing the type when mime is
// empty.
func FromBytes(data []byte, mime string) *types.Asset {
	if mime == "" {
		mime = DetectMIME(data)
	}
	return &types.Asset{Data: data, MIME: mime}
}

// IsCorrupt reports whether err came from decoding bad asset text.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptAsset)
}
