package validator

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

// TestDetectImage_PNG 测试PNG图片验证
func TestDetectImage_PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(4, 3)))
	reader := bytes.NewReader(buf.Bytes())

	info, err := DetectImage(reader)
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 4, info.Width)
	assert.Equal(t, 3, info.Height)

	pos, _ := reader.Seek(0, io.SeekCurrent)
	assert.Equal(t, int64(0), pos, "reader should be rewound")
}

// TestDetectImage_GIF 测试GIF图片验证
func TestDetectImage_GIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(2, 2), nil))

	info, err := DetectImage(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "gif", info.Format)
}

// TestDetectImage_BMP 测试BMP图片验证
func TestDetectImage_BMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage(5, 5)))

	info, err := DetectImage(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "bmp", info.Format)
	assert.Equal(t, 5, info.Width)
}

// TestDetectImage_InvalidType 测试非图片类型
func TestDetectImage_InvalidType(t *testing.T) {
	reader := strings.NewReader("this is just some plain text, not an image")

	_, err := DetectImage(reader)
	assert.ErrorIs(t, err, ErrNotImage)

	pos, _ := reader.Seek(0, io.SeekCurrent)
	assert.Equal(t, int64(0), pos)
}

// TestDetectImage_Empty 测试空文件
func TestDetectImage_Empty(t *testing.T) {
	_, err := DetectImage(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrNotImage)
}

// TestSafeExtension 测试扩展名处理
func TestSafeExtension(t *testing.T) {
	tests := []struct {
		name     string
		original string
		format   string
		expected string
	}{
		{name: "keeps original", original: "holiday.JPEG", format: "jpeg", expected: ".jpeg"},
		{name: "lowercases", original: "Photo.PNG", format: "png", expected: ".png"},
		{name: "missing extension falls back", original: "photo", format: "png", expected: ".png"},
		{name: "unsafe characters fall back", original: "evil.p$p", format: "gif", expected: ".gif"},
		{name: "overlong extension falls back", original: "x.abcdefghijkl", format: "webp", expected: ".webp"},
		{name: "only dot falls back", original: "x.", format: "bmp", expected: ".bmp"},
		{name: "alternate jpeg extension", original: "scan.JPG", format: "jpeg", expected: ".jpg"},
		{name: "html name stored as format", original: "x.html", format: "png", expected: ".png"},
		{name: "mismatched image extension", original: "photo.gif", format: "png", expected: ".png"},
		{name: "script extension", original: "payload.svg", format: "gif", expected: ".gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeExtension(tt.original, tt.format))
		})
	}
}

func TestImageContentType(t *testing.T) {
	assert.Equal(t, "image/png", ImageContentType("0123abcd.png"))
	assert.Equal(t, "image/jpeg", ImageContentType("0123abcd.JPEG"))
	assert.Equal(t, "image/webp", ImageContentType("0123abcd.webp"))
	assert.Equal(t, "application/octet-stream", ImageContentType("0123abcd.html"))
	assert.Equal(t, "application/octet-stream", ImageContentType("0123abcd"))
}
