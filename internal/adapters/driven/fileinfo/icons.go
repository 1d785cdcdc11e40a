package fileinfo

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// sniffLen is how much of a file content sniffing reads.
const sniffLen = 512

// iconName returns the freedesktop icon name for a file, or "" when its
// type cannot be determined.
func iconName(path string, info fs.FileInfo) string {
	switch {
	case info.IsDir():
		return "folder"
	case !info.Mode().IsRegular():
		return "inode-x-generic"
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = sniff(path)
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		if info.Mode()&0o111 != 0 {
			return "application-x-executable"
		}
		return ""
	}
	return mimeIconName(mimeType)
}

// mimeIconName turns "text/plain; charset=utf-8" into "text-plain".
func mimeIconName(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = mimeType
	}
	return strings.ReplaceAll(mediaType, "/", "-")
}

func sniff(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if n == 0 && err != nil {
		return ""
	}
	return http.DetectContentType(buf[:n])
}

// placeholderIcon draws a plain document glyph: a white page with a grey
// border on a transparent background, as 8-bit RGBA rows.
func placeholderIcon(size int) *domain.PixelBuffer {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	margin := size / 8
	page := image.Rect(margin+size/16, margin/2, size-margin-size/16, size-margin/2)
	border := color.NRGBA{R: 0x88, G: 0x8a, B: 0x85, A: 0xff}
	fill := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	draw.Draw(img, page, &image.Uniform{C: border}, image.Point{}, draw.Src)
	draw.Draw(img, page.Inset(max(1, size/64)), &image.Uniform{C: fill}, image.Point{}, draw.Src)

	return &domain.PixelBuffer{
		Width:         size,
		Height:        size,
		Rowstride:     img.Stride,
		HasAlpha:      true,
		BitsPerSample: 8,
		Channels:      4,
		Data:          img.Pix,
	}
}
