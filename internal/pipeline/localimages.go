package pipeline

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EmbedLocalImages replaces relative img sources under baseDir with inline
// data URIs. Sources that are URLs, absolute, escape baseDir, are larger
// than maxBytes or are not images stay as they are. An empty baseDir
// returns content unchanged.
func EmbedLocalImages(content, baseDir string, maxBytes int64) (string, error) {
	if baseDir == "" {
		return content, nil
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving image base dir: %w", err)
	}

	parsed, err := parseMarkup(content)
	if err != nil {
		return "", fmt.Errorf("parsing markup: %w", err)
	}

	changed := false
	parsed.document().Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if !isRelativePath(src) {
			return
		}
		path := filepath.Join(absBase, src)
		if !isPathUnderDir(path, absBase) {
			return
		}
		uri, ok := readImageFile(path, maxBytes)
		if !ok {
			return
		}
		img.SetAttr("src", uri)
		changed = true
	})
	if !changed {
		return content, nil
	}
	return parsed.render()
}

// LocalImageRef reads an image file into an inline reference.
func LocalImageRef(path string, maxBytes int64) (string, error) {
	uri, ok := readImageFile(path, maxBytes)
	if !ok {
		return "", fmt.Errorf("%s: not a readable image within %d bytes", path, maxBytes)
	}
	return uri, nil
}

func readImageFile(path string, maxBytes int64) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return "", false
	}
	data, err := os.ReadFile(path) // #nosec G304 -- contained under base dir or given by the caller
	if err != nil {
		return "", false
	}
	mime := sniffImageType("", data)
	if mime == "" {
		return "", false
	}
	return DataURI(mime, data), true
}

// isRelativePath reports whether src names a file relative to the letter.
func isRelativePath(src string) bool {
	if src == "" || strings.HasPrefix(src, "#") || strings.HasPrefix(src, "//") || filepath.IsAbs(src) {
		return false
	}
	// A scheme (http:, data:, file:) ends before the first separator.
	if i := strings.IndexByte(src, ':'); i > 1 && !strings.ContainsAny(src[:i], "/\\") {
		return false
	}
	return true
}

// isPathUnderDir prevents traversal out of dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

// sniffImageType returns the image MIME type from a Content-Type header,
// falling back to content sniffing. It returns "" for non-images.
func sniffImageType(header string, data []byte) string {
	if mt := mediaTypeOf(header); strings.HasPrefix(mt, "image/") {
		return mt
	}
	detected := mediaTypeOf(http.DetectContentType(data))
	if strings.HasPrefix(detected, "image/") {
		return detected
	}
	// DetectContentType has no SVG signature.
	if (strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "text/plain")) &&
		strings.Contains(string(data[:min(len(data), 512)]), "<svg") {
		return "image/svg+xml"
	}
	return ""
}
