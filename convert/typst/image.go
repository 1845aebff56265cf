package typst

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"mdprint/markdown"
	"mdprint/warnings"
)

// formats engine can embed, keyed by detected extension.
var imageFormats = map[string]string{
	"png":  "png",
	"jpg":  "jpg",
	"jpeg": "jpg",
	"gif":  "gif",
	"webp": "webp",
	"svg":  "svg",
}

// isRemote reports whether reference points outside of local file system.
// Single letter schemes are drive letters.
func isRemote(ref string) bool {
	if strings.HasPrefix(ref, "//") {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return len(u.Scheme) > 1 && u.Scheme != "file"
}

// localPath returns path as written in the document (unescaped) and the file
// system path it refers to, relative paths are relative to document
// directory.
func localPath(ref, dir string) (string, string) {
	p := ref
	if u, err := url.Parse(ref); err == nil {
		if u.Scheme == "file" {
			p = u.Path
		} else if len(u.Scheme) <= 1 {
			if unescaped, err := url.PathUnescape(ref); err == nil {
				p = unescaped
			}
		}
	}
	if i := strings.IndexAny(p, "?#"); i > 0 && !fileExists(filepath.Join(dir, p)) {
		p = p[:i]
	}
	if filepath.IsAbs(p) || len(dir) == 0 {
		return p, filepath.Clean(p)
	}
	return p, filepath.Join(dir, p)
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// detectFormat returns explicit format when file extension does not tell it.
func detectFormat(p string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))
	if _, ok := imageFormats[ext]; ok {
		return ""
	}
	kind, err := filetype.MatchFile(p)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return imageFormats[kind.Extension]
}

// image renders image reference. Remote images are skipped, missing local
// files are replaced with visible placeholder naming the path. Block images
// become figures captioned by alt text.
func (e *emitter) image(img *markdown.Image, block bool) string {
	t := e.t.Images
	if isRemote(img.URL) {
		e.collector.Add(warnings.RemoteImageSkipped{URL: img.URL})
		if len(img.Alt) > 0 && !block {
			return "#text(fill: " + rgb(e.t.Links.Color) + ")[" + escapeText(img.Alt) + "]"
		}
		return ""
	}

	ref, p := localPath(img.URL, e.dir)
	if !fileExists(p) {
		e.collector.Add(warnings.ImageNotFound{Path: img.URL})
		return e.missingImage(img.URL, block)
	}

	args := []string{quote(filepath.ToSlash(ref))}
	if f := detectFormat(p); len(f) > 0 {
		args = append(args, "format: "+quote(f))
	}
	if len(img.Alt) > 0 {
		args = append(args, "alt: "+quote(img.Alt))
	}
	if !block {
		return "#box(height: 1em, image(" + strings.Join(append(args, "height: 100%"), ", ") + "))"
	}

	args = append(args, "width: "+or(t.MaxWidth, "100%"))
	body := "image(" + strings.Join(args, ", ") + ")"
	if t.Border {
		body = fmt.Sprintf("box(stroke: %s, radius: %s, clip: true, %s)",
			stroke("0.5pt", e.t.Table.RowBorderColor), or(t.BorderRadius, "0pt"), body)
	} else if !zeroLength(t.BorderRadius) {
		body = fmt.Sprintf("box(radius: %s, clip: true, %s)", t.BorderRadius, body)
	}

	var out string
	if len(img.Alt) > 0 {
		out = "#figure(" + body + ", caption: [" + escapeText(img.Alt) + "])"
	} else {
		out = "#figure(" + body + ")"
	}
	if align := or(t.Alignment, "center"); align != "center" {
		out = "#align(" + align + ")[" + out + "]"
	}
	return out
}

func (e *emitter) missingImage(ref string, block bool) string {
	label := "Image not found: " + escapeText(ref)
	color := or(e.t.Alerts.WarningColor, or(e.t.Text.Color, "#000000"))
	if !block {
		return fmt.Sprintf("#box(stroke: %s, inset: (x: 2pt), outset: (y: 2pt))[#text(fill: %s)[%s]]",
			stroke("0.5pt", color), rgb(color), label)
	}
	return fmt.Sprintf("#block(width: 100%%, inset: 12pt, stroke: (paint: %s, thickness: 0.5pt, dash: \"dashed\"))[#align(center)[#text(fill: %s)[%s]]]",
		rgb(color), rgb(color), label)
}
