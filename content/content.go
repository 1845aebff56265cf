package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"mdprint/markdown"
	"mdprint/misc"
	"mdprint/state"
	"mdprint/warnings"
)

// Content is parsed Markdown document together with its metadata.
type Content struct {
	SrcName     string
	Dir         string
	Doc         *markdown.Document
	FrontMatter *FrontMatter

	// Unrecognized lists front matter fields nobody consumes, sorted.
	Unrecognized []string
	WorkDir      string
}

// Name returns source base name without extension.
func (c *Content) Name() string {
	base := filepath.Base(c.SrcName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReportUnrecognized appends one warning per unrecognized front matter field.
func (c *Content) ReportUnrecognized(collector *warnings.Collector) {
	for _, f := range c.Unrecognized {
		collector.Add(warnings.UnrecognizedFrontMatterField{Field: f})
	}
}

// Prepare reads and parses Markdown source. srcDir is directory relative
// image paths are resolved against.
func Prepare(ctx context.Context, r io.Reader, srcName, srcDir string, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read markdown: %w", err)
	}
	if source, err = toUTF8(source, log); err != nil {
		return nil, err
	}

	doc, err := markdown.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("unable to parse markdown: %w", err)
	}

	c := &Content{
		SrcName:     srcName,
		Dir:         srcDir,
		Doc:         doc,
		FrontMatter: &FrontMatter{},
	}

	if len(doc.Children) > 0 {
		if fm, ok := doc.Children[0].(*markdown.FrontMatter); ok {
			parsed, unknown, err := parseFrontMatter(fm.Raw)
			if err != nil {
				return nil, err
			}
			c.FrontMatter, c.Unrecognized = parsed, unknown
		}
	}
	if len(c.FrontMatter.Lang) > 0 {
		if _, ok := c.FrontMatter.Language(); !ok {
			log.Warn("Front matter has invalid language tag, ignoring", zap.String("lang", c.FrontMatter.Lang))
			c.FrontMatter.Lang = ""
		}
	}

	log.Debug("Markdown parsed",
		zap.Int("bytes", len(source)),
		zap.Int("blocks", len(doc.Children)),
		zap.String("title", c.FrontMatter.Title),
		zap.Strings("unrecognized", c.Unrecognized))

	// Save parsed document for debugging
	if env.Rpt != nil {
		tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
		if err != nil {
			return nil, fmt.Errorf("unable to create temporary directory: %w", err)
		}
		c.WorkDir = tmpDir
		env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), c.Name()), tmpDir)

		if err := os.WriteFile(filepath.Join(tmpDir, filepath.Base(srcName)+"_parsed"), []byte(c.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write parsed doc for debugging: %w", err)
		}
	}
	return c, nil
}

// toUTF8 transcodes source which is not valid UTF-8, guessing encoding from
// byte order mark or content. UTF-8 BOM is dropped.
func toUTF8(source []byte, log *zap.Logger) ([]byte, error) {
	if utf8.Valid(source) {
		return bytes.TrimPrefix(source, []byte("\xef\xbb\xbf")), nil
	}
	enc, name, _ := charset.DetermineEncoding(source, "text/plain")
	decoded, err := enc.NewDecoder().Bytes(source)
	if err != nil {
		return nil, fmt.Errorf("unable to decode markdown as %s: %w", name, err)
	}
	log.Warn("Source is not valid UTF-8, transcoded", zap.String("encoding", name))
	return bytes.TrimPrefix(decoded, []byte("\xef\xbb\xbf")), nil
}
