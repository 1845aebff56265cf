package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"mdprint/config"
	"mdprint/content"
	"mdprint/state"
)

const markupExt = ".typ"

// buildOutputPath returns path of the markup file. "src" is source path
// relative to what was requested on command line. Either default naming
// (source base name) or configured template is used, source directory
// structure is kept unless NoDirs is requested.
func buildOutputPath(c *content.Content, src, dst, themeID string, env *state.LocalEnv, log *zap.Logger) string {
	outDir := determineOutputDir(src, dst, env)
	defaultFile := buildDefaultFileName(src, env)

	if env.Cfg == nil || env.Cfg.Document.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expanded, err := expandTemplate(c, config.OutputNameTemplateFieldName, env.Cfg.Document.OutputNameTemplate, themeID)
	if err != nil {
		log.Warn("Unable to prepare output filename, using default", zap.Error(err))
		return filepath.Join(outDir, defaultFile)
	}
	if strings.TrimSpace(expanded) == "" {
		log.Warn("Output filename template expanded to nothing, using default")
		return filepath.Join(outDir, defaultFile)
	}
	return assemblePathWithSubdirs(outDir, filepath.FromSlash(expanded), env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func transliterate(env *state.LocalEnv) bool {
	return env.Cfg != nil && env.Cfg.Document.FileNameTransliterate
}

func buildDefaultFileName(src string, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return cleanPathSegment(baseName, env) + markupExt
}

// assemblePathWithSubdirs turns expanded template, which may contain path
// separators, into output path cleaning every segment.
func assemblePathWithSubdirs(outDir, expanded string, env *state.LocalEnv) string {
	segments := splitPath(expanded)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, segment := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+markupExt)
	return filepath.Join(parts...)
}

func splitPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)
	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if transliterate(env) {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
