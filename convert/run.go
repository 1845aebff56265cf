package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mdprint/config"
	"mdprint/content"
	"mdprint/state"
	"mdprint/warnings"
)

// batch describes where results of processing go and counts outcomes.
type batch struct {
	// dst is output directory, empty when nothing should be written
	dst string
	// out receives markup instead of files when set
	out io.Writer

	total, failed int
}

func (b *batch) err() error {
	if b.failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d documents failed", b.failed, b.total)
}

func ptr[T any](v T) *T { return &v }

// applyFlags moves document overrides from command line to environment.
func applyFlags(env *state.LocalEnv, cmd *cli.Command, log *zap.Logger) {
	env.Theme = strings.TrimSpace(cmd.String("theme"))
	if p := cmd.String("paper"); len(p) > 0 {
		paper, err := config.ParsePaper(p)
		if err != nil {
			log.Warn("Unknown paper size requested, ignoring", zap.Error(err))
		} else {
			env.Paper = paper
		}
	}
	switch {
	case cmd.Bool("toc"):
		env.TOC = ptr(true)
	case cmd.Bool("no-toc"):
		env.TOC = ptr(false)
	}
	if d := cmd.Int("toc-depth"); d > 0 {
		env.TOCDepth = int(d)
	}
	switch {
	case cmd.Bool("title-page"):
		env.TitlePage = ptr(true)
	case cmd.Bool("no-title-page"):
		env.TitlePage = ptr(false)
	}
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func sourceArg(cmd *cli.Command) (string, error) {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return "", errors.New("no input source has been specified")
	}
	return filepath.Abs(src)
}

// Run is convert command action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	applyFlags(env, cmd, log)
	env.NoDirs, env.Overwrite, env.Stdout = cmd.Bool("nodirs"), cmd.Bool("overwrite"), cmd.Bool("stdout")

	b := &batch{dst: dst}
	if env.Stdout {
		b.out = writer(cmd)
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)), zap.Int("documents", b.total), zap.Int("failed", b.failed))
	}(time.Now())

	if err := process(ctx, src, b, log); err != nil {
		return err
	}
	return b.err()
}

// Check is check command action: full pipeline, nothing is written.
func Check(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	applyFlags(env, cmd, log)

	b := &batch{}
	if err := process(ctx, src, b, log); err != nil {
		return err
	}
	log.Info("Check completed", zap.Int("documents", b.total), zap.Int("failed", b.failed))
	return b.err()
}

// process handles single file or whole directory tree independently of CLI
// framework.
func process(ctx context.Context, src string, b *batch, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}
	switch {
	case fi.IsDir():
		return processDir(ctx, src, b, log)
	case fi.Mode().IsRegular():
		if !isMarkdown(src) {
			log.Debug("Input has no markdown extension, processing anyway", zap.String("file", src))
		}
		if err := processFile(ctx, src, filepath.Base(src), b, log); err != nil {
			log.Error("Unable to process file", zap.String("file", src), zap.Error(err))
		}
		return nil
	default:
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// processDir walks directory tree processing markdown files. Hidden
// directories are skipped.
func processDir(ctx context.Context, dir string, b *batch, log *zap.Logger) error {
	before := b.total
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !isMarkdown(path) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		if err := processFile(ctx, path, rel, b, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	if err == nil && b.total == before {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return err
}

// renderOptions layers document settings: command line wins, front matter
// comes next, configuration is used when front matter is silent.
func renderOptions(env *state.LocalEnv, fm *content.FrontMatter) Options {
	opts := Options{Theme: env.Theme, DefaultTheme: env.DefaultTheme()}
	to := &opts.Typst
	to.Paper, to.TOC, to.TOCDepth, to.TitlePage = string(env.Paper), env.TOC, env.TOCDepth, env.TitlePage
	if env.Cfg == nil {
		return opts
	}
	if fm == nil {
		fm = &content.FrontMatter{}
	}
	doc := env.Cfg.Document
	opts.Strict = doc.Strict
	if len(to.Paper) == 0 && len(fm.Paper) == 0 {
		to.Paper = string(doc.Paper)
	}
	if to.TOC == nil && fm.TOC == nil {
		to.TOC = doc.TOC
	}
	if to.TOCDepth == 0 && fm.TOCDepth == nil {
		to.TOCDepth = doc.TOCDepth
	}
	if to.TitlePage == nil {
		to.TitlePage = doc.TitlePage
	}
	return opts
}

func logWarnings(list []warnings.Warning, src string, log *zap.Logger) {
	for _, w := range list {
		log.Warn(w.String(), zap.String("file", src), zap.String("kind", string(w.Kind())))
	}
}

// processFile converts single markdown file. "rel" is source path relative
// to what was requested, for a single file it is base name.
func processFile(ctx context.Context, path, rel string, b *batch, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)
	b.total++

	var outputName string
	log.Info("Conversion starting", zap.String("from", rel))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		}
		if rerr != nil {
			b.failed++
			return
		}
		log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
	}(time.Now())

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := content.Prepare(ctx, f, rel, filepath.Dir(path), log)
	if err != nil {
		return fmt.Errorf("unable to prepare markdown source (%s): %w", rel, err)
	}

	src, err := env.Themes()
	if err != nil {
		return err
	}
	res, err := Render(ctx, c, renderOptions(env, c.FrontMatter), src, env.Fonts(), log)
	if err != nil {
		return err
	}
	logWarnings(res.Warnings, rel, log)
	storeReport(env.Rpt, c, res, log)

	switch {
	case b.out != nil:
		outputName = "<stdout>"
		_, err = io.WriteString(b.out, res.Markup)
		return err
	case len(b.dst) == 0:
		outputName = "<none>"
		return nil
	}

	outputName = buildOutputPath(c, rel, b.dst, res.Theme.ID(), env, log)
	if err := writeOutput(outputName, []byte(res.Markup), env.Overwrite, log); err != nil {
		return err
	}
	return writeResources(b.dst, res.Resources(), log)
}

func storeReport(rpt *config.Report, c *content.Content, res *Result, log *zap.Logger) {
	if rpt == nil {
		return
	}
	prefix := fmt.Sprintf("%s-%s", c.Name(), res.ID)
	rpt.StoreData(prefix+markupExt, []byte(res.Markup))
	if data, err := res.Theme.Dump(); err == nil {
		rpt.StoreData(prefix+"-theme.yaml", data)
	} else {
		log.Debug("Unable to dump theme for report", zap.Error(err))
	}
	for name, data := range res.Resources() {
		rpt.StoreData(prefix+"-"+strings.TrimPrefix(name, "/"), data)
	}
}

// writeOutput applies overwrite policy and writes file creating missing
// directories.
func writeOutput(name string, data []byte, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(name); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return os.WriteFile(name, data, 0644)
}

// writeResources puts virtual files under output root. They are generated
// and always replaced.
func writeResources(root string, resources map[string][]byte, log *zap.Logger) error {
	for logical, data := range resources {
		name := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(logical, "/")))
		if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
			return fmt.Errorf("unable to create resource directory: %w", err)
		}
		if err := os.WriteFile(name, data, 0644); err != nil {
			return fmt.Errorf("unable to write resource %s: %w", logical, err)
		}
		log.Debug("Resource written", zap.String("file", name))
	}
	return nil
}
