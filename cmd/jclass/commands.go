package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/daimatz/jclass/pkg/classfile"
	"github.com/daimatz/jclass/pkg/config"
	"github.com/daimatz/jclass/pkg/dump"
	"github.com/daimatz/jclass/pkg/loader"
	"github.com/daimatz/jclass/pkg/refgraph"
	"github.com/daimatz/jclass/pkg/resolve"
)

// options are the flags shared by every command.
type options struct {
	fs         *flag.FlagSet
	configPath string
	format     string
	color      string
	workers    int
	depth      int
	verbose    bool
}

func newFlagSet(name string) (*flag.FlagSet, *options) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	o := &options{fs: fs}
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.IntVar(&o.workers, "workers", 0, "parallel decoders (0 = GOMAXPROCS)")
	fs.IntVar(&o.depth, "max-array-depth", 0, "maximum array dimensions in a descriptor")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	return fs, o
}

// config loads the config file, if any, and applies flags set on the
// command line over it.
func (o *options) config() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = o.format
		case "color":
			cfg.Color = o.color
		case "workers":
			cfg.Workers = o.workers
		case "max-array-depth":
			cfg.MaxArrayDepth = o.depth
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if o.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		loader.SetLogger(log)
	}
	return cfg, nil
}

func openSources(paths []string) ([]loader.Source, error) {
	if len(paths) == 0 {
		return nil, errors.New("no class files, directories or archives given")
	}
	sources := make([]loader.Source, 0, len(paths))
	for _, p := range paths {
		src, err := loader.Open(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func textStyles(mode string) *dump.Styles {
	switch mode {
	case config.ColorNever:
		return nil
	case config.ColorAuto:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return nil
		}
		return dump.NewStyles(lipgloss.NewRenderer(os.Stdout))
	}
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.ANSI256)
	return dump.NewStyles(r)
}

func cmdDump(args []string) error {
	fs, o := newFlagSet("dump")
	fs.StringVar(&o.format, "format", config.FormatText, "output format: text, json or yaml")
	fs.StringVar(&o.color, "color", config.ColorAuto, "colour text output: auto, always or never")
	fs.Parse(args)

	cfg, err := o.config()
	if err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		paths = cfg.Classpath
	}
	sources, err := openSources(paths)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := loader.DecodeAll(ctx, sources, cfg.Workers, resolve.WithMaxArrayDepth(cfg.MaxArrayDepth))
	if err != nil {
		return err
	}
	classes := make([]*resolve.Class, len(results))
	for i, r := range results {
		classes[i] = r.Class
	}
	return dump.Write(os.Stdout, cfg.Format, classes, textStyles(cfg.Color))
}

func cmdLoad(args []string) error {
	fs, o := newFlagSet("load")
	cp := fs.String("cp", "", "comma-separated classpath, searched before the config classpath")
	jdk := fs.Bool("jdk", false, "search java.base.jmod last")
	fs.StringVar(&o.format, "format", config.FormatText, "output format: text, json or yaml")
	fs.StringVar(&o.color, "color", config.ColorAuto, "colour text output: auto, always or never")
	fs.Parse(args)

	cfg, err := o.config()
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("load: no class names given")
	}

	var paths []string
	if *cp != "" {
		paths = append(paths, strings.Split(*cp, ",")...)
	}
	paths = append(paths, cfg.Classpath...)
	if *jdk {
		jmod := findJmodPath()
		if jmod == "" {
			return errors.New("could not find java.base.jmod; set JAVA_HOME or JAVA_BASE_JMOD")
		}
		paths = append(paths, jmod)
	}
	sources, err := openSources(paths)
	if err != nil {
		return err
	}

	l := loader.New(sources, resolve.WithMaxArrayDepth(cfg.MaxArrayDepth))
	var classes []*resolve.Class
	for _, name := range fs.Args() {
		c, err := l.LoadClass(strings.ReplaceAll(name, ".", "/"))
		if err != nil {
			return err
		}
		classes = append(classes, c)
	}
	return dump.Write(os.Stdout, cfg.Format, classes, textStyles(cfg.Color))
}

func cmdGraph(args []string) error {
	fs, o := newFlagSet("graph")
	out := fs.String("o", "", "write DOT to file instead of stdout")
	title := fs.String("title", "classes", "graph title")
	fs.Parse(args)

	cfg, err := o.config()
	if err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		paths = cfg.Classpath
	}
	sources, err := openSources(paths)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	parsed, err := loader.ParseAll(ctx, sources, cfg.Workers)
	if err != nil {
		return err
	}
	files := make([]*classfile.ClassFile, len(parsed))
	for i, p := range parsed {
		files[i] = p.File
	}
	g, err := refgraph.Build(files)
	if err != nil {
		return err
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}
	if err := refgraph.WriteDOT(w, g, *title); err != nil {
		return err
	}
	if *out != "" {
		fmt.Fprintf(os.Stderr, "wrote %s (%d nodes, %d edges)\n", *out, len(g.Nodes), len(g.Edges))
	}
	return nil
}

func cmdCheck(args []string) error {
	fs, o := newFlagSet("check")
	fs.Parse(args)

	cfg, err := o.config()
	if err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		paths = cfg.Classpath
	}
	sources, err := openSources(paths)
	if err != nil {
		return err
	}

	var total, failed int
	for _, src := range sources {
		names, err := src.Names()
		if err != nil {
			return err
		}
		for _, name := range names {
			total++
			data, err := src.Load(name)
			if err == nil {
				_, err = resolve.Decode(data, resolve.WithMaxArrayDepth(cfg.MaxArrayDepth))
			}
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %s: %v\n", src, name, err)
			}
		}
	}

	fmt.Fprintf(os.Stderr, "checked %d classes, %d failed\n", total, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d classes failed to decode", failed, total)
	}
	return nil
}
