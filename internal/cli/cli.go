// Package cli implements the remixin command: load mixin definitions, apply
// one of them to a YAML target and print the result.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"remixin/internal/common"
	"remixin/internal/config"
	"remixin/internal/definition"
	"remixin/internal/logger"
	"remixin/internal/match"
	"remixin/internal/metrics"
	"remixin/internal/script"
	"remixin/mixin"
	"remixin/object"
	"remixin/options"
)

// Flags holds the command line of one run.
type Flags struct {
	Defs    string
	Mixin   string
	Target  string
	Options string

	// Check only validates the definition file.
	Check    bool
	Validate bool
	Dump     bool
	Metrics  bool
}

// ParseFlags parses command line arguments into Flags.
func ParseFlags(fs *flag.FlagSet, args []string) (Flags, error) {
	var f Flags

	fs.StringVar(&f.Defs, "defs", "", "YAML file with mixin definitions")
	fs.StringVar(&f.Mixin, "mixin", "", "name of the mixin to apply")
	fs.StringVar(&f.Target, "target", "", "YAML file with the target object (empty object if unset)")
	fs.StringVar(&f.Options, "options", "", "YAML file with the options passed to the mixin")
	fs.BoolVar(&f.Check, "check", false, "validate the definitions and exit")
	fs.BoolVar(&f.Validate, "validate", false, "enable every contract check")
	fs.BoolVar(&f.Dump, "dump", false, "print the result with go-spew instead of YAML")
	fs.BoolVar(&f.Metrics, "metrics", false, "print application counters after the result")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	if strings.TrimSpace(f.Defs) == "" {
		return Flags{}, errors.New("defs is required")
	}

	if !f.Check && strings.TrimSpace(f.Mixin) == "" {
		return Flags{}, errors.New("mixin is required")
	}

	return f, nil
}

// Run executes one command using cfg and flags, writing results to out.
func Run(ctx context.Context, cfg config.Config, flags Flags, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if out == nil {
		out = io.Discard
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}

	defer func() { _ = log.Sync() }()

	checks, err := cfg.Checks()
	if err != nil {
		return err
	}

	if flags.Validate {
		checks |= options.CheckAll
	}

	defs, err := definition.LoadFile(flags.Defs)
	if err != nil {
		return err
	}

	reg := definition.NewRegistry()
	if err := reg.CompileFunctions(defs, script.Options{Timeout: cfg.ScriptTimeout}); err != nil {
		return err
	}

	if flags.Check {
		return check(defs, reg, out)
	}

	collector := metrics.NewCollector("")
	engine := mixin.NewEngine(
		mixin.WithChecks(checks),
		mixin.WithLogger(log),
		mixin.WithObserver(collector),
	)

	mixins, err := definition.Build(engine, defs, reg)
	if err != nil {
		return err
	}

	m, ok := mixins[flags.Mixin]
	if !ok {
		if s := match.Suggest(flags.Mixin, defs.MixinNames(), 3); len(s) > 0 {
			return fmt.Errorf("unknown mixin %q (did you mean %s?)", flags.Mixin, strings.Join(s, ", "))
		}

		return fmt.Errorf("unknown mixin %q", flags.Mixin)
	}

	target, opts, err := loadInputs(flags)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.ApplyTo(target, opts); err != nil {
		return fmt.Errorf("apply %s: %w", flags.Mixin, err)
	}

	log.Debug("applied mixin",
		zap.String("mixin", flags.Mixin),
		zap.Strings("checks", checks.Names()),
		zap.Int("properties", target.Len()))

	if err := write(out, target, flags.Dump); err != nil {
		return err
	}

	if flags.Metrics {
		return writeMetrics(out, collector)
	}

	return nil
}

func check(defs *definition.File, reg *definition.Registry, out io.Writer) error {
	diags := definition.Validate(defs, reg)

	for _, d := range diags.Errors {
		fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
	}

	for _, d := range diags.Warnings {
		fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
	}

	if err := diags.Error(); err != nil {
		return fmt.Errorf("%w: %d errors", definition.ErrInvalid, len(diags.Errors))
	}

	fmt.Fprintf(out, "ok: %d mixins, %d functions\n", len(defs.Mixins), len(defs.Functions))

	return nil
}

func loadInputs(flags Flags) (*object.Object, any, error) {
	target := object.New(nil)

	if flags.Target != "" {
		var err error

		target, err = definition.LoadObject(flags.Target)
		if err != nil {
			return nil, nil, err
		}
	}

	if flags.Options == "" {
		return target, nil, nil
	}

	data, err := os.ReadFile(flags.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read options file %s: %w", flags.Options, err)
	}

	opts, err := definition.ParseValue(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", flags.Options, err)
	}

	return target, opts, nil
}

func write(out io.Writer, target *object.Object, dump bool) error {
	if dump {
		spew.Fdump(out, target.Export())
		return nil
	}

	data, err := definition.MarshalObject(target)
	if err != nil {
		return err
	}

	_, err = out.Write(data)

	return err
}

func writeMetrics(out io.Writer, collector *metrics.Collector) error {
	snapshot, err := collector.Snapshot()
	if err != nil {
		return err
	}

	for _, key := range common.SortedKeys(snapshot) {
		fmt.Fprintf(out, "# %s %v\n", key, snapshot[key])
	}

	return nil
}
