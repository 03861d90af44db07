package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lumen/internal/diagfmt"
	"lumen/internal/driver"
	"lumen/internal/irdump"
	"lumen/internal/project"
	"lumen/internal/trace"
	"lumen/internal/typeloader"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] [file.lumen.toml...]",
	Short: "Lower UI documents into the element tree",
	Long: `Parse every document, run the lowering passes and emit the resulting tree.
Without arguments the inputs listed in lumen.toml are used.`,
	RunE: runLower,
}

func init() {
	lowerCmd.Flags().String("emit", "tree", "what to emit (tree|msgpack|none)")
	lowerCmd.Flags().StringP("output", "o", "", "output file, or directory when lowering several documents")
	lowerCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	lowerCmd.Flags().Int("jobs", 0, "max parallel compilation units (0=auto)")
	lowerCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	lowerCmd.Flags().String("library", "", "directory replacing the bundled widget library")
	lowerCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	lowerCmd.Flags().Bool("fullpath", false, "emit absolute file paths in diagnostics")
}

type lowerFlags struct {
	emit     string
	output   string
	format   string
	jobs     int
	ui       autoSwitch
	library  string
	notes    bool
	fullpath bool
	color    bool
	quiet    bool
	timings  bool
	maxDiags int
}

func readLowerFlags(cmd *cobra.Command) (lowerFlags, error) {
	var (
		f   lowerFlags
		err error
	)
	if f.emit, err = cmd.Flags().GetString("emit"); err != nil {
		return f, fmt.Errorf("failed to get emit flag: %w", err)
	}
	switch f.emit {
	case "tree", "msgpack", "none":
	default:
		return f, fmt.Errorf("unknown --emit value %q (expected tree|msgpack|none)", f.emit)
	}
	if f.output, err = cmd.Flags().GetString("output"); err != nil {
		return f, fmt.Errorf("failed to get output flag: %w", err)
	}
	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json":
	default:
		return f, fmt.Errorf("unknown --format value %q (expected pretty|short|json)", f.format)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = parseSwitch("ui", uiValue); err != nil {
		return f, err
	}
	if f.library, err = cmd.Flags().GetString("library"); err != nil {
		return f, fmt.Errorf("failed to get library flag: %w", err)
	}
	if f.notes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.fullpath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	// прогресс и диагностика идут в stderr, stdout остаётся под дерево
	if f.color, err = colorFor(cmd, os.Stderr); err != nil {
		return f, err
	}
	root := cmd.Root().PersistentFlags()
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return f, nil
}

// applyManifest fills inputs and unset flags from lumen.toml.
func applyManifest(cmd *cobra.Command, f *lowerFlags, args []string) ([]string, error) {
	manifest, found, err := project.LoadManifest(".")
	if err != nil {
		return nil, err
	}
	if !found {
		if len(args) == 0 {
			return nil, errors.New("no input documents and no lumen.toml found\nplease pass documents explicitly, e.g.:\n  lumen lower ui/main.lumen.toml")
		}
		return args, nil
	}
	build := manifest.Config.Build
	if !cmd.Flags().Changed("jobs") && build.Jobs > 0 {
		f.jobs = build.Jobs
	}
	if !cmd.Root().PersistentFlags().Changed("max-diagnostics") && build.MaxDiagnostics > 0 {
		f.maxDiags = build.MaxDiagnostics
	}
	if !cmd.Flags().Changed("library") {
		if dir := manifest.LibraryDir(); dir != "" {
			f.library = dir
		}
	}
	if len(args) > 0 {
		return args, nil
	}
	return manifest.Inputs()
}

func runLower(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	defer dumpTraceOnPanic(trace.FromContext(ctx))

	flags, err := readLowerFlags(cmd)
	if err != nil {
		return err
	}
	inputs, err := applyManifest(cmd, &flags, args)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if !strings.HasSuffix(in, typeloader.DocumentExt) {
			return fmt.Errorf("%s: expected a %s document", in, typeloader.DocumentExt)
		}
	}
	if err := checkEmitTargets(inputs, flags); err != nil {
		return err
	}

	opts := driver.Options{
		MaxDiagnostics: flags.maxDiags,
		Jobs:           flags.jobs,
	}
	if flags.library != "" {
		info, statErr := os.Stat(flags.library)
		if statErr != nil || !info.IsDir() {
			return fmt.Errorf("--library %s: not a directory", flags.library)
		}
		opts.Library = os.DirFS(flags.library)
	}

	var results []*driver.Result
	if !flags.quiet && flags.ui.enabled(os.Stderr) {
		results, err = runCompileWithUI(ctx, "lower", inputs, opts)
	} else {
		results, err = driver.CompileAll(ctx, inputs, opts)
	}

	failed := 0
	for _, res := range results {
		if res == nil {
			continue
		}
		if printErr := printDiagnostics(cmd.ErrOrStderr(), res, flags); printErr != nil {
			return printErr
		}
		if res.HasErrors() || !res.Lowered {
			failed++
			continue
		}
		if emitErr := emitResult(cmd.OutOrStdout(), res, flags, len(inputs)); emitErr != nil {
			return emitErr
		}
	}
	if flags.timings {
		printUnitTimings(cmd.ErrOrStderr(), results)
	}
	if err != nil || failed > 0 {
		dumpTraceOnFailure(cmd.ErrOrStderr(), trace.FromContext(ctx))
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to lower", failed, len(inputs))
	}
	return nil
}

func printDiagnostics(w io.Writer, res *driver.Result, f lowerFlags) error {
	if res.Bag.Len() == 0 {
		return nil
	}
	pathMode := diagfmt.PathModeAuto
	if f.fullpath {
		pathMode = diagfmt.PathModeAbsolute
	}
	res.Bag.Sort()
	switch f.format {
	case "json":
		return diagfmt.JSON(w, res.Bag, res.Files, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     f.notes,
		})
	case "short":
		return diagfmt.Short(w, res.Bag, res.Files, diagfmt.ShortOpts{IncludeNotes: f.notes})
	default:
		return diagfmt.Pretty(w, res.Bag, res.Files, diagfmt.PrettyOpts{
			Color:     f.color,
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: f.notes,
		})
	}
}

func emitResult(stdout io.Writer, res *driver.Result, f lowerFlags, units int) (err error) {
	if f.emit == "none" {
		return nil
	}
	w, closeOut, err := openEmitOutput(stdout, res.Path, f, units)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeOut()) }()

	if f.emit == "msgpack" {
		snap, snapErr := irdump.TakeSnapshot(res.Doc)
		if snapErr != nil {
			return fmt.Errorf("%s: %w", res.Path, snapErr)
		}
		return irdump.EncodeSnapshot(w, snap)
	}
	if units > 1 && f.output == "" {
		fmt.Fprintf(w, "// %s\n", res.Path)
	}
	return irdump.Print(w, res.Doc)
}

// emitTarget is the file a unit is written to inside the -o directory.
func emitTarget(path string, f lowerFlags) string {
	ext := ".tree"
	if f.emit == "msgpack" {
		ext = ".msgpack"
	}
	base := strings.TrimSuffix(filepath.Base(path), typeloader.DocumentExt)
	return filepath.Join(f.output, base+ext)
}

// checkEmitTargets rejects inputs that would overwrite each other's output
// in the -o directory.
func checkEmitTargets(inputs []string, f lowerFlags) error {
	if f.output == "" || f.emit == "none" || len(inputs) < 2 {
		return nil
	}
	owner := make(map[string]string, len(inputs))
	for _, in := range inputs {
		target := emitTarget(in, f)
		if prev, ok := owner[target]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, in, target)
		}
		owner[target] = in
	}
	return nil
}

// openEmitOutput picks the destination of one unit: stdout, the -o file, or
// a file inside the -o directory when several units are lowered. The returned
// func closes the destination and reports a failed close.
func openEmitOutput(stdout io.Writer, path string, f lowerFlags, units int) (io.Writer, func() error, error) {
	if f.output == "" {
		if f.emit == "msgpack" && isTerminal(os.Stdout) {
			return nil, nil, errors.New("refusing to write msgpack to a terminal; use -o")
		}
		return stdout, func() error { return nil }, nil
	}
	target := f.output
	if units > 1 {
		if err := os.MkdirAll(f.output, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		target = emitTarget(path, f)
	}
	file, err := os.Create(target)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output: %w", err)
	}
	return file, func() error {
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		return nil
	}, nil
}
