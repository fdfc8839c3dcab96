// The mdlfile command converts Leadwerks model files to and from a text
// representation.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/lwexport/mdlfile"
	"github.com/lwexport/mdlfile/errors"
	"github.com/lwexport/mdlfile/internal/config"
	"github.com/lwexport/mdlfile/internal/logger"
	"github.com/lwexport/mdlfile/mdl"
	"github.com/lwexport/mdlfile/mdlx"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

const usage = `usage: mdlfile [FLAGS] INPUT [OUTPUT]

If INPUT is a binary model (.mdl), it is decoded and written to OUTPUT as text.
OUTPUT defaults to INPUT with ".xml" appended. With -text or -spew, a readable
dump is written instead, and OUTPUT defaults to stdout.

If INPUT is a text model (.xml), it is compiled and written to OUTPUT as a
binary model. OUTPUT defaults to INPUT without ".xml", with ".mdl" appended
when missing.

If OUTPUT is "-", then stdout is used. Warnings and errors are written to
stderr. Output files are replaced only when conversion succeeds.

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	cfg    *config.Config
	text   bool
	spew   bool
	stdout io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mdlfile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	text := fs.Bool("text", false, "Dump a binary model as readable text")
	spewOut := fs.Bool("spew", false, "Dump the decoded tree structure")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 1
	}

	cfg, err := config.Load(flags.Config)
	if err == nil {
		err = flags.Apply(cfg)
	}
	if err != nil {
		fmt.Fprintln(stderr, pkgerrors.Wrap(err, "configuration"))
		return 1
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(stderr, pkgerrors.Wrap(err, "initialize logger"))
		return 1
	}
	defer logger.Sync()

	opts := options{cfg: cfg, text: *text, spew: *spewOut, stdout: stdout}
	input := fs.Arg(0)
	output := fs.Arg(1)

	switch strings.ToLower(filepath.Ext(input)) {
	case ".mdl":
		err = dump(input, output, opts)
	case ".xml":
		err = compile(input, output, opts)
	default:
		err = pkgerrors.Errorf("unsupported input %q: expected .mdl or .xml", input)
	}
	if err != nil {
		logger.Error("conversion failed", zap.String("input", input), zap.Error(err))
		return 1
	}
	return 0
}

func logWarnings(input string, warn error) {
	for _, w := range errors.Flatten(warn) {
		logger.Warn("decode warning", zap.String("input", input), zap.Error(w))
	}
}

func countBlocks(root *mdlfile.Block) (n int) {
	mdlfile.Walk(root, func(*mdlfile.Block, int) bool {
		n++
		return true
	})
	return n
}

func dump(input, output string, opts options) error {
	root, warn, err := mdl.ReadFile(input, mdl.Decoder{
		StrictSizes:   opts.cfg.Codec.StrictSizes,
		AllowTrailing: opts.cfg.Codec.AllowTrailing,
	})
	logWarnings(input, warn)
	if err != nil {
		return pkgerrors.Wrap(err, "decode")
	}
	logger.Debug("decoded model",
		zap.String("input", input),
		zap.Int("blocks", countBlocks(root)),
	)

	var write func(w io.Writer) error
	switch {
	case opts.spew:
		write = func(w io.Writer) error {
			spew.Fdump(w, root)
			return nil
		}
	case opts.text:
		write = func(w io.Writer) error {
			bw := bufio.NewWriter(w)
			mdl.DumpTree(bw, root)
			return bw.Flush()
		}
	default:
		if output == "" {
			output = input + ".xml"
		}
		enc := mdlx.Encoder{
			Indent:      opts.cfg.Text.Indent,
			Diagnostics: opts.cfg.Text.Diagnostics,
		}
		write = func(w io.Writer) error {
			return enc.Encode(w, root)
		}
	}
	if output == "" {
		output = "-"
	}

	if err := publish(output, opts.stdout, write); err != nil {
		return pkgerrors.Wrapf(err, "write %s", output)
	}
	logger.Info("dumped model", zap.String("input", input), zap.String("output", output))
	return nil
}

// compileOutput returns the default output path of a text model.
func compileOutput(input string) string {
	output := input[:len(input)-len(filepath.Ext(input))]
	if !strings.EqualFold(filepath.Ext(output), ".mdl") {
		output += ".mdl"
	}
	return output
}

func compile(input, output string, opts options) error {
	f, err := os.Open(input)
	if err != nil {
		return pkgerrors.Wrap(err, "open input")
	}
	root, err := mdlx.Decoder{}.Decode(f)
	f.Close()
	if err != nil {
		return pkgerrors.Wrap(err, "parse")
	}

	if output == "" {
		output = compileOutput(input)
	}
	enc := mdl.Encoder{Version: opts.cfg.Codec.Version}
	if output == "-" {
		err = enc.Encode(opts.stdout, root)
	} else {
		err = mdl.WriteFile(output, enc, root)
	}
	if err != nil {
		return pkgerrors.Wrap(err, "encode")
	}

	version, _ := root.Version()
	if enc.Version != 0 {
		version = enc.Version
	}
	size, _ := mdl.EncodedSize(root, version)
	logger.Info("compiled model",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int32("version", version),
		zap.Int64("bytes", size),
	)
	return nil
}

// publish writes to stdout if path is "-". Otherwise, the file at path is
// replaced only if write succeeds.
func publish(path string, stdout io.Writer, write func(w io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	return mdl.CreateFile(path, write)
}
