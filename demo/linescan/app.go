// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package linescan defines the logic for the "linescan" demo app.
//
// This app reads its input through a seekable stream and writes it back out
// one line at a time, optionally numbering lines and skipping blank ones.
//
// This demonstrates how to fill a stream from a Reader, look ahead for a
// delimiter, consume complete records, and reclaim consumed space.
package linescan

import (
	"bufio"
	"io"
	"os"

	"github.com/danjacques/goseekstream/seekstream"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	input     string
	snappy    bool
	skipBlank bool
	number    bool
	metrics   bool
	verbose   bool
	stream    seekstream.Config
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.input, "input", "i", "-",
		"Path of the input file. \"-\" reads from STDIN.")
	fs.BoolVar(&o.snappy, "snappy", false,
		"Input is compressed using the Snappy framing format.")
	fs.BoolVar(&o.skipBlank, "skip-blank", false,
		"Drop blank lines.")
	fs.BoolVarP(&o.number, "number", "n", false,
		"Prefix each line with its line number.")
	fs.BoolVar(&o.metrics, "metrics", false,
		"Log stream metrics on exit.")
	fs.BoolVarP(&o.verbose, "verbose", "v", false,
		"Enable debug logging.")
	o.stream.AddFlags(fs)
}

// Main is the main entry point.
func Main() {
	os.Exit(mainImpl(os.Args, os.Stdout))
}

// mainImpl runs the application with args, returning its exit code. The
// logger is synced before it returns.
func mainImpl(args []string, out io.Writer) int {
	opts := options{
		stream: seekstream.DefaultConfig(),
	}
	opts.stream.Name = "linescan"

	fs := pflag.NewFlagSet(args[0], pflag.ExitOnError)
	opts.addFlags(fs)
	_ = fs.Parse(args[1:])

	logger, err := newLogger(opts.verbose)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(&opts, logger, out); err != nil {
		logger.Errorf("Failed to scan lines: %s", err)
		return 1
	}
	return 0
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return l.Sugar(), nil
}

func run(opts *options, logger *zap.SugaredLogger, out io.Writer) error {
	reg := prometheus.NewRegistry()
	seekstream.RegisterMonitoring(reg)

	opts.stream.Logger = logger
	s, err := seekstream.New(opts.stream)
	if err != nil {
		return errors.Wrap(err, "creating stream")
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warnf("Failed to close stream: %s", err)
		}
	}()

	var in io.Reader = os.Stdin
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return errors.Wrapf(err, "opening input %q", opts.input)
		}
		defer f.Close()
		in = f
	}
	if opts.snappy {
		in = snappy.NewReader(in)
	}

	bw := bufio.NewWriter(out)
	sp := Splitter{
		Stream:    s,
		SkipBlank: opts.skipBlank,
		Number:    opts.number,
		Logger:    logger,
	}
	if err := sp.Run(in, bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing output")
	}

	logger.Debugf("Emitted %d line(s), skipped %d blank, split %d.", sp.Lines, sp.Blank, sp.Split)
	if opts.metrics {
		return logMetrics(reg, logger)
	}
	return nil
}

func logMetrics(g prometheus.Gatherer, logger *zap.SugaredLogger) error {
	mfs, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}

	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			default:
				continue
			}

			labels := make([]interface{}, 0, 2*len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName(), lp.GetValue())
			}
			logger.With(labels...).Infof("%s = %v", mf.GetName(), v)
		}
	}
	return nil
}
