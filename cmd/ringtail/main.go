package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Supportfactory/ringbuf/internal/dbg"
	"github.com/Supportfactory/ringbuf/pkg/feed"
	"github.com/Supportfactory/ringbuf/pkg/ringbuf"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	capacity int
	file     string
	ws       string
	messages int
	timeout  time.Duration
	hex      bool
	prod     bool
	verbose  bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("ringtail", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&opts.capacity, "capacity", DefaultCapacity, "number of trailing bytes to keep")
	fs.StringVar(&opts.file, "file", "", "read from a file instead of stdin")
	fs.StringVar(&opts.ws, "ws", "", "read message payloads from a websocket url instead of stdin")
	fs.IntVar(&opts.messages, "messages", 0, "stop after this many websocket messages (0 = until closed)")
	fs.DurationVar(&opts.timeout, "timeout", DefaultTimeout, "stop reading after this long (0 = no limit)")
	fs.BoolVar(&opts.hex, "hex", false, "print a hex dump instead of raw bytes")
	fs.BoolVar(&opts.prod, "prod", false, "json logs")
	fs.BoolVar(&opts.verbose, "v", false, "debug logs")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.capacity < 0 {
		return opts, fmt.Errorf("capacity must not be negative, got %d", opts.capacity)
	}
	if opts.file != "" && opts.ws != "" {
		return opts, errors.New("only one of -file and -ws may be set")
	}
	return opts, nil
}

func drain(ctx context.Context, opts options, logger *zap.Logger, stdin io.Reader, rb *ringbuf.RingBuffer) (int64, error) {
	switch {
	case opts.file != "":
		f := feed.NewFile(opts.file)
		f.ChunkSize = FeedChunkSize
		if err := f.Open(); err != nil {
			return 0, err
		}
		defer f.Close()

		// bytes before the tail would be overwritten anyway
		skipped := max(0, f.Size()-int64(rb.Capacity()))
		n, err := f.DrainTail(ctx, rb, int64(rb.Capacity()))
		return skipped + n, err

	case opts.ws != "":
		src, err := feed.DialWebSocket(ctx, opts.ws, logger.Named("ws"))
		if err != nil {
			return 0, err
		}
		defer func() {
			_ = src.Close()
		}()
		src.MaxMessages = opts.messages
		return src.Drain(ctx, rb)

	default:
		src := feed.NewReader(stdin)
		src.ChunkSize = FeedChunkSize
		return src.Drain(ctx, rb)
	}
}

func run(ctx context.Context, opts options, logger *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	rb := ringbuf.New(opts.capacity)

	seen, err := drain(ctx, opts, logger, stdin, rb)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		logger.Warn("reading interrupted", zap.Error(err))
	}

	kept := rb.ReadAvailable()
	logger.Info("tail captured",
		zap.Int64("seen", seen),
		zap.Int("kept", kept),
		zap.Int64("overwritten", seen-int64(kept)))

	if opts.hex {
		dumper := hex.Dumper(stdout)
		if _, err := rb.WriteTo(dumper); err != nil {
			return fmt.Errorf("unable to write output: %w", err)
		}
		return dumper.Close()
	}

	if _, err := rb.WriteTo(stdout); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := zapcore.InfoLevel
	if opts.verbose {
		level = zapcore.DebugLevel
	}
	logger, err := dbg.NewLogger(opts.prod, level)
	if err != nil {
		panic(err)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	logger.Debug("ringtail started", zap.String("version", Version), zap.Int("capacity", opts.capacity))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("ringtail failed", zap.Error(err))
		_ = logger.Sync()
		cancel()
		os.Exit(1)
	}
}
