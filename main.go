package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/xaitan80/reqhead/internal/chunkreader"
	"github.com/xaitan80/reqhead/internal/config"
	"github.com/xaitan80/reqhead/internal/logging"
	"github.com/xaitan80/reqhead/internal/request"
)

func main() {
	conf, err := config.MustLoad()
	if err != nil {
		log.Fatalf("Failed to load configuration: %s", err)
	}

	logger, err := logging.New(conf.LogLevel(), conf.LogDevelopment())
	if err != nil {
		log.Fatalf("Failed to create logger: %s", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, conf, logger); err != nil {
		logger.Error("failed to parse request", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run parses a single request head from the file named by args[0], or from
// stdin when no file is given, and writes its description to out.
func run(args []string, stdin io.Reader, out io.Writer, conf config.Config, logger *zap.Logger) error {
	src := stdin
	name := "stdin"
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		src = f
		name = args[0]
	}

	chunked, err := chunkreader.New(src, conf.ReadSize())
	if err != nil {
		return err
	}

	rd := request.NewReader(chunked, request.ReaderOptions{
		ReadSize:          conf.ReadSize(),
		InitialBufferSize: conf.InitialBufferSize(),
		MaxHeaderBytes:    conf.MaxHeaderBytes(),
	})
	r, err := rd.ReadRequest()
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	logger.Debug("parsed request",
		zap.String("input", name),
		zap.Int("consumed", r.Consumed()),
		zap.Int("buffered", len(rd.Buffered())),
	)
	return r.Describe(out)
}
