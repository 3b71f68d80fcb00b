package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xaitan80/reqhead/internal/config"
	"github.com/xaitan80/reqhead/internal/logging"
	"github.com/xaitan80/reqhead/internal/request"
	"github.com/xaitan80/reqhead/internal/server"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf, logger, os.Stdout); err != nil {
		logger.Error("listener stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, writing each parsed request to out.
func run(ctx context.Context, conf config.Config, logger *zap.Logger, out io.Writer) error {
	// Requests from concurrent connections must not interleave on stdout.
	var outMu sync.Mutex
	handler := func(r *request.Request) {
		outMu.Lock()
		defer outMu.Unlock()
		if err := r.Describe(out); err != nil {
			logger.Warn("write request description", zap.Error(err))
		}
	}

	srv := server.New(logger, server.Options{
		Reader: request.ReaderOptions{
			ReadSize:          conf.ReadSize(),
			InitialBufferSize: conf.InitialBufferSize(),
			MaxHeaderBytes:    conf.MaxHeaderBytes(),
		},
		ReadTimeout: conf.ReadTimeout(),
	}, handler)

	ln, err := server.Listen(conf.Port())
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", conf.Port(), err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(ln)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return srv.Close()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
