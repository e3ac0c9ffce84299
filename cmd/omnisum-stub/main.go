// Command omnisum-stub serves canned answers on every backend route, for
// demos and end-to-end tests without the real models.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/omnisum/internal/endpoint"
	"github.com/agbru/omnisum/internal/logging"
	"github.com/agbru/omnisum/internal/stub"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "omnisum-stub:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("omnisum-stub", flag.ContinueOnError)
	addr := fs.String("addr", "127.0.0.1:5000", "Listen address.")
	endpointsFile := fs.String("endpoints", "", "YAML file declaring the inference endpoints.")
	delay := fs.Duration("delay", 0, "Latency added to every inference endpoint.")
	fail := fs.String("fail", "", "Comma-separated endpoint keys answering HTTP 500.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := logging.NewDefaultLogger()
	reg := endpoint.DefaultRegistry()
	if *endpointsFile != "" {
		var err error
		if reg, err = endpoint.LoadFile(*endpointsFile); err != nil {
			return err
		}
	}

	backend := stub.New(reg)
	for _, ep := range reg.All() {
		if *delay > 0 {
			backend.Set(ep.Path, stub.Behavior{Delay: *delay})
		}
	}
	if *fail != "" {
		eps, err := reg.Select(*fail)
		if err != nil {
			return err
		}
		for _, ep := range eps {
			backend.Set(ep.Path, stub.Behavior{Delay: *delay, Status: http.StatusInternalServerError})
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("stub backend listening",
		logging.String("addr", *addr),
		logging.Int("endpoints", reg.Len()),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
