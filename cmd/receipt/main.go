// Command receipt prints one hotel booking receipt.
//
// Usage:
//
//	receipt [-config path] [--] <printerName> <guestName> <roomType> <checkInDate> <checkOutDate> <totalAmount>
//
// Use -- before the arguments when the printer name starts with a hyphen.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hidenkeys/receipt/internal/bootstrap"
	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"github.com/hidenkeys/receipt/internal/infrastructure/config"
	"github.com/hidenkeys/receipt/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const argCount = 6

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("receipt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to config file (default: ./config.toml or /etc/receipt/config.toml)")
	fs.Usage = func() { printUsage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return 1
	}

	positional := fs.Args()
	if len(positional) != argCount {
		printUsage(fs, stderr)
		return 1
	}

	req, err := receipt.NewRequest(
		positional[0], positional[1], positional[2],
		positional[3], positional[4], positional[5],
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := bootstrap.NewLogger(cfg.Log, logger.CLIConfig())
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, log, err := bootstrap.StartTelemetry(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Error("Failed to initialize telemetry", zap.Error(err))
		return 1
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	app, err := bootstrap.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize print service", zap.Error(err))
		return 1
	}

	result, err := app.Service.PrintReceipt(ctx, req)
	if err != nil {
		log.Error("An error occurred", zap.String("code", receipt.CodeOf(err)), zap.Error(err))
		return 1
	}

	log.Info("Receipt printed",
		zap.String("job_id", result.JobID.String()),
		zap.String("printer", result.PrinterName),
	)
	return 0
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: receipt [-config path] [--] <printerName> <guestName> <roomType> <checkInDate> <checkOutDate> <totalAmount>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Put -- before the arguments if the printer name starts with '-'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}
