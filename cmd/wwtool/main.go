// Command wwtool runs Wireworld snapshots without a window.
//
//	wwtool step   -snapshot in.bin -n 50 -out out.bin
//	wwtool show   -snapshot in.bin -n 20
//	wwtool recent -catalog snapshots.sqlite
//	wwtool serve  -snapshot in.bin -observe 127.0.0.1:8080
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	logger := log.New(os.Stdout, "[wwtool] ", log.LstdFlags|log.Lmicroseconds)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1], os.Args[2:], os.Stdout, logger)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if errors.Is(err, errUsage) {
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wwtool <step|show|recent|serve> [flags]")
}
