package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/perflens/perflens/internal/api"
	"github.com/perflens/perflens/internal/config"
	"github.com/perflens/perflens/internal/dashboard"
	"github.com/perflens/perflens/internal/loadrun"
	"github.com/perflens/perflens/internal/probe"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigDir string
	Listen    string
	Version   bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("perflens", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory containing perflens.yml")
	fs.StringVar(&flags.Listen, "listen", "", "listen address (overrides config file)")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.Listen != "" {
		cfg.ListenAddr = flags.Listen
	}

	prober := probe.NewProber(probe.WithTimeout(cfg.ProbeTimeout()))
	resolver := dashboard.NewResolver(cfg.ExpositionLanguages)
	orch := loadrun.NewOrchestrator(&loadrun.ExecRunner{Command: cfg.LoadWorkerCommand}, loadrun.NewBus())

	srv := api.NewServer(prober, resolver, orch)
	srv.Start(cfg.ListenAddr)
	log.Printf("perflens %s listening on %s", version, cfg.ListenAddr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
