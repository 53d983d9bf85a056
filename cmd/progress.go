// Package cmd implements the consumerProgress command: flag parsing, cluster
// repository setup and dispatch to the single-group, all-groups or HTTP mode.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/OliveiraNt/consumer-progress/internal/application"
	"github.com/OliveiraNt/consumer-progress/internal/config"
	"github.com/OliveiraNt/consumer-progress/internal/domain"
	"github.com/OliveiraNt/consumer-progress/internal/infrastructure/repository"
	"github.com/OliveiraNt/consumer-progress/internal/report"
	"github.com/OliveiraNt/consumer-progress/internal/utils"
)

// Name is the command name shown in usage output.
const Name = "consumerProgress"

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options wires the command to its cluster sources.
type Options struct {
	// ConfigPath is the cluster config file. Empty means no file.
	ConfigPath string
	Factory    domain.ClientFactory
}

type flags struct {
	group   string
	cluster string
	brokers string
	serve   string
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet(Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.group, "g", "", "consumer group to report on (all groups when empty)")
	fs.StringVar(&f.cluster, "c", "", "cluster name from the config file (first configured when empty)")
	fs.StringVar(&f.brokers, "n", "", "comma-separated broker addresses, bypasses the config file")
	fs.StringVar(&f.serve, "serve", "", "serve reports over HTTP on this address instead of printing")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	f.group = strings.TrimSpace(f.group)
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return f, errors.New("unexpected arguments")
	}
	return f, nil
}

// Run executes the command and returns the process exit code. Reports go to stdout.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, opts Options) int {
	f, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		return ExitUsage
	}

	repo, err := openRepository(f, opts)
	if err != nil {
		utils.Logger.Error("failed to open cluster repository", "err", err)
		return ExitError
	}
	defer repo.Close()

	clusterService := application.NewClusterService(repo)
	progressService := application.NewProgressService(clusterService)

	switch {
	case f.serve != "":
		err = serve(ctx, f.serve, clusterService, progressService, repo)
	case f.group != "":
		err = printGroupDetail(ctx, stdout, progressService, f.cluster, f.group)
	default:
		err = printAllGroups(ctx, stdout, progressService, f.cluster)
	}
	if err != nil {
		utils.Logger.Error("consumer progress failed", "err", err)
		return ExitError
	}
	return ExitOK
}

func openRepository(f flags, opts Options) (*repository.ClusterRepository, error) {
	if f.brokers != "" {
		cfg := config.AdHoc(f.brokers)
		if f.cluster != "" {
			cfg.Name = f.cluster
		}
		return repository.NewStaticRepository(opts.Factory, cfg)
	}

	repo := repository.NewClusterRepository(opts.ConfigPath, opts.Factory)
	if opts.ConfigPath == "" {
		return repo, nil
	}
	if err := repo.LoadFromFile(); err != nil {
		utils.Logger.Warn("failed to load config file", "path", opts.ConfigPath, "err", err)
	}
	return repo, nil
}

func printGroupDetail(ctx context.Context, w io.Writer, svc *application.ProgressService, cluster, group string) error {
	stats, err := svc.GroupDetail(ctx, cluster, group)
	if err != nil {
		return err
	}
	return report.RenderGroupDetail(w, stats)
}

func printAllGroups(ctx context.Context, w io.Writer, svc *application.ProgressService, cluster string) error {
	records, err := svc.AllGroups(ctx, cluster)
	if err != nil {
		return err
	}
	return report.RenderAllGroups(w, records)
}
