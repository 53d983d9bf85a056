package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/OliveiraNt/consumer-progress/cmd"
	"github.com/OliveiraNt/consumer-progress/internal/infrastructure/kafka"
	"github.com/OliveiraNt/consumer-progress/internal/utils"
	"github.com/joho/godotenv"
)

const appDir = "consumer-progress"

// findConfigPath returns the first existing config file, or "" when none exists.
func findConfigPath() string {
	names := []string{"config.yml", "config.yaml"}
	candidates := []string{}

	for _, n := range names {
		candidates = append(candidates, "./"+n)
	}

	home, _ := os.UserHomeDir()
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			for _, n := range names {
				candidates = append(candidates, filepath.Join(appdata, appDir, n))
			}
		}
		if pd := os.Getenv("PROGRAMDATA"); pd != "" {
			for _, n := range names {
				candidates = append(candidates, filepath.Join(pd, appDir, n))
			}
		}
	} else {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			for _, n := range names {
				candidates = append(candidates, filepath.Join(xdg, appDir, n))
			}
		}
		if home != "" {
			for _, n := range names {
				candidates = append(candidates, filepath.Join(home, ".config", appDir, n))
			}
		}
		for _, n := range names {
			candidates = append(candidates, filepath.Join("/etc", appDir, n))
		}
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func main() {
	_ = godotenv.Load()
	utils.InitLogger()

	configPath := os.Getenv("CONSUMER_PROGRESS_CONFIG")
	if configPath == "" {
		configPath = findConfigPath()
	}
	utils.Logger.Debug("config path resolved", "path", configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cmd.Run(ctx, os.Args[1:], os.Stdout, os.Stderr, cmd.Options{
		ConfigPath: configPath,
		Factory:    kafka.NewFactory(),
	})
	stop()
	os.Exit(code)
}
