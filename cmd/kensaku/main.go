// Package main is the Kensaku CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/cli"
	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/engine"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/server"
	"github.com/hyperjump/kensaku/internal/watcher"
	"github.com/hyperjump/kensaku/pkg/metrics"
	"github.com/hyperjump/kensaku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kensaku/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "kensaku server" from the project dir uses the
// project's config (including debug).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "index":
		runIndex()
	case "clear":
		runClear()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kensaku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	m := metrics.New()
	eng, err := engine.New(cfg, engine.WithLogger(logger), engine.WithMetrics(m))
	if err != nil {
		logger.Fatal("Failed to initialize engine", zap.Error(err))
	}
	defer eng.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Documents.Watch {
		match := func(path string) bool {
			_, ok := eng.TypeForPath(path)
			return ok
		}
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		w := watcher.New(cfg.Documents.Dir, match, func(path string) {
			if _, err := eng.IndexFile(context.Background(), path); err != nil {
				logger.Warn("watch index file failed", zap.String("path", path), zap.Error(err))
			}
		}, watchOpts...)
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	srv := server.NewServer(eng, &cfg.Server, logger, m)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "kensaku search fox
// -limit 5" would otherwise leave -limit unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (empty = open the index directly)`)
	fileType := fs.String("filetype", "all", "collection to search: txt, csv, excel, json, pdf, web, or all")
	limit := fs.Int("limit", 0, "maximum number of results (0 = server default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Println(`Usage: kensaku search [flags] <query>

Query syntax:
  kensaku search quick fox          # documents containing both words
  kensaku search "doc*"             # wildcard over indexed terms
  kensaku search "aple~"            # fuzzy (typo-tolerant) match
  kensaku search "cats AND dogs"    # both operands must match
  kensaku search "cats OR dogs"     # either operand matches`)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	req := &models.SearchRequest{
		Query:    queryStr,
		FileType: models.FileType(*fileType),
		Limit:    *limit,
	}

	var response *models.SearchResponse
	if *serverURL != "" {
		// HTTP API when the server is running; avoids a SQLite lock
		// conflict with the server process.
		resp, err := searchViaHTTP(*serverURL, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		response = resp
	} else {
		eng, cleanup := openEngine(*configPath)
		defer cleanup()
		resp, err := eng.Search(context.Background(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		response = resp
	}

	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req *models.SearchRequest) (*models.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	if req.FileType != "" {
		params.Set("filetype", string(req.FileType))
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}

	resp, err := http.Get(serverURL + "/api/v1/search?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (empty = open the index directly)`)
	_ = fs.Parse(os.Args[2:])

	var report engine.IndexReport
	if *serverURL != "" {
		resp, err := http.Post(*serverURL+"/api/v1/index", "application/json", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Index failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Index failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		eng, cleanup := openEngine(*configPath)
		defer cleanup()
		r, err := eng.IndexAll(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Index failed: %v\n", err)
			os.Exit(1)
		}
		report = *r
	}

	fmt.Printf("Run %s: %s\n", report.RunID, report.Status)
	fmt.Printf("Indexed %d unit(s), %d failure(s) in %dms\n", report.Indexed, report.Failed, report.DurationMS)
	for name, tally := range report.Collections {
		if tally.Indexed == 0 && tally.Failed == 0 {
			continue
		}
		fmt.Printf("  %-6s indexed=%d failed=%d\n", name, tally.Indexed, tally.Failed)
	}
}

func runClear() {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (empty = open the index directly)`)
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kensaku clear [flags] <collection|all>")
		os.Exit(1)
	}
	name := fs.Arg(0)
	ft := models.FileType(name)
	if ft != models.FileTypeAll && !ft.Valid() {
		fmt.Printf("Unknown collection %q; use txt, csv, excel, json, pdf, web, or all\n", name)
		os.Exit(1)
	}

	if *serverURL != "" {
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/collections/"+name, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Clear failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
	} else {
		eng, cleanup := openEngine(*configPath)
		defer cleanup()
		if err := eng.Clear(context.Background(), ft); err != nil {
			fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Cleared: %s\n", name)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", "http://localhost:8080", `server URL (empty = open the index directly)`)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status engine.Status
	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/api/v1/status")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Status failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		eng, cleanup := openEngine(*configPath)
		defer cleanup()
		st, err := eng.Status(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *st
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		for _, ft := range models.AllFileTypes {
			c := status.Collections[string(ft)]
			fmt.Printf("%-6s documents=%d terms=%d\n", ft, c.Documents, c.Terms)
		}
		fmt.Printf("\ntotal_documents:  %d\n", status.TotalDocuments)
		fmt.Printf("disk_usage_bytes: %d\n", status.DiskUsageBytes)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// openEngine loads config and opens the engine for direct (serverless) mode.
func openEngine(configPath string) (*engine.Engine, func()) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	eng, err := engine.New(cfg, engine.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize engine: %v\n", err)
		os.Exit(1)
	}
	return eng, func() {
		_ = eng.Close()
		_ = logger.Sync()
	}
}

func printUsage() {
	fmt.Println(`kensaku - Multi-format local document search

Usage:
  kensaku server [flags]            Start the HTTP server
  kensaku search [flags] <query>    Search indexed documents
  kensaku index [flags]             Index the documents directory
  kensaku clear [flags] <name|all>  Clear one collection, or all of them
  kensaku status [flags]            Show per-collection counts and disk usage
  kensaku version                   Show version
  kensaku help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kensaku/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to open the index directly.
  --filetype string  Collection to search: txt, csv, excel, json, pdf, web, or all (default: all)
  --limit int        Maximum number of results
  --output string    Output format: text or json (default: text)

Examples:
  kensaku server
  kensaku search quick brown fox
  kensaku search --filetype csv alice
  kensaku search --output json "doc*"
  kensaku index
  kensaku clear txt
  kensaku status --output json`)
}
