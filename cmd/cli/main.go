package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/hamed0406/urlchecker/internal/batch"
	"github.com/hamed0406/urlchecker/internal/domain"
	"github.com/hamed0406/urlchecker/internal/logging"
	"github.com/hamed0406/urlchecker/internal/output"
	"github.com/hamed0406/urlchecker/internal/probe"
)

var Version = "dev"

// errProbeFailures maps to exit status 2.
var errProbeFailures = errors.New("one or more URLs failed")

type CLI struct {
	Check   CheckCmd   `cmd:"" default:"withargs" help:"Probe URLs from this machine (default)."`
	Remote  RemoteCmd  `cmd:"" help:"Send URLs to a running urlchecker API."`
	Version VersionCmd `cmd:"" help:"Print version."`
}

type CheckCmd struct {
	URLs           []string      `arg:"" name:"url" optional:"" help:"URLs to probe. Bare hostnames get https://."`
	File           string        `short:"f" type:"path" help:"YAML list or one-URL-per-line file to read URLs from."`
	Output         string        `short:"o" enum:"pretty,json,yaml,csv" default:"pretty" help:"Output format."`
	MaxConcurrency int           `default:"0" help:"Max probes in flight (0 = all at once)."`
	DNSServer      string        `name:"dns-server" help:"Resolve through this DNS server instead of the system resolver."`
	HTTPTimeout    time.Duration `name:"http-timeout" default:"10s" help:"HTTP probe timeout."`
	TLSTimeout     time.Duration `name:"tls-timeout" default:"5s" help:"TLS handshake timeout."`
	Verbose        bool          `help:"Enable verbose logging."`
	Debug          bool          `help:"Enable debug logging."`
}

type RemoteCmd struct {
	URLs    []string      `arg:"" name:"url" optional:"" help:"URLs to probe. Bare hostnames get https://."`
	File    string        `short:"f" type:"path" help:"YAML list or one-URL-per-line file to read URLs from."`
	API     string        `default:"http://127.0.0.1:8080" env:"URLCHECK_API" help:"Base URL of the urlchecker API."`
	Output  string        `short:"o" enum:"pretty,json,yaml,csv" default:"pretty" help:"Output format."`
	Timeout time.Duration `default:"60s" help:"Overall request timeout."`
}

type VersionCmd struct{}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("urlcheck"),
		kong.Description("Probe URLs for status, latency, TLS, redirects and IP."),
	)
	err := ctx.Run()
	if errors.Is(err, errProbeFailures) {
		os.Exit(2)
	}
	ctx.FatalIfErrorf(err)
}

func (c *VersionCmd) Run() error {
	fmt.Println(Version)
	return nil
}

func (c *CheckCmd) Run() error {
	logger := logging.NewCLILogger(c.Verbose, c.Debug)
	defer func() { _ = logger.Sync() }()

	urls, err := collectURLs(c.URLs, c.File)
	if err != nil {
		return err
	}

	prober := probe.New(probe.Options{
		HTTPTimeout: c.HTTPTimeout,
		TLSTimeout:  c.TLSTimeout,
		DNSServer:   c.DNSServer,
		Logger:      logger,
	})
	coord := batch.NewCoordinator(logger, prober, c.MaxConcurrency, nil)

	rep, err := coord.Run(context.Background(), urls)
	if err != nil {
		return err
	}
	logger.Info("check_done", zap.String("batch_id", rep.ID), zap.Duration("elapsed", rep.Elapsed))
	return emit(os.Stdout, c.Output, rep.Results)
}

func (c *RemoteCmd) Run() error {
	urls, err := collectURLs(c.URLs, c.File)
	if err != nil {
		return err
	}
	results, err := postBatch(c.API, urls, c.Timeout)
	if err != nil {
		return err
	}
	return emit(os.Stdout, c.Output, results)
}

func collectURLs(args []string, file string) ([]string, error) {
	urls := append([]string(nil), args...)
	if file != "" {
		fromFile, err := readURLFile(file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return nil, errors.New("no URLs given; pass them as arguments or with --file")
	}
	urls = withScheme(urls)
	if err := (domain.ProbeRequest{URLs: urls}).Validate(0); err != nil {
		return nil, err
	}
	return urls, nil
}

func postBatch(api string, urls []string, timeout time.Duration) ([]domain.ProbeResult, error) {
	body, err := json.Marshal(domain.ProbeRequest{URLs: urls})
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(strings.TrimRight(api, "/")+"/check-urls", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("contact API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, e.Error)
	}
	var results []domain.ProbeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode API response: %w", err)
	}
	return results, nil
}

// emit renders results and returns errProbeFailures if any probe failed.
func emit(w io.Writer, format string, results []domain.ProbeResult) error {
	var (
		rendered string
		err      error
	)
	switch format {
	case "json":
		rendered, err = output.RenderJSON(results)
	case "yaml":
		rendered, err = output.RenderYAML(results)
	case "csv":
		err = output.WriteCSV(w, results)
	default:
		rendered = output.RenderPretty(results)
	}
	if err != nil {
		return err
	}
	if rendered != "" {
		fmt.Fprintln(w, strings.TrimRight(rendered, "\n"))
	}

	for _, r := range results {
		if r.Failed() {
			return errProbeFailures
		}
	}
	return nil
}
