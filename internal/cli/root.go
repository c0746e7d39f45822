// Package cli implements the yttranscript command line client: transcript,
// metadata, and availability fetches against a running endpoint, plus batch
// mode and endpoint health checks.
package cli

import (
	"context"
	"fmt"

	"yttranscript/internal/config"
	"yttranscript/internal/endpoint"
	"yttranscript/internal/transcript"
	"yttranscript/internal/youtube"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitToolErr  = 1
	ExitUsageErr = 2
	ExitInternal = 3
)

// client is the slice of youtube.Client the commands use, split out so tests
// can run against a fake.
type client interface {
	Connect(ctx context.Context) bool
	Disconnect()
	HealthCheck(ctx context.Context) bool
	FetchTranscript(ctx context.Context, videoURL, language string) (*transcript.Result, error)
	VideoMetadata(ctx context.Context, videoURL string) (*transcript.Metadata, error)
	CheckAvailability(ctx context.Context, videoURL string) (*transcript.Availability, error)
	BatchFetchTranscripts(ctx context.Context, videoURLs []string, language string, maxConcurrent int) []*transcript.Result
	AvailableTools() []string
}

// newClient builds the endpoint-backed client. Swapped out in tests.
var newClient = func(cfg endpoint.Config) client {
	return youtube.NewWithEndpoint(endpoint.New(cfg))
}

// Run is the main CLI entry point. Returns an exit code.
func Run(args []string) int {
	if handled, code := handleRootFlags(args); handled {
		return code
	}

	opts, rest, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitUsageErr
	}

	if len(rest) == 0 {
		printRootHelp(rootStderr)
		return ExitUsageErr
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitInternal
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: invalid config: %v\n", err)
		return ExitUsageErr
	}

	command, commandArgs := rest[0], rest[1:]
	switch command {
	case "fetch":
		return runFetch(cfg, commandArgs)
	case "metadata":
		return runMetadata(cfg, commandArgs)
	case "availability":
		return runAvailability(cfg, commandArgs)
	case "batch":
		return runBatch(cfg, commandArgs)
	case "health":
		return runHealth(cfg)
	case "tools":
		return runTools(cfg)
	default:
		fmt.Fprintf(rootStderr, "yttranscript: unknown command: %s\n", command)
		printRootHelp(rootStderr)
		return ExitUsageErr
	}
}

func loadConfig(opts globalOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.host != "" {
		cfg.Endpoint.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Endpoint.Port = opts.port
	}
	return cfg, nil
}

func endpointConfig(cfg *config.Config) endpoint.Config {
	return endpoint.Config{
		Name:       cfg.Endpoint.Name,
		Host:       cfg.Endpoint.Host,
		Port:       cfg.Endpoint.Port,
		Protocol:   cfg.Endpoint.Protocol,
		Timeout:    cfg.EndpointTimeout(),
		MaxRetries: cfg.Endpoint.MaxRetries,
	}
}

// connect builds a client and connects it. Callers must Disconnect.
func connect(ctx context.Context, cfg *config.Config) (client, int) {
	c := newClient(endpointConfig(cfg))
	if !c.Connect(ctx) {
		fmt.Fprintf(rootStderr, "yttranscript: could not connect to endpoint at %s:%d\n",
			cfg.Endpoint.Host, cfg.Endpoint.Port)
		return nil, ExitInternal
	}
	return c, ExitOK
}
