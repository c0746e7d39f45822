package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"yttranscript/internal/config"
)

func runFetch(cfg *config.Config, args []string) int {
	opts, positional, err := parseFetchFlags(args)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitUsageErr
	}
	video, err := singleVideoArg("fetch", positional)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitUsageErr
	}

	ctx := context.Background()
	c, code := connect(ctx, cfg)
	if code != ExitOK {
		return code
	}
	defer c.Disconnect()

	res, err := c.FetchTranscript(ctx, video, opts.language)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitToolErr
	}

	if opts.text {
		fmt.Fprintln(rootStdout, res.FullText)
		if res.FallbackContent {
			fmt.Fprintf(rootStderr, "yttranscript: warning: %s\n", res.Note)
		}
		return ExitOK
	}
	return printJSON(res)
}

func runMetadata(cfg *config.Config, args []string) int {
	video, err := singleVideoArg("metadata", args)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitUsageErr
	}

	ctx := context.Background()
	c, code := connect(ctx, cfg)
	if code != ExitOK {
		return code
	}
	defer c.Disconnect()

	meta, err := c.VideoMetadata(ctx, video)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitToolErr
	}
	return printJSON(meta)
}

func runAvailability(cfg *config.Config, args []string) int {
	video, err := singleVideoArg("availability", args)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitUsageErr
	}

	ctx := context.Background()
	c, code := connect(ctx, cfg)
	if code != ExitOK {
		return code
	}
	defer c.Disconnect()

	avail, err := c.CheckAvailability(ctx, video)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitToolErr
	}
	return printJSON(avail)
}

func runBatch(cfg *config.Config, args []string) int {
	opts, videos, err := parseBatchFlags(args)
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: %v\n", err)
		return ExitUsageErr
	}
	if len(videos) == 0 {
		fmt.Fprintln(rootStderr, "yttranscript: batch: missing video URLs or ids")
		return ExitUsageErr
	}

	ctx := context.Background()
	c, code := connect(ctx, cfg)
	if code != ExitOK {
		return code
	}
	defer c.Disconnect()

	results := c.BatchFetchTranscripts(ctx, videos, opts.language, opts.concurrency)

	failed := 0
	for _, res := range results {
		if !res.Success {
			failed++
		}
	}
	if code := printJSON(results); code != ExitOK {
		return code
	}
	if failed > 0 {
		fmt.Fprintf(rootStderr, "yttranscript: %d of %d fetches failed\n", failed, len(results))
		return ExitToolErr
	}
	return ExitOK
}

func runHealth(cfg *config.Config) int {
	ctx := context.Background()
	c, code := connect(ctx, cfg)
	if code != ExitOK {
		return code
	}
	defer c.Disconnect()

	if !c.HealthCheck(ctx) {
		fmt.Fprintln(rootStderr, "yttranscript: endpoint is unhealthy")
		return ExitToolErr
	}
	fmt.Fprintln(rootStdout, "ok")
	return ExitOK
}

func runTools(cfg *config.Config) int {
	ctx := context.Background()
	c, code := connect(ctx, cfg)
	if code != ExitOK {
		return code
	}
	defer c.Disconnect()

	for _, tool := range c.AvailableTools() {
		fmt.Fprintln(rootStdout, tool)
	}
	return ExitOK
}

func printJSON(v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(rootStderr, "yttranscript: encoding output: %v\n", err)
		return ExitInternal
	}
	fmt.Fprintln(rootStdout, string(data))
	return ExitOK
}
