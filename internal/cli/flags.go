package cli

import (
	"fmt"
	"strconv"
	"strings"
)

type globalOptions struct {
	configPath string
	host       string
	port       int
}

// parseGlobalFlags pulls the global flags off the front of the argument list
// and returns whatever follows (command plus its arguments) untouched.
func parseGlobalFlags(args []string) (globalOptions, []string, error) {
	opts := globalOptions{}

	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "--config":
			value, next, err := flagValue(args, i)
			if err != nil {
				return opts, nil, err
			}
			opts.configPath = value
			i = next
		case "--host":
			value, next, err := flagValue(args, i)
			if err != nil {
				return opts, nil, err
			}
			opts.host = value
			i = next
		case "--port":
			value, next, err := flagValue(args, i)
			if err != nil {
				return opts, nil, err
			}
			port, err := strconv.Atoi(value)
			if err != nil || port < 1 || port > 65535 {
				return opts, nil, fmt.Errorf("invalid port: %s", value)
			}
			opts.port = port
			i = next
		default:
			return opts, nil, fmt.Errorf("unknown global flag: %s", arg)
		}
	}

	return opts, args[i:], nil
}

type fetchOptions struct {
	language string
	text     bool
}

func parseFetchFlags(args []string) (fetchOptions, []string, error) {
	opts := fetchOptions{language: "en"}
	var positional []string

	i := 0
	for i < len(args) {
		arg := args[i]
		switch arg {
		case "--language", "-l":
			value, next, err := flagValue(args, i)
			if err != nil {
				return opts, nil, err
			}
			opts.language = value
			i = next
		case "--text":
			opts.text = true
			i++
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, nil, fmt.Errorf("unknown flag: %s", arg)
			}
			positional = append(positional, arg)
			i++
		}
	}

	return opts, positional, nil
}

type batchOptions struct {
	language    string
	concurrency int
}

func parseBatchFlags(args []string) (batchOptions, []string, error) {
	opts := batchOptions{language: "en", concurrency: 3}
	var positional []string

	i := 0
	for i < len(args) {
		arg := args[i]
		switch arg {
		case "--language", "-l":
			value, next, err := flagValue(args, i)
			if err != nil {
				return opts, nil, err
			}
			opts.language = value
			i = next
		case "--concurrency", "-c":
			value, next, err := flagValue(args, i)
			if err != nil {
				return opts, nil, err
			}
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return opts, nil, fmt.Errorf("invalid concurrency: %s", value)
			}
			opts.concurrency = n
			i = next
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, nil, fmt.Errorf("unknown flag: %s", arg)
			}
			positional = append(positional, arg)
			i++
		}
	}

	return opts, positional, nil
}

// flagValue returns the value of the flag at index i and the index of the
// next argument to consume.
func flagValue(args []string, i int) (string, int, error) {
	if i+1 >= len(args) {
		return "", 0, fmt.Errorf("missing value for %s", args[i])
	}
	return args[i+1], i + 2, nil
}

// singleVideoArg validates that exactly one positional argument was given.
func singleVideoArg(command string, positional []string) (string, error) {
	switch len(positional) {
	case 0:
		return "", fmt.Errorf("%s: missing video URL or id", command)
	case 1:
		return positional[0], nil
	default:
		return "", fmt.Errorf("%s: expected one video, got %d", command, len(positional))
	}
}
