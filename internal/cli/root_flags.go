package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

var (
	rootStdout   io.Writer = os.Stdout
	rootStderr   io.Writer = os.Stderr
	buildVersion           = "dev"
)

func init() {
	buildVersion = resolveBuildVersion(buildVersion)
}

func handleRootFlags(args []string) (bool, int) {
	if len(args) != 1 {
		return false, 0
	}

	switch args[0] {
	case "--version", "-V":
		fmt.Fprintf(rootStdout, "yttranscript %s\n", buildVersion)
		return true, 0
	case "--help", "-h":
		printRootHelp(rootStdout)
		return true, 0
	default:
		return false, 0
	}
}

func resolveBuildVersion(defaultVersion string) string {
	if defaultVersion != "" && defaultVersion != "dev" {
		return defaultVersion
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return defaultVersion
	}
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return defaultVersion
	}
	return info.Main.Version
}

func printRootHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  yttranscript fetch <video> [--language CODE] [--text]")
	fmt.Fprintln(out, "  yttranscript metadata <video>")
	fmt.Fprintln(out, "  yttranscript availability <video>")
	fmt.Fprintln(out, "  yttranscript batch <video>... [--language CODE] [--concurrency N]")
	fmt.Fprintln(out, "  yttranscript health")
	fmt.Fprintln(out, "  yttranscript tools")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "A <video> is a YouTube URL or an 11-character video id.")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Global flags:")
	fmt.Fprintln(out, "  --config PATH    Config file (default: XDG config dir)")
	fmt.Fprintln(out, "  --host HOST      Endpoint host override")
	fmt.Fprintln(out, "  --port PORT      Endpoint port override")
	fmt.Fprintln(out, "  --help, -h       Show help")
	fmt.Fprintln(out, "  --version, -V    Show version")
}
