package cli

import (
	"reflect"
	"testing"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOpts globalOptions
		wantRest []string
		wantErr  bool
	}{
		{
			name:     "no flags",
			args:     []string{"fetch", "dQw4w9WgXcQ"},
			wantOpts: globalOptions{},
			wantRest: []string{"fetch", "dQw4w9WgXcQ"},
		},
		{
			name:     "host and port",
			args:     []string{"--host", "example.org", "--port", "9000", "health"},
			wantOpts: globalOptions{host: "example.org", port: 9000},
			wantRest: []string{"health"},
		},
		{
			name:     "config path",
			args:     []string{"--config", "/tmp/yt.toml", "tools"},
			wantOpts: globalOptions{configPath: "/tmp/yt.toml"},
			wantRest: []string{"tools"},
		},
		{
			name:    "missing value",
			args:    []string{"--host"},
			wantErr: true,
		},
		{
			name:    "bad port",
			args:    []string{"--port", "not-a-port", "health"},
			wantErr: true,
		},
		{
			name:    "port out of range",
			args:    []string{"--port", "70000", "health"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"--verbose", "health"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, rest, err := parseGlobalFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseGlobalFlags() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseGlobalFlags() error = %v", err)
			}
			if opts != tt.wantOpts {
				t.Errorf("opts = %+v, want %+v", opts, tt.wantOpts)
			}
			if !reflect.DeepEqual(rest, tt.wantRest) {
				t.Errorf("rest = %v, want %v", rest, tt.wantRest)
			}
		})
	}
}

func TestParseFetchFlags(t *testing.T) {
	opts, positional, err := parseFetchFlags([]string{"--language", "de", "dQw4w9WgXcQ", "--text"})
	if err != nil {
		t.Fatalf("parseFetchFlags() error = %v", err)
	}
	if opts.language != "de" || !opts.text {
		t.Errorf("opts = %+v", opts)
	}
	if len(positional) != 1 || positional[0] != "dQw4w9WgXcQ" {
		t.Errorf("positional = %v", positional)
	}
}

func TestParseFetchFlagsDefaults(t *testing.T) {
	opts, _, err := parseFetchFlags([]string{"dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("parseFetchFlags() error = %v", err)
	}
	if opts.language != "en" || opts.text {
		t.Errorf("opts = %+v, want language=en text=false", opts)
	}
}

func TestParseBatchFlags(t *testing.T) {
	opts, positional, err := parseBatchFlags([]string{"-c", "5", "aaaaaaaaaaa", "bbbbbbbbbbb"})
	if err != nil {
		t.Fatalf("parseBatchFlags() error = %v", err)
	}
	if opts.concurrency != 5 || opts.language != "en" {
		t.Errorf("opts = %+v", opts)
	}
	if len(positional) != 2 {
		t.Errorf("positional = %v", positional)
	}

	if _, _, err := parseBatchFlags([]string{"--concurrency", "0"}); err == nil {
		t.Error("parseBatchFlags(concurrency=0) error = nil, want error")
	}
}

func TestSingleVideoArg(t *testing.T) {
	if _, err := singleVideoArg("fetch", nil); err == nil {
		t.Error("singleVideoArg(none) error = nil, want error")
	}
	if _, err := singleVideoArg("fetch", []string{"a", "b"}); err == nil {
		t.Error("singleVideoArg(two) error = nil, want error")
	}
	video, err := singleVideoArg("fetch", []string{"dQw4w9WgXcQ"})
	if err != nil || video != "dQw4w9WgXcQ" {
		t.Errorf("singleVideoArg() = %q, %v", video, err)
	}
}
