package cache

import (
	"os"
	"testing"
	"time"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New(t.TempDir(), 30*time.Second)

	if err := c.Put("fetch_youtube_transcript", "dQw4w9WgXcQ", "en", []byte(`{"success":true}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	content, ok := c.Get("fetch_youtube_transcript", "dQw4w9WgXcQ", "en")
	if !ok {
		t.Fatal("Get() cache miss, want hit")
	}
	if string(content) != `{"success":true}` {
		t.Fatalf("Get() content = %q", content)
	}

	path := c.entryPath("fetch_youtube_transcript", "dQw4w9WgXcQ", "en")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat cache file: %v", err)
	}
	if got := info.Mode().Perm(); got != 0600 {
		t.Fatalf("cache file mode = %o, want 600", got)
	}
}

func TestGetExpiredEntryRemovesFile(t *testing.T) {
	c := New(t.TempDir(), -1*time.Second)

	if err := c.Put("fetch_youtube_transcript", "dQw4w9WgXcQ", "en", []byte("stale")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	path := c.entryPath("fetch_youtube_transcript", "dQw4w9WgXcQ", "en")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected cache file before read, stat error: %v", err)
	}

	if _, ok := c.Get("fetch_youtube_transcript", "dQw4w9WgXcQ", "en"); ok {
		t.Fatal("Get() hit = true, want false for expired entry")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected expired cache file to be removed, stat error = %v", err)
	}
}

func TestGetCorruptEntryRemovesFile(t *testing.T) {
	c := New(t.TempDir(), time.Minute)

	if err := c.Put("get_video_metadata", "dQw4w9WgXcQ", "", []byte("x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	path := c.entryPath("get_video_metadata", "dQw4w9WgXcQ", "")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("corrupting entry: %v", err)
	}

	if _, ok := c.Get("get_video_metadata", "dQw4w9WgXcQ", ""); ok {
		t.Fatal("Get() hit = true for corrupt entry")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected corrupt cache file to be removed, stat error = %v", err)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	c := New(t.TempDir(), time.Minute)

	if err := c.Put("fetch_youtube_transcript", "dQw4w9WgXcQ", "en", []byte("english")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := c.Put("fetch_youtube_transcript", "dQw4w9WgXcQ", "de", []byte("german")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if content, ok := c.Get("fetch_youtube_transcript", "dQw4w9WgXcQ", "de"); !ok || string(content) != "german" {
		t.Fatalf("Get(de) = %q, %v", content, ok)
	}
	if _, ok := c.Get("check_transcript_availability", "dQw4w9WgXcQ", "en"); ok {
		t.Fatal("different tool must not share cache entries")
	}
}
