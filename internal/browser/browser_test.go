package browser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		mode      string
		wantType  string
		wantError bool
	}{
		{mode: "chrome", wantType: "chrome"},
		{mode: "", wantType: "chrome"},
		{mode: "STATIC", wantType: "static"},
		{mode: "firefox", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			r, err := New(Options{Mode: tt.mode})
			if tt.wantError {
				if err == nil {
					t.Error("New() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}

			switch r.(type) {
			case *Chrome:
				if tt.wantType != "chrome" {
					t.Errorf("New(%q) returned *Chrome, want %s", tt.mode, tt.wantType)
				}
			case *Static:
				if tt.wantType != "static" {
					t.Errorf("New(%q) returned *Static, want %s", tt.mode, tt.wantType)
				}
			default:
				t.Errorf("New(%q) returned unexpected type %T", tt.mode, r)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Headless {
		t.Error("DefaultOptions().Headless should be false")
	}
	if !opts.NoSandbox || !opts.DisableDevShmUsage {
		t.Error("DefaultOptions() should disable sandbox and dev-shm usage")
	}
	if opts.Mode != ModeChrome {
		t.Errorf("DefaultOptions().Mode = %q, want %q", opts.Mode, ModeChrome)
	}
}

func TestStatic_Render(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantError   bool
		wantErrIs   error
	}{
		{
			name:        "ready marker present",
			htmlContent: `<html><body><span class="paragraph event-title">Spring Major</span></body></html>`,
			statusCode:  http.StatusOK,
		},
		{
			name:        "ready marker missing",
			htmlContent: `<html><body><div id="app"></div></body></html>`,
			statusCode:  http.StatusOK,
			wantError:   true,
			wantErrIs:   ErrNotReady,
		},
		{
			name:       "HTTP error",
			statusCode: http.StatusNotFound,
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// Verify User-Agent is set
				if userAgent := r.Header.Get("User-Agent"); !strings.Contains(userAgent, "event-csv") {
					t.Errorf("User-Agent = %q, should contain 'event-csv'", userAgent)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			markup, err := NewStatic("").Render(context.Background(), server.URL, ".event-title", time.Second)

			if tt.wantError {
				if err == nil {
					t.Fatal("Render() expected error, got nil")
				}
				if tt.wantErrIs != nil && !errors.Is(err, tt.wantErrIs) {
					t.Errorf("Render() error = %v, want %v", err, tt.wantErrIs)
				}
				return
			}
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			if !strings.Contains(markup, "Spring Major") {
				t.Errorf("Render() markup missing content: %q", markup)
			}
		})
	}
}

func TestStatic_RenderTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewStatic("").Render(context.Background(), server.URL, ".event-title", 50*time.Millisecond)
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("Render() error = %v, want ErrNotReady", err)
	}
}

func TestChrome_RenderLaunchTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a shell script standing in for chrome")
	}

	// A browser binary that never prints its DevTools endpoint
	execPath := filepath.Join(t.TempDir(), "hung-chrome.sh")
	if err := os.WriteFile(execPath, []byte("#!/bin/sh\nexec sleep 30\n"), 0755); err != nil {
		t.Fatalf("writing stub browser: %v", err)
	}

	opts := DefaultOptions()
	opts.ExecPath = execPath

	started := time.Now()
	_, err := NewChrome(opts).Render(context.Background(), "http://127.0.0.1:1/", ".event-title", 200*time.Millisecond)
	elapsed := time.Since(started)

	if !errors.Is(err, ErrNotReady) {
		t.Errorf("Render() error = %v, want ErrNotReady", err)
	}
	if elapsed > 3*time.Second {
		t.Errorf("Render() returned after %s, want it bounded by the 200ms timeout", elapsed)
	}
}

// TestChrome_Render needs a local Chrome; set EVENTCSV_CHROME_TEST=1 to run it.
func TestChrome_Render(t *testing.T) {
	if os.Getenv("EVENTCSV_CHROME_TEST") == "" {
		t.Skip("set EVENTCSV_CHROME_TEST=1 to run against a local Chrome")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div id="app"></div><script>
			setTimeout(function () {
				document.getElementById('app').innerHTML = '<span class="event-title">Rendered</span>';
			}, 100);
		</script></body></html>`))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headless = true
	markup, err := NewChrome(opts).Render(context.Background(), server.URL, ".event-title", 10*time.Second)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(markup, "Rendered") {
		t.Errorf("Render() markup missing script output")
	}

	_, err = NewChrome(opts).Render(context.Background(), server.URL, ".never-there", 500*time.Millisecond)
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("Render() error = %v, want ErrNotReady", err)
	}
}
