package shared

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNormalizeKey(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "basic normalization", input: "Spaghetti Arrabiata", want: "spaghetti arrabiata"},
		{name: "extra whitespace", input: "  Spaghetti   Arrabiata  ", want: "spaghetti arrabiata"},
		{name: "mixed case", input: "SpAgHeTtI", want: "spaghetti"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.input); got != tt.want {
				t.Errorf("NormalizeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		input string
		want  log.Level
	}{
		{input: "debug", want: log.DebugLevel},
		{input: " WARN ", want: log.WarnLevel},
		{input: "error", want: log.ErrorLevel},
		{input: "bogus", want: log.InfoLevel},
		{input: "", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected unique non-empty IDs, got %q and %q", a, b)
	}
}

func TestClassify(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want ErrorKind
		soft bool
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "unauthenticated", err: fmt.Errorf("add: %w", ErrNotAuthenticated), want: KindUnauthenticated},
		{name: "expired", err: fmt.Errorf("list: %w", ErrSessionExpired), want: KindSessionExpired},
		{name: "conflict", err: fmt.Errorf("add: %w", ErrDuplicateFavorite), want: KindConflict, soft: true},
		{name: "not found", err: ErrMealNotFound, want: KindNotFound, soft: true},
		{name: "invalid filter", err: fmt.Errorf("%w: bogus", ErrInvalidFilter), want: KindInvalid},
		{name: "generic", err: errors.New("connection reset"), want: KindTransport},
		{name: "api", err: fmt.Errorf("%w: status 500", ErrAPIRequest), want: KindTransport},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
			if got := IsSoft(tt.err); got != tt.soft {
				t.Errorf("IsSoft() = %v, want %v", got, tt.soft)
			}
		})
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tui.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Info("hello from the tui")
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Fatalf("expected log directory to be created: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "hello from the tui") {
		t.Errorf("expected message in log file, got %q", data)
	}
}
