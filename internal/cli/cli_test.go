package cli_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/seolens/seolens/internal/cli"
)

func TestParseArgs_OneShot(t *testing.T) {
	t.Parallel()

	args, err := cli.ParseArgs([]string{"-url", "https://example.com", "-timeout", "10s", "-json"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.URL != "https://example.com" {
		t.Errorf("URL = %q", args.URL)
	}
	if args.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", args.Timeout)
	}
	if !args.JSON {
		t.Error("expected JSON output flag")
	}
	if args.Serve {
		t.Error("did not expect serve mode")
	}
}

func TestParseArgs_Serve(t *testing.T) {
	t.Parallel()

	args, err := cli.ParseArgs([]string{"-serve", "-listen", ":9090", "-db", "history.db"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if !args.Serve {
		t.Error("expected serve mode")
	}
	if args.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", args.ListenAddr)
	}
	if args.HistoryPath != "history.db" {
		t.Errorf("HistoryPath = %q", args.HistoryPath)
	}
}

func TestParseArgs_MissingURL(t *testing.T) {
	t.Parallel()

	if _, err := cli.ParseArgs([]string{}); err == nil {
		t.Error("expected error when -url missing without -serve")
	}
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	t.Parallel()

	if _, err := cli.ParseArgs([]string{"-nope"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestParseArgs_Checks(t *testing.T) {
	t.Parallel()

	args, err := cli.ParseArgs([]string{"-url", "https://example.com", "-checks", "meta, links,"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if !reflect.DeepEqual(args.Checks, []string{"meta", "links"}) {
		t.Errorf("Checks = %v, want [meta links]", args.Checks)
	}
}

func TestParseArgs_NoChecksMeansAll(t *testing.T) {
	t.Parallel()

	args, err := cli.ParseArgs([]string{"-url", "https://example.com"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if len(args.Checks) != 0 {
		t.Errorf("Checks = %v, want empty", args.Checks)
	}
}
