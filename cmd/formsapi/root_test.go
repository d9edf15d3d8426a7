package main

import (
	"context"
	"strings"
	"testing"

	"github.com/sethvargo/go-envconfig"
)

func TestRootCmd_ConfigErrorIsReturned(t *testing.T) {
	for _, sub := range []string{"serve", "ensure-indexes"} {
		t.Run(sub, func(t *testing.T) {
			cmd := newRootCmd(envconfig.MapLookuper(map[string]string{}))
			cmd.SetArgs([]string{sub})

			err := cmd.ExecuteContext(context.Background())
			if err == nil {
				t.Fatal("expected a configuration error")
			}
			if !strings.Contains(err.Error(), "JWT_SECRET") {
				t.Fatalf("expected missing JWT_SECRET, got %v", err)
			}
		})
	}
}

func TestRootCmd_InvalidPolicy(t *testing.T) {
	cmd := newRootCmd(envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":    "s3cret",
		"DELETE_POLICY": "archive",
	}))
	cmd.SetArgs([]string{"serve"})

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "DELETE_POLICY") {
		t.Fatalf("expected DELETE_POLICY error, got %v", err)
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	cmd := newRootCmd(envconfig.MapLookuper(map[string]string{}))
	cmd.SetArgs([]string{"bogus"})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected an unknown command error")
	}
}
