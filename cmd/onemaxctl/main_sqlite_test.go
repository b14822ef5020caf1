//go:build sqlite

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCommandSQLitePersistsHistoryAcrossClients(t *testing.T) {
	workdir := t.TempDir()
	dbPath := filepath.Join(workdir, "onemax.db")
	artifacts := filepath.Join(workdir, "runs")

	if _, err := captureStdout(func() error {
		return run(context.Background(), []string{
			"run",
			"--store", "sqlite",
			"--db-path", dbPath,
			"--artifacts-dir", artifacts,
			"--gene-length", "16",
			"--pop", "12",
			"--gens", "3",
			"--quiet",
		})
	}); err != nil {
		t.Fatalf("run command: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected sqlite db at %s: %v", dbPath, err)
	}

	// Drop the artifacts so history can only come from the database.
	if err := os.Remove(filepath.Join(artifacts, "run_index.json")); err != nil {
		t.Fatalf("remove run index: %v", err)
	}
	entries, err := os.ReadDir(artifacts)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one run dir, got %v err=%v", entries, err)
	}
	runID := entries[0].Name()
	if err := os.RemoveAll(filepath.Join(artifacts, runID)); err != nil {
		t.Fatalf("remove run artifacts: %v", err)
	}

	out, err := captureStdout(func() error {
		return run(context.Background(), []string{
			"history",
			"--store", "sqlite",
			"--db-path", dbPath,
			"--artifacts-dir", artifacts,
			"--run-id", runID,
		})
	})
	if err != nil {
		t.Fatalf("history command: %v", err)
	}
	if !strings.Contains(out, "Generation 1: Max fitness = ") {
		t.Fatalf("expected history from sqlite, got %q", out)
	}

	out, err = captureStdout(func() error {
		return run(context.Background(), []string{"runs", "--store", "sqlite", "--db-path", dbPath, "--artifacts-dir", artifacts})
	})
	if err != nil {
		t.Fatalf("runs command: %v", err)
	}
	if !strings.Contains(out, "run_id="+runID) || !strings.Contains(out, "pop=12") {
		t.Fatalf("expected runs listed from sqlite, got %q", out)
	}

	out, err = captureStdout(func() error {
		return run(context.Background(), []string{"delete", "--run-id", runID, "--store", "sqlite", "--db-path", dbPath, "--artifacts-dir", artifacts})
	})
	if err != nil {
		t.Fatalf("delete command: %v", err)
	}
	if strings.TrimSpace(out) != "deleted run_id="+runID {
		t.Fatalf("unexpected delete output %q", out)
	}
	out, err = captureStdout(func() error {
		return run(context.Background(), []string{"runs", "--store", "sqlite", "--db-path", dbPath, "--artifacts-dir", artifacts})
	})
	if err != nil {
		t.Fatalf("runs after delete: %v", err)
	}
	if strings.TrimSpace(out) != "no runs found" {
		t.Fatalf("expected empty listing after delete, got %q", out)
	}
}
