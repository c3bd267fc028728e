package dramsys

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

type stubResponse struct {
	stdout string
	stderr string
	err    error
}

// stubExecutor answers by the trace named inside the artifact it is given, and records
// whether the artifact existed at invocation time.
type stubExecutor struct {
	mu        sync.Mutex
	responses map[string]stubResponse // keyed by trace base name
	artifacts []string
	docs      []Document
}

func (s *stubExecutor) Execute(_ context.Context, _ string, args ...string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := args[0]
	s.artifacts = append(s.artifacts, path)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", "", err
	}
	s.docs = append(s.docs, doc)
	resp, ok := s.responses[filepath.Base(doc.Simulation.TraceSetup[0].Name)]
	if !ok {
		return "", "", errors.New("exit status 1")
	}
	return resp.stdout, resp.stderr, resp.err
}

func (s *stubExecutor) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.artifacts)
}

func newStubRunner(dir string, responses map[string]stubResponse) (*Runner, *stubExecutor) {
	exec := &stubExecutor{responses: responses}
	r := NewRunner("DRAMSys", dir, 0)
	r.Executor = exec
	return r, exec
}
