package python_test

import (
	"testing"

	"github.com/standardbeagle/semext/internal/langextract/python"
	"github.com/standardbeagle/semext/internal/types"
)

func TestPythonRequestsGetWithTimeout(t *testing.T) {
	src := "import requests\n\ndef fetch(url):\n    return requests.get(url, timeout=5)\n"
	pf := parsePython(t, src)
	fs := python.FromParsed(pf)
	if err := python.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fs.HttpCalls) != 1 {
		t.Fatalf("expected 1 http call, got %d: %+v", len(fs.HttpCalls), fs.HttpCalls)
	}
	call := fs.HttpCalls[0]
	if call.Library.Kind != types.HttpClientLibraryRequests {
		t.Fatalf("expected Requests library, got %v", call.Library.Kind)
	}
	if call.Method.Kind != types.HttpMethodGet {
		t.Fatalf("expected GET, got %v", call.Method.Kind)
	}
	if !call.HasTimeout || call.TimeoutValueSecs != 5.0 {
		t.Fatalf("expected timeout=5.0, got has=%v value=%v", call.HasTimeout, call.TimeoutValueSecs)
	}
	if call.EnclosingFunction != "fetch" {
		t.Fatalf("expected enclosing function fetch, got %q", call.EnclosingFunction)
	}
	if fs.State != types.StateAnnotated {
		t.Fatalf("expected state Annotated after AnalyzeFrameworks")
	}
}

func TestPythonAsyncioTaskSpawnAndAwait(t *testing.T) {
	src := "import asyncio\n\nasync def runner():\n    task = asyncio.create_task(worker())\n    await task\n"
	pf := parsePython(t, src)
	fs := python.FromParsed(pf)
	if err := python.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawSpawn, sawAwait bool
	for _, op := range fs.AsyncOperations {
		if op.Runtime.Kind != types.AsyncRuntimeAsyncio {
			t.Fatalf("expected Asyncio runtime, got %v", op.Runtime.Kind)
		}
		switch op.OperationType {
		case types.AsyncOperationTaskSpawn:
			sawSpawn = true
		case types.AsyncOperationTaskAwait:
			sawAwait = true
		}
	}
	if !sawSpawn {
		t.Fatal("expected a TaskSpawn operation for asyncio.create_task")
	}
	if !sawAwait {
		t.Fatal("expected a TaskAwait operation for await")
	}
}

func TestPythonDjangoOrmEagerLoading(t *testing.T) {
	src := "def load(qs):\n    return qs.select_related('author').filter(published=True)\n"
	pf := parsePython(t, src)
	fs := python.FromParsed(pf)
	if err := python.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawEager bool
	for _, op := range fs.DbOperations {
		if op.OperationType == types.DbOperationRelationshipAccess {
			sawEager = true
			if !op.HasEagerLoading || op.EagerLoading.Kind != types.EagerLoadJoin {
				t.Fatalf("expected EagerLoadJoin, got %+v", op.EagerLoading)
			}
		}
	}
	if !sawEager {
		t.Fatalf("expected a relationship-access db operation, got %+v", fs.DbOperations)
	}
}
