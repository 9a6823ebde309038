package golang_test

import (
	"testing"

	"github.com/standardbeagle/semext/internal/langextract/golang"
	"github.com/standardbeagle/semext/internal/types"
)

func TestGoGoroutineSpawnWithRecoverAndContext(t *testing.T) {
	src := `package main

import "context"

func worker(ctx context.Context) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				return
			}
		}()
		<-ctx.Done()
	}()
}
`
	pf := parseGo(t, src)
	fs := golang.FromParsed(pf)
	if err := golang.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var spawn *types.AsyncOperation
	for i := range fs.AsyncOperations {
		if fs.AsyncOperations[i].OperationType == types.AsyncOperationTaskSpawn {
			spawn = &fs.AsyncOperations[i]
		}
	}
	if spawn == nil {
		t.Fatalf("expected a TaskSpawn operation, got %+v", fs.AsyncOperations)
	}
	if spawn.Runtime.Kind != types.AsyncRuntimeGoroutine {
		t.Fatalf("expected Goroutine runtime, got %v", spawn.Runtime.Kind)
	}
	if !spawn.HasErrorHandling {
		t.Fatal("expected has_recover (HasErrorHandling) to be set")
	}
	if !spawn.HasCancellation {
		t.Fatal("expected has_cancellation to be set")
	}
}

func TestGoMutexLockUnlockWithDeferCleanup(t *testing.T) {
	src := `package main

import "sync"

type Counter struct {
	mu sync.Mutex
	n  int
}

func (c *Counter) Incr() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
}
`
	pf := parseGo(t, src)
	fs := golang.FromParsed(pf)
	if err := golang.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawAcquire, sawReleaseWithCleanup bool
	for _, op := range fs.AsyncOperations {
		switch op.OperationType {
		case types.AsyncOperationLockAcquire:
			sawAcquire = true
		case types.AsyncOperationLockRelease:
			if op.HasCleanup {
				sawReleaseWithCleanup = true
			}
		}
	}
	if !sawAcquire {
		t.Fatal("expected a LockAcquire operation for c.mu.Lock()")
	}
	if !sawReleaseWithCleanup {
		t.Fatal("expected a cleanup-flagged LockRelease for defer c.mu.Unlock()")
	}
}

func TestGoChannelSendReceiveAndSelect(t *testing.T) {
	src := `package main

func pump(ch chan int, done chan struct{}) {
	for {
		select {
		case v := <-ch:
			ch <- v
		case <-done:
			return
		}
	}
}
`
	pf := parseGo(t, src)
	fs := golang.FromParsed(pf)
	if err := golang.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawSend, sawReceive, sawSelect bool
	for _, op := range fs.AsyncOperations {
		switch op.OperationType {
		case types.AsyncOperationChannelSend:
			sawSend = true
		case types.AsyncOperationChannelReceive:
			sawReceive = true
		case types.AsyncOperationSelectRace:
			sawSelect = true
		}
	}
	if !sawSend || !sawReceive || !sawSelect {
		t.Fatalf("expected send, receive, and select operations, got %+v", fs.AsyncOperations)
	}
}

func TestGoDatabaseSqlAndGorm(t *testing.T) {
	src := `package main

func query(db *DB) {
	rows, _ := db.Query("SELECT 1")
	_ = rows
	db.Preload("Owner").Find(&results)
}
`
	pf := parseGo(t, src)
	fs := golang.FromParsed(pf)
	if err := golang.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawSelect, sawPreload bool
	for _, op := range fs.DbOperations {
		if op.OperationType == types.DbOperationSelect && op.Library.Kind == types.DbLibraryDatabaseSql {
			sawSelect = true
		}
		if op.OperationType == types.DbOperationRelationshipAccess {
			sawPreload = true
		}
	}
	if !sawSelect {
		t.Fatalf("expected a database/sql select operation, got %+v", fs.DbOperations)
	}
	if !sawPreload {
		t.Fatalf("expected a GORM Preload relationship-access operation, got %+v", fs.DbOperations)
	}
}

func TestGoNetHttpClientCall(t *testing.T) {
	src := `package main

import "net/http"

func fetch(url string) {
	resp, _ := http.Get(url)
	_ = resp
}
`
	pf := parseGo(t, src)
	fs := golang.FromParsed(pf)
	if err := golang.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.HttpCalls) != 1 {
		t.Fatalf("expected 1 http call, got %d: %+v", len(fs.HttpCalls), fs.HttpCalls)
	}
	if fs.HttpCalls[0].Library.Kind != types.HttpClientLibraryNetHttp {
		t.Fatalf("expected NetHttp library, got %v", fs.HttpCalls[0].Library.Kind)
	}
	if fs.HttpCalls[0].Method.Kind != types.HttpMethodGet {
		t.Fatalf("expected GET, got %v", fs.HttpCalls[0].Method.Kind)
	}
}
