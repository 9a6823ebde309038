package rust_test

import (
	"testing"

	"github.com/standardbeagle/semext/internal/langextract/rust"
	"github.com/standardbeagle/semext/internal/types"
)

// TestRustReqwestChainWithTimeout is spec.md §8 scenario 4: a chained
// reqwest builder call inside an async fn, awaited, with a
// Duration::from_secs timeout.
func TestRustReqwestChainWithTimeout(t *testing.T) {
	src := `use std::time::Duration;

async fn fetch_user(client: &Client, url: &str) -> Result<String, Error> {
    let resp = client.get(url).timeout(Duration::from_secs(10)).send().await?;
    Ok(resp.text().await?)
}
`
	pf := parseRust(t, src)
	fs := rust.FromParsed(pf)
	if err := rust.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fs.HttpCalls) != 1 {
		t.Fatalf("expected exactly 1 http call for the chain, got %d: %+v", len(fs.HttpCalls), fs.HttpCalls)
	}
	call := fs.HttpCalls[0]
	if call.Library.Kind != types.HttpClientLibraryReqwest {
		t.Fatalf("expected Reqwest library, got %v", call.Library.Kind)
	}
	if call.Method.Kind != types.HttpMethodGet {
		t.Fatalf("expected GET, got %v", call.Method.Kind)
	}
	if !call.HasTimeout || call.TimeoutValueSecs != 10.0 {
		t.Fatalf("expected timeout=10.0, got has=%v value=%v", call.HasTimeout, call.TimeoutValueSecs)
	}
	if !call.InAsyncContext {
		t.Fatal("expected in_async_context to be true inside fetch_user")
	}
	if !call.HasAwait {
		t.Fatal("expected has_await to be true for the awaited .send() chain")
	}
	if call.EnclosingFunction != "fetch_user" {
		t.Fatalf("expected enclosing function fetch_user, got %q", call.EnclosingFunction)
	}
}

// TestRustUreqPostSync is spec.md §8 scenario 5: a path-qualified ureq
// call in a synchronous function.
func TestRustUreqPostSync(t *testing.T) {
	src := `fn submit(url: &str) {
    let _ = ureq::post(url).call();
}
`
	pf := parseRust(t, src)
	fs := rust.FromParsed(pf)
	if err := rust.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var post *types.HttpCall
	for i := range fs.HttpCalls {
		if fs.HttpCalls[i].Library.Kind == types.HttpClientLibraryUreq {
			post = &fs.HttpCalls[i]
		}
	}
	if post == nil {
		t.Fatalf("expected a Ureq http call, got %+v", fs.HttpCalls)
	}
	if post.Method.Kind != types.HttpMethodPost {
		t.Fatalf("expected POST, got %v", post.Method.Kind)
	}
	if post.InAsyncContext {
		t.Fatal("expected in_async_context to be false inside a sync fn")
	}
	if post.HasAwait {
		t.Fatal("expected has_await to be false: ureq is synchronous")
	}
}

func TestRustTokioSpawnAndSelect(t *testing.T) {
	src := `async fn run(ch: Receiver<i32>, done: Receiver<()>) {
    tokio::spawn(async move {
        worker().await;
    });
    tokio::select! {
        v = ch.recv() => { handle(v); }
        _ = done.recv() => {}
    }
}
`
	pf := parseRust(t, src)
	fs := rust.FromParsed(pf)
	if err := rust.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawSpawn, sawSelect bool
	for _, op := range fs.AsyncOperations {
		switch op.OperationType {
		case types.AsyncOperationTaskSpawn:
			sawSpawn = true
			if op.Runtime.Kind != types.AsyncRuntimeTokio {
				t.Fatalf("expected Tokio runtime for spawn, got %v", op.Runtime.Kind)
			}
		case types.AsyncOperationSelectRace:
			sawSelect = true
		}
	}
	if !sawSpawn {
		t.Fatal("expected a TaskSpawn operation for tokio::spawn")
	}
	if !sawSelect {
		t.Fatal("expected a SelectRace operation for tokio::select!")
	}
}
