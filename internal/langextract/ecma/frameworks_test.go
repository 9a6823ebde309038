package ecma_test

import (
	"testing"

	"github.com/standardbeagle/semext/internal/langextract/ecma"
	"github.com/standardbeagle/semext/internal/types"
)

func TestFetchCallExtractsURL(t *testing.T) {
	src := `async function load() {
  const resp = await fetch("https://api.example.com/users");
  return resp.json();
}
`
	pf := parseTS(t, src)
	fs := ecma.FromParsed(pf)
	if err := ecma.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fs.HttpCalls) != 1 {
		t.Fatalf("expected 1 http call, got %d: %+v", len(fs.HttpCalls), fs.HttpCalls)
	}
	call := fs.HttpCalls[0]
	if call.Library.Kind != types.HttpClientLibraryFetch {
		t.Fatalf("expected Fetch library, got %v", call.Library.Kind)
	}
	if !call.HasURL || call.URL != "https://api.example.com/users" {
		t.Fatalf("expected URL to be extracted, got has=%v url=%q", call.HasURL, call.URL)
	}
	if !call.InAsyncContext {
		t.Fatal("expected in_async_context to be true inside load")
	}
}

func TestAxiosGotKyLibraryDetection(t *testing.T) {
	src := `function run() {
  axios.post("https://a", {});
  got("https://b");
  ky.get("https://c");
}
`
	pf := parseTS(t, src)
	fs := ecma.FromParsed(pf)
	if err := ecma.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byLib := map[types.HttpClientLibraryKind]types.HttpCall{}
	for _, c := range fs.HttpCalls {
		byLib[c.Library.Kind] = c
	}
	if len(fs.HttpCalls) != 3 {
		t.Fatalf("expected 3 http calls, got %d: %+v", len(fs.HttpCalls), fs.HttpCalls)
	}
	if c, ok := byLib[types.HttpClientLibraryAxios]; !ok || c.Method.Kind != types.HttpMethodPost {
		t.Fatalf("expected an Axios POST call, got %+v", c)
	}
	if c, ok := byLib[types.HttpClientLibraryGot]; !ok || !c.HasURL || c.URL != "https://b" {
		t.Fatalf("expected a Got call with URL https://b, got %+v", c)
	}
	if _, ok := byLib[types.HttpClientLibraryKy]; !ok {
		t.Fatal("expected a Ky call")
	}
}

func TestPromiseAllRaceAndSetTimeout(t *testing.T) {
	src := `async function run() {
  await Promise.all([a(), b()]);
  await Promise.race([a(), b()]);
  setTimeout(() => {}, 100);
}
`
	pf := parseTS(t, src)
	fs := ecma.FromParsed(pf)
	if err := ecma.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawGather, sawRace, sawSleep bool
	for _, op := range fs.AsyncOperations {
		switch op.OperationType {
		case types.AsyncOperationTaskGather:
			sawGather = true
		case types.AsyncOperationSelectRace:
			sawRace = true
		case types.AsyncOperationSleep:
			sawSleep = true
		}
	}
	if !sawGather {
		t.Fatal("expected a TaskGather operation for Promise.all")
	}
	if !sawRace {
		t.Fatal("expected a SelectRace operation for Promise.race")
	}
	if !sawSleep {
		t.Fatal("expected a Sleep operation for setTimeout")
	}
}

func TestAbortControllerCancellation(t *testing.T) {
	src := `function withTimeout() {
  const controller = new AbortController();
  return controller;
}
`
	pf := parseTS(t, src)
	fs := ecma.FromParsed(pf)
	if err := ecma.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawCancel bool
	for _, op := range fs.AsyncOperations {
		if op.HasCancellation && op.Cancellation == "AbortController" {
			sawCancel = true
		}
	}
	if !sawCancel {
		t.Fatalf("expected an AbortController cancellation operation, got %+v", fs.AsyncOperations)
	}
}

func TestPrismaAndTypeOrmDetection(t *testing.T) {
	src := `async function list(repo, prisma) {
  await prisma.user.findMany({ where: { active: true } });
  await repo.leftJoinAndSelect("a", "b").getMany();
}
`
	pf := parseTS(t, src)
	fs := ecma.FromParsed(pf)
	if err := ecma.AnalyzeFrameworks(pf, fs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawPrisma, sawTypeOrmJoin bool
	for _, op := range fs.DbOperations {
		if op.Library.Kind == types.DbLibraryPrisma && op.OperationType == types.DbOperationSelect {
			sawPrisma = true
			if !op.HasEagerLoading {
				t.Fatalf("expected findMany to be flagged eager-loading, got %+v", op)
			}
		}
		if op.Library.Kind == types.DbLibraryTypeOrm && op.OperationType == types.DbOperationRelationshipAccess {
			sawTypeOrmJoin = true
		}
	}
	if !sawPrisma {
		t.Fatalf("expected a Prisma select operation, got %+v", fs.DbOperations)
	}
	if !sawTypeOrmJoin {
		t.Fatalf("expected a TypeORM relationship-access operation, got %+v", fs.DbOperations)
	}
}
