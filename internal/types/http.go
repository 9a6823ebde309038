package types

// HttpCall is one outbound HTTP client invocation detected by surface
// form (spec.md §4.3) — never type-aware.
type HttpCall struct {
	Library           HttpClientLibrary
	Method            HttpMethod
	URL               string // empty/absent unless Language is TS/JS (spec.md §9 open question)
	HasURL            bool
	HasTimeout        bool
	TimeoutValueSecs  float64 // only meaningful when HasTimeout
	HasRetry          bool
	RetryMechanism    string // free-form, e.g. "tenacity", "backoff crate"
	CallText          string // original call expression, verbatim
	Location          Location
	EnclosingFunction string // empty when at module/file scope
	InAsyncContext    bool
	HasAwait          bool
	InLoop            bool
}
