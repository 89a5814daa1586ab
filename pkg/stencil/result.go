package stencil

// Result is the outcome of SafeStamp: either a fully resolved string or the
// error that stopped resolution. The zero value is a resolved empty string.
type Result struct {
	value string
	err   error
}

// Resolved returns a successful result.
func Resolved(value string) Result {
	return Result{value: value}
}

// Failed returns a failed result. A nil err is treated as a resolved empty
// string.
func Failed(err error) Result {
	return Result{err: err}
}

// OK reports whether the result holds a resolved value.
func (r Result) OK() bool {
	return r.err == nil
}

// Value returns the resolved string, or "" for a failed result.
func (r Result) Value() string {
	if r.err != nil {
		return ""
	}
	return r.value
}

// Err returns the failure reason, or nil.
func (r Result) Err() error {
	return r.err
}

// Unwrap returns the value and error in the usual Go form.
func (r Result) Unwrap() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.value, nil
}

// ValueOr returns the resolved string, or fallback if the result failed.
func (r Result) ValueOr(fallback string) string {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// String implements fmt.Stringer.
func (r Result) String() string {
	if r.err != nil {
		return "failed: " + r.err.Error()
	}
	return "resolved: " + r.value
}
