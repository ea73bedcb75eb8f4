package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestReadError_Error(t *testing.T) {
	err := New(ErrCategoryFormat, CodeVersionMissing, "no marker")
	expected := "[FORMAT:VERSION_MISSING] no marker"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestReadError_ErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("disk unplugged")
	err := Wrap(ErrCategorySource, CodeAccessFailed, "query failed", cause)
	expected := "[SOURCE:ACCESS_FAILED] query failed: disk unplugged"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestReadError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ErrCategoryDecode, CodeFieldDecode, "bad token", cause)
	if !errors.Is(err, cause) {
		t.Error("Unwrap should allow errors.Is to find the cause")
	}
}

func TestReadError_Is(t *testing.T) {
	err1 := NewVersionUnsupported(42)
	err2 := New(ErrCategoryFormat, CodeVersionUnsupported, "other")
	err3 := New(ErrCategoryFormat, CodeVersionMissing, "different code")

	if !errors.Is(err1, err2) {
		t.Error("errors with same category+code should match via Is")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match via Is")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		category  ErrorCategory
		code      string
		retryable bool
	}{
		{ErrCategorySource, CodeDownloadFailed, true},
		{ErrCategorySource, CodeAccessFailed, true},
		{ErrCategorySource, CodeObjectNotFound, false},
		{ErrCategoryFormat, CodeVersionUnsupported, false},
		{ErrCategoryDecode, CodeFieldDecode, false},
		{ErrCategoryStructure, CodeUnresolvedReference, false},
		{ErrCategoryConfig, CodeInvalidConfig, false},
		{ErrCategoryInternal, CodeUnexpected, false},
	}

	for _, tt := range tests {
		err := New(tt.category, tt.code, "test")
		if IsRetryable(err) != tt.retryable {
			t.Errorf("%s:%s retryable=%v, want %v", tt.category, tt.code, IsRetryable(err), tt.retryable)
		}
	}
}

func TestGetCategoryAndCode(t *testing.T) {
	err := fmt.Errorf("reading: %w", NewVersionUnsupported(7))
	if GetCategory(err) != ErrCategoryFormat {
		t.Errorf("got %q, want %q", GetCategory(err), ErrCategoryFormat)
	}
	if GetCode(err) != CodeVersionUnsupported {
		t.Errorf("got %q, want %q", GetCode(err), CodeVersionUnsupported)
	}
	if GetCategory(fmt.Errorf("plain error")) != "" {
		t.Error("non-ReadError should return empty category")
	}
	if GetCode(fmt.Errorf("plain error")) != "" {
		t.Error("non-ReadError should return empty code")
	}
}

func TestNewFieldDecodeError(t *testing.T) {
	cause := fmt.Errorf("strconv: invalid syntax")
	err := NewFieldDecodeError("TASK", "DURATIONHOURS", "abc", "DOUBLE", cause)

	if err.Category != ErrCategoryDecode || err.Code != CodeFieldDecode {
		t.Fatalf("unexpected category/code %s:%s", err.Category, err.Code)
	}
	for key, want := range map[string]string{"table": "TASK", "column": "DURATIONHOURS", "raw": "abc", "type": "DOUBLE"} {
		if got := err.Details[key]; got != want {
			t.Errorf("Details[%s] = %v, want %q", key, got, want)
		}
	}
	if !errors.Is(err, cause) {
		t.Error("decode error should wrap its cause")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(ErrCategoryConfig, CodeInvalidConfig, "bad delimiter")
	detailed := err.WithDetails(map[string]interface{}{"field": "input.delimiter"})

	if detailed.Details["field"] != "input.delimiter" {
		t.Error("WithDetails should set details")
	}
	if err.Details != nil {
		t.Error("WithDetails should not modify original")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	cause := fmt.Errorf("io error")

	v := NewVersionUnsupported(99)
	if v.Details["version"] != 99 {
		t.Error("NewVersionUnsupported should record the version")
	}

	s := NewSourceError(CodeAccessFailed, "query failed", cause)
	if s.Category != ErrCategorySource || !errors.Is(s, cause) {
		t.Error("NewSourceError mismatch")
	}

	st := NewStructureError("link end missing")
	if st.Category != ErrCategoryStructure || st.Code != CodeUnresolvedReference {
		t.Error("NewStructureError mismatch")
	}

	c := NewConfigError("bad")
	if c.Category != ErrCategoryConfig {
		t.Error("NewConfigError mismatch")
	}

	i := NewInternalError("unexpected", cause)
	if i.Category != ErrCategoryInternal || i.Code != CodeUnexpected {
		t.Error("NewInternalError mismatch")
	}
}
