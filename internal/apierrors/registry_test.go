package apierrors

import (
	"net/http"
	"testing"
)

func TestRegistry_CoreCodesRegistered(t *testing.T) {
	// Core codes should be registered via init()
	codes := Registry.All()
	if len(codes) == 0 {
		t.Fatal("No codes registered")
	}

	mustExist := []string{
		CodeUnauthorized,
		CodeForbidden,
		CodeNotFound,
		CodeInvalidRequest,
		CodeInternalError,
		CodeQueueUnavailable,
		CodeImportFailed,
		CodeUpstreamTimeout,
	}

	for _, code := range mustExist {
		if _, ok := Registry.Get(code); !ok {
			t.Errorf("Code %q not registered", code)
		}
	}
}

func TestRegistry_Namespacing(t *testing.T) {
	coreCodes := Registry.ByNamespace("core")
	if len(coreCodes) == 0 {
		t.Fatal("No codes in 'core' namespace")
	}
	for _, code := range coreCodes {
		if len(code.Code) < 5 || code.Code[:5] != "core:" {
			t.Errorf("Code %q should have 'core:' prefix", code.Code)
		}
	}

	football := Registry.ByNamespace("football")
	if len(football) == 0 {
		t.Fatal("No codes in 'football' namespace")
	}
}

func TestRegistry_HTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeInvalidRequest, http.StatusBadRequest},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeQueueUnavailable, http.StatusServiceUnavailable},
		{CodeUpstreamTimeout, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Registry.HTTPStatus(tt.code); got != tt.status {
				t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.status)
			}
		})
	}
}

func TestRegistry_UnknownCode(t *testing.T) {
	// Unknown code should fall back to 500 and echo the code as message
	if status := Registry.HTTPStatus("unknown:code"); status != http.StatusInternalServerError {
		t.Errorf("HTTPStatus(unknown) = %d, want 500", status)
	}
	if msg := Registry.Message("unknown:code"); msg != "unknown:code" {
		t.Errorf("Message(unknown) = %q, want code echoed", msg)
	}
}

type fakeEnumerator struct{}

func (fakeEnumerator) EnumerateErrors() []ErrorCode {
	return []ErrorCode{
		{Code: "stats_missing", Message: "Statistics unavailable", HTTPStatus: http.StatusNotFound},
	}
}

func TestRegistry_RegisterModulePrefixesCodes(t *testing.T) {
	Registry.RegisterModule("stats", fakeEnumerator{})

	e, ok := Registry.Get("stats:stats_missing")
	if !ok {
		t.Fatal("module code not registered with prefix")
	}
	if e.HTTPStatus != http.StatusNotFound {
		t.Errorf("HTTPStatus = %d, want 404", e.HTTPStatus)
	}
}
