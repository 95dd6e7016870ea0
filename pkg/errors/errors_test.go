// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code lookup

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/stagedit/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "no_files_error",
			code:    errors.ErrNoFiles,
			message: "got no files to edit",
			wantStr: "[NO_FILES] got no files to edit",
		},
		{
			name:    "contract_error",
			code:    errors.ErrContract,
			message: "markers are required",
			wantStr: "[CONTRACT] markers are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	baseErr := stderrors.New("permission denied")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrInstall, "failed to rename %q to %q", "/a/.#x", "/a/x")

		if err.Code != errors.ErrInstall {
			t.Errorf("Wrapf() code = %v, want %v", err.Code, errors.ErrInstall)
		}

		want := `[INSTALL] failed to rename "/a/.#x" to "/a/x": permission denied`
		if got := err.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}

		if !stderrors.Is(err, baseErr) {
			t.Error("Wrapf() should preserve wrapped error")
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrapf(nil, errors.ErrInstall, "x"); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrFileRead, "read failed").
		WithDetail("path", "/etc/app.conf")

	details := errors.GetErrorDetails(err)
	if details["path"] != "/etc/app.conf" {
		t.Errorf("details[path] = %v, want /etc/app.conf", details["path"])
	}

	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails() should be nil for non-EditError")
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrEditorNotFound, "vim")
	err2 := errors.New(errors.ErrEditorNotFound, "nano")
	err3 := errors.New(errors.ErrEditorLaunch, "vim")

	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match on code")
	}
	if stderrors.Is(err1, err3) {
		t.Error("errors.Is() should not match different codes")
	}
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrTrim, "trim"),
			code:     errors.ErrTrim,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrTrim, "trim"),
			code:     errors.ErrInstall,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrStage, "staging failed"),
			code:     errors.ErrStage,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrFileNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrFileNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	readErr := errors.Wrap(rootCause, errors.ErrFileRead, "cannot read comment source")
	stageErr := errors.Wrap(readErr, errors.ErrStage, "failed to stage target")

	if got := errors.GetErrorCode(stageErr); got != errors.ErrStage {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrStage)
	}

	var inner *errors.EditError
	if stderrors.As(stageErr.Unwrap(), &inner) && inner.Code != errors.ErrFileRead {
		t.Errorf("inner code = %v, want %v", inner.Code, errors.ErrFileRead)
	}

	if !stderrors.Is(stageErr, rootCause) {
		t.Error("Should find root cause with errors.Is")
	}

	if got := errors.GetErrorCode(nil); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(nil) = %v, want %v", got, errors.ErrUnknown)
	}
}
