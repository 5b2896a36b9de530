package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"catalog miss", errors.CodeCatalogNotFound, "code CPC-335 not found"},
		{"invalid duration", errors.CodeInvalidDuration, "duration must be positive"},
		{"rate limit", errors.CodeRateLimit, "too many requests"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.CodeComputationError, "walk exceeded %d days", 3650)
	assert.Equal(t, "walk exceeded 3650 days", ae.Message)
	assert.Equal(t, errors.CodeComputationError, ae.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("root DB error")
	wrapped := errors.Wrap(root, errors.CodeDBQueryError, "holiday query failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeDBQueryError, wrapped.Code)
	assert.Equal(t, root, wrapped.Cause)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeCatalogNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.CodeCatalogNotFound, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeCatalogNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

	assert.Equal(t, errors.CodeInternal, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestError_Method
// ─────────────────────────────────────────────────────────────────────────────

func TestError_FormatWithoutDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInvalidDuration, "duration must be positive")
	assert.Equal(t, "[PRZ_001] duration must be positive", ae.Error())
}

func TestError_FormatWithDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeCatalogNotFound, "code not found").WithDetail("code=CPC-999")
	assert.Equal(t, "[CAT_001] code not found: code=CPC-999", ae.Error())
}

func TestError_FormatWithCause(t *testing.T) {
	t.Parallel()

	ae := errors.Wrap(stderrors.New("connection refused"), errors.CodeDBQueryError, "query failed")
	assert.Equal(t, "[COMMON_012] query failed | connection refused", ae.Error())
}

func TestError_EmptyMessageDoesNotPanic(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeOK, "")
	assert.NotPanics(t, func() { _ = ae.Error() })
}

func TestAppError_HTTPStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 422, errors.ComputationFailed("x").HTTPStatus())
	assert.Equal(t, 404, errors.New(errors.CodeCatalogNotFound, "x").HTTPStatus())
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWithDetail / TestWithCause
// ─────────────────────────────────────────────────────────────────────────────

func TestWithDetail_SetsDetailOnCopy(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.CodeNotFound, "resource missing")
	detailed := original.WithDetail("court=TJSP")

	assert.Empty(t, original.Detail)
	assert.Equal(t, "court=TJSP", detailed.Detail)
	assert.Equal(t, original.Code, detailed.Code)
}

func TestWithDetail_NilReceiverReturnsNil(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
}

func TestWithCause_AttachesCauseWithoutMutation(t *testing.T) {
	t.Parallel()

	root := stderrors.New("driver: bad connection")
	original := errors.New(errors.CodeDatabaseError, "database error")
	ae := original.WithCause(root)

	assert.Nil(t, original.Cause)
	assert.Equal(t, root, ae.Cause)
	assert.True(t, stderrors.Is(ae, root))
}

func TestWithCause_NilReceiverReturnsNil(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestIsCode / TestIsNotFound / TestGetCode
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_NestedChain(t *testing.T) {
	t.Parallel()

	root := errors.New(errors.CodeDBQueryError, "db down")
	wrapped := errors.Wrap(root, errors.CodeInternal, "service error")
	outer := fmt.Errorf("handler: %w", wrapped)

	assert.True(t, errors.IsCode(outer, errors.CodeDBQueryError))
	assert.True(t, errors.IsCode(outer, errors.CodeInternal))
	assert.False(t, errors.IsCode(outer, errors.CodeConflict))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
	assert.False(t, errors.IsCode(stderrors.New("plain"), errors.CodeInternal))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"generic", errors.NotFound("not found"), true},
		{"catalog", errors.New(errors.CodeCatalogNotFound, "missing"), true},
		{"wrapped catalog", fmt.Errorf("svc: %w", errors.New(errors.CodeCatalogNotFound, "missing")), true},
		{"internal", errors.Internal("boom"), false},
		{"stdlib", stderrors.New("x"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, errors.IsNotFound(tc.err))
		})
	}
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeCatalogNotFound, "missing")
	outer := errors.Wrap(inner, errors.CodeInternal, "service failed")

	assert.Equal(t, errors.CodeInternal, errors.GetCode(outer))
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestConvenienceFactories
// ─────────────────────────────────────────────────────────────────────────────

func TestConvenienceFactories_ReturnCorrectCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      *errors.AppError
		wantCode errors.ErrorCode
	}{
		{"NotFound", errors.NotFound("not found"), errors.CodeNotFound},
		{"InvalidParam", errors.InvalidParam("bad input"), errors.CodeInvalidParam},
		{"InvalidState", errors.InvalidState("bad state"), errors.CodeConflict},
		{"Internal", errors.Internal("server error"), errors.CodeInternal},
		{"Conflict", errors.Conflict("duplicate"), errors.CodeConflict},
		{"RateLimit", errors.RateLimit("slow down"), errors.CodeRateLimit},
		{"NotImplemented", errors.NotImplemented("later"), errors.CodeNotImplemented},
		{"ComputationFailed", errors.ComputationFailed("manual"), errors.CodeComputationError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.NotNil(t, tc.err)
			assert.Equal(t, tc.wantCode, tc.err.Code)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

func TestStdlib_ErrorsAs_ExtractsAppError(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.ErrCodeCalendarUnreadable, "calendar store offline")
	wrapped := fmt.Errorf("snapshot: %w", original)

	var ae *errors.AppError
	require.True(t, stderrors.As(wrapped, &ae))
	assert.Equal(t, errors.ErrCodeCalendarUnreadable, ae.Code)
}

//Personal.AI order the ending
