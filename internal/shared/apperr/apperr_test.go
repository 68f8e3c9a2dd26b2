package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedError(t *testing.T) {
	base := New(KindConflict, "ORD004", "out of stock", nil)
	wrapped := fmt.Errorf("create order: %w", base)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, http.StatusConflict, KindOf(wrapped).HTTPStatus())
	assert.Same(t, base, As(wrapped))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Nil(t, As(errors.New("boom")))
}

func TestError_UnwrapAndMessage(t *testing.T) {
	cause := errors.New("no rows")
	err := New(KindNotFound, "PRD001", "Product not found", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Product not found: no rows", err.Error())
}
