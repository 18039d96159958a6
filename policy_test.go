package webpo_test

import (
	"testing"

	"github.com/fwojciec/webpo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownFieldAction_Validate(t *testing.T) {
	t.Parallel()

	for _, a := range []webpo.UnknownFieldAction{"", webpo.UnknownFieldIgnore, webpo.UnknownFieldWarn, webpo.UnknownFieldRaise} {
		require.NoError(t, a.Validate(), "action %q", a)
	}

	err := webpo.UnknownFieldAction("explode").Validate()

	assert.Equal(t, webpo.EINVALID, webpo.ErrorCode(err))
	assert.Contains(t, webpo.ErrorMessage(err), `"explode"`)
}

func TestSelectFields(t *testing.T) {
	t.Parallel()

	t.Run("no names selects nothing", func(t *testing.T) {
		t.Parallel()

		p := webpo.SelectFields()

		assert.NotNil(t, p.Include)
		assert.Empty(t, p.Include)
		assert.Equal(t, webpo.UnknownFieldRaise, p.OnUnknownField)
	})

	t.Run("keeps the given names", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"a", "b"}, webpo.SelectFields("a", "b").Include)
	})
}

func TestHTTPResponse(t *testing.T) {
	t.Parallel()

	t.Run("treats responses without content type as HTML", func(t *testing.T) {
		t.Parallel()

		r := &webpo.HTTPResponse{Body: []byte("<p>hi</p>")}

		assert.True(t, r.IsHTML())
		assert.Equal(t, "<p>hi</p>", r.Text())
	})

	t.Run("detects non-HTML content types", func(t *testing.T) {
		t.Parallel()

		r := &webpo.HTTPResponse{Header: map[string][]string{"Content-Type": {"application/json"}}}

		assert.False(t, r.IsHTML())
	})
}
