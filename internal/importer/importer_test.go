package importer

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	tterrors "github.com/conneroisu/tagtree/internal/errors"
	"github.com/conneroisu/tagtree/internal/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	root, err := FromString(`<ul class="menu" id="main">
  <li>One</li>
  <li><a href="/two" rel="next">Two</a></li>
</ul>
<!-- dropped -->`)
	require.NoError(t, err)

	assert.True(t, root.IsFragment())
	require.Len(t, root.Children(), 1)

	ul := root.Children()[0]
	assert.Equal(t, "ul", ul.Name)
	assert.Equal(t, []tag.Attr{{Key: "class", Value: "menu"}, {Key: "id", Value: "main"}}, ul.Attrs())
	require.Len(t, ul.Children(), 2, "whitespace-only text between items is dropped")

	a := ul.FindByTag("a")
	require.Len(t, a, 1)
	assert.Equal(t, []tag.Attr{{Key: "href", Value: "/two"}, {Key: "rel", Value: "next"}}, a[0].Attrs())

	txt, err := a[0].Child("Two")
	require.NoError(t, err)
	assert.True(t, txt.IsText())
	assert.Equal(t, 3, txt.Depth())
}

func TestFromStringText(t *testing.T) {
	t.Run("text is trimmed", func(t *testing.T) {
		root, err := FromString("<p>\n   hello world  \n</p>")
		require.NoError(t, err)

		p := root.Children()[0]
		require.Len(t, p.Children(), 1)
		assert.Equal(t, "hello world", p.Children()[0].Name)
	})

	t.Run("text is normalized to NFC", func(t *testing.T) {
		root, err := FromString("<p>cafe\u0301</p>")
		require.NoError(t, err)

		assert.Equal(t, "caf\u00e9", root.Children()[0].Children()[0].Name)
	})

	t.Run("entities are decoded", func(t *testing.T) {
		root, err := FromString("<p>a &amp; b</p>")
		require.NoError(t, err)

		assert.Equal(t, "a & b", root.Children()[0].Children()[0].Name)
	})

	t.Run("top-level text", func(t *testing.T) {
		root, err := FromString("loose <br> words")
		require.NoError(t, err)

		require.Len(t, root.Children(), 3)
		assert.True(t, root.Children()[0].IsText())
		assert.Equal(t, "br", root.Children()[1].Name)
		assert.Equal(t, "words", root.Children()[2].Name)
	})
}

func TestFromStringVoidElements(t *testing.T) {
	root, err := FromString(`<input type="text" disabled>`)
	require.NoError(t, err)

	input := root.Children()[0]
	assert.Equal(t, "", input.AttrOr("disabled", "unset"))
	assert.Equal(t, `<input type="text" disabled="" >`, input.String())
}

func TestFromStringEmpty(t *testing.T) {
	root, err := FromString("   ")
	require.NoError(t, err)

	assert.True(t, root.IsFragment())
	assert.Empty(t, root.Children())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestFromHTMLReadError(t *testing.T) {
	_, err := FromHTML(failingReader{})
	require.Error(t, err)
	assert.Equal(t, tterrors.ErrCodeInvalidMarkup, tterrors.GetErrorCode(err))
}

func TestFromComponent(t *testing.T) {
	t.Run("renders and imports", func(t *testing.T) {
		c := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, `<div class="card"><h2>Title</h2></div>`)
			return err
		})

		root, err := FromComponent(context.Background(), c)
		require.NoError(t, err)

		h2 := root.FindByTag("h2")
		require.Len(t, h2, 1)
		assert.Equal(t, "card", h2[0].Parent().AttrOr("class", ""))
	})

	t.Run("a tree is itself a component", func(t *testing.T) {
		src := tag.Element("section", tag.Element("p", tag.Text("x")))

		root, err := FromComponent(context.Background(), src)
		require.NoError(t, err)

		assert.Equal(t, src.String(), root.Children()[0].String())
	})

	t.Run("render failure", func(t *testing.T) {
		c := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return errors.New("template broke")
		})

		_, err := FromComponent(context.Background(), c)
		require.Error(t, err)
		assert.Equal(t, tterrors.ErrCodeRenderFailed, tterrors.GetErrorCode(err))
		assert.Contains(t, err.Error(), "template broke")
	})

	t.Run("nil component", func(t *testing.T) {
		_, err := FromComponent(context.Background(), nil)
		assert.Error(t, err)
	})
}
