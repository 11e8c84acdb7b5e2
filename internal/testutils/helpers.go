// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conneroisu/tagtree/internal/tag"
	"github.com/stretchr/testify/require"
)

// MenuDocument is the document form of MenuTree.
const MenuDocument = `tag: ul
attrs:
  class: menu
children:
  - tag: li
    children:
      - tag: a
        attrs:
          href: /home
        children: [Home]
  - tag: li
    children:
      - tag: a
        children: [Away]
`

// MenuTree builds a two item list. The second link has no href.
func MenuTree() *tag.Tag {
	home := tag.New(tag.KindElement, "a", []tag.Attr{{Key: "href", Value: "/home"}}, tag.Text("Home"))
	away := tag.Element("a", tag.Text("Away"))

	return tag.New(tag.KindElement, "ul", []tag.Attr{{Key: "class", Value: "menu"}},
		tag.Element("li", home),
		tag.Element("li", away),
	)
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// AssertFileContent fails the test unless path holds exactly want.
func AssertFileContent(t *testing.T, path, want string) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, string(data), "unexpected content in %s", path)
}

// WaitForFileContent polls path until it holds want (useful for testing
// file watchers).
func WaitForFileContent(t *testing.T, path, want string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	var last string
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(path); err == nil {
			last = string(data)
			if last == want {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("%s did not reach the expected content within %v, last content %q", path, timeout, last)
}
