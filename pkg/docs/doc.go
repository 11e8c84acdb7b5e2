// Package docs documents the tagtree command line tool.
//
// tagtree builds, queries and renders markup tag trees. A tree is made of
// elements, text nodes and fragments. Elements carry ordered attributes
// and bare arguments and render as indented markup.
//
// # Quick Start
//
//	// Render a document to stdout
//	tagtree render page.yml
//
//	// Minify and write atomically, re-rendering on every save
//	tagtree render page.yml --format minified -o dist/index.html --watch
//
//	// List every <li> with its depth, innermost first
//	tagtree find page.yml li
//
//	// Print the href of every link
//	tagtree find page.yml a --attr href
//
//	// Convert HTML into a document
//	tagtree import index.html -o page.yml
//
//	// Live preview in the browser
//	tagtree serve page.yml
//
// # Documents
//
// A document is YAML or JSON. Each node is a mapping with exactly one of
// tag, text or fragment. A bare string in a children list is a text node
// and a top-level list is a fragment.
//
//	tag: ul
//	attrs:
//	  class: menu
//	args: [hidden]
//	broadcast: [data-tree]
//	children:
//	  - tag: li
//	    children: [Home]
//
// args are added to the node itself. broadcast values are added to the
// node and every descendant that has no arguments yet.
//
// # Rendering
//
// Opening tags are never indented. Text is indented two spaces per level
// of depth, and closing tags by the depth of their element. Fragments add
// no markup and no depth. input, img, meta, br, hr and link have no
// closing tag when empty.
//
//	<ul class="menu" hidden>
//	<li data-tree>
//	    Home
//	  </li>
//	</ul>
//
// # Configuration
//
// tagtree reads configuration from several sources, highest priority
// first:
//
//   - Command-line flags
//   - Environment variables (TAGTREE_RENDER_FORMAT, TAGTREE_PREVIEW_PORT, ...)
//   - Configuration file (.tagtree.yml, --config or TAGTREE_CONFIG_FILE)
//
// Example configuration:
//
//	render:
//	  format: pretty
//	  output: dist/index.html
//	  args: [data-tree]
//
//	watch:
//	  debounce: 100ms
//
//	preview:
//	  host: localhost
//	  port: 7331
//	  allowed_origins:
//	    - "https://app.example.com"
//
//	log:
//	  level: info
//	  format: text
//	  dir: .tagtree/logs
//
// For more information, see the individual package documentation.
package docs
