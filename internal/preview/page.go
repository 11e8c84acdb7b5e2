package preview

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const pageHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>tagtree preview</title>
<style>#tagtree-error{display:none;position:fixed;bottom:0;left:0;right:0;margin:0;padding:1em;background:#fee;color:#900;white-space:pre-wrap;font:13px monospace}</style>
</head>
<body>
`

const reloadScript = `<script>
(function () {
  var overlay = document.getElementById("tagtree-error");
  function show(text) {
    overlay.textContent = text;
    overlay.style.display = text ? "block" : "none";
  }
  show(overlay.textContent);
  function connect() {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(scheme + location.host + "/ws");
    ws.onmessage = function (event) {
      var msg = JSON.parse(event.data);
      if (msg.type === "reload") {
        location.reload();
      } else if (msg.type === "error") {
        show(msg.content);
      }
    };
    ws.onclose = function () {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
</script>
`

// page wraps body in a document that reloads itself on updates. A non-empty
// lastError is shown in an overlay on top of the last good rendering.
func page(body templ.Component, lastError string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n<pre id=\"tagtree-error\">"+templ.EscapeString(lastError)+"</pre>\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, reloadScript); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}
