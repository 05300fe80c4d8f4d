package controllers

import (
	"bytes"
	"net/http"
	"net/url"
	"text/template"

	"chatbot-backend/config"

	"github.com/gin-gonic/gin"
)

// The embed script injects a fixed-position iframe into the host page and
// relays the widget's open/close state, accepting postMessage events from
// the widget origin only.
const widgetScript = `(function() {
    var WIDGET_URL = '{{.WidgetURL}}';
    var WIDGET_ORIGIN = '{{.WidgetOrigin}}';

    var container = document.createElement('div');
    container.id = 'chat-widget-container';
    document.body.appendChild(container);

    var iframe = document.createElement('iframe');
    iframe.src = WIDGET_URL;
    iframe.style.position = 'fixed';
    iframe.style.bottom = '20px';
    iframe.style.right = '20px';
    iframe.style.width = '400px';
    iframe.style.height = '600px';
    iframe.style.border = 'none';
    iframe.style.zIndex = '999999';
    container.appendChild(iframe);

    window.addEventListener('message', function(event) {
        if (event.origin !== WIDGET_ORIGIN) {
            return;
        }
        if (event.data && event.data.type === 'chat-widget:state') {
            iframe.style.width = event.data.open ? '470px' : '80px';
            iframe.style.height = event.data.open ? '700px' : '80px';
        }
    });
})();
`

var widgetScriptTmpl = template.Must(template.New("widget").Parse(widgetScript))

// widgetOrigin reduces the widget URL to its origin for the postMessage
// check.
func widgetOrigin(widgetURL string) string {
	u, err := url.Parse(widgetURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return widgetURL
	}
	return u.Scheme + "://" + u.Host
}

// WidgetScriptHandler serves the embeddable widget script.
func WidgetScriptHandler(c *gin.Context) {
	var buf bytes.Buffer
	err := widgetScriptTmpl.Execute(&buf, map[string]string{
		"WidgetURL":    config.WidgetURL,
		"WidgetOrigin": widgetOrigin(config.WidgetURL),
	})
	if err != nil {
		config.Log.Error("Failed to render widget script: ", err)
		c.String(http.StatusInternalServerError, "failed to render widget script")
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", buf.Bytes())
}
