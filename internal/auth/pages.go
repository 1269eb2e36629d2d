package auth

import (
	"bytes"
	"html/template"
)

const (
	titleSuccess = "OAuth Success"
	titleError   = "OAuth Error"
)

// callbackPageTemplate is rendered into the OAuth popup. Values placed inside
// the script are escaped for the JS context by html/template.
var callbackPageTemplate = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
</head>
<body>
  <p>{{.Message}}</p>
  <script>
    (function () {
      var payload = {{.Payload}};
      var targetOrigin = {{.TargetOrigin}};
      if (window.opener) {
        window.opener.postMessage(payload, targetOrigin);
      }
      window.close();
    })();
  </script>
</body>
</html>
`))

type callbackPage struct {
	Title        string
	Message      string
	Payload      any
	TargetOrigin string
}

type successPayload struct {
	AccessToken string `json:"accessToken"`
	AthleteID   int64  `json:"athleteId"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func renderCallbackPage(page callbackPage) ([]byte, error) {
	var buf bytes.Buffer
	if err := callbackPageTemplate.Execute(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
