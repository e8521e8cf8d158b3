package page

import "html/template"

const documentHead = `<!doctype html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>{{.Title}}</title>
</head>
`

var pageTemplate = template.Must(template.New("page").Parse(documentHead + `<body>
<main style="padding: 1rem">
<h1>{{.Heading}}</h1>
<p>{{.Message}}</p>
</main>
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(documentHead + `<body>
<main style="padding: 1rem">
<h1>{{.Heading}}</h1>
<p role="alert">The backend is unavailable.</p>
<p><small>{{.Status}} {{.Reason}}{{if .RequestID}} &middot; request {{.RequestID}}{{end}}</small></p>
</main>
</body>
</html>
`))
