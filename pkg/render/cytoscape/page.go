package cytoscape

import "html/template"

type pageData struct {
	Title     string
	Container string
	Scripts   []string
	ReloadURL string
	Datastar  string
	Nodes     int
	Edges     int
	Config    pageConfig
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  html, body { margin: 0; height: 100%; background: #10141f; color: #e4f7fb; font-family: system-ui, sans-serif; }
  header { position: absolute; top: 12px; left: 16px; z-index: 1; }
  header h1 { margin: 0; font-size: 18px; font-weight: 600; }
  header p { margin: 4px 0 0; font-size: 12px; opacity: 0.6; }
  .graph { position: absolute; inset: 0; }
</style>
{{- range .Scripts}}
<script src="{{.}}"></script>
{{- end}}
{{- if .ReloadURL}}
<script type="module" src="{{.Datastar}}"></script>
{{- end}}
</head>
<body{{if .ReloadURL}} data-init="@get('{{.ReloadURL}}')"{{end}}>
<header>
  <h1>{{.Title}}</h1>
  <p>{{.Nodes}} nodes, {{.Edges}} edges</p>
</header>
<div id="{{.Container}}" class="graph"></div>
<script>
  const config = {{.Config}};
  cytoscape({
    container: document.getElementById(config.container),
    elements: config.elements,
    layout: config.layout,
    style: config.style,
  });
</script>
</body>
</html>
`))
