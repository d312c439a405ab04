package server

import "html/template"

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Document Structurer</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 60rem; color: #222; }
h1 { font-size: 1.4rem; }
form.upload { border: 1px solid #ccc; padding: 1rem; border-radius: 4px; }
label { display: block; margin: 0.6rem 0 0.2rem; font-weight: bold; }
input[type=text], input[type=password] { width: 24rem; padding: 0.3rem; }
button { margin-top: 1rem; padding: 0.4rem 1rem; }
.error { background: #fdd; border: 1px solid #c33; padding: 0.6rem; margin: 1rem 0; }
.notice { background: #eef; border: 1px solid #88a; padding: 0.6rem; }
table { border-collapse: collapse; margin-top: 1rem; width: 100%; }
th, td { border: 1px solid #999; padding: 0.4rem; vertical-align: top; text-align: left; }
th { background: #4F81BD; color: white; }
</style>
</head>
<body>
<h1>Document Structurer</h1>
<p>Transforms an unstructured PDF into a structured Excel file: key/value pairs, full data capture, original wording preserved.</p>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
<form class="upload" method="post" action="/process" enctype="multipart/form-data">
  <label for="api_key">OpenAI API key</label>
  <input type="password" id="api_key" name="api_key" autocomplete="off" placeholder="sk-...">
  <label for="document">PDF document</label>
  <input type="file" id="document" name="document" accept=".pdf,application/pdf" required>
  <button type="submit">Process Document</button>
</form>
{{if .Processed}}
<h2>Data Preview</h2>
{{if .Records}}
<table>
  <tr><th>key</th><th>value</th><th>comments</th></tr>
  {{range .Records}}<tr><td>{{.Key}}</td><td>{{.Value}}</td><td>{{.Comments}}</td></tr>
  {{end}}
</table>
{{else}}
<p class="notice">No records were extracted from this document. The download still contains the header row.</p>
{{end}}
<form method="post" action="/download">
  <input type="hidden" name="records" value="{{.RecordsJSON}}">
  <button type="submit">Download Formatted Excel</button>
</form>
{{end}}
</body>
</html>
`))

type pageData struct {
	Error       string
	Processed   bool
	Records     []recordRow
	RecordsJSON string
}

type recordRow struct {
	Key      string
	Value    string
	Comments string
}
