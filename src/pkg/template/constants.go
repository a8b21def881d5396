package template

// DefaultCommentTemplate is the embedded default template for PR comments.
const (
	ToolCommentManifestToken = "$MANIFEST$"
	ToolCommentSignature     = `<!-- addin-manifestchk: $MANIFEST$ - auto-generated comment, please do not remove -->`
	FileNameCommentTemplate  = "comment.md.tmpl"
)

const DefaultCommentTemplate = `## Add-in manifest validation: {{ .Outcome }}

**Manifest:** ` + "`{{ .ManifestName }}`" + ` | **Checked:** {{ .Timestamp.Format "2006-01-02 15:04:05 UTC" }}
{{- if .Failure }}

The manifest could not be validated ({{ .Failure.Kind }}{{ if .Failure.StatusCode }}, status {{ .Failure.StatusCode }}{{ end }}).
{{- end }}
{{- if .Report }}
{{- if .Report.Errors }}

### Errors
{{ range $i, $e := .Report.Errors }}
{{ inc $i }}. **{{ $e.Title }}**: {{ $e.Detail }} ([link]({{ $e.Link }})){{ if $e.Code }} (code {{ $e.Code }}){{ end }}{{ if $e.Line }}, line {{ $e.Line }}{{ end }}{{ if $e.Column }}, column {{ $e.Column }}{{ end }}
{{- end }}
{{- end }}
{{- if .Report.Warnings }}

### Warnings
{{ range $i, $e := .Report.Warnings }}
{{ inc $i }}. **{{ $e.Title }}**: {{ $e.Detail }} ([link]({{ $e.Link }}))
{{- end }}
{{- end }}
{{- if .Report.Infos }}

### Notes
{{ range $e := .Report.Infos }}
- {{ $e.Title }}: {{ $e.Detail }} ([link]({{ $e.Link }}))
{{- end }}
{{- end }}
{{- end }}
{{- if .Platforms }}

### Supported platforms
{{ range .Platforms }}
- {{ . }}
{{- end }}
{{- end }}
{{- if .PolicyGate }}

### Report policy gate

| Policy | Level | Result |
|--------|-------|--------|
{{- range .PolicyGate.Results }}
| {{ .PolicyName }} | {{ .Level }} | {{ if .IsPassing }}pass{{ else }}fail{{ end }} |
{{- end }}
{{- end }}
`
