package render

import "text/template"

var fileTemplate = template.Must(template.New("weights").Parse(`// Code generated by weight-forge. DO NOT EDIT.
//
// Module: {{.Module}}
// Trial: steps={{.Steps}}, repeats={{.Repeats}}
// Generated: {{.GeneratedAt}}
//
// Time coefficients are picosecond ticks; read/write coefficients are
// operation counts and proof-size coefficients are bytes. Coefficients
// are rounded up from the raw fit.

package {{.Package}}
{{range .Funcs}}
// {{range $i, $c := .Comments}}{{if $i}}
// {{end}}{{$c}}{{end}}
func {{.Name}}({{.ParamList}}) int64 {
	weight := int64({{.Base}})
{{- range .Terms}}
	weight += int64({{.Coeff}}) * {{.Param}}
{{- end}}
	return weight
}
{{end}}`))
