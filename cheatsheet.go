package inputcore

import (
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig"
)

type (
	cheatsheetSection struct {
		Context string
		Rows    []cheatsheetRow
	}

	cheatsheetRow struct {
		Action ActionID
		Keys   []string
	}
)

const cheatsheetTemplate = `{{- range . }}
{{ .Context | upper }}
{{ repeat (len .Context) "=" }}
{{- range .Rows }}
{{ printf "%-16s" .Action }} {{ .Keys | join ", " | default "(unbound)" }}
{{- end }}
{{ end -}}
`

var cheatsheet = template.Must(template.New("cheatsheet").Funcs(sprig.TxtFuncMap()).Parse(cheatsheetTemplate))

// Cheatsheet writes a plain text listing of all the actions of the catalog
// and their bindings, grouped by the context in which they fire.
func (s *BindingStore) Cheatsheet(w io.Writer) error {
	var sections []cheatsheetSection
	for c, name := range contextNames {
		sec := cheatsheetSection{Context: name}
		for id := range s.catalog.Actions {
			ctx := ActionContext(c)
			if ctx == GlobalContext && !s.catalog.Allowed(id, GlobalContext) {
				continue
			}
			if ctx != GlobalContext && !s.catalog.specific(id, ctx) {
				continue
			}
			row := cheatsheetRow{Action: id}
			for _, b := range s.Bindings(id) {
				row.Keys = append(row.Keys, b.String())
			}
			sec.Rows = append(sec.Rows, row)
		}
		if len(sec.Rows) > 0 {
			sections = append(sections, sec)
		}
	}
	if err := cheatsheet.Execute(w, sections); err != nil {
		return fmt.Errorf("could not execute cheatsheet template: %w", err)
	}
	return nil
}
