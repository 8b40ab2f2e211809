package theme

import (
	"git.home.luguber.info/inful/docreflect/internal/markdown"
	"git.home.luguber.info/inful/docreflect/internal/model"
	"git.home.luguber.info/inful/docreflect/internal/render"
)

// fillSearchFields writes the base comment and document text for every
// search entry. It runs before plugin index listeners, which may override
// or drop what it filled.
func (t *Theme) fillSearchFields(e *render.IndexEvent) error {
	if e.Project == nil {
		return nil
	}
	for i, res := range e.Results {
		refl := e.Project.ByID(res.ID)
		if refl == nil {
			continue
		}
		switch r := refl.(type) {
		case *model.Document:
			if t.Options.SearchDocuments {
				if text := searchText(r.Content); text != "" {
					e.SetField(i, render.FieldDocument, text)
				}
			}
		default:
			if t.Options.SearchComments {
				if text := searchText(refl.Base().Comment.Parts()); text != "" {
					e.SetField(i, render.FieldComment, text)
				}
			}
		}
	}
	return nil
}

// searchText renders parts to HTML and strips the markup again, so indexed
// text matches what readers see rather than raw markdown.
func searchText(parts []model.Part) string {
	if len(parts) == 0 {
		return ""
	}
	plain := model.PlainText(parts)
	html, err := markdown.Convert([]byte(plain))
	if err != nil {
		return plain
	}
	return render.ExtractText(string(html))
}
