package es

import (
	"encoding/json"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const titleAnalyzer = "title_analyzer"

// Document wraps a stored record with the fields used for lookup and
// ordering. The record itself is kept verbatim and not indexed.
type Document struct {
	DocID     string          `json:"doc_id"`
	SortKey   string          `json:"sort_key"`
	Title     string          `json:"title,omitempty"`
	Modified  *time.Time      `json:"modified,omitempty"`
	IndexedAt time.Time       `json:"indexed_at"`
	Doc       json.RawMessage `json:"doc"`
}

type IndexBuilder struct{}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{}
}

func (b *IndexBuilder) mapToESDocument(env *storage.Envelope) Document {
	doc := Document{
		DocID:     env.ID,
		SortKey:   env.SortKey,
		Title:     env.Title,
		IndexedAt: time.Now().UTC(),
		Doc:       env.Raw,
	}
	if !env.Modified.IsZero() {
		modified := env.Modified.UTC()
		doc.Modified = &modified
	}
	return doc
}

func (b *IndexBuilder) buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				titleAnalyzer: types.StandardAnalyzer{
					Stopwords: []string{"_none_"},
				},
			},
		},
	}
}

func (b *IndexBuilder) buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"doc_id":     types.NewKeywordProperty(),
			"sort_key":   types.NewKeywordProperty(),
			"title":      b.createTextPropertyWithKeyword(titleAnalyzer),
			"modified":   types.NewDateProperty(),
			"indexed_at": types.NewDateProperty(),
			"doc":        b.createStoredOnlyProperty(),
		},
	}
}

func (b *IndexBuilder) createTextPropertyWithKeyword(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}

func (b *IndexBuilder) createStoredOnlyProperty() types.Property {
	enabled := false
	objProp := types.NewObjectProperty()
	objProp.Enabled = &enabled
	return objProp
}
