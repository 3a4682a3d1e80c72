package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/ru"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// The mapping is designed with these priorities:
//  1. Prefix matching on usernames and tags for as-you-type search
//  2. Full-text search on post content with Russian stemming
//     (the primary content language)
//  3. Exact keyword matching for the type filter
func buildIndexMapping() mapping.IndexMapping {
	// Create the index mapping
	indexMapping := bleve.NewIndexMapping()

	// Russian analyzer as default for text fields
	indexMapping.DefaultAnalyzer = ru.AnalyzerName

	// Create document mapping
	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Username - primary user search target; simple analyzer keeps one
	// lowercased term so prefix queries work
	usernameFieldMapping := bleve.NewTextFieldMapping()
	usernameFieldMapping.Analyzer = simple.Name
	usernameFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("username", usernameFieldMapping)

	// Display name - searchable, stored for result rendering
	displayNameFieldMapping := bleve.NewTextFieldMapping()
	displayNameFieldMapping.Analyzer = simple.Name
	displayNameFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("display_name", displayNameFieldMapping)

	// Bio - searchable but not stored
	bioFieldMapping := bleve.NewTextFieldMapping()
	bioFieldMapping.Analyzer = ru.AnalyzerName
	bioFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("bio", bioFieldMapping)

	// Post content - searchable with Russian stemming, stored for excerpts
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = ru.AnalyzerName
	contentFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("content", contentFieldMapping)

	// --- Keyword fields (exact match) ---

	// Type - for filtering by document type
	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Author ID - for scoping post search to one author
	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("author_id", authorFieldMapping)

	// Tags - keyword analyzer keeps compound slugs intact (e.g. "open-source")
	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	tagsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	// Tag - the slug of a tag document
	tagFieldMapping := bleve.NewTextFieldMapping()
	tagFieldMapping.Analyzer = keyword.Name
	tagFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("tag", tagFieldMapping)

	// --- Numeric fields ---

	// Timestamp - for sorting by recency
	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	// Register the document mapping
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
