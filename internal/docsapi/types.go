package docsapi

// Document is one record of the backend collection. Fields the backend does
// not send stay at their zero value.
type Document struct {
	ID          string   `json:"id"`
	URI         string   `json:"uri,omitempty"`
	Title       string   `json:"title"`
	Abstract    string   `json:"abstract,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Date        string   `json:"date,omitempty"`
	Type        string   `json:"type,omitempty"`
	Language    string   `json:"language,omitempty"`
	SubjectsUDC []string `json:"subjects_udc,omitempty"`
	SubjectsFOS []string `json:"subjects_fos,omitempty"`
	Grade       string   `json:"grade,omitempty"`
	Collections []string `json:"collections,omitempty"`
}

type DocumentPage struct {
	Documents  []Document `json:"documents"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
}

type DocumentResponse struct {
	Document Document `json:"document"`
}

type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

type SimilarResult struct {
	DocumentID string           `json:"document_id"`
	Results    []ScoredDocument `json:"results"`
}

type SearchResult struct {
	Query   string           `json:"query"`
	Results []ScoredDocument `json:"results"`
}

type CacheStats struct {
	MemoryCachedItems int    `json:"memory_cached_items"`
	DiskCachedItems   int    `json:"disk_cached_items"`
	CacheDirectory    string `json:"cache_directory"`
}

type Stats struct {
	TotalDocuments int        `json:"total_documents"`
	CacheStats     CacheStats `json:"cache_stats"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}
