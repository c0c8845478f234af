// Package artifact models the units under audit: model, dataset, and code
// URLs, and the metadata snapshots fetched for them.
package artifact

// Category classifies an audited URL.
type Category string

const (
	CategoryModel   Category = "MODEL"
	CategoryDataset Category = "DATASET"
	CategoryCode    Category = "CODE"
)

// URL is a parsed, categorized artifact URL.
type URL struct {
	Raw      string   `json:"url"`
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Platform string   `json:"platform"` // "huggingface", "github", "unknown"
	Owner    string   `json:"owner,omitempty"`
	Repo     string   `json:"repo,omitempty"`
}

// Record identifies one audited model together with its linked datasets and
// code repositories. Immutable once constructed for an evaluation pass.
type Record struct {
	Model     URL   `json:"model"`
	Datasets  []URL `json:"datasets,omitempty"`
	CodeRepos []URL `json:"code_repos,omitempty"`
}

// Name returns the record's display identifier (the model name).
func (r *Record) Name() string { return r.Model.Name }
