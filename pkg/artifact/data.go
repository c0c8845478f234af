package artifact

import (
	"strings"
	"time"
)

// Data is the immutable metadata snapshot for one Record. It is fetched once
// per evaluation and shared read-only across all metric computations.
type Data struct {
	Model    *ModelInfo     `json:"model,omitempty"`
	Datasets []*DatasetInfo `json:"datasets,omitempty"`
	Repos    []*RepoInfo    `json:"repos,omitempty"`
}

// ModelInfo holds hub metadata for a model repository.
type ModelInfo struct {
	ID            string      `json:"id"`
	Downloads     int64       `json:"downloads"`
	Likes         int64       `json:"likes"`
	Tags          []string    `json:"tags,omitempty"`
	LastModified  time.Time   `json:"last_modified,omitzero"`
	Files         []FileEntry `json:"files,omitempty"`
	HasModelIndex bool        `json:"has_model_index"`
	Readme        string      `json:"readme,omitempty"`
}

// FileEntry is one file in a hub repository listing.
type FileEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// weightExtensions are file suffixes counted as model weights.
var weightExtensions = []string{".safetensors", ".bin", ".pt", ".pth", ".h5", ".onnx", ".gguf", ".ckpt", ".msgpack"}

// WeightBytes returns the total size of weight files in the repository.
func (m *ModelInfo) WeightBytes() int64 {
	var total int64
	for _, f := range m.Files {
		lower := strings.ToLower(f.Path)
		for _, ext := range weightExtensions {
			if strings.HasSuffix(lower, ext) {
				total += f.Size
				break
			}
		}
	}
	return total
}

// LicenseTag returns the license identifier from the hub tags, or "".
func (m *ModelInfo) LicenseTag() string {
	for _, tag := range m.Tags {
		if after, ok := strings.CutPrefix(tag, "license:"); ok {
			return after
		}
	}
	return ""
}

// DatasetInfo holds hub metadata for a dataset repository.
type DatasetInfo struct {
	ID        string   `json:"id"`
	Downloads int64    `json:"downloads"`
	Likes     int64    `json:"likes"`
	Tags      []string `json:"tags,omitempty"`
	Readme    string   `json:"readme,omitempty"`
}

// RepoInfo holds forge metadata for a linked code repository.
type RepoInfo struct {
	FullName     string   `json:"full_name"`
	Stars        int64    `json:"stars"`
	Contributors int      `json:"contributors"`
	TopLevel     []string `json:"top_level,omitempty"` // top-level file and directory names
}

// HasTestsDir reports whether the repository has a conventional test directory.
func (r *RepoInfo) HasTestsDir() bool {
	return r.hasAny("tests", "test", "spec", "testdata")
}

// HasCIConfig reports whether the repository carries CI configuration.
func (r *RepoInfo) HasCIConfig() bool {
	return r.hasAny(".github", ".gitlab-ci.yml", ".circleci", ".travis.yml", "azure-pipelines.yml", "Jenkinsfile")
}

// HasLintConfig reports whether the repository carries linter or formatter
// configuration.
func (r *RepoInfo) HasLintConfig() bool {
	return r.hasAny(".flake8", "setup.cfg", "tox.ini", "pyproject.toml", ".pylintrc", ".eslintrc", ".golangci.yml", ".pre-commit-config.yaml")
}

func (r *RepoInfo) hasAny(names ...string) bool {
	for _, entry := range r.TopLevel {
		lower := strings.ToLower(entry)
		for _, name := range names {
			if lower == strings.ToLower(name) {
				return true
			}
		}
	}
	return false
}
