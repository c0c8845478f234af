package artifact

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Parse categorizes a raw URL as a model, dataset, or code artifact.
// Hugging Face URLs resolve to models or datasets, GitHub URLs to code, and
// anything else falls back to an unknown-platform dataset.
func Parse(raw string) (URL, error) {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil {
		return URL{}, fmt.Errorf("parse url %q: %w", raw, err)
	}

	host := parsed.Hostname()
	switch {
	case strings.Contains(host, "huggingface.co"):
		return parseHuggingFace(raw, parsed)
	case strings.Contains(host, "github.com"):
		return parseGitHub(raw, parsed)
	default:
		return URL{
			Raw:      raw,
			Category: CategoryDataset,
			Name:     lastSegment(raw),
			Platform: "unknown",
		}, nil
	}
}

func parseHuggingFace(raw string, parsed *url.URL) (URL, error) {
	parts := splitPath(parsed.Path)
	if len(parts) == 0 {
		return URL{}, fmt.Errorf("invalid Hugging Face URL: %s", raw)
	}

	// Dataset route is /datasets/<owner>/<repo>.
	if parts[0] == "datasets" && len(parts) >= 2 {
		u := URL{Raw: raw, Category: CategoryDataset, Platform: "huggingface", Owner: parts[1]}
		if len(parts) > 2 {
			u.Repo = parts[2]
			u.Name = u.Owner + "/" + u.Repo
		} else {
			u.Name = u.Owner
		}
		return u, nil
	}

	u := URL{Raw: raw, Category: CategoryModel, Platform: "huggingface", Owner: parts[0]}
	if len(parts) > 1 {
		u.Repo = parts[1]
		u.Name = u.Repo
	} else {
		u.Name = lastSegment(raw)
		u.Repo = u.Owner
		u.Owner = ""
	}
	return u, nil
}

func parseGitHub(raw string, parsed *url.URL) (URL, error) {
	parts := splitPath(parsed.Path)
	if len(parts) < 2 {
		return URL{}, fmt.Errorf("invalid GitHub URL: %s", raw)
	}
	return URL{
		Raw:      raw,
		Category: CategoryCode,
		Name:     parts[0] + "/" + parts[1],
		Platform: "github",
		Owner:    parts[0],
		Repo:     strings.TrimSuffix(parts[1], ".git"),
	}, nil
}

// SplitInput tokenizes a URL input file: entries may be separated by commas,
// whitespace, or newlines in any combination.
func SplitInput(content string) []string {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// BuildRecords links datasets and code repositories to the models they
// precede in the input. Pending resources are not cleared after a model:
// they may apply to more than one.
func BuildRecords(urls []string) ([]*Record, error) {
	var (
		records         []*Record
		pendingDatasets []URL
		pendingCode     []URL
	)

	for _, raw := range urls {
		u, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		switch u.Category {
		case CategoryDataset:
			pendingDatasets = append(pendingDatasets, u)
		case CategoryCode:
			pendingCode = append(pendingCode, u)
		case CategoryModel:
			records = append(records, &Record{
				Model:     u,
				Datasets:  relevantResources(u, pendingDatasets),
				CodeRepos: relevantResources(u, pendingCode),
			})
		}
	}
	return records, nil
}

// relevantResources selects resources linked to a model by name-token overlap
// or shared owner, falling back to the most recent entries.
func relevantResources(model URL, resources []URL) []URL {
	if len(resources) == 0 {
		return nil
	}

	modelParts := nameParts(model.Name)
	var relevant []URL
	for _, res := range resources {
		if overlaps(modelParts, nameParts(res.Name)) || (model.Owner != "" && model.Owner == res.Owner) {
			relevant = append(relevant, res)
		}
	}

	if len(relevant) == 0 {
		if len(resources) >= 2 {
			return append([]URL(nil), resources[len(resources)-2:]...)
		}
		return append([]URL(nil), resources...)
	}
	return relevant
}

var namePartSep = regexp.MustCompile(`[/_\-\s.]+`)
var alpha = regexp.MustCompile(`^[a-z]+$`)

func nameParts(name string) map[string]bool {
	parts := map[string]bool{}
	for _, p := range namePartSep.Split(strings.ToLower(name), -1) {
		if len(p) > 2 && alpha.MatchString(p) {
			parts[p] = true
		}
	}
	return parts
}

func overlaps(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func splitPath(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

func lastSegment(raw string) string {
	trimmed := strings.TrimRight(raw, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 && i+1 < len(trimmed) {
		return trimmed[i+1:]
	}
	return raw
}
