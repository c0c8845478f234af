// Package fetch assembles the artifact snapshot a scoring run operates on.
// All network reads happen here, up front; metric functions only ever see the
// immutable result.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mlaudit/mlaudit/internal/forge"
	"github.com/mlaudit/mlaudit/internal/hub"
	"github.com/mlaudit/mlaudit/pkg/artifact"
)

// Error marks a failure to retrieve an artifact. It sinks the record it
// belongs to but never the run.
type Error struct {
	Resource string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsFetchError reports whether err is a fetch failure.
func IsFetchError(err error) bool {
	var fe *Error
	return errors.As(err, &fe)
}

// Fetcher resolves an artifact record into the data snapshot metrics score.
type Fetcher interface {
	Fetch(ctx context.Context, rec artifact.Record) (*artifact.Data, error)
}

// ArtifactFetcher pulls model metadata from the Hugging Face Hub and linked
// repository metadata from GitHub.
type ArtifactFetcher struct {
	hub    *hub.Client
	forge  *forge.Client
	logger zerolog.Logger
}

// New creates a fetcher over the given clients.
func New(hubClient *hub.Client, forgeClient *forge.Client, logger zerolog.Logger) *ArtifactFetcher {
	return &ArtifactFetcher{
		hub:    hubClient,
		forge:  forgeClient,
		logger: logger.With().Str("component", "fetch").Logger(),
	}
}

// Fetch retrieves the model, its linked datasets, and its linked code repos.
// A missing model is fatal for the record. A dataset or repo that cannot be
// fetched is logged and dropped; scoring degrades instead of failing.
func (f *ArtifactFetcher) Fetch(ctx context.Context, rec artifact.Record) (*artifact.Data, error) {
	modelID := rec.Model.Repo
	if rec.Model.Owner != "" {
		modelID = rec.Model.Owner + "/" + rec.Model.Repo
	}

	model, err := f.hub.Model(ctx, modelID)
	if err != nil {
		return nil, &Error{Resource: rec.Model.Raw, Err: err}
	}

	data := &artifact.Data{
		Model:    model,
		Datasets: make([]*artifact.DatasetInfo, len(rec.Datasets)),
		Repos:    make([]*artifact.RepoInfo, len(rec.CodeRepos)),
	}

	var wg sync.WaitGroup
	for i, ds := range rec.Datasets {
		wg.Add(1)
		go func(i int, ds artifact.URL) {
			defer wg.Done()
			info, err := f.hub.Dataset(ctx, ds.Name)
			if err != nil {
				f.logger.Warn().Err(err).Str("dataset", ds.Raw).Msg("dataset fetch failed, scoring without it")
				return
			}
			data.Datasets[i] = info
		}(i, ds)
	}
	for i, repo := range rec.CodeRepos {
		wg.Add(1)
		go func(i int, repo artifact.URL) {
			defer wg.Done()
			info, err := f.forge.Repo(ctx, repo.Owner, repo.Repo)
			if err != nil {
				f.logger.Warn().Err(err).Str("repo", repo.Raw).Msg("repo fetch failed, scoring without it")
				return
			}
			data.Repos[i] = info
		}(i, repo)
	}
	wg.Wait()

	data.Datasets = compactDatasets(data.Datasets)
	data.Repos = compactRepos(data.Repos)
	return data, nil
}

func compactDatasets(in []*artifact.DatasetInfo) []*artifact.DatasetInfo {
	out := in[:0]
	for _, d := range in {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

func compactRepos(in []*artifact.RepoInfo) []*artifact.RepoInfo {
	out := in[:0]
	for _, r := range in {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
