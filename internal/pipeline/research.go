package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ogulcanaydogan/aitools/internal/library"
	"github.com/ogulcanaydogan/aitools/internal/naming"
	"github.com/ogulcanaydogan/aitools/internal/report"
	"github.com/ogulcanaydogan/aitools/internal/sources"
	"github.com/ogulcanaydogan/aitools/internal/store"
	"github.com/ogulcanaydogan/aitools/pkg/types"
)

// Research runs a web-search-augmented query and files the answer in the
// library.
type Research struct {
	Searcher    Searcher
	Library     *library.Store
	// LibraryName is the path recorded in index entries, relative to the base
	// directory.
	LibraryName string
	Now         func() time.Time
	Logger      *zap.Logger
}

type ResearchOutcome struct {
	ArtifactPath string
	Entry        types.IndexEntry
}

func (r *Research) Run(ctx context.Context, req types.SearchRequest) (ResearchOutcome, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	// The query is recorded as given; a blank one still runs and slugs to "research".
	query := req.Query

	dir, err := store.EnsureDir(r.Library.Dir())
	if err != nil {
		return ResearchOutcome{}, err
	}

	logger.Debug("searching", zap.String("query", query), zap.String("model", req.Model))
	res, err := r.Searcher.Search(ctx, req)
	if err != nil {
		return ResearchOutcome{}, &ExternalError{Op: fmt.Sprintf("research %q", query), Err: err}
	}
	created := nowOr(r.Now)
	model := res.Model
	if model == "" {
		model = req.Model
	}

	ts := naming.TimestampID(created)
	path := store.UniquePath(dir, naming.ResearchFilename(ts, naming.Slugify(query)))
	cited := sources.Dedupe(res.Sources)

	doc := report.BuildResearchMarkdown(report.ResearchDoc{
		Query:     query,
		CreatedAt: naming.ISOTime(created),
		Model:     model,
		Text:      res.Text,
		Sources:   cited,
	})
	if err := store.WriteFile(path, []byte(doc)); err != nil {
		return ResearchOutcome{}, err
	}

	filename := filepath.Base(path)
	entry := types.IndexEntry{
		ID:        strings.TrimSuffix(filename, ".md"),
		Query:     query,
		File:      filepath.ToSlash(filepath.Join(r.LibraryName, filename)),
		CreatedAt: naming.ISOTime(created),
		Model:     model,
		Sources:   cited,
	}
	if err := r.Library.Append(entry); err != nil {
		logger.Warn("index update failed, artifact kept", zap.String("file", path), zap.Error(err))
	}
	return ResearchOutcome{ArtifactPath: path, Entry: entry}, nil
}
