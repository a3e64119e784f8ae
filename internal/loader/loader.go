// Package loader discovers SQL sources on disk and turns them into query
// strings for analysis. Plain .sql files contribute their whole content;
// MyBatis mapper .xml files contribute one query per statement element.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/joingraph/pkg/mybatis"
)

// readConcurrency caps parallel file reads.
const readConcurrency = 8

// Source is one analyzed file and the queries extracted from it.
type Source struct {
	Path    string
	Queries []string
}

// Load discovers .sql and .xml files under the given paths and extracts
// their queries. Files are read concurrently but returned in sorted path
// order. Unreadable or unparseable files are logged and skipped; only
// path discovery itself can fail the call.
func Load(ctx context.Context, paths []string, logger *slog.Logger) ([]Source, error) {
	files, err := discover(paths, logger)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	results := make([]*Source, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(readConcurrency)

	for i, path := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := loadFile(path)
			if err != nil {
				logger.Warn("skipping file", "path", path, "error", err)
				return nil
			}
			results[i] = src
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(results))
	for _, src := range results {
		if src == nil || len(src.Queries) == 0 {
			continue
		}
		sources = append(sources, *src)
	}
	logger.Debug("loaded SQL sources", "files", len(files), "with_queries", len(sources))
	return sources, nil
}

// discover expands each path into the .sql and .xml files beneath it.
// A path naming a file directly is taken as-is. Entries that cannot be
// read mid-walk are logged and skipped; only the top-level paths
// themselves must exist.
func discover(paths []string, logger *slog.Logger) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("skipping unreadable entry", "path", p, "error", err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(p)) {
			case ".sql", ".xml":
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	}
	return files, nil
}

func loadFile(path string) (*Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		stmts, err := mybatis.ExtractFile(path)
		if err != nil {
			return nil, err
		}
		queries := make([]string, 0, len(stmts))
		for _, stmt := range stmts {
			if stmt.SQL != "" {
				queries = append(queries, stmt.SQL)
			}
		}
		return &Source{Path: path, Queries: queries}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sql := strings.TrimSpace(string(content))
	if sql == "" {
		return &Source{Path: path}, nil
	}
	return &Source{Path: path, Queries: []string{sql}}, nil
}
