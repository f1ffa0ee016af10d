// Package meta loads YAML documents - typically runtime configuration - from
// URL-addressed storage. Backed by viant/afs, it accepts plain file paths as
// well as scheme-qualified URLs (file://, s3://, gs://, mem://...).
package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads documents relative to an optional base URL.
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
}

// New creates a meta service. baseURL may be empty, in which case locations
// are used as-is.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, fsOptions: options}
}

// Load downloads the document at location and unmarshals it into target.
func (s *Service) Load(ctx context.Context, location string, target any) error {
	URL := s.resolve(location)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.fsOptions...)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", URL, err)
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", URL, err)
	}
	return nil
}

// resolve joins relative locations with the base URL; absolute paths and
// scheme-qualified URLs pass through unchanged.
func (s *Service) resolve(location string) string {
	if s.baseURL == "" || strings.Contains(location, "://") || strings.HasPrefix(location, "/") {
		return location
	}
	return url.Join(s.baseURL, location)
}
