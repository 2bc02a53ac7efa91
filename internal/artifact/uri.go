package artifact

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gkcalat/pipelines/internal/models"
)

const (
	SchemeMinio = "minio"
	SchemeGCS   = "gs"
	SchemeFile  = "file"
)

// Location is a parsed artifact URI. Bucket is empty for the file scheme.
type Location struct {
	Scheme string
	Bucket string
	Key    string
}

func (l Location) String() string {
	if l.Scheme == SchemeFile {
		return "file://" + l.Key
	}
	return fmt.Sprintf("%s://%s/%s", l.Scheme, l.Bucket, l.Key)
}

// ParseURI accepts minio://bucket/key, gs://bucket/key, file:///path and bare paths.
func ParseURI(uri string) (Location, error) {
	if uri == "" {
		return Location{}, models.MissingArgument("artifact uri")
	}
	if !strings.Contains(uri, "://") {
		return Location{Scheme: SchemeFile, Key: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, models.InvalidValue("artifact uri", uri)
	}

	switch u.Scheme {
	case SchemeFile:
		if u.Path == "" {
			return Location{}, models.InvalidValue("artifact uri", uri)
		}
		return Location{Scheme: SchemeFile, Key: u.Path}, nil
	case SchemeMinio, SchemeGCS:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("%w: artifact uri must be %s://bucket/key: %s", models.ErrMalformedValue, u.Scheme, uri)
		}
		return Location{Scheme: u.Scheme, Bucket: u.Host, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported artifact uri scheme: %s", models.ErrMalformedValue, u.Scheme)
	}
}
