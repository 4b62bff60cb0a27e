// Package gcs implements reader.AsyncOpener against Google Cloud Storage.
// Credential handling is out of scope; callers
// construct an authenticated *storage.Client and pass it to New.
package gcs

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/parquetsource/colscan/common"
	"github.com/parquetsource/colscan/format"
	"github.com/parquetsource/colscan/reader"
)

// Opener binds uris of the form "<bucket>/<object-path>".
type Opener struct {
	Client *storage.Client
	bufs   common.ByteSlicePooler
}

func New(client *storage.Client) *Opener {
	return &Opener{Client: client, bufs: reader.NewFooterBufferPool()}
}

func splitURI(uri string) (bucket, object string, err error) {
	bucket, object, ok := strings.Cut(uri, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("gcs: uri %q must be \"<bucket>/<object-path>\"", uri)
	}
	return bucket, object, nil
}

// OpenAsync ignores opts.UserAgent: the storage package's Reader has no
// per-call header override, only a client-construction-time one
// (option.WithUserAgent), and this package never constructs the client
// it's handed. Set the user agent on the *storage.Client passed to New
// instead.
func (o *Opener) OpenAsync(ctx context.Context, uri string, opts reader.CloudOptions) (reader.RawReader, error) {
	bucket, object, err := splitURI(uri)
	if err != nil {
		return nil, err
	}
	return &rawReader{client: o.Client, bucket: bucket, object: object, bufs: o.bufs}, nil
}

type rawReader struct {
	client *storage.Client
	bucket string
	object string
	bufs   common.ByteSlicePooler
}

func (r *rawReader) Footer(ctx context.Context) (*format.Footer, error) {
	obj := r.client.Bucket(r.bucket).Object(r.object + ".footer.json")
	rc, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs: fetching footer for %s/%s: %w", r.bucket, r.object, err)
	}
	defer rc.Close()

	data, release, err := reader.ReadFooterBytes(r.bufs, rc, rc.Attrs.Size)
	if err != nil {
		return nil, fmt.Errorf("gcs: reading footer for %s/%s: %w", r.bucket, r.object, err)
	}
	defer release()
	return format.DecodeJSON(data)
}

func (r *rawReader) Close() error { return nil }
