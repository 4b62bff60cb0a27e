// Package s3 implements reader.AsyncOpener against S3-compatible storage
// via minio-go. Credential handling is out of scope;
// callers construct an authenticated *minio.Client and pass it to New.
package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/parquetsource/colscan/common"
	"github.com/parquetsource/colscan/format"
	"github.com/parquetsource/colscan/reader"
)

// Opener binds uris of the form "<bucket>/<object-key>".
type Opener struct {
	Client *minio.Client
	bufs   common.ByteSlicePooler
}

func New(client *minio.Client) *Opener {
	return &Opener{Client: client, bufs: reader.NewFooterBufferPool()}
}

func splitURI(uri string) (bucket, key string, err error) {
	bucket, key, ok := strings.Cut(uri, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3: uri %q must be \"<bucket>/<object-key>\"", uri)
	}
	return bucket, key, nil
}

func (o *Opener) OpenAsync(ctx context.Context, uri string, opts reader.CloudOptions) (reader.RawReader, error) {
	bucket, key, err := splitURI(uri)
	if err != nil {
		return nil, err
	}
	return &rawReader{client: o.Client, bucket: bucket, key: key, bufs: o.bufs, userAgent: opts.UserAgent}, nil
}

type rawReader struct {
	client    *minio.Client
	bucket    string
	key       string
	bufs      common.ByteSlicePooler
	userAgent string
}

func (r *rawReader) Footer(ctx context.Context) (*format.Footer, error) {
	getOpts := minio.GetObjectOptions{}
	if r.userAgent != "" {
		getOpts.Set("User-Agent", r.userAgent)
	}
	obj, err := r.client.GetObject(ctx, r.bucket, r.key+".footer.json", getOpts)
	if err != nil {
		return nil, fmt.Errorf("s3: fetching footer for %s/%s: %w", r.bucket, r.key, err)
	}
	defer obj.Close()

	var sizeHint int64
	if info, err := obj.Stat(); err == nil {
		sizeHint = info.Size
	}
	data, release, err := reader.ReadFooterBytes(r.bufs, obj, sizeHint)
	if err != nil {
		return nil, fmt.Errorf("s3: reading footer for %s/%s: %w", r.bucket, r.key, err)
	}
	defer release()
	return format.DecodeJSON(data)
}

func (r *rawReader) Close() error { return nil }
