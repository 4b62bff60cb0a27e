// Package azureblob implements reader.AsyncOpener against Azure Blob
// Storage. Credential handling is explicitly out of scope for this
// package; callers construct an authenticated *azblob.Client
// and pass it to New. A file's footer is fetched as a small JSON blob
// alongside the data blob (see colscan/format), not parsed from a real
// parquet trailer.
package azureblob

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/parquetsource/colscan/common"
	"github.com/parquetsource/colscan/format"
	"github.com/parquetsource/colscan/reader"
)

// Opener binds uris of the form "<container>/<blob-path>" against an
// already-authenticated client.
type Opener struct {
	Client *azblob.Client
	bufs   common.ByteSlicePooler
}

func New(client *azblob.Client) *Opener {
	return &Opener{Client: client, bufs: reader.NewFooterBufferPool()}
}

func splitURI(uri string) (container, blob string, err error) {
	container, blob, ok := strings.Cut(uri, "/")
	if !ok || container == "" || blob == "" {
		return "", "", fmt.Errorf("azureblob: uri %q must be \"<container>/<blob-path>\"", uri)
	}
	return container, blob, nil
}

func (o *Opener) OpenAsync(ctx context.Context, uri string, opts reader.CloudOptions) (reader.RawReader, error) {
	container, blob, err := splitURI(uri)
	if err != nil {
		return nil, err
	}
	return &rawReader{client: o.Client, container: container, blob: blob, bufs: o.bufs, userAgent: opts.UserAgent}, nil
}

type rawReader struct {
	client    *azblob.Client
	container string
	blob      string
	bufs      common.ByteSlicePooler
	userAgent string
}

func (r *rawReader) Footer(ctx context.Context) (*format.Footer, error) {
	if r.userAgent != "" {
		ctx = runtime.WithHTTPHeader(ctx, http.Header{"User-Agent": []string{r.userAgent}})
	}
	resp, err := r.client.DownloadStream(ctx, r.container, r.blob+".footer.json", nil)
	if err != nil {
		return nil, fmt.Errorf("azureblob: fetching footer for %s/%s: %w", r.container, r.blob, err)
	}
	defer resp.Body.Close()

	var sizeHint int64
	if resp.ContentLength != nil {
		sizeHint = *resp.ContentLength
	}
	data, release, err := reader.ReadFooterBytes(r.bufs, resp.Body, sizeHint)
	if err != nil {
		return nil, fmt.Errorf("azureblob: reading footer for %s/%s: %w", r.container, r.blob, err)
	}
	defer release()
	return format.DecodeJSON(data)
}

func (r *rawReader) Close() error { return nil }
