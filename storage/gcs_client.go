package storage

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/ddliu/go-httpclient"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcsClient struct {
	bucket *gcs.BucketHandle
	http   *httpclient.HttpClient
}

// NewGCSClient stores images in a Google Cloud Storage bucket using the
// application default credentials unless opts say otherwise. Folders are
// zero-byte "name/" objects.
func NewGCSClient(bucket string, timeout int, opts ...option.ClientOption) (Client, error) {
	client, err := gcs.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create storage client")
	}

	return &gcsClient{bucket: client.Bucket(bucket), http: newTransport(timeout)}, nil
}

func objectName(parts ...string) string {
	return strings.TrimPrefix(diskPath(parts...), "/")
}

func (client *gcsClient) CreateFolder(folder string) error {
	ctx := context.Background()
	obj := client.bucket.Object(objectName(folder) + "/")
	if _, err := obj.Attrs(ctx); err == nil {
		return errors.Wrapf(ErrAlreadyExists, "create folder \"%s\"", folder)
	} else if err != gcs.ErrObjectNotExist {
		return errors.Wrap(err, "create folder")
	}

	writer := obj.NewWriter(ctx)
	return errors.Wrap(writer.Close(), "create folder")
}

func (client *gcsClient) UploadFromURL(folder, sourceURL, name string) error {
	op := "upload " + name

	body, err := fetch(client.http, op, sourceURL)
	if err != nil {
		return err
	}

	defer body.Close()

	ctx := context.Background()
	writer := client.bucket.Object(objectName(folder, name)).NewWriter(ctx)
	writer.ContentType = mime.TypeByExtension(path.Ext(name))
	if _, err := io.Copy(writer, body); err != nil {
		writer.Close()
		return errors.Wrap(err, op)
	}

	return errors.Wrap(writer.Close(), op)
}

func (client *gcsClient) ListItems(folder string) ([]Item, error) {
	prefix := objectName(folder) + "/"
	if prefix == "/" {
		prefix = ""
	}

	items := []Item{}
	it := client.bucket.Objects(context.Background(), &gcs.Query{Prefix: prefix, Delimiter: "/"})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			return items, errors.Wrap(err, "list items")
		}

		if attrs.Prefix != "" {
			name := strings.TrimSuffix(strings.TrimPrefix(attrs.Prefix, prefix), "/")
			items = append(items, Item{Type: ItemDir, Name: name, Path: "/" + strings.TrimSuffix(attrs.Prefix, "/")})
			continue
		}

		if attrs.Name == prefix {
			continue
		}

		items = append(items, Item{Type: ItemFile, Name: path.Base(attrs.Name), Path: "/" + attrs.Name})
	}

	return items, nil
}
