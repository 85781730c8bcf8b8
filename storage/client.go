package storage

import (
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/schmich/dogdisk/failure"
)

const (
	ItemDir  = "dir"
	ItemFile = "file"
)

var ErrAlreadyExists = errors.New("resource already exists")

type Item struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// Client is a remote file store that can fetch content by URL on our behalf.
type Client interface {
	CreateFolder(path string) error
	UploadFromURL(path, sourceURL, name string) error
	ListItems(path string) ([]Item, error)
}

func IsAlreadyExists(err error) bool {
	return errors.Cause(err) == ErrAlreadyExists || failure.CodeOf(err) == existentDirectoryCode
}

func diskPath(parts ...string) string {
	return "/" + strings.TrimPrefix(path.Join(parts...), "/")
}
