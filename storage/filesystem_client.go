package storage

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/ddliu/go-httpclient"
	"github.com/pkg/errors"
)

type filesystemClient struct {
	directory string
	http      *httpclient.HttpClient
}

func NewFilesystemClient(directory string, timeout int) Client {
	return &filesystemClient{directory: directory, http: newTransport(timeout)}
}

func (client *filesystemClient) resolve(parts ...string) string {
	return filepath.Join(client.directory, filepath.FromSlash(diskPath(parts...)))
}

func (client *filesystemClient) CreateFolder(path string) error {
	target := client.resolve(path)
	info, err := os.Stat(target)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, "create folder")
		}

		return errors.Wrap(os.MkdirAll(target, 0700), "create folder")
	}

	if !info.IsDir() {
		return errors.Errorf("create folder: path exists but is not a directory: \"%s\"", target)
	}

	return errors.Wrapf(ErrAlreadyExists, "create folder \"%s\"", path)
}

func (client *filesystemClient) UploadFromURL(path, sourceURL, name string) error {
	op := "upload " + name

	body, err := fetch(client.http, op, sourceURL)
	if err != nil {
		return err
	}

	defer body.Close()

	// Written beside the target and renamed, so a failed download never
	// replaces an existing file.
	target := client.resolve(path, name)
	file, err := ioutil.TempFile(filepath.Dir(target), ".upload-")
	if err != nil {
		return errors.Wrap(err, op)
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(file.Name())
		return errors.Wrap(err, op)
	}

	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return errors.Wrap(err, op)
	}

	return errors.Wrap(os.Rename(file.Name(), target), op)
}

func (client *filesystemClient) ListItems(path string) ([]Item, error) {
	infos, err := ioutil.ReadDir(client.resolve(path))
	if err != nil {
		return []Item{}, errors.Wrap(err, "list items")
	}

	items := []Item{}
	for _, info := range infos {
		item := Item{Type: ItemFile, Name: info.Name(), Path: diskPath(path, info.Name())}
		if info.IsDir() {
			item.Type = ItemDir
		}

		items = append(items, item)
	}

	return items, nil
}
