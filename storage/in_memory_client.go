package storage

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Upload is one UploadFromURL call as seen by the in-memory client.
type Upload struct {
	Path      string
	Name      string
	SourceURL string
}

// InMemoryClient never touches the network; uploads are recorded, not
// fetched. It backs --dry-run.
type InMemoryClient struct {
	folders map[string]bool
	files   map[string]Upload
	uploads []Upload
}

func NewInMemoryClient() *InMemoryClient {
	return &InMemoryClient{
		folders: map[string]bool{"/": true},
		files:   make(map[string]Upload),
	}
}

func (client *InMemoryClient) CreateFolder(path string) error {
	key := diskPath(path)
	if client.folders[key] {
		return errors.Wrapf(ErrAlreadyExists, "create folder \"%s\"", path)
	}

	client.folders[key] = true
	return nil
}

func (client *InMemoryClient) UploadFromURL(path, sourceURL, name string) error {
	upload := Upload{Path: diskPath(path), Name: name, SourceURL: sourceURL}
	client.uploads = append(client.uploads, upload)

	if !client.folders[upload.Path] {
		return errors.Errorf("upload %s: folder \"%s\" not found", name, path)
	}

	client.files[diskPath(path, name)] = upload
	return nil
}

func (client *InMemoryClient) ListItems(path string) ([]Item, error) {
	parent := diskPath(path)
	if !client.folders[parent] {
		return []Item{}, errors.Errorf("list items: folder \"%s\" not found", path)
	}

	items := []Item{}
	for folder := range client.folders {
		if folder != parent && isChild(parent, folder) {
			items = append(items, Item{Type: ItemDir, Name: folder[strings.LastIndex(folder, "/")+1:], Path: folder})
		}
	}

	for file, upload := range client.files {
		if isChild(parent, file) {
			items = append(items, Item{Type: ItemFile, Name: upload.Name, Path: file})
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}

// Uploads returns every attempted upload in call order, failed ones included.
func (client *InMemoryClient) Uploads() []Upload {
	return append([]Upload(nil), client.uploads...)
}

func isChild(parent, path string) bool {
	prefix := strings.TrimSuffix(parent, "/") + "/"
	return strings.HasPrefix(path, prefix) && !strings.Contains(path[len(prefix):], "/")
}
