package upload

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/schmich/dogdisk/failure"
	"github.com/schmich/dogdisk/storage"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	subBreeds    map[string][]string
	images       map[string]string
	subBreedsErr error
	imageErrs    map[string]error
	requested    []string
}

func (images *fakeImages) SubBreeds(breed string) ([]string, error) {
	if images.subBreedsErr != nil {
		return []string{}, images.subBreedsErr
	}
	return images.subBreeds[breed], nil
}

func (images *fakeImages) RandomImage(breed, subBreed string) (string, error) {
	key := breed
	if subBreed != "" {
		key += "/" + subBreed
	}
	images.requested = append(images.requested, key)
	return images.images[key], images.imageErrs[key]
}

// failingClient returns the configured errors instead of calling through to
// the embedded in-memory client. Uploads are recorded either way.
type failingClient struct {
	*storage.InMemoryClient
	createErr error
	uploadErr error
}

func (client *failingClient) CreateFolder(path string) error {
	if client.createErr != nil {
		return client.createErr
	}
	return client.InMemoryClient.CreateFolder(path)
}

func (client *failingClient) UploadFromURL(path, sourceURL, name string) error {
	err := client.InMemoryClient.UploadFromURL(path, sourceURL, name)
	if client.uploadErr != nil {
		return client.uploadErr
	}
	return err
}

func uploadNames(client *storage.InMemoryClient) []string {
	names := []string{}
	for _, upload := range client.Uploads() {
		names = append(names, upload.Name)
	}
	return names
}

func TestUploadSubBreeds(t *testing.T) {
	images := &fakeImages{
		subBreeds: map[string][]string{"bulldog": {"boston", "french"}},
		images: map[string]string{
			"bulldog/boston": "http://x/1.jpg",
			"bulldog/french": "http://x/2.jpg",
		},
	}
	client := storage.NewInMemoryClient()
	logger, _ := test.NewNullLogger()

	report := NewUploader(images, client, DefaultFolder, logger).Upload("bulldog")

	assert.Equal(t, []storage.Upload{
		{Path: "/dog_images", Name: "bulldog_boston.jpg", SourceURL: "http://x/1.jpg"},
		{Path: "/dog_images", Name: "bulldog_french.jpg", SourceURL: "http://x/2.jpg"},
	}, client.Uploads())
	assert.Equal(t, []string{"bulldog/boston", "bulldog/french"}, images.requested)
	require.Len(t, report.Attempts, 2)
	assert.Equal(t, 0, report.Failed())
}

func TestUploadWithoutSubBreeds(t *testing.T) {
	images := &fakeImages{
		subBreeds: map[string][]string{"collie": {}},
		images:    map[string]string{"collie": "http://x/3.jpg"},
	}
	client := storage.NewInMemoryClient()
	logger, _ := test.NewNullLogger()

	NewUploader(images, client, DefaultFolder, logger).Upload("collie")

	assert.Equal(t, []string{"collie.jpg"}, uploadNames(client))
	assert.Equal(t, []string{"collie"}, images.requested)
}

func TestUploadSkipsEmptyImage(t *testing.T) {
	images := &fakeImages{
		subBreeds: map[string][]string{"bulldog": {"boston", "english", "french"}},
		images: map[string]string{
			"bulldog/boston": "http://x/1.jpg",
			"bulldog/french": "http://x/2.jpg",
		},
	}
	client := storage.NewInMemoryClient()
	logger, _ := test.NewNullLogger()

	report := NewUploader(images, client, DefaultFolder, logger).Upload("bulldog")

	assert.Equal(t, []string{"bulldog_boston.jpg", "bulldog_french.jpg"}, uploadNames(client))
	assert.Len(t, report.Attempts, 2)
}

func TestUploadSkipsImageError(t *testing.T) {
	images := &fakeImages{
		subBreeds: map[string][]string{"bulldog": {"boston", "french"}},
		images:    map[string]string{"bulldog/french": "http://x/2.jpg"},
		imageErrs: map[string]error{"bulldog/boston": failure.NewProtocol("random image", 404, "", "Breed not found")},
	}
	client := storage.NewInMemoryClient()
	logger, hook := test.NewNullLogger()

	NewUploader(images, client, DefaultFolder, logger).Upload("bulldog")

	assert.Equal(t, []string{"bulldog_french.jpg"}, uploadNames(client))
	assert.Equal(t, logrus.ErrorLevel, hook.Entries[1].Level)
}

func TestUploadEmptyImageWithoutSubBreeds(t *testing.T) {
	client := storage.NewInMemoryClient()
	logger, _ := test.NewNullLogger()

	report := NewUploader(&fakeImages{}, client, DefaultFolder, logger).Upload("collie")

	assert.Empty(t, client.Uploads())
	assert.Empty(t, report.Attempts)
}

func TestUploadSubBreedsErrorFallsBackToBreed(t *testing.T) {
	images := &fakeImages{
		subBreedsErr: failure.NewTransport("list sub-breeds", errors.New("connection refused")),
		images:       map[string]string{"doberman": "http://x/4.jpg"},
	}
	client := storage.NewInMemoryClient()
	logger, _ := test.NewNullLogger()

	NewUploader(images, client, DefaultFolder, logger).Upload("doberman")

	assert.Equal(t, []string{"doberman.jpg"}, uploadNames(client))
}

func TestUploadContinuesAfterFolderFailure(t *testing.T) {
	images := &fakeImages{images: map[string]string{"collie": "http://x/3.jpg"}}
	client := &failingClient{
		InMemoryClient: storage.NewInMemoryClient(),
		createErr:      failure.NewProtocol("create folder", 507, "DiskOverQuotaError", "quota"),
	}
	logger, hook := test.NewNullLogger()

	NewUploader(images, client, DefaultFolder, logger).Upload("collie")

	assert.Equal(t, []string{"collie.jpg"}, uploadNames(client.InMemoryClient))
	assert.Equal(t, logrus.ErrorLevel, hook.Entries[0].Level)
	assert.Contains(t, hook.Entries[0].Message, "Failed to create folder")
}

func TestUploadFolderAlreadyExists(t *testing.T) {
	images := &fakeImages{images: map[string]string{"collie": "http://x/3.jpg"}}
	client := storage.NewInMemoryClient()
	require.NoError(t, client.CreateFolder(DefaultFolder))
	logger, hook := test.NewNullLogger()

	NewUploader(images, client, DefaultFolder, logger).Upload("collie")

	assert.Equal(t, logrus.InfoLevel, hook.Entries[0].Level)
	assert.Equal(t, "Folder dog_images already exists.", hook.Entries[0].Message)
	assert.Equal(t, []string{"collie.jpg"}, uploadNames(client))
}

func TestUploadRecordsFailedUpload(t *testing.T) {
	images := &fakeImages{images: map[string]string{"collie": "http://x/3.jpg"}}
	client := &failingClient{
		InMemoryClient: storage.NewInMemoryClient(),
		uploadErr:      failure.NewProtocol("upload collie.jpg", 500, "", ""),
	}
	logger, _ := test.NewNullLogger()

	report := NewUploader(images, client, DefaultFolder, logger).Upload("collie")

	require.Len(t, report.Attempts, 1)
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, "http://x/3.jpg", report.Attempts[0].SourceURL)
}
