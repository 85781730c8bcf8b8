package upload

import (
	"fmt"

	"github.com/schmich/dogdisk/storage"
	log "github.com/sirupsen/logrus"
)

const DefaultFolder = "dog_images"

// Images is the part of the breed catalog the uploader needs.
type Images interface {
	SubBreeds(breed string) ([]string, error)
	RandomImage(breed, subBreed string) (string, error)
}

type Attempt struct {
	Name      string
	SourceURL string
	Err       error
}

type Report struct {
	Breed    string
	Folder   string
	Attempts []Attempt
}

func (report *Report) Failed() int {
	failed := 0
	for _, attempt := range report.Attempts {
		if attempt.Err != nil {
			failed++
		}
	}

	return failed
}

type Uploader struct {
	images Images
	client storage.Client
	folder string
	log    log.FieldLogger
}

func NewUploader(images Images, client storage.Client, folder string, logger log.FieldLogger) *Uploader {
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &Uploader{images: images, client: client, folder: folder, log: logger}
}

// Upload stores one random image per sub-breed of breed, or a single image
// of the breed itself when it has none. Remote failures are logged and
// recorded in the report; they never stop the remaining uploads.
func (uploader *Uploader) Upload(breed string) *Report {
	report := &Report{Breed: breed, Folder: uploader.folder}

	if err := uploader.client.CreateFolder(uploader.folder); err == nil {
		uploader.log.Infof("Folder %s created.", uploader.folder)
	} else if storage.IsAlreadyExists(err) {
		uploader.log.Infof("Folder %s already exists.", uploader.folder)
	} else {
		uploader.log.Errorf("Failed to create folder: %s", err)
	}

	subBreeds, err := uploader.images.SubBreeds(breed)
	if err != nil {
		uploader.log.Errorf("Failed to list sub-breeds of %s: %s", breed, err)
		subBreeds = nil
	}

	if len(subBreeds) == 0 {
		uploader.uploadRandom(report, breed, "", fmt.Sprintf("%s.jpg", breed))
		return report
	}

	uploader.log.Debugf("Sub-breeds of %s: %v.", breed, subBreeds)
	for _, subBreed := range subBreeds {
		uploader.uploadRandom(report, breed, subBreed, fmt.Sprintf("%s_%s.jpg", breed, subBreed))
	}

	return report
}

func (uploader *Uploader) uploadRandom(report *Report, breed, subBreed, name string) {
	imageURL, err := uploader.images.RandomImage(breed, subBreed)
	if err != nil {
		uploader.log.Errorf("Failed to get random image for %s: %s", name, err)
		return
	}

	if imageURL == "" {
		uploader.log.Debugf("No image for %s, skipping.", name)
		return
	}

	attempt := Attempt{Name: name, SourceURL: imageURL}
	attempt.Err = uploader.client.UploadFromURL(uploader.folder, imageURL, name)
	if attempt.Err != nil {
		uploader.log.Errorf("Failed to upload %s: %s", name, attempt.Err)
	} else {
		uploader.log.Infof("Uploaded: %s", name)
	}

	report.Attempts = append(report.Attempts, attempt)
}
