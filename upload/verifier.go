package upload

import (
	"github.com/schmich/dogdisk/storage"
	log "github.com/sirupsen/logrus"
)

type Verifier struct {
	client storage.Client
	folder string
	log    log.FieldLogger
}

func NewVerifier(client storage.Client, folder string, logger log.FieldLogger) *Verifier {
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &Verifier{client: client, folder: folder, log: logger}
}

// Verify logs and returns the names of the files in the upload folder.
// Folders are skipped and errors only logged.
func (verifier *Verifier) Verify() []string {
	items, err := verifier.client.ListItems(verifier.folder)
	if err != nil {
		verifier.log.Errorf("Failed to check uploaded files: %s", err)
		return []string{}
	}

	names := []string{}
	for _, item := range items {
		if item.Type != storage.ItemFile {
			continue
		}

		verifier.log.Infof("Found file: %s", item.Name)
		names = append(names, item.Name)
	}

	return names
}
