package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/schmich/dogdisk/breeds"
	"github.com/schmich/dogdisk/storage"
	"github.com/schmich/dogdisk/upload"
	log "github.com/sirupsen/logrus"
)

const tokenEnv = "YANDEX_DISK_TOKEN"

var defaultBreeds = []string{"doberman", "bulldog", "collie"}

type fileConfig struct {
	Breeds  []string `json:"breeds"`
	Folder  string   `json:"folder"`
	DogAPI  string   `json:"dog_api"`
	DiskAPI string   `json:"disk_api"`
	Token   string   `json:"token"`
}

type settings struct {
	Breeds  []string
	Breed   string
	Folder  string
	Backend string
	Dir     string
	Bucket  string
	DogAPI  string
	DiskAPI string
	Timeout int

	// Only ever read from the environment.
	Token string
}

func defaultConfigPath() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".dogdisk"), nil
}

func loadConfig(path string) (*fileConfig, error) {
	config := &fileConfig{}

	content, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}

		return nil, errors.Wrap(err, "read config")
	}

	if err = json.Unmarshal(content, config); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	if config.Token != "" {
		log.Warnf("Ignoring token in %s, set %s instead.", path, tokenEnv)
		config.Token = ""
	}

	log.Debugf("Using config in %s.", path)
	return config, nil
}

func firstOf(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}

// resolve fills unset options from the config file, then built-in defaults.
func (s settings) resolve(config *fileConfig) settings {
	s.Breeds = defaultBreeds
	if len(config.Breeds) > 0 {
		s.Breeds = config.Breeds
	}

	s.Folder = firstOf(s.Folder, config.Folder, upload.DefaultFolder)
	s.DogAPI = firstOf(s.DogAPI, config.DogAPI, breeds.DefaultEndpoint)
	s.DiskAPI = firstOf(s.DiskAPI, config.DiskAPI, storage.DefaultDiskEndpoint)
	s.Backend = firstOf(s.Backend, "disk")
	return s
}
