package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	cli "github.com/jawher/mow.cli"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/schmich/dogdisk/breeds"
	"github.com/schmich/dogdisk/storage"
	"github.com/schmich/dogdisk/upload"
	log "github.com/sirupsen/logrus"
)

var errMissingToken = errors.New("token not found in environment variable " + tokenEnv)

func chooseBreed(s settings, random *rand.Rand) string {
	if s.Breed != "" {
		return s.Breed
	}

	return s.Breeds[random.Intn(len(s.Breeds))]
}

func newStorageClient(s settings) (storage.Client, error) {
	switch s.Backend {
	case "disk":
		if s.Token == "" {
			return nil, errMissingToken
		}

		return storage.NewDiskClient(s.DiskAPI, s.Token, s.Timeout), nil
	case "fs":
		if s.Dir == "" {
			return nil, errors.New("--dir is required for the fs backend")
		}

		return storage.NewFilesystemClient(s.Dir, s.Timeout), nil
	case "gcs":
		if s.Bucket == "" {
			return nil, errors.New("--bucket is required for the gcs backend")
		}

		return storage.NewGCSClient(s.Bucket, s.Timeout)
	case "memory":
		return storage.NewInMemoryClient(), nil
	default:
		return nil, errors.Errorf("unknown backend \"%s\"", s.Backend)
	}
}

func runUpload(s settings, random *rand.Rand) error {
	client, err := newStorageClient(s)
	if err == errMissingToken {
		log.Error(err)
		return nil
	} else if err != nil {
		return err
	}

	breed := chooseBreed(s, random)
	log.Infof("Breed: %s", breed)

	images := breeds.NewClient(s.DogAPI, s.Timeout)
	report := upload.NewUploader(images, client, s.Folder, nil).Upload(breed)
	stored := len(report.Attempts) - report.Failed()
	if failed := report.Failed(); failed > 0 {
		log.Warnf("%d of %d uploads of %s to %s failed.", failed, len(report.Attempts), report.Breed, report.Folder)
	} else {
		log.Infof("Stored %d images of %s in %s.", stored, report.Breed, report.Folder)
	}

	upload.NewVerifier(client, s.Folder, nil).Verify()
	return nil
}

func runVerify(s settings) error {
	client, err := newStorageClient(s)
	if err == errMissingToken {
		log.Error(err)
		return nil
	} else if err != nil {
		return err
	}

	upload.NewVerifier(client, s.Folder, nil).Verify()
	return nil
}

type plainFormatter struct {
}

func (f *plainFormatter) Format(entry *log.Entry) ([]byte, error) {
	return []byte(entry.Message + "\n"), nil
}

func main() {
	app := cli.App("dogdisk", "Upload random dog pictures to Yandex Disk")
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log.SetFormatter(&plainFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stderr)

	verbose := app.BoolOpt("v verbose", false, "Verbose output")
	configPath := app.String(cli.StringOpt{Name: "c config", Desc: "Config file (default ~/.dogdisk)", EnvVar: "DOGDISK_CONFIG"})
	breed := app.String(cli.StringOpt{Name: "b breed", Desc: "Breed to upload (default: random)", EnvVar: "DOGDISK_BREED"})
	folder := app.String(cli.StringOpt{Name: "f folder", Desc: "Remote folder (default dog_images)", EnvVar: "DOGDISK_FOLDER"})
	backend := app.String(cli.StringOpt{Name: "backend", Desc: "Storage backend: disk, fs, gcs or memory", EnvVar: "DOGDISK_BACKEND"})
	dir := app.String(cli.StringOpt{Name: "dir", Desc: "Root directory for the fs backend", EnvVar: "DOGDISK_DIR"})
	bucket := app.String(cli.StringOpt{Name: "bucket", Desc: "Bucket for the gcs backend", EnvVar: "DOGDISK_BUCKET"})
	timeout := app.Int(cli.IntOpt{Name: "timeout", Value: 0, Desc: "HTTP timeout in seconds (0: none)", EnvVar: "DOGDISK_TIMEOUT"})
	dryRun := app.BoolOpt("n dry-run", false, "Record uploads in memory instead of storing them")

	loadSettings := func() settings {
		if *verbose {
			log.SetLevel(log.DebugLevel)
		}

		path := *configPath
		if path == "" {
			var err error
			if path, err = defaultConfigPath(); err != nil {
				log.Fatalf("Error: %s", err)
			}
		}

		config, err := loadConfig(path)
		if err != nil {
			log.Fatalf("Error: %s", err)
		}

		s := settings{
			Breed:   *breed,
			Folder:  *folder,
			Backend: *backend,
			Dir:     *dir,
			Bucket:  *bucket,
			Timeout: *timeout,
			Token:   os.Getenv(tokenEnv),
		}

		if *dryRun {
			s.Backend = "memory"
		}

		return s.resolve(config)
	}

	runAction := func() {
		random := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := runUpload(loadSettings(), random); err != nil {
			log.Fatalf("Error: %s", err)
		}
	}

	app.Action = runAction

	app.Command("run r", "Upload images of a breed, then list the folder", func(cmd *cli.Cmd) {
		cmd.Action = runAction
	})

	app.Command("verify", "List files in the remote folder", func(cmd *cli.Cmd) {
		cmd.Action = func() {
			if err := runVerify(loadSettings()); err != nil {
				log.Fatalf("Error: %s", err)
			}
		}
	})

	app.Command("breeds", "Print the breeds to choose from", func(cmd *cli.Cmd) {
		cmd.Action = func() {
			for _, name := range loadSettings().Breeds {
				fmt.Println(name)
			}
		}
	})

	app.Run(os.Args)
}
