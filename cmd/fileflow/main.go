package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/Lucid-Synth/fileflow/internal/database"
	"github.com/Lucid-Synth/fileflow/internal/scheduler"
	"github.com/Lucid-Synth/fileflow/internal/storage"
	"github.com/Lucid-Synth/fileflow/internal/validator"
	"github.com/Lucid-Synth/fileflow/internal/webserver"
	"github.com/joho/godotenv"
	"github.com/mdouchement/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const dbname = "fileflow.db"

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	binding string
	port    string
)

func main() {
	godotenv.Load()

	c := &cobra.Command{
		Use:     "fileflow",
		Short:   "File upload and sharing service",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.ExactArgs(0),
	}
	c.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for fileflow",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(c.Version)
		},
	})
	c.AddCommand(initCmd)
	c.AddCommand(reindexCmd)

	serverCmd.Flags().StringVarP(&binding, "binding", "b", "0.0.0.0", "Server's binding")
	serverCmd.Flags().StringVarP(&port, "port", "p", "5000", "Server's port")
	c.AddCommand(serverCmd)

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

var (
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Init the database",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return database.StormInit(nameWithEnv("FILEFLOW_DATABASE_PATH", dbname))
		},
	}

	//

	reindexCmd = &cobra.Command{
		Use:   "reindex",
		Short: "Reindex the database",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return database.StormReIndex(nameWithEnv("FILEFLOW_DATABASE_PATH", dbname))
		},
	}

	//

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Start server",
		Args:  cobra.ExactArgs(0),
		RunE: func(c *cobra.Command, _ []string) error {
			ctrl := webserver.Controller{
				Version:   c.Parent().Version,
				Validator: limits(),
				PublicURL: envORdefault("FILEFLOW_PUBLIC_URL", "http://localhost:5000"),
			}
			if origins := os.Getenv("FILEFLOW_CORS_ORIGINS"); origins != "" {
				ctrl.CORSOrigins = strings.Split(origins, ",")
			}

			//

			log := logrus.New()
			log.SetFormatter(&logger.LogrusTextFormatter{
				DisableColors:   false,
				ForceColors:     true,
				ForceFormatting: true,
				PrefixRE:        regexp.MustCompile(`^(\[.*?\])\s`),
				FullTimestamp:   true,
				TimestampFormat: "2006-01-02 15:04:05",
			})
			ctrl.Logger = logger.WrapLogrus(log)

			//

			db, err := database.StormOpen(nameWithEnv("FILEFLOW_DATABASE_PATH", dbname))
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()
			ctrl.Database = db

			//

			ctrl.Storage, err = backend(ctrl.PublicURL)
			if err != nil {
				return errors.Wrap(err, "could not setup storage backend")
			}

			//

			scheduler.Start(scheduler.Controller{
				Logger:        ctrl.Logger,
				Database:      ctrl.Database,
				Storage:       ctrl.Storage,
				Specification: envORdefault("FILEFLOW_SWEEP_SPEC", "@every 1m"),
			})

			//

			engine := webserver.EchoEngine(ctrl)
			webserver.PrintRoutes(engine)

			listen := fmt.Sprintf("%s:%s", binding, port)
			log.Printf("Server listening on %s", listen)
			return errors.Wrap(
				engine.Start(listen),
				"could not run server",
			)
		},
	}
)

// backend instantiates the object store designated by FILEFLOW_STORAGE_BACKEND.
func backend(publicURL string) (storage.Backend, error) {
	switch name := envORdefault("FILEFLOW_STORAGE_BACKEND", "file_system"); name {
	case "file_system":
		return storage.NewFileSystem(envORdefault("FILEFLOW_STORAGE_PATH", "storage"), publicURL), nil
	case "s3":
		return storage.NewS3(storage.S3Options{
			Endpoint:  os.Getenv("FILEFLOW_S3_ENDPOINT"),
			AccessKey: os.Getenv("FILEFLOW_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("FILEFLOW_S3_SECRET_KEY"),
			Bucket:    envORdefault("FILEFLOW_S3_BUCKET", "fileflow"),
			BaseURL:   envORdefault("FILEFLOW_S3_PUBLIC_URL", publicURL),
			UseSSL:    os.Getenv("FILEFLOW_S3_SSL") == "true",
		})
	case "swift":
		return storage.NewSwift(storage.SwiftOptions{
			AuthURL:   os.Getenv("FILEFLOW_SWIFT_AUTH_URL"),
			Username:  os.Getenv("FILEFLOW_SWIFT_USERNAME"),
			APIKey:    os.Getenv("FILEFLOW_SWIFT_API_KEY"),
			Tenant:    os.Getenv("FILEFLOW_SWIFT_TENANT"),
			Domain:    envORdefault("FILEFLOW_SWIFT_DOMAIN", "Default"),
			Region:    os.Getenv("FILEFLOW_SWIFT_REGION"),
			Container: envORdefault("FILEFLOW_SWIFT_CONTAINER", "fileflow"),
			BaseURL:   envORdefault("FILEFLOW_SWIFT_PUBLIC_URL", publicURL),
		})
	default:
		return nil, errors.Errorf("unknown storage backend: %s", name)
	}
}

// limits returns the validator, with the default limits unless overridden.
func limits() validator.Validator {
	v := validator.New()

	if raw := os.Getenv("FILEFLOW_MAX_FILE_SIZE"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && size > 0 {
			v.MaxFileSize = size
		}
	}
	if raw := os.Getenv("FILEFLOW_MAX_BATCH_FILES"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err == nil && count > 0 {
			v.MaxBatchFiles = count
		}
	}

	return v
}

func nameWithEnv(env, name string) string {
	p := os.Getenv(env)
	if len(p) == 0 {
		return name
	}
	return filepath.Join(p, name)
}

func envORdefault(name, fallback string) string {
	p := os.Getenv(name)
	if len(p) == 0 {
		return fallback
	}
	return p
}
