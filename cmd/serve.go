package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	"github.com/wkalt/dircloud/search"
	"github.com/wkalt/dircloud/service"
	"github.com/wkalt/dircloud/storage"
)

var (
	servePort        int
	serveLogLevel    string
	serveReports     []string
	serveUnits       uint64
	serveSearchLimit int
	serveCacheSize   int
	serveLoadWorkers int
	serveReload      time.Duration
	allowedOrigins   []string

	// Directory storage provider options
	serveDataDir string

	// S3 storage provider options
	serveS3Endpoint  string
	serveS3AccessKey string
	serveS3SecretKey string
	serveS3Bucket    string
	serveS3Prefix    string
	serveS3UseTLS    bool
	serveS3Region    string

	// Search options
	serveLocate        string
	serveLocateBin     string
	serveCatalog       string
	serveCatalogTable  string
	serveCatalogKey    string
	serveCatalogColumn string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dircloud server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := service.NewDircloudService()
		logLevel, err := parseLogLevel(serveLogLevel)
		checkErr(err)

		store, err := newStorageProvider()
		checkErr(err)

		locator, closer, err := newLocator(ctx)
		checkErr(err)
		if closer != nil {
			defer closer.Close()
		}

		opts := []service.DircloudOption{
			service.WithPort(servePort),
			service.WithLogLevel(logLevel),
			service.WithStorageProvider(store),
			service.WithReports(serveReports...),
			service.WithUnits(serveUnits),
			service.WithSearchLimit(serveSearchLimit),
			service.WithCacheSize(serveCacheSize),
			service.WithLoadWorkers(serveLoadWorkers),
			service.WithReloadInterval(serveReload),
		}
		if locator != nil {
			opts = append(opts, service.WithLocator(locator))
		}
		if len(allowedOrigins) > 0 {
			opts = append(opts, service.WithAllowedOrigins(allowedOrigins))
		}
		if err := svc.Start(ctx, opts...); err != nil {
			bailf("Shutdown error: %s", err)
		}
	},
}

func newStorageProvider() (storage.Provider, error) {
	s3requested := serveS3Endpoint != "" ||
		serveS3AccessKey != "" ||
		serveS3SecretKey != "" ||
		serveS3Bucket != ""
	if serveDataDir != "" && s3requested {
		return nil, fmt.Errorf("cannot specify both --data-dir and S3 options")
	}
	if serveDataDir == "" && !s3requested {
		return nil, fmt.Errorf("must specify either --data-dir or S3 options")
	}
	if serveDataDir != "" {
		store, err := storage.NewDirectoryStore(serveDataDir)
		if err != nil {
			return nil, fmt.Errorf("error creating directory store: %w", err)
		}
		return store, nil
	}
	mc, err := minio.New(serveS3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(serveS3AccessKey, serveS3SecretKey, ""),
		Secure: serveS3UseTLS,
		Region: serveS3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating S3 client: %w", err)
	}
	return storage.NewS3Store(mc, serveS3Bucket, serveS3Prefix), nil
}

// newLocator builds the search collaborator named by --locate. A nil locator
// means each report is searched through its own tree.
func newLocator(ctx context.Context) (search.Locator, *sql.DB, error) {
	switch serveLocate {
	case "tree":
		return nil, nil, nil
	case "command":
		return search.NewCommand(serveLocateBin), nil, nil
	case "sqlite":
		if serveCatalog == "" {
			return nil, nil, fmt.Errorf("--catalog is required with --locate=sqlite")
		}
		locator, db, err := search.OpenCatalog(ctx, serveCatalog, serveCatalogTable, serveCatalogKey, serveCatalogColumn)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening catalog: %w", err)
		}
		return locator, db, nil
	default:
		return nil, nil, fmt.Errorf("invalid locate mode: %s", serveLocate)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.PersistentFlags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.PersistentFlags().StringVarP(&serveLogLevel, "log-level", "l", "info", "Log level")
	serveCmd.PersistentFlags().StringSliceVarP(&serveReports, "report", "r", []string{},
		"Reports to load; the first is served initially (default: all reports in storage)")
	serveCmd.PersistentFlags().Uint64VarP(&serveUnits, "units", "u", 1, "Multiplier for reported sizes (1024 for du -k)")
	serveCmd.PersistentFlags().IntVarP(&serveSearchLimit, "search-limit", "", search.DefaultLimit, "Maximum search results")
	serveCmd.PersistentFlags().IntVarP(&serveCacheSize, "cache-size", "c", 256, "Number of cached searches")
	serveCmd.PersistentFlags().IntVarP(&serveLoadWorkers, "load-workers", "", 4, "Reports parsed concurrently")
	serveCmd.PersistentFlags().DurationVar(&serveReload, "reload-interval", 0,
		"Reload the active report when it changes, checking at this interval (0 disables)")
	serveCmd.PersistentFlags().StringSliceVarP(&allowedOrigins, "allowed-origins", "o", []string{}, "Allowed origins")

	serveCmd.PersistentFlags().StringVarP(&serveDataDir, "data-dir", "d", "", "Report directory (for directory storage)")

	serveCmd.PersistentFlags().StringVar(&serveS3Endpoint, "s3-endpoint", "", "S3 endpoint (for S3 storage)")
	serveCmd.PersistentFlags().StringVar(&serveS3AccessKey, "s3-access-key-id", "", "S3 access key ID (for S3 storage)")
	serveCmd.PersistentFlags().StringVar(&serveS3SecretKey, "s3-secret-key", "", "S3 secret key (for S3 storage)")
	serveCmd.PersistentFlags().StringVar(&serveS3Bucket, "s3-bucket", "", "S3 bucket (for S3 storage)")
	serveCmd.PersistentFlags().StringVar(&serveS3Prefix, "s3-prefix", "", "S3 key prefix (for S3 storage)")
	serveCmd.PersistentFlags().BoolVarP(&serveS3UseTLS, "s3-tls", "t", false, "Use TLS (for S3 storage)")
	serveCmd.PersistentFlags().StringVar(&serveS3Region, "s3-region", "", "S3 region")

	serveCmd.PersistentFlags().StringVar(&serveLocate, "locate", "tree", "Search backend: tree, command or sqlite")
	serveCmd.PersistentFlags().StringVar(&serveLocateBin, "locate-bin", search.DefaultLocateBinary, "locate binary")
	serveCmd.PersistentFlags().StringVar(&serveCatalog, "catalog", "", "sqlite catalog database (for sqlite search)")
	serveCmd.PersistentFlags().StringVar(&serveCatalogTable, "catalog-table", "paths", "Catalog table")
	serveCmd.PersistentFlags().StringVar(&serveCatalogKey, "catalog-key", "name", "Catalog column matched against the query")
	serveCmd.PersistentFlags().StringVar(&serveCatalogColumn, "catalog-path", "path", "Catalog column holding the path")
}
