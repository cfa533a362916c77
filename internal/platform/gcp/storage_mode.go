package gcp

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"google.golang.org/api/option"
)

type StorageMode string

const (
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
)

// StorageConfig selects the GCS endpoint and the bucket media is written to.
type StorageConfig struct {
	Mode          StorageMode
	EmulatorHost  string
	Bucket        string
	CDNDomain     string
	PublicBaseURL string
}

func (cfg StorageConfig) IsEmulator() bool { return cfg.Mode == StorageModeGCSEmulator }

// StorageConfigFromEnv reads MEDIA_* and STORAGE_* variables. A set
// STORAGE_EMULATOR_HOST without an explicit mode selects the emulator.
func StorageConfigFromEnv() (StorageConfig, error) {
	cfg := StorageConfig{
		EmulatorHost:  strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/"),
		Bucket:        strings.TrimSpace(os.Getenv("MEDIA_GCS_BUCKET_NAME")),
		CDNDomain:     strings.TrimSpace(os.Getenv("MEDIA_CDN_DOMAIN")),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("OBJECT_STORAGE_PUBLIC_BASE_URL")), "/"),
	}
	switch mode := StorageMode(strings.ToLower(strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE")))); mode {
	case "":
		cfg.Mode = StorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeGCSEmulator
		}
	case StorageModeGCS, StorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", mode, StorageModeGCS, StorageModeGCSEmulator)
	}
	return cfg, cfg.Validate()
}

func (cfg StorageConfig) Validate() error {
	if cfg.Bucket == "" {
		return fmt.Errorf("missing env var MEDIA_GCS_BUCKET_NAME")
	}
	if cfg.PublicBaseURL != "" {
		if err := validateAbsoluteURL("OBJECT_STORAGE_PUBLIC_BASE_URL", cfg.PublicBaseURL); err != nil {
			return err
		}
	}
	if !cfg.IsEmulator() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", StorageModeGCSEmulator)
	}
	return validateAbsoluteURL("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
}

func validateAbsoluteURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s=%q; expected absolute URL like http://localhost:4443", name, raw)
	}
	return nil
}

// clientOptionsFromEnv accepts inline JSON credentials or a credentials file path.
func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	switch {
	case creds == "":
		return nil
	case strings.HasPrefix(creds, "{"):
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	default:
		return []option.ClientOption{option.WithCredentialsFile(creds)}
	}
}
