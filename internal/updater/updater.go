// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package updater

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	getter "github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/penumbra/internal/ctxlog"
	"github.com/spf13/afero"
)

// DefaultReleasesURL is the GitHub latest-release endpoint for the flasher.
const DefaultReleasesURL = "https://api.github.com/repos/rdndds/penumbra/releases/latest"

const (
	userAgent         = "penumbra"
	checksumAssetName = "checksums.txt"
)

var (
	// ErrFetchRelease is returned when the release endpoint cannot be read.
	ErrFetchRelease = errors.New("failed to fetch latest release")
	// ErrUnsupportedPlatform is returned when no release asset exists for
	// this OS and architecture.
	ErrUnsupportedPlatform = errors.New("flasher updates are not available for this platform")
	// ErrAssetNotFound is returned when the release lacks the expected
	// asset or its checksum.
	ErrAssetNotFound = errors.New("release asset not found")
	// ErrDownload is returned when the asset download or its checksum
	// verification fails.
	ErrDownload = errors.New("failed to download update")
	// ErrInstall is returned when the downloaded binary cannot be moved
	// into place.
	ErrInstall = errors.New("failed to install update")
)

// ReleaseAsset is one downloadable file of a GitHub release.
type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Release is the subset of the GitHub release payload the updater needs.
type Release struct {
	TagName string         `json:"tag_name"`
	Assets  []ReleaseAsset `json:"assets"`
}

// Info is the result of an update check.
type Info struct {
	InstalledVersion string `json:"installed_version,omitempty"`
	InstalledPath    string `json:"installed_path,omitempty"`
	LatestVersion    string `json:"latest_version,omitempty"`
	UpdateAvailable  bool   `json:"update_available"`
	AssetName        string `json:"asset_name,omitempty"`
	AssetURL         string `json:"asset_url,omitempty"`
	Checksum         string `json:"checksum,omitempty"`
}

// Updater checks for and installs flasher binary updates.
type Updater struct {
	client      *http.Client
	fs          afero.Fs
	releasesURL string
	assetName   string
}

// Option implements a functional options pattern for Updater.
type Option func(*Updater)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Updater) { u.client = c }
}

// WithReleasesURL overrides the release endpoint, for tests and mirrors.
func WithReleasesURL(url string) Option {
	return func(u *Updater) { u.releasesURL = url }
}

// WithAssetName overrides platform asset selection.
func WithAssetName(name string) Option {
	return func(u *Updater) { u.assetName = name }
}

// WithFs overrides the filesystem used for checksum reads.
func WithFs(fs afero.Fs) Option {
	return func(u *Updater) { u.fs = fs }
}

// New creates an Updater for the current platform. It fails when no
// release asset exists for this OS and architecture.
func New(opts ...Option) (*Updater, error) {
	u := &Updater{
		client:      &http.Client{Timeout: 30 * time.Second},
		fs:          afero.NewOsFs(),
		releasesURL: DefaultReleasesURL,
	}

	for _, opt := range opts {
		opt(u)
	}

	if u.assetName == "" {
		name, err := selectAssetName()
		if err != nil {
			return nil, err
		}

		u.assetName = name
	}

	return u, nil
}

// Check fetches the latest release and decides whether the installed
// binary at installedPath (empty when none) needs updating. The installed
// binary's checksum is authoritative; version strings only break ties
// when the checksum cannot be computed.
func (u *Updater) Check(ctx context.Context, installedPath, installedVersion string) (Info, error) {
	release, err := u.fetchLatestRelease(ctx)
	if err != nil {
		return Info{}, err
	}

	assetURL, checksum, err := u.findAssetAndChecksum(ctx, release)
	if err != nil {
		return Info{LatestVersion: release.TagName}, err
	}

	info := Info{
		InstalledVersion: installedVersion,
		InstalledPath:    installedPath,
		LatestVersion:    firstNonEmpty(NormalizeVersion(release.TagName), release.TagName),
		AssetName:        u.assetName,
		AssetURL:         assetURL,
		Checksum:         checksum,
	}

	switch {
	case installedPath == "":
		info.UpdateAvailable = true
	default:
		installed, err := ComputeChecksum(u.fs, installedPath)
		if err == nil {
			info.UpdateAvailable = !strings.EqualFold(installed, checksum)
		} else {
			ctxlog.Warn(ctx, "could not checksum installed flasher, comparing versions",
				"path", installedPath,
				"error", err.Error(),
			)

			info.UpdateAvailable = installedVersion == "" ||
				NormalizeVersion(installedVersion) != NormalizeVersion(release.TagName)
		}
	}

	return info, nil
}

// Install downloads the latest flasher and moves it into targetPath,
// returning the release tag. The download is checksum-verified.
func (u *Updater) Install(ctx context.Context, targetPath string) (string, error) {
	release, err := u.fetchLatestRelease(ctx)
	if err != nil {
		return "", err
	}

	assetURL, checksum, err := u.findAssetAndChecksum(ctx, release)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInstall, err)
	}

	tempPath := targetPath + ".download"
	defer os.Remove(tempPath) //nolint:errcheck

	src := assetURL + "?checksum=sha256:" + checksum
	if strings.Contains(assetURL, "?") {
		src = assetURL + "&checksum=sha256:" + checksum
	}

	ctxlog.Info(ctx, "downloading flasher update",
		"version", release.TagName,
		"asset", u.assetName,
	)

	req := &getter.Request{
		Src:     src,
		Dst:     tempPath,
		GetMode: getter.ModeFile,
	}

	if _, err := getter.DefaultClient.Get(ctx, req); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInstall, err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(targetPath, 0o755); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInstall, err)
		}
	}

	return release.TagName, nil
}

func (u *Updater) fetchLatestRelease(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.releasesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchRelease, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchRelease, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrFetchRelease, resp.Status)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchRelease, err)
	}

	return &release, nil
}

// findAssetAndChecksum locates the platform asset and its published
// checksum from the release's checksums.txt.
func (u *Updater) findAssetAndChecksum(ctx context.Context, release *Release) (string, string, error) {
	var assetURL, checksumURL string

	for _, a := range release.Assets {
		switch a.Name {
		case u.assetName:
			assetURL = a.BrowserDownloadURL
		case checksumAssetName:
			checksumURL = a.BrowserDownloadURL
		}
	}

	if assetURL == "" {
		return "", "", fmt.Errorf("%w: %s", ErrAssetNotFound, u.assetName)
	}

	if checksumURL == "" {
		return "", "", fmt.Errorf("%w: %s", ErrAssetNotFound, checksumAssetName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checksumURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrFetchRelease, err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrFetchRelease, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: unexpected status %s for %s", ErrFetchRelease, resp.Status, checksumAssetName)
	}

	const maxChecksumFile = 1 << 20

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxChecksumFile))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrFetchRelease, err)
	}

	checksum, ok := ParseChecksum(string(body), u.assetName)
	if !ok {
		return "", "", fmt.Errorf("%w: no checksum for %s", ErrAssetNotFound, u.assetName)
	}

	return assetURL, checksum, nil
}

// ComputeChecksum returns the lowercase hex sha256 of a file.
func ComputeChecksum(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read file for checksum: %w", err)
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:]), nil
}

func selectAssetName() (string, error) {
	switch {
	case runtime.GOOS == "linux" && runtime.GOARCH == "amd64":
		return "antumbra-linux-x86_64", nil
	case runtime.GOOS == "windows" && runtime.GOARCH == "amd64":
		return "antumbra.exe", nil
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, runtime.GOOS, runtime.GOARCH)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
